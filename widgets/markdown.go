package widgets

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/odvcencio/furry-counter/backend"
	"github.com/odvcencio/furry-counter/runtime"
)

var (
	mdOnce sync.Once
	mdImpl goldmark.Markdown
)

func markdownEngine() goldmark.Markdown {
	mdOnce.Do(func() {
		mdImpl = goldmark.New()
	})
	return mdImpl
}

type styledRun struct {
	text  string
	style backend.Style
}

type styledLine []styledRun

func (l styledLine) String() string {
	var sb strings.Builder
	for _, run := range l {
		sb.WriteString(run.text)
	}
	return sb.String()
}

func (l styledLine) width() int {
	w := 0
	for _, run := range l {
		w += runewidth.StringWidth(run.text)
	}
	return w
}

// Markdown renders a small markdown fragment: headings are bold, strong
// text is bold, emphasis is italic, and code spans are reversed. Block
// elements each take one line; lists and other blocks render as plain text.
type Markdown struct {
	Base
	source    string
	style     backend.Style
	alignment Alignment
	lines     []styledLine
}

// NewMarkdown parses source for display.
func NewMarkdown(source string) *Markdown {
	m := &Markdown{style: backend.DefaultStyle()}
	m.SetSource(source)
	return m
}

// SetSource replaces the displayed markdown.
func (m *Markdown) SetSource(source string) {
	if m.source == source && m.lines != nil {
		return
	}
	m.source = source
	m.lines = parseMarkdown(source, m.style)
	m.needsRender = true
}

// SetStyle sets the base style and re-parses.
func (m *Markdown) SetStyle(style backend.Style) {
	m.style = style
	m.lines = parseMarkdown(m.source, style)
	m.needsRender = true
}

// SetAlignment sets horizontal alignment.
func (m *Markdown) SetAlignment(align Alignment) {
	m.alignment = align
}

// Lines returns the rendered text without styling.
func (m *Markdown) Lines() []string {
	out := make([]string, len(m.lines))
	for i, line := range m.lines {
		out[i] = line.String()
	}
	return out
}

// Measure returns one row per block.
func (m *Markdown) Measure(constraints runtime.Constraints) runtime.Size {
	w := 0
	for _, line := range m.lines {
		w = max(w, line.width())
	}
	return constraints.Constrain(runtime.Size{Width: w, Height: len(m.lines)})
}

// Render draws the lines, clipped to the bounds.
func (m *Markdown) Render(ctx runtime.RenderContext) {
	bounds := m.bounds
	if ctx.Buffer == nil || bounds.Empty() {
		return
	}
	ctx.Buffer.Fill(bounds, ' ', m.style)
	for i, line := range m.lines {
		if i >= bounds.Height {
			break
		}
		x := alignedX(bounds, line.width(), m.alignment)
		room := bounds.X + bounds.Width - x
		for _, run := range line {
			if room <= 0 {
				break
			}
			chunk := run.text
			if runewidth.StringWidth(chunk) > room {
				chunk = runewidth.Truncate(chunk, room, "")
			}
			n := ctx.Buffer.SetString(x, bounds.Y+i, chunk, run.style)
			x += n
			room -= n
		}
	}
	m.needsRender = false
}

func parseMarkdown(source string, base backend.Style) []styledLine {
	src := []byte(source)
	doc := markdownEngine().Parser().Parse(text.NewReader(src))

	var (
		lines  []styledLine
		cur    styledLine
		styles = []backend.Style{base}
	)
	top := func() backend.Style { return styles[len(styles)-1] }
	push := func(s backend.Style) { styles = append(styles, s) }
	pop := func() {
		if len(styles) > 1 {
			styles = styles[:len(styles)-1]
		}
	}
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, cur)
		}
		cur = nil
	}
	emit := func(s string) {
		if s != "" {
			cur = append(cur, styledRun{text: s, style: top()})
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if entering {
				push(top().Bold(true))
			} else {
				pop()
				flush()
			}
		case *ast.Paragraph, *ast.TextBlock:
			if !entering {
				flush()
			}
		case *ast.Emphasis:
			if entering {
				if node.Level >= 2 {
					push(top().Bold(true))
				} else {
					push(top().Italic(true))
				}
			} else {
				pop()
			}
		case *ast.CodeSpan:
			if entering {
				push(top().Reverse(true))
			} else {
				pop()
			}
		case *ast.Text:
			if !entering {
				break
			}
			emit(string(node.Segment.Value(src)))
			if node.HardLineBreak() {
				flush()
			} else if node.SoftLineBreak() {
				emit(" ")
			}
		case *ast.String:
			if entering {
				emit(string(node.Value))
			}
		}
		return ast.WalkContinue, nil
	})
	flush()
	return lines
}
