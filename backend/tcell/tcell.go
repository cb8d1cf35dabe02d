// Package tcell implements backend.Backend on top of gdamore/tcell.
package tcell

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-counter/backend"
	"github.com/odvcencio/furry-counter/terminal"
)

// Backend drives a real terminal.
type Backend struct {
	screen  tcell.Screen
	pasting bool
	paste   strings.Builder
}

// New allocates a tcell screen. Init must be called before drawing.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("new screen: %w", err)
	}
	return &Backend{screen: screen}, nil
}

// NewWithScreen wraps an existing screen, e.g. tcell.NewSimulationScreen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

// Init initializes the terminal and enables mouse and paste reporting.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	b.screen.EnableMouse()
	b.screen.EnablePaste()
	b.screen.Clear()
	return nil
}

// Fini restores the terminal.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Size returns the terminal size in cells.
func (b *Backend) Size() (int, int) {
	return b.screen.Size()
}

// SetContent writes one cell.
func (b *Backend) SetContent(x, y int, mainc rune, combc []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, combc, convertStyle(style))
}

// SetRow writes a run of cells, skipping the trailing columns of wide runes.
func (b *Backend) SetRow(y int, startX int, cells []backend.Cell) {
	x := startX
	for i := 0; i < len(cells); i++ {
		cell := cells[i]
		r := cell.Rune
		if r == 0 {
			r = ' '
		}
		b.screen.SetContent(x, y, r, nil, convertStyle(cell.Style))
		if w := runewidth.RuneWidth(r); w > 1 {
			i += w - 1
			x += w
			continue
		}
		x++
	}
}

// Show flushes pending changes to the terminal.
func (b *Backend) Show() {
	b.screen.Show()
}

// Sync forces a full repaint.
func (b *Backend) Sync() {
	b.screen.Sync()
}

// HideCursor hides the text cursor.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// PollEvent translates the next tcell event. Unknown events are skipped.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if out := b.translate(ev); out != nil {
			return out
		}
	}
}

func (b *Backend) translate(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	case *tcell.EventPaste:
		if e.Start() {
			b.pasting = true
			b.paste.Reset()
			return nil
		}
		b.pasting = false
		return terminal.PasteEvent{Text: b.paste.String()}
	case *tcell.EventKey:
		if b.pasting {
			if e.Key() == tcell.KeyRune {
				b.paste.WriteRune(e.Rune())
			} else if e.Key() == tcell.KeyEnter {
				b.paste.WriteByte('\n')
			}
			return nil
		}
		mods := e.Modifiers()
		if e.Key() == tcell.KeyBacktab {
			return terminal.KeyEvent{Key: terminal.KeyTab, Shift: true}
		}
		return terminal.KeyEvent{
			Key:   convertKey(e.Key()),
			Rune:  e.Rune(),
			Alt:   mods&tcell.ModAlt != 0,
			Ctrl:  mods&tcell.ModCtrl != 0,
			Shift: mods&tcell.ModShift != 0,
		}
	case *tcell.EventMouse:
		x, y := e.Position()
		mods := e.Modifiers()
		button, action := convertButtons(e.Buttons())
		return terminal.MouseEvent{
			X:      x,
			Y:      y,
			Button: button,
			Action: action,
			Alt:    mods&tcell.ModAlt != 0,
			Ctrl:   mods&tcell.ModCtrl != 0,
			Shift:  mods&tcell.ModShift != 0,
		}
	}
	return nil
}

func convertKey(k tcell.Key) terminal.Key {
	switch k {
	case tcell.KeyRune:
		return terminal.KeyRune
	case tcell.KeyEnter:
		return terminal.KeyEnter
	case tcell.KeyEscape:
		return terminal.KeyEscape
	case tcell.KeyTab:
		return terminal.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return terminal.KeyBackspace
	case tcell.KeyUp:
		return terminal.KeyUp
	case tcell.KeyDown:
		return terminal.KeyDown
	case tcell.KeyLeft:
		return terminal.KeyLeft
	case tcell.KeyRight:
		return terminal.KeyRight
	case tcell.KeyCtrlC:
		return terminal.KeyCtrlC
	default:
		return terminal.KeyNone
	}
}

// tcell reports button state rather than transitions; an empty mask after a
// press is a release.
func convertButtons(mask tcell.ButtonMask) (terminal.MouseButton, terminal.MouseAction) {
	switch {
	case mask&tcell.Button1 != 0:
		return terminal.MouseLeft, terminal.MousePress
	case mask&tcell.Button3 != 0:
		return terminal.MouseMiddle, terminal.MousePress
	case mask&tcell.Button2 != 0:
		return terminal.MouseRight, terminal.MousePress
	case mask&tcell.WheelUp != 0:
		return terminal.MouseWheelUp, terminal.MousePress
	case mask&tcell.WheelDown != 0:
		return terminal.MouseWheelDown, terminal.MousePress
	default:
		return terminal.MouseNone, terminal.MouseRelease
	}
}

func convertStyle(style backend.Style) tcell.Style {
	fg, bg, attrs := style.Decompose()
	out := tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg))
	if attrs&backend.AttrBold != 0 {
		out = out.Bold(true)
	}
	if attrs&backend.AttrDim != 0 {
		out = out.Dim(true)
	}
	if attrs&backend.AttrReverse != 0 {
		out = out.Reverse(true)
	}
	if attrs&backend.AttrItalic != 0 {
		out = out.Italic(true)
	}
	return out
}

func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(int(c))
}
