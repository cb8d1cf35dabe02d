package widgets

import (
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"github.com/odvcencio/furry-counter/backend"
	"github.com/odvcencio/furry-counter/runtime"
	"github.com/odvcencio/furry-counter/state"
	"github.com/odvcencio/furry-counter/terminal"
)

// DefaultStep is how much one click adds to the store.
const DefaultStep = 2

// CounterButton shows a heading and a "Click me N" button bound to a
// CounterStore. N is the store value passed through the selector; the
// widget commits a new N only when that selected value changes.
//
// The store binding lives exactly as long as the widget is mounted.
type CounterButton struct {
	Component
	heading  *Markdown
	store    *state.CounterStore
	selector state.Selector
	step     int

	source  *state.External[int]
	shown   int
	renders int
	mounted bool

	logChanges bool
	logger     logrus.FieldLogger

	button     runtime.Rect
	style      backend.Style
	focusStyle backend.Style
}

// NewCounterButton creates a button over store. A nil selector shows the raw value.
func NewCounterButton(heading string, store *state.CounterStore, selector state.Selector) *CounterButton {
	return &CounterButton{
		heading:    NewMarkdown(heading),
		store:      store,
		selector:   selector,
		step:       DefaultStep,
		shown:      store.Snapshot(selector),
		renders:    1,
		style:      backend.DefaultStyle().Bold(true),
		focusStyle: backend.DefaultStyle().Bold(true).Reverse(true),
	}
}

// SetStep sets the delta applied per click.
func (b *CounterButton) SetStep(step int) {
	b.step = step
}

// LogChanges logs every store change while mounted. With a nil logger the
// app logger is used.
func (b *CounterButton) LogChanges(logger logrus.FieldLogger) {
	b.logChanges = true
	b.logger = logger
}

// CanFocus reports true; the button takes keyboard activation.
func (b *CounterButton) CanFocus() bool {
	return true
}

// Value returns the committed (selected) value.
func (b *CounterButton) Value() int {
	return b.shown
}

// Renders counts committed values, starting at 1 for the initial one.
func (b *CounterButton) Renders() int {
	return b.renders
}

// Label returns the button text.
func (b *CounterButton) Label() string {
	return "Click me " + strconv.Itoa(b.shown)
}

// Click adds the step to the store.
func (b *CounterButton) Click() {
	b.store.Add(b.step)
}

// Mount binds to the store.
func (b *CounterButton) Mount() {
	if b.mounted {
		return
	}
	b.mounted = true
	b.source = b.store.Select(b.selector)
	b.Subs.Add(b.source.Stop)
	b.Observe(b.source, b.sync)
	b.sync()

	if b.logChanges {
		logger := b.logger
		if logger == nil {
			logger = b.Services.Logger()
		}
		if logger != nil {
			view := b.headingText()
			b.Subs.Add(b.store.AddEventListener(func(evt state.ChangeEvent) {
				logger.WithFields(logrus.Fields{
					"view":  view,
					"event": evt.ID.String(),
					"count": evt.Count,
					"delta": evt.Delta,
				}).Info("count changed")
			}))
		}
	}
}

// Unmount releases the store binding and any change logger.
func (b *CounterButton) Unmount() {
	b.mounted = false
	b.Subs.Clear()
	b.source = nil
}

// Measure returns the heading rows plus a spacer and the button row.
func (b *CounterButton) Measure(constraints runtime.Constraints) runtime.Size {
	width := runewidth.StringWidth(b.buttonText())
	for _, line := range b.heading.Lines() {
		width = max(width, runewidth.StringWidth(line))
	}
	return constraints.Constrain(runtime.Size{
		Width:  width,
		Height: len(b.heading.Lines()) + 2,
	})
}

// Layout places the heading and the button.
func (b *CounterButton) Layout(bounds runtime.Rect) {
	b.Component.Layout(bounds)
	headingH := min(len(b.heading.Lines()), bounds.Height)
	b.heading.Layout(runtime.Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: headingH})
	b.layoutButton()
}

func (b *CounterButton) layoutButton() {
	bounds := b.bounds
	y := bounds.Y + len(b.heading.Lines()) + 1
	if y >= bounds.Y+bounds.Height {
		b.button = runtime.Rect{}
		return
	}
	w := min(runewidth.StringWidth(b.buttonText()), bounds.Width)
	b.button = runtime.Rect{X: bounds.X, Y: y, Width: w, Height: 1}
}

// Render draws the heading and button.
func (b *CounterButton) Render(ctx runtime.RenderContext) {
	if ctx.Buffer == nil || b.bounds.Empty() {
		return
	}
	ctx.Buffer.Fill(b.bounds, ' ', backend.DefaultStyle())
	b.heading.Render(ctx.Sub(b.heading.Bounds()))

	b.layoutButton()
	if b.button.Empty() {
		return
	}
	style := b.style
	if b.IsFocused() {
		style = b.focusStyle
	}
	ctx.Buffer.SetString(b.button.X, b.button.Y, truncateString(b.buttonText(), b.button.Width), style)
	b.ClearInvalidation()
}

// HandleMessage clicks on Enter, Space, or a left press on the button.
func (b *CounterButton) HandleMessage(msg runtime.Message) runtime.HandleResult {
	switch m := msg.(type) {
	case runtime.KeyMsg:
		if m.Key == terminal.KeyEnter || (m.Key == terminal.KeyRune && m.Rune == ' ') {
			b.Click()
			return runtime.Handled()
		}
	case runtime.MouseMsg:
		if m.Button == runtime.MouseLeft && m.Action == runtime.MousePress && b.button.Contains(m.X, m.Y) {
			b.Click()
			return runtime.Handled()
		}
	}
	return runtime.Unhandled()
}

func (b *CounterButton) sync() {
	if !b.mounted || b.source == nil {
		return
	}
	value := b.source.Get()
	if value == b.shown {
		return
	}
	b.shown = value
	b.renders++
	b.Invalidate()
}

func (b *CounterButton) buttonText() string {
	return "[ " + b.Label() + " ]"
}

func (b *CounterButton) headingText() string {
	if lines := b.heading.Lines(); len(lines) > 0 {
		return lines[0]
	}
	return ""
}
