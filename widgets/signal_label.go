package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-counter/backend"
	"github.com/odvcencio/furry-counter/runtime"
	"github.com/odvcencio/furry-counter/state"
)

// SignalLabel is a one-line label that follows a Readable[string] while mounted.
// Updates arrive through the scheduler given at construction, or the app
// scheduler once bound.
type SignalLabel struct {
	Component
	source    state.Readable[string]
	text      string
	style     backend.Style
	alignment Alignment
	mounted   bool
}

// NewSignalLabel creates a label over source.
func NewSignalLabel(source state.Readable[string], scheduler state.Scheduler) *SignalLabel {
	label := &SignalLabel{
		source:    source,
		style:     backend.DefaultStyle(),
		alignment: AlignLeft,
	}
	label.Subs.SetScheduler(scheduler)
	if source != nil {
		label.text = source.Get()
	}
	return label
}

// Bind keeps an explicit scheduler over the app one.
func (s *SignalLabel) Bind(services runtime.Services) {
	scheduler := s.Subs.Scheduler()
	s.Component.Bind(services)
	if scheduler != nil {
		s.Subs.SetScheduler(scheduler)
	}
}

// Text returns the current label text.
func (s *SignalLabel) Text() string {
	return s.text
}

// SetStyle sets the label style.
func (s *SignalLabel) SetStyle(style backend.Style) {
	s.style = style
}

// SetAlignment sets text alignment.
func (s *SignalLabel) SetAlignment(align Alignment) {
	s.alignment = align
}

// Measure returns the text width and one row.
func (s *SignalLabel) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{
		Width:  runewidth.StringWidth(s.text),
		Height: 1,
	})
}

// Render draws the label.
func (s *SignalLabel) Render(ctx runtime.RenderContext) {
	bounds := s.bounds
	if ctx.Buffer == nil || bounds.Empty() {
		return
	}
	ctx.Buffer.Fill(runtime.Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: 1}, ' ', s.style)
	text := truncateString(s.text, bounds.Width)
	x := alignedX(bounds, runewidth.StringWidth(text), s.alignment)
	ctx.Buffer.SetString(x, bounds.Y, text, s.style)
	s.ClearInvalidation()
}

// Mount subscribes to source changes.
func (s *SignalLabel) Mount() {
	s.mounted = true
	s.Subs.Clear()
	if s.source == nil {
		s.text = ""
		return
	}
	s.text = s.source.Get()
	s.Observe(s.source, s.onSignal)
}

// Unmount unsubscribes from source changes.
func (s *SignalLabel) Unmount() {
	s.mounted = false
	s.Subs.Clear()
}

func (s *SignalLabel) onSignal() {
	if !s.mounted || s.source == nil {
		return
	}
	text := s.source.Get()
	if text == s.text {
		return
	}
	s.text = text
	s.Invalidate()
}
