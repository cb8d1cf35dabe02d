package widgets

import (
	"github.com/odvcencio/furry-counter/backend"
	"github.com/odvcencio/furry-counter/runtime"
)

// Rule is a one-row horizontal separator.
type Rule struct {
	Base
	ch    rune
	style backend.Style
}

// NewRule creates a separator drawn with '─'.
func NewRule() *Rule {
	return &Rule{ch: '─', style: backend.DefaultStyle().Dim(true)}
}

// Measure takes the full width and one row.
func (r *Rule) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{Width: constraints.MaxWidth, Height: 1})
}

// Render fills the row.
func (r *Rule) Render(ctx runtime.RenderContext) {
	if ctx.Buffer == nil || r.bounds.Empty() {
		return
	}
	ctx.Buffer.Fill(runtime.Rect{X: r.bounds.X, Y: r.bounds.Y, Width: r.bounds.Width, Height: 1}, r.ch, r.style)
}
