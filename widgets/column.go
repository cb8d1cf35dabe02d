package widgets

import (
	"github.com/odvcencio/furry-counter/backend"
	"github.com/odvcencio/furry-counter/runtime"
	"github.com/odvcencio/furry-counter/terminal"
)

// Column stacks children vertically and owns keyboard focus among them.
// Tab moves focus forward, Shift+Tab backward; a mouse press focuses the
// child under the pointer.
type Column struct {
	Base
	children []runtime.Widget
	gap      int
	focus    int
}

// NewColumn creates a column of children.
func NewColumn(children ...runtime.Widget) *Column {
	return &Column{children: children, focus: -1}
}

// SetGap sets the blank rows between children.
func (c *Column) SetGap(gap int) {
	c.gap = max(0, gap)
}

// ChildWidgets returns the children.
func (c *Column) ChildWidgets() []runtime.Widget {
	return c.children
}

// Focused returns the focused child, if any.
func (c *Column) Focused() runtime.Widget {
	if c.focus < 0 || c.focus >= len(c.children) {
		return nil
	}
	return c.children[c.focus]
}

// Mount focuses the first focusable child.
func (c *Column) Mount() {
	if c.Focused() == nil {
		c.moveFocus(1)
	}
}

// Unmount is a no-op; children unmount themselves.
func (c *Column) Unmount() {}

// Measure sums child heights.
func (c *Column) Measure(constraints runtime.Constraints) runtime.Size {
	total := runtime.Size{}
	for i, child := range c.children {
		size := child.Measure(runtime.Loose(constraints.MaxWidth, constraints.MaxHeight))
		total.Width = max(total.Width, size.Width)
		total.Height += size.Height
		if i > 0 {
			total.Height += c.gap
		}
	}
	return constraints.Constrain(total)
}

// Layout assigns each child its measured height and the full width.
func (c *Column) Layout(bounds runtime.Rect) {
	c.Base.Layout(bounds)
	y := bounds.Y
	bottom := bounds.Y + bounds.Height
	for i, child := range c.children {
		if i > 0 {
			y += c.gap
		}
		remaining := max(0, bottom-y)
		size := child.Measure(runtime.Loose(bounds.Width, remaining))
		h := min(size.Height, remaining)
		child.Layout(runtime.Rect{X: bounds.X, Y: y, Width: bounds.Width, Height: h})
		y += h
	}
}

// Render clears the column and draws each child.
func (c *Column) Render(ctx runtime.RenderContext) {
	if ctx.Buffer == nil {
		return
	}
	ctx.Buffer.Fill(c.bounds, ' ', backend.DefaultStyle())
	for _, child := range c.children {
		bounds := c.bounds
		if bp, ok := child.(runtime.BoundsProvider); ok {
			bounds = bp.Bounds()
		}
		child.Render(ctx.Sub(bounds))
	}
}

// HandleMessage routes focus keys and mouse presses, then delivers the
// message to the focused child.
func (c *Column) HandleMessage(msg runtime.Message) runtime.HandleResult {
	switch m := msg.(type) {
	case runtime.KeyMsg:
		if m.Key == terminal.KeyTab {
			if m.Shift {
				c.moveFocus(-1)
			} else {
				c.moveFocus(1)
			}
			return runtime.Handled()
		}
		if focused := c.Focused(); focused != nil {
			return focused.HandleMessage(msg)
		}
	case runtime.MouseMsg:
		for i, child := range c.children {
			bp, ok := child.(runtime.BoundsProvider)
			if !ok || !bp.Bounds().Contains(m.X, m.Y) {
				continue
			}
			if m.Action == runtime.MousePress && isFocusable(child) {
				c.setFocus(i)
			}
			return child.HandleMessage(msg)
		}
		return runtime.Unhandled()
	}
	for _, child := range c.children {
		if result := child.HandleMessage(msg); result.Handled {
			return result
		}
	}
	return runtime.Unhandled()
}

func (c *Column) moveFocus(dir int) {
	n := len(c.children)
	if n == 0 {
		return
	}
	start := c.focus
	if start < 0 && dir < 0 {
		start = 0
	}
	for step := 1; step <= n; step++ {
		i := ((start+dir*step)%n + n) % n
		if isFocusable(c.children[i]) {
			c.setFocus(i)
			return
		}
	}
}

func (c *Column) setFocus(i int) {
	if i == c.focus {
		return
	}
	if prev, ok := c.Focused().(runtime.Focusable); ok {
		prev.Blur()
	}
	c.focus = i
	if next, ok := c.Focused().(runtime.Focusable); ok {
		next.Focus()
	}
}

func isFocusable(w runtime.Widget) bool {
	f, ok := w.(runtime.Focusable)
	return ok && f.CanFocus()
}
