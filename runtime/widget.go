package runtime

// Widget is the unit of layout, rendering, and input handling.
type Widget interface {
	Measure(constraints Constraints) Size
	Layout(bounds Rect)
	Render(ctx RenderContext)
	HandleMessage(msg Message) HandleResult
}

// ChildProvider is implemented by containers.
type ChildProvider interface {
	ChildWidgets() []Widget
}

// BoundsProvider exposes the bounds assigned during Layout.
type BoundsProvider interface {
	Bounds() Rect
}

// Focusable widgets can receive keyboard input.
type Focusable interface {
	CanFocus() bool
	Focus()
	Blur()
	IsFocused() bool
}

// HandleResult reports whether a message was consumed and which commands
// it produced.
type HandleResult struct {
	Handled  bool
	Commands []Command
}

// Handled marks a message as consumed.
func Handled() HandleResult {
	return HandleResult{Handled: true}
}

// Unhandled lets a message continue to other handlers.
func Unhandled() HandleResult {
	return HandleResult{}
}

// WithCommand consumes a message and emits cmd.
func WithCommand(cmd Command) HandleResult {
	return HandleResult{Handled: true, Commands: []Command{cmd}}
}

// RenderContext provides context to widgets during rendering.
type RenderContext struct {
	Buffer *Buffer
	Bounds Rect
}

// Sub creates a context for a child widget.
func (ctx RenderContext) Sub(bounds Rect) RenderContext {
	return RenderContext{Buffer: ctx.Buffer, Bounds: bounds}
}
