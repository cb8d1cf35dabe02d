package runtime

// Screen owns the root widget, its render buffer, and message routing.
type Screen struct {
	width, height int
	root          Widget
	buffer        *Buffer
	services      Services
}

// NewScreen creates a new screen with the given dimensions.
func NewScreen(w, h int) *Screen {
	return &Screen{
		width:  w,
		height: h,
		buffer: NewBuffer(w, h),
	}
}

// SetServices configures app services for bindable widgets.
func (s *Screen) SetServices(services Services) {
	s.services = services
}

// Size returns the screen dimensions.
func (s *Screen) Size() (w, h int) {
	return s.width, s.height
}

// Resize changes the screen dimensions and re-lays out the root.
func (s *Screen) Resize(w, h int) {
	s.width = w
	s.height = h
	s.buffer.Resize(w, h)
	if s.root != nil {
		s.root.Layout(Rect{0, 0, w, h})
	}
}

// Buffer returns the screen's render buffer.
func (s *Screen) Buffer() *Buffer {
	return s.buffer
}

// SetRoot swaps the root widget. The old tree is unmounted and unbound
// before the new one is bound, laid out, and mounted.
func (s *Screen) SetRoot(root Widget) {
	if old := s.root; old != nil {
		UnmountTree(old)
		UnbindTree(old)
	}
	s.root = root
	s.buffer.Clear()
	if root == nil {
		return
	}
	BindTree(root, s.services)
	root.Layout(Rect{0, 0, s.width, s.height})
	MountTree(root)
}

// Root returns the root widget.
func (s *Screen) Root() Widget {
	return s.root
}

// Render draws the root into the buffer.
func (s *Screen) Render() {
	if s.root == nil {
		return
	}
	s.root.Render(RenderContext{
		Buffer: s.buffer,
		Bounds: Rect{0, 0, s.width, s.height},
	})
}

// HandleMessage routes msg to the root widget.
func (s *Screen) HandleMessage(msg Message) HandleResult {
	if s.root == nil {
		return Unhandled()
	}
	return s.root.HandleMessage(msg)
}
