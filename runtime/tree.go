package runtime

// Lifecycle is implemented by widgets that need mount/unmount hooks.
// Subscriptions made in Mount must be released in Unmount.
type Lifecycle interface {
	Mount()
	Unmount()
}

// Bindable widgets receive app services when attached to a screen.
type Bindable interface {
	Bind(services Services)
}

// Unbindable widgets release app services when detached.
type Unbindable interface {
	Unbind()
}

// MountTree calls Mount parent-first.
func MountTree(root Widget) {
	walkPre(root, func(w Widget) {
		if m, ok := w.(Lifecycle); ok {
			m.Mount()
		}
	})
}

// UnmountTree calls Unmount children-first.
func UnmountTree(root Widget) {
	walkPost(root, func(w Widget) {
		if m, ok := w.(Lifecycle); ok {
			m.Unmount()
		}
	})
}

// BindTree calls Bind parent-first. A zero Services is ignored.
func BindTree(root Widget, services Services) {
	if services.isZero() {
		return
	}
	walkPre(root, func(w Widget) {
		if b, ok := w.(Bindable); ok {
			b.Bind(services)
		}
	})
}

// UnbindTree calls Unbind children-first.
func UnbindTree(root Widget) {
	walkPost(root, func(w Widget) {
		if u, ok := w.(Unbindable); ok {
			u.Unbind()
		}
	})
}

func walkPre(w Widget, fn func(Widget)) {
	if w == nil {
		return
	}
	fn(w)
	if children, ok := w.(ChildProvider); ok {
		for _, child := range children.ChildWidgets() {
			walkPre(child, fn)
		}
	}
}

func walkPost(w Widget, fn func(Widget)) {
	if w == nil {
		return
	}
	if children, ok := w.(ChildProvider); ok {
		for _, child := range children.ChildWidgets() {
			walkPost(child, fn)
		}
	}
	fn(w)
}
