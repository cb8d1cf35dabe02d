package state

// Subscribable emits change notifications.
type Subscribable interface {
	Subscribe(fn func()) func()
}

// Readable exposes read-only reactive state.
type Readable[T any] interface {
	Get() T
	Subscribe(fn func()) func()
	SubscribeWithScheduler(scheduler Scheduler, fn func()) func()
}

// Writable exposes read/write reactive state.
type Writable[T any] interface {
	Readable[T]
	Set(value T) bool
	Update(fn func(T) T) bool
}

// SubscribeFunc is the subscribe half of an external store: it registers
// onChange and returns the matching unsubscribe.
type SubscribeFunc func(onChange func()) (unsubscribe func())

// Subscribe lets a SubscribeFunc act as a Subscribable dependency.
func (f SubscribeFunc) Subscribe(fn func()) func() {
	if f == nil || fn == nil {
		return func() {}
	}
	unsub := f(fn)
	if unsub == nil {
		return func() {}
	}
	return unsub
}

var (
	_ Writable[int] = (*Signal[int])(nil)
	_ Readable[int] = (*Computed[int])(nil)
	_ Readable[int] = (*External[int])(nil)
	_ Subscribable  = SubscribeFunc(nil)
)
