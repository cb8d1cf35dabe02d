package state

// External adapts a (subscribe, getSnapshot) pair into a Readable.
// On every notification it re-reads the snapshot and publishes only when
// the result differs from the last published value, so subscribers re-render
// exactly when what they display would change.
type External[T comparable] struct {
	computed *Computed[T]
}

// NewExternal binds an external store synchronously.
func NewExternal[T comparable](subscribe SubscribeFunc, getSnapshot func() T) *External[T] {
	return NewExternalWithScheduler(nil, subscribe, getSnapshot)
}

// NewExternalWithScheduler binds an external store; snapshot reads after a
// notification are dispatched through scheduler.
func NewExternalWithScheduler[T comparable](scheduler Scheduler, subscribe SubscribeFunc, getSnapshot func() T) *External[T] {
	var deps []Subscribable
	if subscribe != nil {
		deps = append(deps, subscribe)
	}
	computed := NewComputedWithScheduler(scheduler, getSnapshot, deps...)
	computed.SetEqualFunc(EqualComparable[T])
	return &External[T]{computed: computed}
}

// Get returns the last published snapshot.
func (e *External[T]) Get() T {
	if e == nil {
		var zero T
		return zero
	}
	return e.computed.Get()
}

// Subscribe registers fn to run when the snapshot changes.
func (e *External[T]) Subscribe(fn func()) func() {
	if e == nil {
		return func() {}
	}
	return e.computed.Subscribe(fn)
}

// SubscribeWithScheduler registers fn using scheduler.
func (e *External[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if e == nil {
		return func() {}
	}
	return e.computed.SubscribeWithScheduler(scheduler, fn)
}

// Stop releases the subscription on the underlying store.
func (e *External[T]) Stop() {
	if e == nil {
		return
	}
	e.computed.Stop()
}
