// Package state provides the reactive primitives behind furry-counter:
// signals, derived values, schedulers, and the counter store itself.
package state

import "sync"

// EqualFunc compares two values for equality.
type EqualFunc[T any] func(a, b T) bool

// EqualComparable compares comparable values with ==.
func EqualComparable[T comparable](a, b T) bool {
	return a == b
}

// Signal holds a value and notifies subscribers on change.
// Subscribers run in subscription order.
type Signal[T any] struct {
	mu    sync.Mutex
	value T
	equal EqualFunc[T]
	subs  registry[func()]
}

// NewSignal creates a new signal with an initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// SetEqualFunc configures the equality check used to suppress redundant updates.
// Without one, every Set notifies.
func (s *Signal[T]) SetEqualFunc(fn EqualFunc[T]) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.equal = fn
	s.mu.Unlock()
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	if s == nil {
		var zero T
		return zero
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set updates the value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, value) {
		s.mu.Unlock()
		return false
	}
	s.value = value
	s.mu.Unlock()

	notify(s.subs.snapshot())
	return true
}

// Update replaces the value using fn.
// fn runs outside the signal lock; Update is not atomic across goroutines.
func (s *Signal[T]) Update(fn func(T) T) bool {
	if s == nil || fn == nil {
		return false
	}
	return s.Set(fn(s.Get()))
}

// Subscribe registers a listener for change notifications.
func (s *Signal[T]) Subscribe(fn func()) func() {
	return s.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers a listener using a scheduler.
// If scheduler is nil, callbacks run synchronously.
func (s *Signal[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	return s.subs.add(fn, scheduler)
}

// Subscribers returns the number of live subscriptions.
func (s *Signal[T]) Subscribers() int {
	if s == nil {
		return 0
	}
	return s.subs.len()
}

func notify(regs []*registration[func()]) {
	for _, reg := range regs {
		if !reg.live.Load() {
			continue
		}
		if reg.scheduler == nil {
			reg.fn()
			continue
		}
		fn := reg.fn
		reg.scheduler.Schedule(func() {
			// A queued callback must not fire after its unsubscribe.
			if reg.live.Load() {
				fn()
			}
		})
	}
}
