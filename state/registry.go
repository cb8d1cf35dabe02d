package state

import (
	"sync"
	"sync/atomic"
)

// registration is one listener entry. Registrations are never reused; once
// detached, a registration stays dead even if a dispatch still holds it.
type registration[F any] struct {
	fn        F
	scheduler Scheduler
	live      atomic.Bool
}

// registry keeps listeners in subscription order.
type registry[F any] struct {
	mu   sync.Mutex
	regs []*registration[F]
}

func (r *registry[F]) add(fn F, scheduler Scheduler) func() {
	reg := &registration[F]{fn: fn, scheduler: scheduler}
	reg.live.Store(true)
	r.mu.Lock()
	r.regs = append(r.regs, reg)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.remove(reg)
		})
	}
}

func (r *registry[F]) remove(reg *registration[F]) {
	reg.live.Store(false)
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.regs {
		if existing == reg {
			r.regs = append(r.regs[:i:i], r.regs[i+1:]...)
			return
		}
	}
}

// snapshot copies the current listeners so dispatch runs without the lock.
// Listeners added during a dispatch are not part of it.
func (r *registry[F]) snapshot() []*registration[F] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.regs) == 0 {
		return nil
	}
	out := make([]*registration[F], len(r.regs))
	copy(out, r.regs)
	return out
}

func (r *registry[F]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.regs)
}

func (r *registry[F]) clear() {
	r.mu.Lock()
	regs := r.regs
	r.regs = nil
	r.mu.Unlock()
	for _, reg := range regs {
		reg.live.Store(false)
	}
}
