package runtime

import "sync/atomic"

// Invalidator posts InvalidateMsg, coalescing requests until the loop
// consumes the pending one.
type Invalidator struct {
	post    PostFunc
	pending atomic.Bool
}

// NewInvalidator creates an invalidator wired to a post function.
func NewInvalidator(post PostFunc) *Invalidator {
	return &Invalidator{post: post}
}

// Invalidate requests a render pass.
func (i *Invalidator) Invalidate() {
	if i == nil || i.post == nil {
		return
	}
	if !i.pending.CompareAndSwap(false, true) {
		return
	}
	if !i.post(InvalidateMsg{}) {
		i.pending.Store(false)
	}
}

// Schedule runs fn inline and then requests a render pass, so it can serve
// as a state.Scheduler for subscriptions that only need a repaint.
func (i *Invalidator) Schedule(fn func()) {
	if fn == nil {
		return
	}
	fn()
	i.Invalidate()
}

func (i *Invalidator) resetPending() {
	if i == nil {
		return
	}
	i.pending.Store(false)
}
