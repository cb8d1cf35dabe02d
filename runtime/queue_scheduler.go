package runtime

import (
	"sync/atomic"

	"github.com/odvcencio/furry-counter/state"
)

// QueueScheduler enqueues callbacks and wakes the app loop to flush them,
// so widget state changes triggered from any goroutine are applied on the
// loop goroutine.
type QueueScheduler struct {
	queue   *state.Queue
	post    PostFunc
	pending atomic.Bool
}

// NewQueueScheduler wires a queue to a post function.
func NewQueueScheduler(queue *state.Queue, post PostFunc) *QueueScheduler {
	if queue == nil {
		queue = state.NewQueue()
	}
	return &QueueScheduler{queue: queue, post: post}
}

// Schedule enqueues fn and posts at most one pending QueueFlushMsg.
func (s *QueueScheduler) Schedule(fn func()) {
	if s == nil || fn == nil {
		return
	}
	s.queue.Schedule(fn)
	if s.post == nil || !s.pending.CompareAndSwap(false, true) {
		return
	}
	if !s.post(QueueFlushMsg{}) {
		s.pending.Store(false)
	}
}

func (s *QueueScheduler) resetPending() {
	if s == nil {
		return
	}
	s.pending.Store(false)
}
