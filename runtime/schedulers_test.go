package runtime

import (
	"testing"

	"github.com/odvcencio/furry-counter/state"
)

// countingPost records posts of one message type and reports accept.
func countingPost[M Message](accept bool, count *int) PostFunc {
	return func(msg Message) bool {
		if _, ok := msg.(M); ok {
			*count++
		}
		return accept
	}
}

func TestInvalidator_Coalesces(t *testing.T) {
	posted := 0
	invalidator := NewInvalidator(countingPost[InvalidateMsg](true, &posted))

	invalidator.Invalidate()
	invalidator.Invalidate()
	if posted != 1 {
		t.Fatalf("expected 1 invalidate post, got %d", posted)
	}

	invalidator.resetPending()
	invalidator.Invalidate()
	if posted != 2 {
		t.Fatalf("expected 2 invalidate posts after reset, got %d", posted)
	}
}

func TestInvalidator_RetriesWhenPostFails(t *testing.T) {
	attempts := 0
	invalidator := NewInvalidator(countingPost[InvalidateMsg](false, &attempts))

	invalidator.Invalidate()
	invalidator.Invalidate()
	if attempts != 2 {
		t.Fatalf("expected 2 post attempts, got %d", attempts)
	}
}

func TestInvalidator_ScheduleRunsInline(t *testing.T) {
	posted, calls := 0, 0
	invalidator := NewInvalidator(countingPost[InvalidateMsg](true, &posted))

	invalidator.Schedule(func() { calls++ })
	if calls != 1 || posted != 1 {
		t.Fatalf("expected callback and one post, got calls=%d posted=%d", calls, posted)
	}
}

func TestQueueScheduler_CoalescesFlushPosts(t *testing.T) {
	queue := state.NewQueue()
	posted := 0
	scheduler := NewQueueScheduler(queue, countingPost[QueueFlushMsg](true, &posted))

	scheduler.Schedule(func() {})
	scheduler.Schedule(func() {})
	if posted != 1 {
		t.Fatalf("expected 1 flush post, got %d", posted)
	}
	if queue.Len() != 2 {
		t.Fatalf("expected 2 queued callbacks, got %d", queue.Len())
	}

	scheduler.resetPending()
	scheduler.Schedule(func() {})
	if posted != 2 {
		t.Fatalf("expected 2 flush posts after reset, got %d", posted)
	}
}

func TestQueueScheduler_RetriesWhenPostFails(t *testing.T) {
	attempts := 0
	scheduler := NewQueueScheduler(nil, countingPost[QueueFlushMsg](false, &attempts))

	scheduler.Schedule(func() {})
	scheduler.Schedule(func() {})
	if attempts != 2 {
		t.Fatalf("expected 2 post attempts, got %d", attempts)
	}
}
