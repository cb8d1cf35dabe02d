package state

import "testing"

func TestQueue_Flush(t *testing.T) {
	queue := NewQueue()
	calls := make([]int, 0, 2)

	queue.Schedule(func() {
		calls = append(calls, 1)
	})
	queue.Schedule(func() {
		calls = append(calls, 2)
	})

	if queue.Len() != 2 {
		t.Fatalf("expected 2 pending, got %d", queue.Len())
	}
	if flushed := queue.Flush(); flushed != 2 {
		t.Fatalf("expected 2 callbacks flushed, got %d", flushed)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Fatalf("unexpected callback order: %v", calls)
	}
	if flushed := queue.Flush(); flushed != 0 {
		t.Fatalf("expected empty flush, got %d", flushed)
	}
}

func TestQueue_ScheduleDuringFlush(t *testing.T) {
	queue := NewQueue()
	calls := 0
	queue.Schedule(func() {
		calls++
		queue.Schedule(func() { calls++ })
	})

	if flushed := queue.Flush(); flushed != 1 {
		t.Fatalf("expected 1 callback flushed, got %d", flushed)
	}
	if calls != 1 || queue.Len() != 1 {
		t.Fatalf("expected nested callback deferred, calls=%d pending=%d", calls, queue.Len())
	}
	queue.Flush()
	if calls != 2 {
		t.Fatalf("expected nested callback on second flush, got %d", calls)
	}
}

func TestDirectScheduler(t *testing.T) {
	ran := false
	DirectScheduler.Schedule(func() { ran = true })
	if !ran {
		t.Fatalf("expected direct scheduler to run inline")
	}
	DirectScheduler.Schedule(nil)
}
