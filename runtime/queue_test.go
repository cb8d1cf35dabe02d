package runtime

import (
	"testing"
	"time"

	"github.com/odvcencio/furry-counter/state"
)

func TestWithQueuePolicy_FlushOnTick(t *testing.T) {
	queue := state.NewQueue()
	calls := 0
	queue.Schedule(func() {
		calls++
	})

	update := WithQueuePolicy(queue, FlushOnTick, func(app *App, msg Message) bool { return false })
	if dirty := update(nil, TickMsg{Time: time.Now()}); !dirty {
		t.Fatalf("expected dirty after tick flush")
	}
	if calls != 1 {
		t.Fatalf("expected 1 callback after tick flush, got %d", calls)
	}
}

func TestWithQueuePolicy_FlushOnFlushMessage(t *testing.T) {
	queue := state.NewQueue()
	calls := 0
	queue.Schedule(func() {
		calls++
	})

	update := WithQueuePolicy(queue, FlushManual, func(app *App, msg Message) bool { return false })
	if dirty := update(nil, QueueFlushMsg{}); !dirty {
		t.Fatalf("expected dirty after queue flush message")
	}
	if calls != 1 {
		t.Fatalf("expected 1 callback after queue flush message, got %d", calls)
	}
}

func TestWithQueuePolicy_NoFlushOnOtherMessages(t *testing.T) {
	queue := state.NewQueue()
	calls := 0
	queue.Schedule(func() {
		calls++
	})

	update := WithQueuePolicy(queue, FlushOnTick, func(app *App, msg Message) bool { return true })
	if dirty := update(nil, ResizeMsg{Width: 10, Height: 5}); !dirty {
		t.Fatalf("expected dirty from update")
	}
	if calls != 0 {
		t.Fatalf("expected no queue flush, got %d callbacks", calls)
	}
}

func TestShouldFlushQueue(t *testing.T) {
	cases := []struct {
		policy QueueFlushPolicy
		msg    Message
		want   bool
	}{
		{FlushManual, KeyMsg{Rune: 'x'}, false},
		{FlushManual, QueueFlushMsg{}, true},
		{FlushOnTick, TickMsg{}, true},
		{FlushOnTick, KeyMsg{Rune: 'x'}, false},
		{FlushOnMessage, TickMsg{}, false},
		{FlushOnMessage, MouseMsg{}, true},
		{FlushOnMessageAndTick, TickMsg{}, true},
		{FlushOnMessageAndTick, InvalidateMsg{}, true},
	}

	for i, tc := range cases {
		if got := shouldFlushQueue(tc.policy, tc.msg); got != tc.want {
			t.Fatalf("case %d policy=%d msg=%T got %v want %v", i, tc.policy, tc.msg, got, tc.want)
		}
	}
}
