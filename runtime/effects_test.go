package runtime

import (
	"context"
	"testing"
	"time"
)

func TestEvery_Invalid(t *testing.T) {
	calls := 0
	effect := Every(0, func(time.Time) Message { return ResizeMsg{Width: 1, Height: 1} })
	effect.Run(context.Background(), func(Message) bool {
		calls++
		return true
	})
	if calls != 0 {
		t.Fatalf("expected no posts for invalid interval, got %d", calls)
	}

	effect = Every(10*time.Millisecond, nil)
	effect.Run(context.Background(), func(Message) bool {
		calls++
		return true
	})
	if calls != 0 {
		t.Fatalf("expected no posts for nil callback, got %d", calls)
	}
}

func TestEvery_PostsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	posts := make(chan Message, 16)
	calls := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		Every(time.Millisecond, func(time.Time) Message {
			calls++
			if calls%2 == 0 {
				return nil
			}
			return InvalidateMsg{}
		}).Run(ctx, func(msg Message) bool {
			posts <- msg
			if len(posts) >= 2 {
				cancel()
			}
			return true
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("expected Every to stop after cancel")
	}
	if len(posts) < 2 {
		t.Fatalf("expected at least 2 posts, got %d", len(posts))
	}
	if calls < 3 {
		t.Fatalf("expected nil results to be skipped, got %d calls for %d posts", calls, len(posts))
	}
}
