package state

import "testing"

func TestExternal_SelectorCrossesBucketOnce(t *testing.T) {
	store := NewCounterStore()
	selected := store.Select(FloorTo(10))
	defer selected.Stop()

	changes := 0
	var published []int
	selected.Subscribe(func() {
		changes++
		published = append(published, selected.Get())
	})

	for i := 0; i < 4; i++ {
		store.Add(2)
	}
	if changes != 0 || selected.Get() != 0 {
		t.Fatalf("expected no change at value 8, got %d changes, selected %d", changes, selected.Get())
	}

	store.Add(2)
	if changes != 1 || published[0] != 10 {
		t.Fatalf("expected one change to 10, got %v", published)
	}
	if store.Snapshot(nil) != 10 {
		t.Fatalf("expected store value 10, got %d", store.Snapshot(nil))
	}
}

func TestExternal_IdentityPublishesEveryAdd(t *testing.T) {
	store := NewCounterStore()
	raw := store.Select(nil)
	defer raw.Stop()

	changes := 0
	raw.Subscribe(func() { changes++ })
	for i := 0; i < 5; i++ {
		store.Add(2)
	}
	if changes != 5 || raw.Get() != 10 {
		t.Fatalf("expected 5 changes ending at 10, got %d ending at %d", changes, raw.Get())
	}
}

func TestExternal_ZeroDeltaDoesNotPublish(t *testing.T) {
	store := NewCounterStore()
	raw := store.Select(nil)
	defer raw.Stop()

	changes := 0
	raw.Subscribe(func() { changes++ })
	store.Add(0)
	if changes != 0 {
		t.Fatalf("expected unchanged snapshot to be suppressed, got %d", changes)
	}
}

func TestExternal_StopDetachesFromStore(t *testing.T) {
	store := NewCounterStore()
	selected := store.Select(FloorTo(10))
	if store.Len() != 1 {
		t.Fatalf("expected binding to subscribe once, got %d", store.Len())
	}
	selected.Stop()
	selected.Stop()
	if store.Len() != 0 {
		t.Fatalf("expected stop to unsubscribe, got %d", store.Len())
	}
	store.Add(20)
	if selected.Get() != 0 {
		t.Fatalf("expected stopped binding to keep last value, got %d", selected.Get())
	}
}

func TestExternal_Scheduler(t *testing.T) {
	store := NewCounterStore()
	queue := NewQueue()
	raw := store.SelectWithScheduler(queue, nil)
	defer raw.Stop()

	store.Add(3)
	if raw.Get() != 0 {
		t.Fatalf("expected value to wait for flush, got %d", raw.Get())
	}
	queue.Flush()
	if raw.Get() != 3 {
		t.Fatalf("expected 3 after flush, got %d", raw.Get())
	}
}

func TestExternal_CustomSource(t *testing.T) {
	sig := NewSignal("a")
	ext := NewExternal(SubscribeFunc(sig.Subscribe), sig.Get)
	defer ext.Stop()

	sig.Set("b")
	if ext.Get() != "b" {
		t.Fatalf("expected b, got %q", ext.Get())
	}

	nilSource := NewExternal[int](nil, nil)
	if nilSource.Get() != 0 {
		t.Fatalf("expected zero value without snapshot")
	}
}
