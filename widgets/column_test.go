package widgets

import (
	"testing"

	"github.com/odvcencio/furry-counter/runtime"
	"github.com/odvcencio/furry-counter/state"
	"github.com/odvcencio/furry-counter/terminal"
)

func newTestColumn(store *state.CounterStore) (*Column, *CounterButton, *CounterButton) {
	first := NewCounterButton("# First", store, state.FloorTo(10))
	second := NewCounterButton("# Second", store, nil)
	col := NewColumn(first, NewRule(), second)
	runtime.MountTree(col)
	col.Layout(runtime.Rect{Width: 30, Height: 10})
	return col, first, second
}

func TestColumn_FocusCycle(t *testing.T) {
	store := state.NewCounterStore()
	col, first, second := newTestColumn(store)
	defer runtime.UnmountTree(col)

	if col.Focused() != first || !first.IsFocused() {
		t.Fatalf("expected first button focused after mount")
	}
	col.HandleMessage(runtime.KeyMsg{Key: terminal.KeyTab})
	if col.Focused() != second || first.IsFocused() || !second.IsFocused() {
		t.Fatalf("expected Tab to skip the rule and focus second")
	}
	col.HandleMessage(runtime.KeyMsg{Key: terminal.KeyTab})
	if col.Focused() != first {
		t.Fatalf("expected Tab to wrap to first")
	}
	col.HandleMessage(runtime.KeyMsg{Key: terminal.KeyTab, Shift: true})
	if col.Focused() != second {
		t.Fatalf("expected Shift+Tab to wrap to second")
	}
}

func TestColumn_RoutesKeysToFocused(t *testing.T) {
	store := state.NewCounterStore()
	col, _, second := newTestColumn(store)
	defer runtime.UnmountTree(col)

	col.HandleMessage(runtime.KeyMsg{Key: terminal.KeyTab})
	if !col.HandleMessage(runtime.KeyMsg{Key: terminal.KeyEnter}).Handled {
		t.Fatalf("expected Enter to reach the focused button")
	}
	if second.Value() != 2 {
		t.Fatalf("expected second to show 2, got %d", second.Value())
	}
}

func TestColumn_LayoutAndMouse(t *testing.T) {
	store := state.NewCounterStore()
	col, first, second := newTestColumn(store)
	defer runtime.UnmountTree(col)

	if got := first.Bounds(); got.Y != 0 || got.Height != 3 {
		t.Fatalf("unexpected first bounds %+v", got)
	}
	if got := second.Bounds(); got.Y != 4 || got.Height != 3 {
		t.Fatalf("unexpected second bounds %+v", got)
	}

	press := runtime.MouseMsg{X: 1, Y: 6, Button: runtime.MouseLeft, Action: runtime.MousePress}
	if !col.HandleMessage(press).Handled {
		t.Fatalf("expected press on second button to be handled")
	}
	if col.Focused() != second {
		t.Fatalf("expected press to focus second")
	}
	if store.Snapshot(nil) != 2 {
		t.Fatalf("expected click to add, got %d", store.Snapshot(nil))
	}
}
