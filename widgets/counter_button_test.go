package widgets

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/odvcencio/furry-counter/runtime"
	"github.com/odvcencio/furry-counter/state"
	"github.com/odvcencio/furry-counter/terminal"
)

func TestCounterButton_SelectorSuppressesRenders(t *testing.T) {
	store := state.NewCounterStore()
	selected := NewCounterButton("# With selector", store, state.FloorTo(10))
	plain := NewCounterButton("# Without selector", store, nil)
	selected.Mount()
	plain.Mount()
	defer selected.Unmount()
	defer plain.Unmount()

	for i := 0; i < 4; i++ {
		selected.Click()
	}
	if got := store.Snapshot(nil); got != 8 {
		t.Fatalf("expected store 8, got %d", got)
	}
	if selected.Renders() != 1 || selected.Value() != 0 {
		t.Fatalf("expected selected view unchanged, got renders=%d value=%d", selected.Renders(), selected.Value())
	}
	if plain.Renders() != 5 || plain.Value() != 8 {
		t.Fatalf("expected plain view to follow every click, got renders=%d value=%d", plain.Renders(), plain.Value())
	}

	selected.Click()
	if selected.Renders() != 2 || selected.Value() != 10 {
		t.Fatalf("expected bucket crossing to render once, got renders=%d value=%d", selected.Renders(), selected.Value())
	}
	if selected.Label() != "Click me 10" {
		t.Fatalf("unexpected label %q", selected.Label())
	}
}

func TestCounterButton_UnmountReleasesStore(t *testing.T) {
	store := state.NewCounterStore()
	before := store.Len()
	button := NewCounterButton("# Counter", store, nil)
	button.LogChanges(logrus.New())

	button.Mount()
	if store.Len() != before+2 {
		t.Fatalf("expected binding and change log registered, got %d", store.Len())
	}
	button.Unmount()
	if store.Len() != before {
		t.Fatalf("expected %d registrations after unmount, got %d", before, store.Len())
	}

	store.Add(4)
	if button.Renders() != 1 || button.Value() != 0 {
		t.Fatalf("expected unmounted button to ignore store, got renders=%d value=%d", button.Renders(), button.Value())
	}

	button.Mount()
	defer button.Unmount()
	if button.Value() != 4 || button.Renders() != 2 {
		t.Fatalf("expected remount to catch up, got renders=%d value=%d", button.Renders(), button.Value())
	}
}

func TestCounterButton_Activation(t *testing.T) {
	store := state.NewCounterStore()
	button := NewCounterButton("# Counter", store, nil)
	button.SetStep(3)
	button.Mount()
	defer button.Unmount()
	button.Layout(runtime.Rect{Width: 30, Height: 3})

	if !button.HandleMessage(runtime.KeyMsg{Key: terminal.KeyEnter}).Handled {
		t.Fatalf("expected Enter to activate")
	}
	if !button.HandleMessage(runtime.KeyMsg{Key: terminal.KeyRune, Rune: ' '}).Handled {
		t.Fatalf("expected Space to activate")
	}
	if button.HandleMessage(runtime.KeyMsg{Key: terminal.KeyRune, Rune: 'x'}).Handled {
		t.Fatalf("expected other keys to pass through")
	}
	if got := store.Snapshot(nil); got != 6 {
		t.Fatalf("expected store 6, got %d", got)
	}

	click := runtime.MouseMsg{X: 2, Y: 2, Button: runtime.MouseLeft, Action: runtime.MousePress}
	if !button.HandleMessage(click).Handled {
		t.Fatalf("expected click on the button row to activate")
	}
	miss := runtime.MouseMsg{X: 2, Y: 0, Button: runtime.MouseLeft, Action: runtime.MousePress}
	if button.HandleMessage(miss).Handled {
		t.Fatalf("expected click on the heading to pass through")
	}
	if got := store.Snapshot(nil); got != 9 {
		t.Fatalf("expected store 9, got %d", got)
	}
}

func TestCounterButton_Render(t *testing.T) {
	store := state.NewCounterStoreAt(12)
	button := NewCounterButton("# With selector", store, state.FloorTo(10))
	button.Mount()
	defer button.Unmount()

	size := button.Measure(runtime.Loose(40, 10))
	if size.Height != 3 {
		t.Fatalf("expected height 3, got %d", size.Height)
	}
	buf := runtime.NewBuffer(30, 3)
	button.Layout(runtime.Rect{Width: 30, Height: 3})
	button.Render(runtime.RenderContext{Buffer: buf, Bounds: button.Bounds()})

	lines := buf.Text()
	if got := strings.TrimRight(lines[0], " "); got != "With selector" {
		t.Fatalf("expected heading, got %q", got)
	}
	if got := strings.TrimRight(lines[2], " "); got != "[ Click me 10 ]" {
		t.Fatalf("expected button, got %q", got)
	}
	if _, _, attrs := buf.Get(0, 0).Style.Decompose(); attrs == 0 {
		t.Fatalf("expected styled heading")
	}
}

func TestCounterButton_LogsChanges(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	store := state.NewCounterStore()
	button := NewCounterButton("# Logged", store, nil)
	button.LogChanges(logger)
	button.Mount()
	defer button.Unmount()

	button.Click()
	button.Click()

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	last := hook.LastEntry()
	if last.Message != "count changed" {
		t.Fatalf("unexpected message %q", last.Message)
	}
	if last.Data["count"] != 4 || last.Data["delta"] != 2 || last.Data["view"] != "Logged" {
		t.Fatalf("unexpected fields %v", last.Data)
	}
	if entries[0].Data["event"] == last.Data["event"] {
		t.Fatalf("expected distinct event ids")
	}
}
