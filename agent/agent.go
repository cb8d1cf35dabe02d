// Package agent drives an App headlessly over the simulation backend. It
// runs the loop in the background, injects keys and clicks, and waits on
// screen text rather than on fixed delays.
package agent

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/odvcencio/furry-counter/backend/sim"
	"github.com/odvcencio/furry-counter/runtime"
	"github.com/odvcencio/furry-counter/terminal"
)

// Common errors returned by Agent methods.
var (
	ErrNoApp          = errors.New("no app configured")
	ErrAlreadyStarted = errors.New("agent already started")
	ErrNotRunning     = errors.New("app is not running")
	ErrTextNotFound   = errors.New("text not found on screen")
	ErrTimeout        = errors.New("operation timed out")
)

// pollInterval is how often waits re-check the screen.
const pollInterval = 2 * time.Millisecond

// Config configures an Agent.
type Config struct {
	// App must be built over Sim.
	App *runtime.App
	Sim *sim.Backend

	// Timeout bounds each wait. Default is 2s.
	Timeout time.Duration
}

// Agent controls an App through its simulation backend.
type Agent struct {
	app     *runtime.App
	sim     *sim.Backend
	timeout time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// New creates an Agent. The app is not started.
func New(cfg Config) *Agent {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Agent{
		app:     cfg.App,
		sim:     cfg.Sim,
		timeout: timeout,
	}
}

// Backend returns the simulation backend.
func (a *Agent) Backend() *sim.Backend {
	if a == nil {
		return nil
	}
	return a.sim
}

// Start runs the app in the background and waits for its first frame.
func (a *Agent) Start(ctx context.Context) error {
	if a == nil || a.app == nil || a.sim == nil {
		return ErrNoApp
	}
	a.mu.Lock()
	if a.done != nil {
		a.mu.Unlock()
		return ErrAlreadyStarted
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done
	a.mu.Unlock()

	go func() {
		err := a.app.Run(runCtx)
		a.mu.Lock()
		a.err = err
		a.mu.Unlock()
		close(done)
	}()

	return a.WaitFor("first frame", func() bool {
		return a.sim.Shows() > 0
	})
}

// Stop quits the app and waits for Run to return. A cancellation caused by
// Stop itself is not reported.
func (a *Agent) Stop() error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.mu.Unlock()
	if done == nil {
		return ErrNotRunning
	}
	cancel()
	select {
	case <-done:
	case <-time.After(a.timeout):
		return fmt.Errorf("stop: %w", ErrTimeout)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if errors.Is(a.err, context.Canceled) {
		return nil
	}
	return a.err
}

// Running reports whether the app loop is still active.
func (a *Agent) Running() bool {
	if a == nil {
		return false
	}
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Press injects a key.
func (a *Agent) Press(key terminal.Key) {
	a.sim.Inject(terminal.KeyEvent{Key: key})
}

// Type injects each rune of text as a key press.
func (a *Agent) Type(text string) {
	for _, r := range text {
		a.sim.InjectKey(r)
	}
}

// ClickText clicks the first cell of text.
func (a *Agent) ClickText(text string) error {
	x, y := a.sim.FindText(text)
	if x < 0 {
		return fmt.Errorf("%w: %q", ErrTextNotFound, text)
	}
	a.sim.InjectClick(x, y)
	return nil
}

// WaitForText waits until text appears on screen.
func (a *Agent) WaitForText(text string) error {
	return a.WaitFor(fmt.Sprintf("text %q", text), func() bool {
		return a.sim.Contains(text)
	})
}

// WaitFor polls cond until it holds, the app stops, or the timeout passes.
func (a *Agent) WaitFor(what string, cond func() bool) error {
	deadline := time.Now().Add(a.timeout)
	for {
		if cond() {
			return nil
		}
		if !a.Running() {
			return fmt.Errorf("wait for %s: %w", what, ErrNotRunning)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("wait for %s: %w", what, ErrTimeout)
		}
		time.Sleep(pollInterval)
	}
}

// ContainsText reports whether text is on screen.
func (a *Agent) ContainsText(text string) bool {
	if a == nil || a.sim == nil {
		return false
	}
	return a.sim.Contains(text)
}

// CaptureText returns the screen text.
func (a *Agent) CaptureText() string {
	if a == nil || a.sim == nil {
		return ""
	}
	return a.sim.Capture()
}

// Snapshot returns the screen state. The widget tree is only walked once the
// loop has stopped, since the loop owns the widgets while it runs.
func (a *Agent) Snapshot() Snapshot {
	if a == nil || a.sim == nil {
		return Snapshot{}
	}
	snap := Snapshot{Timestamp: time.Now(), Text: a.sim.Capture()}
	snap.Width, snap.Height = a.sim.Size()
	if a.app == nil {
		return snap
	}
	snap.Frames = a.app.Frames()
	if a.Running() {
		return snap
	}
	if root := a.app.Root(); root != nil {
		walkWidgets(root, &snap.Widgets)
	}
	snap.Focused = findFocused(snap.Widgets)
	return snap
}

// FindByLabel finds the first widget whose label contains label, ignoring case.
func (s Snapshot) FindByLabel(label string) *WidgetInfo {
	return findIn(s.Widgets, func(w *WidgetInfo) bool {
		return strings.Contains(strings.ToLower(w.Label), strings.ToLower(label))
	})
}

func walkWidgets(w runtime.Widget, out *[]WidgetInfo) {
	if w == nil {
		return
	}
	info := widgetInfo(w)
	if cp, ok := w.(runtime.ChildProvider); ok {
		for _, child := range cp.ChildWidgets() {
			walkWidgets(child, &info.Children)
		}
	}
	*out = append(*out, info)
}

func widgetInfo(w runtime.Widget) WidgetInfo {
	info := WidgetInfo{
		ID:   fmt.Sprintf("%p", w),
		Kind: kindOf(w),
	}
	if bp, ok := w.(runtime.BoundsProvider); ok {
		info.Bounds = bp.Bounds()
	}
	if l, ok := w.(Labeled); ok {
		info.Label = l.Label()
	}
	if f, ok := w.(runtime.Focusable); ok {
		info.Focusable = f.CanFocus()
		info.Focused = f.IsFocused()
	}
	return info
}

func kindOf(w runtime.Widget) string {
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func findFocused(widgets []WidgetInfo) *WidgetInfo {
	return findIn(widgets, func(w *WidgetInfo) bool { return w.Focused })
}

func findIn(widgets []WidgetInfo, match func(*WidgetInfo) bool) *WidgetInfo {
	for i := range widgets {
		w := &widgets[i]
		if match(w) {
			return w
		}
		if found := findIn(w.Children, match); found != nil {
			return found
		}
	}
	return nil
}
