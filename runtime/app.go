// Package runtime runs a widget tree against a terminal backend: it owns
// the message loop, render buffer, and the schedulers that connect
// reactive state to repaints.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/odvcencio/furry-counter/backend"
	"github.com/odvcencio/furry-counter/state"
	"github.com/odvcencio/furry-counter/terminal"
)

// ErrNoBackend is returned by Run when the app has no backend.
var ErrNoBackend = errors.New("backend is required")

// UpdateFunc handles a message and returns true if a render is needed.
type UpdateFunc func(app *App, msg Message) bool

// CommandHandler handles commands the app does not know.
// Return true if the command requires a render.
type CommandHandler func(cmd Command) bool

// KeyHandler sees key messages before widgets. Return true to consume.
type KeyHandler func(app *App, msg KeyMsg) bool

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend        backend.Backend
	Root           Widget
	Update         UpdateFunc
	CommandHandler CommandHandler
	KeyHandler     KeyHandler
	MessageBuffer  int
	TickRate       time.Duration
	StateQueue     *state.Queue
	FlushPolicy    QueueFlushPolicy
	Logger         logrus.FieldLogger
}

// App runs a widget tree against a terminal backend.
type App struct {
	backend        backend.Backend
	screen         *Screen
	root           Widget
	update         UpdateFunc
	commandHandler CommandHandler
	keyHandler     KeyHandler
	messages       chan Message
	tickRate       time.Duration
	queueScheduler *QueueScheduler
	flushPolicy    QueueFlushPolicy
	invalidator    *Invalidator
	logger         logrus.FieldLogger

	taskCtx        context.Context
	taskCancel     context.CancelFunc
	pendingMu      sync.Mutex
	pendingEffects []Effect

	running  atomic.Bool
	dirty    bool
	renderMu sync.Mutex
	frames   atomic.Int64
}

// NewApp creates a new App from config.
func NewApp(cfg AppConfig) *App {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	queue := cfg.StateQueue
	if queue == nil {
		queue = state.NewQueue()
	}
	logger := cfg.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	app := &App{
		backend:        cfg.Backend,
		root:           cfg.Root,
		commandHandler: cfg.CommandHandler,
		keyHandler:     cfg.KeyHandler,
		messages:       make(chan Message, bufferSize),
		tickRate:       cfg.TickRate,
		flushPolicy:    cfg.FlushPolicy,
		logger:         logger,
	}
	app.queueScheduler = NewQueueScheduler(queue, app.tryPost)
	app.invalidator = NewInvalidator(app.tryPost)
	update := cfg.Update
	if update == nil {
		update = DefaultUpdate
	}
	app.update = WithQueuePolicy(queue, app.flushPolicy, app.resetFlushPending(update))
	return app
}

// Screen returns the active screen, if Run has started.
func (a *App) Screen() *Screen {
	return a.screen
}

// Logger returns the app logger.
func (a *App) Logger() logrus.FieldLogger {
	return a.logger
}

// StateScheduler returns a scheduler that wakes the app to flush.
func (a *App) StateScheduler() state.Scheduler {
	if a == nil || a.queueScheduler == nil {
		return nil
	}
	return a.queueScheduler
}

// Invalidate requests a render pass.
func (a *App) Invalidate() {
	if a == nil {
		return
	}
	a.invalidator.Invalidate()
}

// Frames returns how many frames have been rendered.
func (a *App) Frames() int64 {
	return a.frames.Load()
}

// Spawn starts an effect using the app task context.
// If Run has not started, the effect is queued until start.
func (a *App) Spawn(effect Effect) {
	if a == nil || effect.Run == nil {
		return
	}
	a.pendingMu.Lock()
	if a.taskCtx == nil {
		a.pendingEffects = append(a.pendingEffects, effect)
		a.pendingMu.Unlock()
		return
	}
	ctx := a.taskCtx
	a.pendingMu.Unlock()
	go effect.Run(ctx, a.tryPost)
}

// Every schedules a recurring message using the app task context.
func (a *App) Every(interval time.Duration, fn func(time.Time) Message) {
	a.Spawn(Every(interval, fn))
}

// Root returns the root widget. It stays set after Run returns.
func (a *App) Root() Widget {
	return a.root
}

// SetRoot swaps the root widget.
func (a *App) SetRoot(root Widget) {
	a.root = root
	if a.screen != nil {
		a.screen.SetRoot(root)
		a.dirty = true
	}
}

// Post sends a message to the event loop, dropping it if the queue is full.
func (a *App) Post(msg Message) {
	_ = a.tryPost(msg)
}

func (a *App) tryPost(msg Message) bool {
	if a == nil || a.messages == nil || msg == nil {
		return false
	}
	select {
	case a.messages <- msg:
		return true
	default:
		return false
	}
}

// Run starts the event loop until Quit or context cancellation.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return ErrNoBackend
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer a.backend.Fini()

	taskCtx, taskCancel := context.WithCancel(ctx)
	a.pendingMu.Lock()
	a.taskCtx = taskCtx
	a.taskCancel = taskCancel
	a.pendingMu.Unlock()
	defer func() {
		taskCancel()
		a.pendingMu.Lock()
		a.taskCtx = nil
		a.taskCancel = nil
		a.pendingMu.Unlock()
	}()

	a.backend.HideCursor()
	w, h := a.backend.Size()
	a.screen = NewScreen(w, h)
	a.screen.SetServices(a.Services())
	if a.root != nil {
		a.screen.SetRoot(a.root)
	}
	defer a.screen.SetRoot(nil)

	a.running.Store(true)
	a.logger.WithFields(logrus.Fields{"width": w, "height": h}).Debug("app started")

	a.startPendingEffects()
	go a.pollEvents()

	var ticks <-chan time.Time
	if a.tickRate > 0 {
		ticker := time.NewTicker(a.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	a.render()
	for a.running.Load() {
		var msg Message
		select {
		case <-ctx.Done():
			a.Quit()
			continue
		case msg = <-a.messages:
		case now := <-ticks:
			msg = TickMsg{Time: now}
		}

		if a.update(a, msg) {
			a.dirty = true
		}
		if !a.running.Load() {
			break
		}
		if _, ok := msg.(InvalidateMsg); ok {
			a.invalidator.resetPending()
		}
		if a.dirty {
			a.render()
			a.dirty = false
		}
	}

	a.logger.WithField("frames", a.Frames()).Debug("app stopped")
	return ctx.Err()
}

// Quit stops the loop after the current message.
func (a *App) Quit() {
	if a == nil {
		return
	}
	a.running.Store(false)
	a.cancelTasks()
}

// DefaultUpdate handles input messages and widget commands.
func DefaultUpdate(app *App, msg Message) bool {
	if app == nil || app.screen == nil {
		return false
	}

	switch m := msg.(type) {
	case ResizeMsg:
		app.screen.Resize(m.Width, m.Height)
		return true
	case KeyMsg:
		if m.Key == terminal.KeyCtrlC {
			app.Quit()
			return false
		}
		if app.keyHandler != nil && app.keyHandler(app, m) {
			return true
		}
		return app.dispatchMessage(msg)
	case QueueFlushMsg:
		return false
	case InvalidateMsg:
		return true
	default:
		return app.dispatchMessage(msg)
	}
}

func (a *App) dispatchMessage(msg Message) bool {
	result := a.screen.HandleMessage(msg)
	dirty := result.Handled
	for _, cmd := range result.Commands {
		if a.handleCommand(cmd) {
			dirty = true
		}
	}
	return dirty
}

func (a *App) handleCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case Quit:
		a.Quit()
		return false
	case Refresh:
		if a.screen != nil {
			a.screen.Buffer().MarkAllDirty()
		}
		return true
	case SendMsg:
		if c.Message != nil {
			a.Post(c.Message)
		}
		return false
	case Effect:
		a.Spawn(c)
		return false
	default:
		if a.commandHandler != nil {
			return a.commandHandler(cmd)
		}
		return false
	}
}

// ExecuteCommand runs a command through the app handler.
func (a *App) ExecuteCommand(cmd Command) bool {
	if a == nil {
		return false
	}
	return a.handleCommand(cmd)
}

func (a *App) pollEvents() {
	for a.running.Load() {
		ev := a.backend.PollEvent()
		if ev == nil {
			return
		}
		if msg := messageFromEvent(ev); msg != nil {
			a.Post(msg)
		}
	}
}

func (a *App) render() {
	a.renderMu.Lock()
	defer a.renderMu.Unlock()

	if a.screen == nil {
		return
	}
	a.screen.Render()
	a.frames.Add(1)

	buf := a.screen.Buffer()
	if !buf.IsDirty() {
		return
	}
	w, _ := buf.Size()
	cells := buf.Cells()
	if rowWriter, ok := a.backend.(backend.RowWriter); ok {
		buf.ForEachDirtySpan(func(y, startX, endX int) {
			rowStart := y * w
			rowWriter.SetRow(y, startX, cells[rowStart+startX:rowStart+endX])
		})
	} else {
		buf.ForEachDirtySpan(func(y, startX, endX int) {
			for x := startX; x < endX; x++ {
				cell := cells[y*w+x]
				if cell.Rune == 0 {
					continue
				}
				a.backend.SetContent(x, y, cell.Rune, nil, cell.Style)
			}
		})
	}
	buf.ClearDirty()
	a.backend.Show()
}

func (a *App) cancelTasks() {
	a.pendingMu.Lock()
	cancel := a.taskCancel
	a.pendingMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (a *App) startPendingEffects() {
	a.pendingMu.Lock()
	effects := a.pendingEffects
	a.pendingEffects = nil
	ctx := a.taskCtx
	a.pendingMu.Unlock()
	for _, effect := range effects {
		go effect.Run(ctx, a.tryPost)
	}
}

// resetFlushPending wraps update so that a message about to flush the queue
// first re-arms the scheduler; callbacks scheduled during the flush then post
// a fresh QueueFlushMsg.
func (a *App) resetFlushPending(update UpdateFunc) UpdateFunc {
	return func(app *App, msg Message) bool {
		dirty := update(app, msg)
		if shouldFlushQueue(a.flushPolicy, msg) {
			a.queueScheduler.resetPending()
		}
		return dirty
	}
}
