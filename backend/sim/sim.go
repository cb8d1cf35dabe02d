// Package sim provides an in-memory backend for tests and headless runs.
package sim

import (
	"strings"
	"sync"

	"github.com/odvcencio/furry-counter/backend"
	"github.com/odvcencio/furry-counter/terminal"
)

// Backend records drawn cells and replays injected events.
type Backend struct {
	mu     sync.Mutex
	width  int
	height int
	cells  []backend.Cell
	shows  int
	events chan terminal.Event
	done   chan struct{}
	once   sync.Once
}

// New creates a simulated terminal of the given size.
func New(width, height int) *Backend {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return &Backend{
		width:  width,
		height: height,
		cells:  make([]backend.Cell, width*height),
		events: make(chan terminal.Event, 64),
		done:   make(chan struct{}),
	}
}

// Init is a no-op.
func (b *Backend) Init() error {
	return nil
}

// Fini unblocks PollEvent permanently.
func (b *Backend) Fini() {
	b.once.Do(func() {
		close(b.done)
	})
}

// Size returns the simulated dimensions.
func (b *Backend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// SetContent stores a cell.
func (b *Backend) SetContent(x, y int, mainc rune, combc []rune, style backend.Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = backend.Cell{Rune: mainc, Style: style}
}

// Show counts presented frames.
func (b *Backend) Show() {
	b.mu.Lock()
	b.shows++
	b.mu.Unlock()
}

// Sync is a no-op.
func (b *Backend) Sync() {}

// HideCursor is a no-op.
func (b *Backend) HideCursor() {}

// PollEvent returns the next injected event, or nil after Fini.
func (b *Backend) PollEvent() terminal.Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.done:
		return nil
	}
}

// Inject queues an event for PollEvent. It drops the event after Fini.
func (b *Backend) Inject(ev terminal.Event) {
	select {
	case <-b.done:
	case b.events <- ev:
	}
}

// InjectKey queues a rune key press.
func (b *Backend) InjectKey(r rune) {
	b.Inject(terminal.KeyEvent{Key: terminal.KeyRune, Rune: r})
}

// InjectClick queues a left press followed by a release at (x, y).
func (b *Backend) InjectClick(x, y int) {
	b.Inject(terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MousePress})
	b.Inject(terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseNone, Action: terminal.MouseRelease})
}

// Resize changes the simulated size and queues a resize event.
func (b *Backend) Resize(width, height int) {
	b.mu.Lock()
	b.width = width
	b.height = height
	b.cells = make([]backend.Cell, width*height)
	b.mu.Unlock()
	b.Inject(terminal.ResizeEvent{Width: width, Height: height})
}

// Shows returns how many frames were presented.
func (b *Backend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

// Cell returns the cell at (x, y).
func (b *Backend) Cell(x, y int) backend.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return backend.Cell{}
	}
	return b.cells[y*b.width+x]
}

// Capture returns the screen as text, one line per row, trailing spaces trimmed.
func (b *Backend) Capture() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		row := make([]rune, b.width)
		for x := 0; x < b.width; x++ {
			r := b.cells[y*b.width+x].Rune
			if r == 0 {
				r = ' '
			}
			row[x] = r
		}
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// Contains reports whether the captured screen includes text.
func (b *Backend) Contains(text string) bool {
	return strings.Contains(b.Capture(), text)
}

// FindText returns the cell position of the first occurrence of text, or
// (-1, -1) when it is not on screen. Matches do not span rows.
func (b *Backend) FindText(text string) (x, y int) {
	if text == "" {
		return -1, -1
	}
	want := []rune(text)
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := 0; y < b.height; y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		for x := 0; x+len(want) <= b.width; x++ {
			if rowHasAt(row, x, want) {
				return x, y
			}
		}
	}
	return -1, -1
}

func rowHasAt(row []backend.Cell, x int, want []rune) bool {
	for i, r := range want {
		got := row[x+i].Rune
		if got == 0 {
			got = ' '
		}
		if got != r {
			return false
		}
	}
	return true
}
