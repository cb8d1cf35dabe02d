package state

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Listener receives the counter value after each mutation.
type Listener func(value int)

// Selector projects the counter value at read time. A nil Selector is the identity.
type Selector func(value int) int

// Identity returns n unchanged.
func Identity(n int) int {
	return n
}

// FloorTo returns a selector that rounds down to a multiple of step,
// e.g. FloorTo(10) maps 0..9 to 0 and 10..19 to 10. Negative values round
// toward negative infinity. A non-positive step yields the identity.
func FloorTo(step int) Selector {
	if step <= 0 {
		return Identity
	}
	return func(n int) int {
		q := n / step
		if n%step != 0 && n < 0 {
			q--
		}
		return q * step
	}
}

// ChangeEvent describes one mutation of a CounterStore.
type ChangeEvent struct {
	ID    ulid.ULID
	Count int
	Delta int
	At    time.Time
}

// CounterStore owns a single integer and notifies listeners synchronously
// after every Add. The zero value is ready to use and starts at 0.
type CounterStore struct {
	mu      sync.Mutex
	value   int
	entropy io.Reader
	now     func() time.Time

	listeners registry[func(ChangeEvent)]
}

// NewCounterStore creates a store starting at 0.
func NewCounterStore() *CounterStore {
	return NewCounterStoreAt(0)
}

// NewCounterStoreAt creates a store starting at initial.
func NewCounterStoreAt(initial int) *CounterStore {
	return &CounterStore{
		value:   initial,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Add applies delta and notifies every listener registered when Add was
// called, in subscription order, exactly once each. A listener removed
// while the notification is in progress is skipped.
func (c *CounterStore) Add(delta int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.value += delta
	at := c.clock()
	evt := ChangeEvent{
		ID:    c.newID(at),
		Count: c.value,
		Delta: delta,
		At:    at,
	}
	c.mu.Unlock()

	for _, reg := range c.listeners.snapshot() {
		if reg.live.Load() {
			reg.fn(evt)
		}
	}
}

// Snapshot returns selector applied to the current value.
func (c *CounterStore) Snapshot(selector Selector) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	value := c.value
	c.mu.Unlock()
	if selector == nil {
		return value
	}
	return selector(value)
}

// Subscribe registers listener and returns a function that removes exactly
// this registration. Calling the returned function again does nothing.
func (c *CounterStore) Subscribe(listener Listener) (unsubscribe func()) {
	if c == nil || listener == nil {
		return func() {}
	}
	return c.listeners.add(func(evt ChangeEvent) {
		listener(evt.Count)
	}, nil)
}

// AddEventListener registers fn for full change events.
func (c *CounterStore) AddEventListener(fn func(ChangeEvent)) (remove func()) {
	if c == nil || fn == nil {
		return func() {}
	}
	return c.listeners.add(fn, nil)
}

// Notify registers a value-less change callback.
func (c *CounterStore) Notify(fn func()) (unsubscribe func()) {
	if c == nil || fn == nil {
		return func() {}
	}
	return c.listeners.add(func(ChangeEvent) {
		fn()
	}, nil)
}

// Notifier returns Notify bound to c, for use as an external store's
// subscribe function.
func (c *CounterStore) Notifier() SubscribeFunc {
	return c.Notify
}

// Len returns the number of live registrations.
func (c *CounterStore) Len() int {
	if c == nil {
		return 0
	}
	return c.listeners.len()
}

// Select binds the store through selector. The returned value only
// publishes when the selected value changes. Call Stop on it to detach.
func (c *CounterStore) Select(selector Selector) *External[int] {
	return c.SelectWithScheduler(nil, selector)
}

// SelectWithScheduler is Select with recomputes dispatched through scheduler.
func (c *CounterStore) SelectWithScheduler(scheduler Scheduler, selector Selector) *External[int] {
	return NewExternalWithScheduler(scheduler, c.Notifier(), func() int {
		return c.Snapshot(selector)
	})
}

func (c *CounterStore) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func (c *CounterStore) newID(at time.Time) ulid.ULID {
	if c.entropy == nil {
		c.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	// The monotonic source only fails after 2^80 IDs within one millisecond.
	return ulid.MustNew(ulid.Timestamp(at), c.entropy)
}
