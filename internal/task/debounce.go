package task

import (
	"sync"
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks after a delay. The real implementation wraps
// time.AfterFunc; tests inject a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by the runtime timers.
func RealClock() Clock { return realClock{} }

// Debouncer coalesces rapid repeated work per key: scheduling a new callback
// for a key cancels the pending one, so only the last call within the window
// fires.
type Debouncer struct {
	window time.Duration
	clock  Clock

	mu      sync.Mutex
	pending map[string]Timer
	closed  bool
}

// NewDebouncer creates a debouncer with the given window.
func NewDebouncer(window time.Duration, clock Clock) *Debouncer {
	if clock == nil {
		clock = RealClock()
	}
	return &Debouncer{
		window:  window,
		clock:   clock,
		pending: make(map[string]Timer),
	}
}

// Schedule queues fn to run after the debounce window, replacing any pending
// callback for the same key. After Close, calls are dropped.
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	if t, ok := d.pending[key]; ok {
		t.Stop()
	}

	d.pending[key] = d.clock.AfterFunc(d.window, func() {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()

		fn()
	})
}

// Cancel drops any pending callback for the key.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.pending[key]; ok {
		t.Stop()
		delete(d.pending, key)
	}
}

// Close cancels all pending callbacks and rejects further scheduling.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	for key, t := range d.pending {
		t.Stop()
		delete(d.pending, key)
	}
}
