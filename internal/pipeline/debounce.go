package pipeline

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of Schedule calls into a single trailing-edge
// fire: the callback runs once the interval has elapsed with no further
// scheduling. A single shared timer handle is reset on every call, so only
// the latest scheduled fire survives a burst.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	pending  bool
	fn       func()
}

// NewDebouncer creates a debouncer that invokes fn after interval of quiet.
func NewDebouncer(interval time.Duration, fn func()) *Debouncer {
	return &Debouncer{interval: interval, fn: fn}
}

// Schedule arms (or re-arms) the timer. Rapid successive calls inside the
// window produce exactly one fire.
func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.interval, d.fire)
	} else {
		d.timer.Reset(d.interval)
	}
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()
	d.fn()
}

// Flush runs the callback immediately if a fire is pending and cancels the
// timer. Used on shutdown so the last snapshot is not lost to the window.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	pending := d.pending
	d.pending = false
	d.mu.Unlock()
	if pending {
		d.fn()
	}
}

// Stop cancels any pending fire without running the callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = false
}
