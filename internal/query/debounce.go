package query

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiescence window applied to free-text input.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer coalesces bursts of calls into one, fired after the window
// elapses without a new Trigger. Stop cancels any pending call.
type Debouncer struct {
	window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// NewDebouncer creates a Debouncer. A non-positive window uses DefaultDebounce.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer{window: window}
}

// Trigger schedules fn, replacing any call still pending.
// It is a no-op after Stop.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		// A newer Trigger or Stop raced with this timer firing.
		if d.stopped || seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending call, if any, and keeps the Debouncer usable.
// It reports whether a call was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

// Stop cancels the pending call and disables further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer) cancelLocked() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.seq++
	return true
}
