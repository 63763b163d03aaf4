// Package debounce provides a coalescing timer: scheduling again before the
// timer fires cancels the pending call and starts the delay over.
package debounce

import (
	"sync"
	"time"
)

// Timer runs the most recently scheduled function once the delay has passed
// without another Schedule call. It is safe for concurrent use.
type Timer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
	gen   uint64
}

// New creates a timer with the given quiet period.
func New(delay time.Duration) *Timer {
	return &Timer{delay: delay}
}

// Delay returns the quiet period.
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// Schedule replaces any pending call with fn and restarts the delay.
func (t *Timer) Schedule(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.fn = fn
	gen := t.gen
	t.timer = time.AfterFunc(t.delay, func() { t.fire(gen) })
}

// fire runs fn unless it was superseded, stopped or flushed in the meantime.
func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.fn == nil {
		t.mu.Unlock()
		return
	}
	fn := t.fn
	t.fn = nil
	t.timer = nil
	t.gen++
	t.mu.Unlock()

	fn()
}

// Stop cancels the pending call. It reports whether one was pending.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopLocked()
}

func (t *Timer) stopLocked() bool {
	pending := t.fn != nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.fn = nil
	t.gen++
	return pending
}

// Pending reports whether a call is waiting to run.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fn != nil
}

// Flush runs the pending call now, on the caller's goroutine. It reports
// whether there was anything to run.
func (t *Timer) Flush() bool {
	t.mu.Lock()
	fn := t.fn
	t.stopLocked()
	t.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}
