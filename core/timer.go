package core

import (
	"sync"
	"time"
)

// Timer invokes a handler after interval has elapsed, repeating or
// one-shot. It wraps time.Timer rather than a hand-rolled deadline
// heap: a single Timer has no scan-many-deadlines concern a heap would
// earn its keep on, so the standard library's own timer primitive is
// the idiomatic fit here.
//
// A repeating Timer reschedules from the moment its handler starts, not
// from a fixed wall-clock grid -- firing the handler late never causes
// a burst of catch-up fires.
type Timer struct {
	mu       sync.Mutex
	handler  func()
	interval time.Duration
	repeat   bool
	timer    *time.Timer
	gen      uint64
}

// NewTimer creates a Timer bound to handler and interval. Neither Start
// nor OneShot is called automatically; the caller arms it.
func NewTimer(handler func(), interval time.Duration) *Timer {
	return &Timer{handler: handler, interval: interval}
}

// Start arms the Timer as repeating, canceling any pending fire first.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clearLocked()
	t.repeat = true
	t.armLocked()
}

// OneShot arms the Timer to fire exactly once, canceling any pending
// fire first.
func (t *Timer) OneShot() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clearLocked()
	t.repeat = false
	t.armLocked()
}

// Stop cancels the pending fire. Idempotent; safe to call on a Timer
// that was never started or already stopped.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clearLocked()
}

func (t *Timer) armLocked() {
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.interval, func() { t.fire(gen) })
}

func (t *Timer) clearLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

// fire rearms a repeating Timer for another interval and then runs the
// handler -- the next fire is timed from the moment this one starts, not
// from when the handler returns, so a slow handler never drifts the
// schedule by its own runtime. gen guards against a fire racing a
// concurrent Stop/Start/OneShot: a stale fire from a canceled generation
// is dropped instead of rearming or running, and a Stop issued while the
// handler is still running cancels the timer this call just armed.
func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	if t.repeat {
		t.timer = time.AfterFunc(t.interval, func() { t.fire(gen) })
	}
	t.mu.Unlock()

	t.handler()
}
