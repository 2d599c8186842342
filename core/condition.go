package core

import "sync"

// Condition is a one-shot, resettable event. Wait blocks until Trigger is
// called; if already triggered, Wait returns immediately. Reset re-arms
// the event for the next Wait/Trigger cycle.
//
// Condition is the primitive Producer and MessageLoop use to wake a
// blocked waiter; arming and triggering are always serialized externally
// by whatever holds the Condition (a WaitRecord's owner, a fence), so
// Condition itself only needs to coordinate the wait/trigger race.
type Condition struct {
	mu        sync.Mutex
	ch        chan struct{}
	triggered bool
}

// NewCondition creates an un-triggered Condition.
func NewCondition() *Condition {
	return &Condition{ch: make(chan struct{})}
}

// Wait blocks until Trigger is called on this armed state. If the
// Condition is already triggered, Wait returns immediately without
// blocking.
func (c *Condition) Wait() {
	c.mu.Lock()
	if c.triggered {
		c.mu.Unlock()
		return
	}
	ch := c.ch
	c.mu.Unlock()

	<-ch
}

// Trigger fires the Condition. Every goroutine currently blocked in Wait,
// and every future Wait call before the next Reset, returns immediately.
// Trigger is idempotent.
func (c *Condition) Trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.triggered {
		return
	}
	c.triggered = true
	close(c.ch)
}

// Reset re-arms the Condition. Must not be called concurrently with Wait
// or Trigger on the same armed state -- arming/triggering is serialized by
// the owner, per Condition's contract.
func (c *Condition) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.triggered = false
	c.ch = make(chan struct{})
}
