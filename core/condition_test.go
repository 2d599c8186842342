package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Given: an already-triggered Condition
// When: Wait is called
// Then: it returns immediately
func TestCondition_Wait_AlreadyTriggered(t *testing.T) {
	r := require.New(t)
	c := NewCondition()
	c.Trigger()

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		r.Fail("Wait on already-triggered Condition should not block")
	}
}

// Given: a Condition with a goroutine blocked in Wait
// When: Trigger is called
// Then: the waiter unblocks
func TestCondition_Trigger_WakesWaiter(t *testing.T) {
	r := require.New(t)
	c := NewCondition()
	done := make(chan struct{})

	go func() {
		c.Wait()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	c.Trigger()

	select {
	case <-done:
	case <-time.After(time.Second):
		r.Fail("expected waiter to wake after Trigger")
	}
}

// Given: a Condition
// When: Trigger is called more than once
// Then: it does not panic and subsequent Waits still return immediately
func TestCondition_Trigger_Idempotent(t *testing.T) {
	c := NewCondition()
	c.Trigger()
	c.Trigger()
	c.Wait()
}

// Given: a triggered Condition
// When: Reset is called and then Wait
// Then: Wait blocks again until the next Trigger
func TestCondition_Reset_Rearms(t *testing.T) {
	r := require.New(t)
	c := NewCondition()
	c.Trigger()
	c.Reset()

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.Fail("expected Wait to block after Reset")
	case <-time.After(50 * time.Millisecond):
	}

	c.Trigger()
	select {
	case <-done:
	case <-time.After(time.Second):
		r.Fail("expected waiter to wake after re-Trigger")
	}
}
