package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Given: a Producer with one pending value pushed before End
// When: a consumer drains it with Consume, then Consume again
// Then: the first call returns the value, the second returns false
func TestProducer_PushThenEnd(t *testing.T) {
	r := require.New(t)
	p := NewProducer[int]()

	p.Push(1)
	p.End()

	v, ok := p.Consume()
	r.True(ok)
	r.Equal(1, v)

	_, ok = p.Consume()
	r.False(ok, "expected Consume on drained, ended Producer to return false")
}

// Given: a Producer that has already ended
// When: Push is called
// Then: it returns false and the item is dropped
func TestProducer_PushAfterEnd(t *testing.T) {
	r := require.New(t)
	p := NewProducer[int]()
	p.End()

	r.False(p.Push(1), "expected Push after End to return false")
}

// S1: thread A calls Consume on an empty Producer; thread B calls Push(42).
// A returns with 42; the Producer is empty; TryConsume returns false.
func TestProducer_WaiterHandoff(t *testing.T) {
	r := require.New(t)
	p := NewProducer[int]()

	result := make(chan int, 1)
	go func() {
		v, ok := p.Consume()
		if !ok {
			return
		}
		result <- v
	}()

	time.Sleep(10 * time.Millisecond)
	p.Push(42)

	select {
	case v := <-result:
		r.Equal(42, v)
	case <-time.After(time.Second):
		r.Fail("expected waiting consumer to receive pushed item")
	}

	_, ok := p.TryConsume()
	r.False(ok, "expected Producer to be empty after hand-off")
}

// S2: thread A calls Consume on an empty Producer; thread B calls End().
// A returns false; a subsequent Push returns false.
func TestProducer_EndWakesWaiter(t *testing.T) {
	r := require.New(t)
	p := NewProducer[int]()

	done := make(chan bool, 1)
	go func() {
		_, ok := p.Consume()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	p.End()

	select {
	case ok := <-done:
		r.False(ok, "expected waiting consumer to observe End as false")
	case <-time.After(time.Second):
		r.Fail("expected waiting consumer to wake on End")
	}

	r.False(p.Push(1), "expected Push after End to return false")
}

// Given: a Producer with several values pushed from a single goroutine
// When: a single consumer drains them
// Then: they arrive in push order
func TestProducer_FIFO(t *testing.T) {
	r := require.New(t)
	p := NewProducer[int]()

	for i := 0; i < 10; i++ {
		p.Push(i)
	}
	p.End()

	for i := 0; i < 10; i++ {
		v, ok := p.Consume()
		r.True(ok)
		r.Equal(i, v)
	}
}
