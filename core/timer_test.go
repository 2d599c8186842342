package core

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Given: a Timer armed with OneShot
// When: the interval elapses
// Then: the handler fires exactly once
func TestTimer_OneShot(t *testing.T) {
	r := require.New(t)
	var fires atomic.Int32
	timer := NewTimer(func() { fires.Add(1) }, 20*time.Millisecond)
	timer.OneShot()
	defer timer.Stop()

	time.Sleep(120 * time.Millisecond)
	r.EqualValues(1, fires.Load())
}

// Given: a Timer armed with Start (repeating)
// When: several intervals elapse
// Then: the handler fires more than once
func TestTimer_Repeating(t *testing.T) {
	r := require.New(t)
	var fires atomic.Int32
	timer := NewTimer(func() { fires.Add(1) }, 15*time.Millisecond)
	timer.Start()
	defer timer.Stop()

	time.Sleep(100 * time.Millisecond)
	r.GreaterOrEqual(fires.Load(), int32(2))
}

// Given: a repeating Timer
// When: Stop is called
// Then: no further fires are observed
func TestTimer_Stop(t *testing.T) {
	r := require.New(t)
	var fires atomic.Int32
	timer := NewTimer(func() { fires.Add(1) }, 15*time.Millisecond)
	timer.Start()

	time.Sleep(50 * time.Millisecond)
	timer.Stop()
	observed := fires.Load()

	time.Sleep(80 * time.Millisecond)
	r.Equal(observed, fires.Load(), "expected no fires after Stop")
}

// Given: a Timer
// When: Stop is called more than once
// Then: it does not panic
func TestTimer_Stop_Idempotent(t *testing.T) {
	timer := NewTimer(func() {}, time.Second)
	timer.Stop()
	timer.Stop()
}

// Given: a repeating Timer whose handler runs slower than the interval
// When: several fires elapse
// Then: the next fire is scheduled from when the handler started, not
// from when it returned -- a slow handler does not push later fires out
// by its own runtime
func TestTimer_Repeating_ReschedulesFromHandlerStart(t *testing.T) {
	r := require.New(t)
	const interval = 20 * time.Millisecond
	const handlerDelay = 15 * time.Millisecond

	var starts []time.Time
	var mu sync.Mutex
	timer := NewTimer(func() {
		mu.Lock()
		starts = append(starts, time.Now())
		mu.Unlock()
		time.Sleep(handlerDelay)
	}, interval)
	timer.Start()
	defer timer.Stop()

	time.Sleep(interval*5 + handlerDelay)

	mu.Lock()
	defer mu.Unlock()
	r.GreaterOrEqual(len(starts), 3)

	for i := 1; i < len(starts); i++ {
		gap := starts[i].Sub(starts[i-1])
		r.Less(gap, interval+handlerDelay,
			"fire %d started %s after the previous one; handler runtime should not have been added to the gap", i, gap)
	}
}
