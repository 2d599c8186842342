package core

import (
	"fmt"
	"sync"

	"github.com/kworker/concurrent/core/internal/goid"
)

// lockState is the recursion state a single goroutine holds against a
// single RWLock: none, shared (read), or exclusive (write).
type lockState int

const (
	lockStateNone lockState = iota
	lockStateRead
	lockStateWrite
)

// RWLock is a reader/writer lock with per-goroutine recursion tracking.
//
// Multiple readers may hold the lock concurrently; at most one writer may
// hold it, and no goroutine may hold both kinds at once. Recursive
// acquisition by the same goroutine is a no-op that extends the current
// hold instead of deadlocking:
//
//   - holding Read, requesting Read again: succeeds, no-op.
//   - holding Write, requesting Read or Write again: succeeds, no-op.
//   - holding Read, requesting Write: panics. There is no way to upgrade a
//     read hold to a write hold without releasing it first, and silently
//     blocking would deadlock against the goroutine's own read hold.
//
// Guards (ReadGuard/WriteGuard) must be released in the reverse order they
// were acquired, the same discipline required of nested mutex guards.
type RWLock struct {
	mu sync.RWMutex

	stateMu sync.Mutex
	state   map[int64]lockState
}

// NewRWLock creates an unlocked RWLock.
func NewRWLock() *RWLock {
	return &RWLock{state: make(map[int64]lockState)}
}

func (l *RWLock) getState(id int64) lockState {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	return l.state[id]
}

func (l *RWLock) setState(id int64, s lockState) {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	if s == lockStateNone {
		delete(l.state, id)
	} else {
		l.state[id] = s
	}
}

// ReadGuard releases a read acquisition on Release. The outermost guard in
// a recursive chain performs the real unlock; inner guards are sentinels.
type ReadGuard struct {
	lock     *RWLock
	goroutine int64
	outer    bool
}

// WriteGuard releases a write acquisition on Release. The outermost guard
// in a recursive chain performs the real unlock; inner guards are
// sentinels.
type WriteGuard struct {
	lock     *RWLock
	goroutine int64
	outer    bool
}

// ReadLock acquires l for reading, blocking until it is available. If the
// calling goroutine already holds a read or write lock on l, this is a
// recursive no-op: the returned guard does nothing on Release.
func ReadLock(l *RWLock) *ReadGuard {
	id := goid.Current()
	switch l.getState(id) {
	case lockStateRead, lockStateWrite:
		return &ReadGuard{lock: l, goroutine: id, outer: false}
	default:
		l.mu.RLock()
		l.setState(id, lockStateRead)
		return &ReadGuard{lock: l, goroutine: id, outer: true}
	}
}

// Release releases the read guard. Guards must be released in the reverse
// order they were acquired.
func (g *ReadGuard) Release() {
	if g == nil || !g.outer {
		return
	}
	g.lock.mu.RUnlock()
	g.lock.setState(g.goroutine, lockStateNone)
	g.outer = false
}

// WriteLock acquires l for writing, blocking until it has exclusive
// ownership. If the calling goroutine already holds a write lock, this is
// a recursive no-op. If the calling goroutine holds only a read lock, this
// panics: upgrading read to write without releasing first would deadlock
// against the goroutine's own read hold, so it is treated as a caller
// logic error (ErrLockOrder) and fails fast instead of blocking forever.
func WriteLock(l *RWLock) *WriteGuard {
	id := goid.Current()
	switch l.getState(id) {
	case lockStateWrite:
		return &WriteGuard{lock: l, goroutine: id, outer: false}
	case lockStateRead:
		panic(fmt.Errorf("%w: goroutine already holds a read lock on this RWLock", ErrLockOrder))
	default:
		l.mu.Lock()
		l.setState(id, lockStateWrite)
		return &WriteGuard{lock: l, goroutine: id, outer: true}
	}
}

// Release releases the write guard. Guards must be released in the
// reverse order they were acquired.
func (g *WriteGuard) Release() {
	if g == nil || !g.outer {
		return
	}
	g.lock.mu.Unlock()
	g.lock.setState(g.goroutine, lockStateNone)
	g.outer = false
}
