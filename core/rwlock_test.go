package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Given: an RWLock
// When: two Read locks are acquired from the same goroutine
// Then: both succeed and releasing both leaves the lock free
func TestRWLock_ReadRecursion(t *testing.T) {
	l := NewRWLock()

	g1 := ReadLock(l)
	g2 := ReadLock(l)

	g2.Release()
	g1.Release()
}

// Given: an RWLock
// When: Write, then Write again, then Read are acquired from the same goroutine
// Then: all three succeed and release in reverse order leaves the lock free
func TestRWLock_WriteThenWriteThenRead(t *testing.T) {
	l := NewRWLock()

	w1 := WriteLock(l)
	w2 := WriteLock(l)
	r1 := ReadLock(l)

	r1.Release()
	w2.Release()
	w1.Release()
}

// Given: an RWLock
// When: a goroutine holds a Read lock and requests a Write lock
// Then: it panics with ErrLockOrder instead of deadlocking
func TestRWLock_ReadThenWrite_Fatal(t *testing.T) {
	r := require.New(t)
	l := NewRWLock()
	g := ReadLock(l)
	defer g.Release()

	defer func() {
		rec := recover()
		r.NotNil(rec, "expected panic on read-then-write upgrade")
		err, ok := rec.(error)
		r.True(ok, "expected recovered value to be an error")
		r.ErrorIs(err, ErrLockOrder)
	}()

	WriteLock(l)
}

// Given: an RWLock held for Write by one goroutine
// When: another goroutine attempts to acquire Read
// Then: it blocks until the writer releases
func TestRWLock_WriteExcludesRead(t *testing.T) {
	r := require.New(t)
	l := NewRWLock()
	w := WriteLock(l)

	acquired := make(chan struct{})
	go func() {
		g := ReadLock(l)
		close(acquired)
		g.Release()
	}()

	select {
	case <-acquired:
		r.Fail("expected reader to block while writer holds the lock")
	case <-time.After(50 * time.Millisecond):
	}

	w.Release()
	<-acquired
}
