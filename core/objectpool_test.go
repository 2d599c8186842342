package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Given: an ObjectPool that has never been Init'd
// When: Acquire is called
// Then: it panics with ErrNotInitialized
func TestObjectPool_UseBeforeInit_Fatal(t *testing.T) {
	r := require.New(t)
	p := NewObjectPool[int]()

	defer func() {
		rec := recover()
		r.NotNil(rec, "expected panic on use before Init")
		err, ok := rec.(error)
		r.True(ok, "expected recovered value to be an error")
		r.ErrorIs(err, ErrNotInitialized)
	}()

	p.Acquire()
}

// S3: ObjectPool<int> init with max_size=2, constructor = () -> 0,
// reinit = x <- x+1. Acquire h1, h2 (both initial value 0); a third
// acquirer blocks until h1 is freed, then unblocks with reinit applied.
func TestObjectPool_Saturation(t *testing.T) {
	r := require.New(t)
	p := NewObjectPool[int]()
	p.Init(func() int { return 0 }, func(v *int) { *v++ }, 2)

	h1 := p.Acquire()
	h2 := p.Acquire()

	r.Equal(0, *h1.Get())
	r.Equal(0, *h2.Get())

	h3Value := make(chan int, 1)
	go func() {
		h3 := p.Acquire()
		h3Value <- *h3.Get()
		h3.Free()
	}()

	select {
	case <-h3Value:
		r.Fail("expected third acquirer to block at capacity")
	case <-time.After(50 * time.Millisecond):
	}

	h1.Free()

	select {
	case v := <-h3Value:
		r.Equal(1, v, "expected reinit to bump freed item to 1")
	case <-time.After(time.Second):
		r.Fail("expected third acquirer to unblock once h1 was freed")
	}

	h2.Free()
}

// Given: an initialized ObjectPool
// When: Init is called a second time
// Then: it panics with ErrNotInitialized
func TestObjectPool_DoubleInit_Fatal(t *testing.T) {
	r := require.New(t)
	p := NewObjectPool[int]()
	p.Init(func() int { return 0 }, nil, 1)

	defer func() {
		r.NotNil(recover(), "expected panic on double Init")
	}()

	p.Init(func() int { return 0 }, nil, 1)
}

// Given: a PoolObject that has already been Freed
// When: Get is called again
// Then: it panics
func TestPoolObject_GetAfterFree_Fatal(t *testing.T) {
	r := require.New(t)
	p := NewObjectPool[int]()
	p.Init(func() int { return 0 }, nil, 1)

	h := p.Acquire()
	h.Free()
	h.Free() // idempotent, must not panic

	defer func() {
		r.NotNil(recover(), "expected panic on Get after Free")
	}()
	h.Get()
}
