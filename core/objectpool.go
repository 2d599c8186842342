package core

import (
	"fmt"
	"sync/atomic"
)

// ObjectPool is a capacity-capped, lazily populated pool of T. Items are
// acquired with Acquire, which may construct a fresh item (while under
// capacity), block (once at capacity, waiting for a return), or be
// satisfied immediately from the pool. T must be safe to move between
// goroutines, which every Go value already is.
type ObjectPool[T any] struct {
	pool        *Producer[T]
	constructor func() T
	reinit      func(*T)
	maxSize     int64
	circulating atomic.Int64

	initialized atomic.Bool
}

// NewObjectPool creates an uninitialized ObjectPool. Init must be called
// before Acquire.
func NewObjectPool[T any]() *ObjectPool[T] {
	return &ObjectPool[T]{}
}

// Init configures the pool. constructor builds a new item when the pool
// is empty and circulation is under maxSize; reinit (nil means a no-op)
// prepares a returned item for reuse. maxSize of 0 means
// runtime.NumCPU(). Init may only be called once; calling it again
// panics with ErrNotInitialized wrapped to explain the misuse.
func (p *ObjectPool[T]) Init(constructor func() T, reinit func(*T), maxSize int) {
	if p.initialized.Swap(true) {
		panic(fmt.Errorf("%w: Init called more than once", ErrNotInitialized))
	}

	if maxSize == 0 {
		maxSize = hardwareConcurrency()
	}
	if reinit == nil {
		reinit = func(*T) {}
	}

	p.pool = NewProducer[T]()
	p.constructor = constructor
	p.reinit = reinit
	p.maxSize = int64(maxSize)
}

// acquireItem implements §4.4's acquire algorithm: try the pool first,
// then construct under the cap, then block for a returned item.
func (p *ObjectPool[T]) acquireItem() T {
	p.requireInitialized()

	if item, ok := p.pool.TryConsume(); ok {
		return item
	}

	if p.circulating.Add(1) <= p.maxSize {
		return p.constructor()
	}

	p.circulating.Add(-1)
	item, _ := p.pool.Consume()
	return item
}

func (p *ObjectPool[T]) returnItem(item T) {
	if p.circulating.Load() <= p.maxSize {
		p.reinit(&item)
		p.pool.Push(item)
	} else {
		p.circulating.Add(-1)
	}
}

func (p *ObjectPool[T]) requireInitialized() {
	if !p.initialized.Load() {
		panic(fmt.Errorf("%w: used before Init", ErrNotInitialized))
	}
}

// Acquire blocks, if necessary, to return a PoolObject borrowed from the
// pool. The caller must call Free (directly, or by letting it go out of
// scope isn't automatic in Go -- callers must defer obj.Free()) to return
// the item.
func (p *ObjectPool[T]) Acquire() *PoolObject[T] {
	item := p.acquireItem()
	return &PoolObject[T]{pool: p, item: &item}
}

// PoolObject is a scoped handle to an item borrowed from an ObjectPool.
// Callers must call Free exactly once, typically via defer, to return the
// item to the pool. PoolObject is not safe for concurrent use and must
// not be copied.
type PoolObject[T any] struct {
	pool *ObjectPool[T]
	item *T
}

// Get returns a pointer to the borrowed item. It panics if Free has
// already been called.
func (o *PoolObject[T]) Get() *T {
	if o.item == nil {
		panic(fmt.Errorf("%w: PoolObject used after Free", ErrNotInitialized))
	}
	return o.item
}

// Free returns the borrowed item to the pool and nils the handle. Calling
// Free more than once is a no-op.
func (o *PoolObject[T]) Free() {
	if o.item == nil {
		return
	}
	o.pool.returnItem(*o.item)
	o.item = nil
}
