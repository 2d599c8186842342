package core

import "errors"

// Sentinel errors for the fatal, precondition-violation failure class
// described by the toolkit's error handling design: these are caller
// logic errors that would otherwise deadlock or corrupt state, so they
// are raised as panics (wrapping one of these sentinels) rather than
// returned. Transient conditions (closed Producer, empty pool) are never
// represented as errors -- they are plain bool/ok returns so callers can
// compose them without importing this package's error types.
var (
	// ErrLockOrder is panicked when a goroutine already holding a read
	// lock on an RWLock requests a write lock on the same lock.
	ErrLockOrder = errors.New("rwlock: write requested while holding read")

	// ErrNotInitialized is panicked when an ObjectPool is used before
	// Init, or a PoolObject is dereferenced after Free.
	ErrNotInitialized = errors.New("objectpool: used before initialization")
)
