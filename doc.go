// Package concurrent provides a small set of general-purpose
// concurrency primitives -- Queue, Condition, RWLock, Producer,
// ObjectPool, Scheduler, MessageLoop, Timer -- and a Pool Executor to
// run them on.
//
// # Quick Start
//
// Start a Pool and schedule work on it:
//
//	pool := concurrent.NewPool("workers", 4)
//	pool.Start(context.Background())
//	defer pool.Stop()
//
//	scheduler := concurrent.NewScheduler(pool, 2) // priorities 0..2
//	scheduler.AddTask(func() {
//		// runs on a pool worker
//	}, 0)
//
// # Key Concepts
//
// Scheduler multiplexes Tasks and bare thunks onto an Executor across
// priority buckets; a negative priority always dispatches first.
// SequencedTaskRunner and SingleThreadTaskRunner are the two concrete
// ways application code posts work to a Scheduler without touching it
// directly: a SequencedTaskRunner guarantees its thunks never run
// concurrently with each other; a SingleThreadTaskRunner binds its
// thunks to one dedicated goroutine, for blocking or thread-affine
// work.
//
// Producer is a generic, waiter-fair hand-off channel; ObjectPool is a
// capacity-capped recycling pool built on top of it. RWLock is a
// recursion-aware reader/writer lock that fails fast (panics) on a
// read-then-write upgrade instead of deadlocking. MessageLoop is a
// single-consumer event pump with fences for "everything pushed before
// this point has been delivered" synchronization.
//
// # Thread Safety
//
// Every type in this module is safe for concurrent use by multiple
// goroutines except where documented (RWLock's per-goroutine recursion
// tracking, Condition's owner-serializes-arm/trigger contract).
//
// # Example
//
//	import "github.com/kworker/concurrent"
//
//	func main() {
//		concurrent.InitGlobalPool(4)
//		defer concurrent.ShutdownGlobalPool()
//
//		runner := concurrent.NewSequencedTaskRunner(concurrent.NewScheduler(concurrent.GlobalPool(), 0), 0)
//		runner.Post(func() { println("task 1") })
//		runner.Post(func() { println("task 2") })
//	}
package concurrent
