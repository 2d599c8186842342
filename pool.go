package concurrent

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kworker/concurrent/core"
)

// Pool is the default core.Executor: a fixed set of worker goroutines
// draining a shared work channel for Submit, plus an unbounded
// goroutine-per-call path for RunOnThread. It is the Go-native stand-in
// for a platform thread pool -- goroutines are cheap enough that
// RunOnThread simply spawns one rather than maintaining a separate
// dedicated-thread pool.
type Pool struct {
	id      string
	workers int

	work chan core.Thunk

	wg        sync.WaitGroup
	runningMu sync.Mutex
	running   bool
	stop      chan struct{}
	pending   atomic.Int64
}

// NewPool creates a Pool with workers goroutines. workers <= 0 falls
// back to runtime hardware concurrency.
func NewPool(id string, workers int) *Pool {
	if workers <= 0 {
		workers = hardwareConcurrencyDefault()
	}
	return &Pool{
		id:      id,
		workers: workers,
		work:    make(chan core.Thunk, workers*4),
	}
}

// Start launches the pool's worker goroutines and ties the pool's
// lifetime to ctx: cancelling ctx stops the pool the same way Stop
// does. Calling Start on an already-running Pool is a no-op.
func (p *Pool) Start(ctx context.Context) {
	p.runningMu.Lock()
	if p.running {
		p.runningMu.Unlock()
		return
	}
	p.running = true
	p.stop = make(chan struct{})
	stop := p.stop
	p.runningMu.Unlock()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.workerLoop(stop)
	}

	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				p.Stop()
			case <-stop:
			}
		}()
	}
}

// Stop signals every worker to exit once its current thunk (if any)
// returns, and blocks until they have. Queued-but-undispatched thunks
// in the work channel are dropped -- Stop is not graceful draining; see
// the Scheduler-level cooperative termination this pool sits under.
func (p *Pool) Stop() {
	p.runningMu.Lock()
	if !p.running {
		p.runningMu.Unlock()
		return
	}
	close(p.stop)
	p.running = false
	p.runningMu.Unlock()

	p.wg.Wait()
}

// StopGraceful waits for already-submitted thunks to finish running (not
// ones still sitting in the work channel past timeout), then stops the
// pool as Stop does. It returns an error if timeout elapses with thunks
// still pending.
func (p *Pool) StopGraceful(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for p.pending.Load() > 0 {
		if time.Now().After(deadline) {
			p.Stop()
			return fmt.Errorf("concurrent: pool %q graceful stop timed out after %s with %d thunk(s) pending", p.id, timeout, p.pending.Load())
		}
		<-ticker.C
	}

	p.Stop()
	return nil
}

// IsRunning reports whether the pool's workers are currently active.
func (p *Pool) IsRunning() bool {
	p.runningMu.Lock()
	defer p.runningMu.Unlock()
	return p.running
}

// ID returns the pool's identifier, set at construction.
func (p *Pool) ID() string {
	return p.id
}

// WorkerCount returns the configured number of worker goroutines.
func (p *Pool) WorkerCount() int {
	return p.workers
}

func (p *Pool) workerLoop(stop chan struct{}) {
	defer p.wg.Done()

	for {
		select {
		case <-stop:
			return
		case thunk := <-p.work:
			thunk()
			p.pending.Add(-1)
		}
	}
}

// Submit schedules thunk to run on a pool worker. It satisfies
// core.Executor.
func (p *Pool) Submit(thunk core.Thunk) {
	p.pending.Add(1)
	p.work <- thunk
}

// RunOnThread runs thunk on a goroutine dedicated to it, bypassing the
// worker pool entirely -- for long-running or blocking work that would
// otherwise monopolize a worker. It satisfies core.Executor.
func (p *Pool) RunOnThread(thunk core.Thunk) {
	go thunk()
}

// HardwareConcurrency reports the platform's default level of
// parallelism. It satisfies core.Executor.
func (p *Pool) HardwareConcurrency() int {
	return hardwareConcurrencyDefault()
}

var (
	globalPool   *Pool
	globalPoolMu sync.Mutex
)

// InitGlobalPool initializes and starts the process-wide default Pool.
// Calling it more than once is a no-op.
func InitGlobalPool(workers int) {
	globalPoolMu.Lock()
	defer globalPoolMu.Unlock()

	if globalPool != nil {
		return
	}
	globalPool = NewPool("global-pool", workers)
	globalPool.Start(context.Background())
}

// GlobalPool returns the process-wide default Pool. It panics if
// InitGlobalPool has not been called.
func GlobalPool() *Pool {
	globalPoolMu.Lock()
	defer globalPoolMu.Unlock()

	if globalPool == nil {
		panic("concurrent: global pool not initialized, call InitGlobalPool first")
	}
	return globalPool
}

// ShutdownGlobalPool stops the process-wide default Pool, if any.
func ShutdownGlobalPool() {
	globalPoolMu.Lock()
	defer globalPoolMu.Unlock()

	if globalPool != nil {
		globalPool.Stop()
		globalPool = nil
	}
}
