package core

import "sync"

// SingleThreadTaskRunner binds a FIFO queue of thunks to one dedicated
// goroutine obtained via Scheduler.RunAsThread, for blocking or
// thread-affine work that would otherwise monopolize a pool worker for
// its entire lifetime. It is the direct exerciser of the run-as-thread
// path Scheduler.RunAsThread exposes.
type SingleThreadTaskRunner struct {
	scheduler *Scheduler
	task      *Task

	mu      sync.Mutex
	pending *Queue[Thunk]
	wake    *Condition
	running bool
}

// NewSingleThreadTaskRunner creates and immediately starts a
// SingleThreadTaskRunner on its own dedicated goroutine.
func NewSingleThreadTaskRunner(scheduler *Scheduler) *SingleThreadTaskRunner {
	r := &SingleThreadTaskRunner{
		scheduler: scheduler,
		pending:   NewQueue[Thunk](),
		wake:      NewCondition(),
		running:   true,
	}
	r.task = NewTask(r.run, nil)
	scheduler.RunAsThread(r.task)
	return r
}

// Post enqueues thunk to run on this runner's dedicated goroutine,
// after every thunk posted earlier. Post after Stop is a no-op.
func (r *SingleThreadTaskRunner) Post(thunk Thunk) {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.pending.Push(thunk)
	r.mu.Unlock()

	r.wake.Trigger()
}

// Stop clears the continue flag, wakes the runner, and blocks until it
// has drained every thunk posted before Stop and its goroutine has
// exited.
func (r *SingleThreadTaskRunner) Stop() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	r.wake.Trigger()
	r.task.Wait()
}

func (r *SingleThreadTaskRunner) run() {
	for {
		r.wake.Wait()

		r.mu.Lock()
		r.wake.Reset()
		running := r.running
		r.mu.Unlock()

		for {
			thunk, ok := r.pending.TryPop()
			if !ok {
				break
			}
			thunk()
		}

		if !running {
			return
		}
	}
}
