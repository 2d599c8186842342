package core

import "sync"

// SequencedTaskRunner is a FIFO queue of thunks drained one at a time on
// a Scheduler: only one thunk is ever running at once, and thunks run in
// the order they were posted, but successive thunks may land on
// different Executor workers. It is the Go-native expression of "a
// sequence" in a Chromium-style task model -- a second concrete consumer
// of Scheduler.AddTask beyond MessageLoop.
type SequencedTaskRunner struct {
	scheduler *Scheduler
	priority  int

	mu       sync.Mutex
	pending  *Queue[Thunk]
	draining bool
}

// NewSequencedTaskRunner creates a SequencedTaskRunner posting its drain
// steps to scheduler at priority.
func NewSequencedTaskRunner(scheduler *Scheduler, priority int) *SequencedTaskRunner {
	return &SequencedTaskRunner{
		scheduler: scheduler,
		priority:  priority,
		pending:   NewQueue[Thunk](),
	}
}

// Post enqueues thunk. If no drain is currently scheduled, one is
// posted to the Scheduler to pick it up.
func (r *SequencedTaskRunner) Post(thunk Thunk) {
	r.mu.Lock()
	r.pending.Push(thunk)
	startDrain := !r.draining
	if startDrain {
		r.draining = true
	}
	r.mu.Unlock()

	if startDrain {
		r.scheduler.AddTask(r.drainOne, r.priority)
	}
}

// drainOne runs exactly one pending thunk and, if more remain, re-posts
// itself -- the sequence never occupies more than one scheduler slot at
// a time, so no two thunks from the same SequencedTaskRunner ever run
// concurrently.
func (r *SequencedTaskRunner) drainOne() {
	r.mu.Lock()
	thunk, ok := r.pending.TryPop()
	if !ok {
		r.draining = false
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	thunk()

	r.mu.Lock()
	more := !r.pending.IsEmpty()
	if !more {
		r.draining = false
	}
	r.mu.Unlock()

	if more {
		r.scheduler.AddTask(r.drainOne, r.priority)
	}
}
