package concurrent

import (
	"runtime"

	"github.com/kworker/concurrent/core"
)

// Re-exported core types, so most callers only need to import this
// package for the common path; advanced users reach into
// github.com/kworker/concurrent/core directly for Queue, Producer,
// ObjectPool, RWLock and the rest.

type (
	Task                   = core.Task
	Thunk                  = core.Thunk
	RunState               = core.RunState
	Scheduler              = core.Scheduler
	Executor               = core.Executor
	SequencedTaskRunner    = core.SequencedTaskRunner
	SingleThreadTaskRunner = core.SingleThreadTaskRunner
	Timer                  = core.Timer
	MessageLoop[M any]     = core.MessageLoop[M]
	Metrics                = core.Metrics
	PanicHandler           = core.PanicHandler
	Logger                 = core.Logger
)

var (
	NewTask                   = core.NewTask
	NewScheduler              = core.NewScheduler
	NewSequencedTaskRunner    = core.NewSequencedTaskRunner
	NewSingleThreadTaskRunner = core.NewSingleThreadTaskRunner
	NewTimer                  = core.NewTimer
)

func hardwareConcurrencyDefault() int {
	return runtime.NumCPU()
}

// NewMessageLoop re-exports core.NewMessageLoop. It is written out as a
// real function, not a var, because a generic function value can't be
// assigned without its type parameters fixed.
func NewMessageLoop[M any](scheduler *Scheduler, handler func(M), initFn, finalFn func()) *MessageLoop[M] {
	return core.NewMessageLoop[M](scheduler, handler, initFn, finalFn)
}
