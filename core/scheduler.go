package core

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Executor is the external collaborator a Scheduler multiplexes work
// onto: a worker pool plus a dedicated-thread path. Submit and
// RunOnThread never block and carry no ordering guarantee across calls --
// the Scheduler must not, and does not, depend on one.
type Executor interface {
	// Submit schedules thunk to run on a pool worker.
	Submit(thunk Thunk)
	// RunOnThread runs thunk on a goroutine dedicated to it, bypassing the
	// worker pool -- for long-running or blocking work.
	RunOnThread(thunk Thunk)
	// HardwareConcurrency reports the platform's default level of
	// parallelism.
	HardwareConcurrency() int
}

// taskRecord is the Scheduler-internal enqueued unit: a thunk plus an
// optional back-pointer to the parent Task whose scheduler-hold must be
// released once the thunk returns. It is consumed exactly once by a
// runner and must not be reused.
type taskRecord struct {
	thunk      Thunk
	parentTask *Task
	priority   string
}

// Scheduler multiplexes Tasks and bare thunks onto an Executor across
// priority levels. Priority < 0 goes to a dedicated high-priority bucket
// that always dispatches first; priority >= 0 is clamped into
// [0, maxPriority] and dispatches highest-numbered-first among normal
// priorities. Within one bucket, dispatch is FIFO. There is no fairness
// across buckets and no work-stealing between Schedulers -- see
// spec's Non-goals.
type Scheduler struct {
	executor        Executor
	maxPriority     int
	highPriority    *Queue[taskRecord]
	priorities      []*Queue[taskRecord]
	metrics         Metrics
	rejectedHandler RejectedTaskHandler
	closed          atomic.Bool
	pending         atomic.Int64
}

// SetMetrics installs the Metrics sink the Scheduler reports task
// duration, panics, and queue depth through. nil installs NilMetrics.
func (s *Scheduler) SetMetrics(m Metrics) {
	if m == nil {
		m = &NilMetrics{}
	}
	s.metrics = m
}

// SetRejectedHandler installs the handler invoked when a task is posted
// to a shut-down Scheduler. nil installs DefaultRejectedTaskHandler.
func (s *Scheduler) SetRejectedHandler(h RejectedTaskHandler) {
	if h == nil {
		h = &DefaultRejectedTaskHandler{}
	}
	s.rejectedHandler = h
}

// NewScheduler creates a Scheduler with maxPriority+1 normal priority
// buckets (numbered 0..maxPriority) plus the high-priority bucket.
// maxPriority < 0 is treated as 0.
func NewScheduler(executor Executor, maxPriority int) *Scheduler {
	if maxPriority < 0 {
		maxPriority = 0
	}

	queues := make([]*Queue[taskRecord], maxPriority+1)
	for i := range queues {
		queues[i] = NewQueue[taskRecord]()
	}

	return &Scheduler{
		executor:        executor,
		maxPriority:     maxPriority,
		highPriority:    NewQueue[taskRecord](),
		priorities:      queues,
		metrics:         &NilMetrics{},
		rejectedHandler: &DefaultRejectedTaskHandler{},
	}
}

func priorityLabel(priority int, high bool) string {
	if high {
		return "high"
	}
	return strconv.Itoa(priority)
}

func clampPriority(p, max int) int {
	if p < 0 {
		return 0
	}
	if p > max {
		return max
	}
	return p
}

// AddTask enqueues thunk at priority. priority < 0 goes to the
// high-priority bucket; otherwise it is clamped to [0, maxPriority].
// After enqueueing, one runner is submitted to the Executor -- enqueue
// and dispatch-submission are always 1:1.
func (s *Scheduler) AddTask(thunk Thunk, priority int) {
	if s.closed.Load() {
		s.reject()
		return
	}
	s.enqueue(taskRecord{thunk: thunk, priority: s.labelFor(priority)}, priority)
}

func (s *Scheduler) reject() {
	const reason = "scheduler_closed"
	s.metrics.RecordTaskRejected(reason)
	s.rejectedHandler.HandleRejected(reason)
}

func (s *Scheduler) labelFor(priority int) string {
	if priority < 0 {
		return priorityLabel(0, true)
	}
	return priorityLabel(clampPriority(priority, s.maxPriority), false)
}

// ScheduleTask enqueues task to run at priority, acquiring one
// scheduler-hold that is released once task's thunk returns (panic or
// not). Named ScheduleTask to distinguish it from the bare-thunk overload
// Go doesn't let us share a method name across.
func (s *Scheduler) ScheduleTask(task *Task, priority int) {
	if s.closed.Load() {
		s.reject()
		return
	}
	task.schedulerAcquire()
	s.enqueue(taskRecord{thunk: task.doRun, parentTask: task, priority: s.labelFor(priority)}, priority)
}

func (s *Scheduler) enqueue(record taskRecord, priority int) {
	s.pending.Add(1)

	if priority < 0 {
		s.highPriority.Push(record)
		s.metrics.RecordQueueDepth(priorityLabel(0, true), s.highPriority.Len())
	} else {
		idx := clampPriority(priority, s.maxPriority)
		s.priorities[idx].Push(record)
		s.metrics.RecordQueueDepth(priorityLabel(idx, false), s.priorities[idx].Len())
	}

	s.executor.Submit(s.runOne)
}

// runOne is the per-enqueue runner stub submitted to the Executor. It
// pulls exactly one record -- the high-priority bucket first, then
// normal buckets scanned from maxPriority down to 0 -- runs it, and
// releases the parent Task's scheduler-hold if there is one.
func (s *Scheduler) runOne() {
	record, ok := s.highPriority.TryPop()

	if !ok {
		for i := s.maxPriority; i >= 0; i-- {
			if record, ok = s.priorities[i].TryPop(); ok {
				break
			}
		}
	}

	if !ok {
		// Another runner already drained the record this submission was
		// for (two enqueues can race two runner stubs onto the same
		// bucket); nothing to do.
		return
	}

	start := time.Now()
	func() {
		defer s.pending.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				// A bare-thunk record has no Task/PanicHandler to fall back
				// on; runOne is the last line of defense keeping one
				// panicking thunk from taking down its Executor worker.
				s.metrics.RecordTaskPanic(r)
			}
		}()
		record.thunk()
	}()
	s.metrics.RecordTaskDuration(record.priority, time.Since(start))

	if record.parentTask != nil {
		record.parentTask.schedulerRelease()
	}
}

// Shutdown closes the Scheduler to new work. Tasks already enqueued
// continue to drain normally; any AddTask/ScheduleTask call after
// Shutdown is rejected via the configured RejectedTaskHandler.
func (s *Scheduler) Shutdown() {
	s.closed.Store(true)
}

// ShutdownGraceful closes the Scheduler (as Shutdown does) and then
// blocks until every already-enqueued task has finished running, or
// timeout elapses -- whichever comes first. It returns an error if
// timeout elapses with tasks still pending.
func (s *Scheduler) ShutdownGraceful(timeout time.Duration) error {
	s.Shutdown()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		if s.pending.Load() == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("core: scheduler shutdown timed out after %s with %d task(s) pending", timeout, s.pending.Load())
		}
		<-ticker.C
	}
}

// RunInline runs task synchronously on the calling goroutine and blocks
// until it (and its scheduler-hold) are done. It never touches the
// Executor.
func (s *Scheduler) RunInline(task *Task) {
	task.schedulerAcquire()
	task.doRun()
	task.schedulerRelease()
	task.Wait()
}

// RunAsThread submits task to the Executor's dedicated-thread path,
// bypassing the worker pool -- for long-running or blocking tasks that
// would otherwise monopolize a pool worker.
func (s *Scheduler) RunAsThread(task *Task) {
	task.schedulerAcquire()
	s.executor.RunOnThread(func() {
		task.doRun()
		task.schedulerRelease()
	})
}

var (
	defaultSchedulerOnce sync.Once
	defaultScheduler     *Scheduler
)

// DefaultScheduler returns the process-wide default Scheduler (a single
// normal priority level, priority 0), backed by executor. Only the first
// call's executor takes effect; the default Scheduler's lifetime is tied
// to the process, not to any caller's handle.
func DefaultScheduler(executor Executor) *Scheduler {
	defaultSchedulerOnce.Do(func() {
		defaultScheduler = NewScheduler(executor, 0)
	})
	return defaultScheduler
}

// RunAsync posts thunk to the default Scheduler at priority 0.
func RunAsync(executor Executor, thunk Thunk) {
	DefaultScheduler(executor).AddTask(thunk, 0)
}

// RunAsyncTask posts task to the default Scheduler at priority 0.
func RunAsyncTask(executor Executor, task *Task) {
	DefaultScheduler(executor).ScheduleTask(task, 0)
}
