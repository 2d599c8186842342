package core

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/google/uuid"
)

// Thunk is a nullary callable with side effects -- the payload of a Task
// or a scheduled record. A thunk is finite; it may block, but it must
// eventually return.
type Thunk func()

// RunState is a Task's position in its Idle -> Scheduled -> Running ->
// Done state machine.
type RunState int32

const (
	// Idle is a Task that has never been scheduled. A completed Task stays
	// Done until its next schedule moves it to Scheduled.
	Idle RunState = iota
	// Scheduled is a Task enqueued on a Scheduler but not yet running.
	Scheduled
	// Running is a Task whose thunk is currently executing. A Task is
	// Running exactly once per schedule; it must not be re-enqueued while
	// in this state.
	Running
	// Done is a Task whose thunk has returned and whose last
	// scheduler-hold has been released.
	Done
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Scheduled:
		return "Scheduled"
	case Running:
		return "Running"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Task is a unit of work: a thunk plus the bookkeeping a Scheduler needs
// to run it exactly once per schedule and let callers Wait for
// completion. The scheduler-hold count keeps the Task's Done transition
// from firing until both the thunk has returned and the Scheduler has
// released the hold it acquired enqueuing it. At most one hold is
// outstanding at a time: schedulerAcquire refuses a Task that is still
// Scheduled or Running.
type Task struct {
	ID    uuid.UUID
	thunk Thunk

	state atomic.Int32
	holds atomic.Int32
	done  *Condition

	panicHandler PanicHandler
}

// NewTask wraps thunk in an Idle Task. panicHandler (nil means
// DefaultPanicHandler) is invoked if thunk panics; the Task still
// transitions to Done so Wait never hangs because of a panicking thunk.
func NewTask(thunk Thunk, panicHandler PanicHandler) *Task {
	if panicHandler == nil {
		panicHandler = &DefaultPanicHandler{}
	}
	return &Task{
		ID:           uuid.New(),
		thunk:        thunk,
		done:         NewCondition(),
		panicHandler: panicHandler,
	}
}

// State returns the Task's current position in its run-state machine.
func (t *Task) State() RunState {
	return RunState(t.state.Load())
}

// schedulerAcquire records one outstanding scheduler hold and transitions
// Idle/Done -> Scheduled. It panics if the Task is already Scheduled or
// Running -- re-enqueuing a Task that hasn't finished its prior run would
// violate "Running exactly once per schedule".
func (t *Task) schedulerAcquire() {
	if !t.state.CompareAndSwap(int32(Idle), int32(Scheduled)) &&
		!t.state.CompareAndSwap(int32(Done), int32(Scheduled)) {
		panic(fmt.Errorf("task: scheduled while already %s", t.State()))
	}
	t.holds.Add(1)
	t.done.Reset()
}

// schedulerRelease releases one scheduler hold. When the last hold is
// released the Task transitions to Done and wakes every Wait caller.
func (t *Task) schedulerRelease() {
	if t.holds.Add(-1) == 0 {
		t.state.Store(int32(Done))
		t.done.Trigger()
	}
}

// doRun transitions Scheduled -> Running and executes the thunk,
// recovering and forwarding any panic to the configured PanicHandler
// instead of letting it escape into the Executor. The Task remains
// Running until the caller -- normally a Scheduler runner -- invokes
// schedulerRelease after doRun returns; because doRun recovers the panic
// itself, that call is always reached and a panic never leaves Wait
// hanging.
func (t *Task) doRun() {
	t.state.Store(int32(Running))

	defer func() {
		if r := recover(); r != nil {
			t.panicHandler.HandlePanic(t.ID, r, debug.Stack())
		}
	}()
	t.thunk()
}

// Wait blocks until the thunk has returned and every scheduler hold has
// been released.
func (t *Task) Wait() {
	t.done.Wait()
}
