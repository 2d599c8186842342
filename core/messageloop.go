package core

import "sync"

// msgItem is a MessageLoop's internal queue element: either a payload
// message or a fence marker. A fence carries the Condition a fence()
// caller is waiting on; it triggers that Condition instead of being
// delivered to the handler.
type msgItem[M any] struct {
	fence *Condition
	msg   M
}

// MessageLoop is a single-consumer event pump bound to one Task on a
// Scheduler: a FIFO queue of messages, delivered strictly in order to
// handler on the loop's own Task, with fence markers that let a pusher
// observe "everything pushed before this point has been delivered."
type MessageLoop[M any] struct {
	mu      sync.Mutex
	queue   *Queue[msgItem[M]]
	wake    *Condition
	running bool

	scheduler *Scheduler
	task      *Task

	handler  func(M)
	initFn   func()
	finalFn  func()
}

// NewMessageLoop creates a MessageLoop bound to scheduler. handler is
// invoked once per pushed message, strictly in push order, on the loop's
// own Task. initFn (if non-nil) runs once before the first message;
// finalFn (if non-nil) runs once after the last, even if the loop is
// stopped with messages never pushed.
func NewMessageLoop[M any](scheduler *Scheduler, handler func(M), initFn, finalFn func()) *MessageLoop[M] {
	return &MessageLoop[M]{
		queue:     NewQueue[msgItem[M]](),
		wake:      NewCondition(),
		scheduler: scheduler,
		handler:   handler,
		initFn:    initFn,
		finalFn:   finalFn,
	}
}

// Push enqueues msg and wakes the loop. Push after Stop is a no-op --
// the loop has already drained and exited.
func (l *MessageLoop[M]) Push(msg M) {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.queue.Push(msgItem[M]{msg: msg})
	l.mu.Unlock()

	l.wake.Trigger()
}

// Fence enqueues a fence marker and blocks until the loop has delivered
// every message pushed before it. Fence after Stop returns immediately.
func (l *MessageLoop[M]) Fence() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	done := NewCondition()
	l.queue.Push(msgItem[M]{fence: done})
	l.mu.Unlock()

	l.wake.Trigger()
	done.Wait()
}

// FenceWith enqueues done as the fence marker without blocking the
// caller -- the non-blocking variant of Fence. done is triggered once
// every message pushed before this call has been delivered.
func (l *MessageLoop[M]) FenceWith(done *Condition) {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		done.Trigger()
		return
	}
	l.queue.Push(msgItem[M]{fence: done})
	l.mu.Unlock()

	l.wake.Trigger()
}

// Start launches the loop's Task on its Scheduler. runAsThread selects
// Scheduler.RunAsThread over the worker-pool path -- use it when handler
// may block, since a pool-bound loop would otherwise monopolize a worker
// for its entire lifetime.
func (l *MessageLoop[M]) Start(runAsThread bool) {
	l.mu.Lock()
	l.running = true
	l.mu.Unlock()

	l.task = NewTask(l.run, nil)
	if runAsThread {
		l.scheduler.RunAsThread(l.task)
	} else {
		l.scheduler.ScheduleTask(l.task, 0)
	}
}

// Stop clears the continue flag, wakes the loop so it observes the
// stop, and blocks until it has drained and its Task has finished --
// in-flight messages are delivered before the loop exits, matching the
// cooperative, no-forced-shutdown termination this package uses
// everywhere else.
func (l *MessageLoop[M]) Stop() {
	l.mu.Lock()
	l.running = false
	l.mu.Unlock()

	l.wake.Trigger()
	if l.task != nil {
		l.task.Wait()
	}
}

// run is the loop's Task thunk: initialize, then repeatedly wait-drain-
// deliver until running is cleared and the queue is empty, then
// finalize.
func (l *MessageLoop[M]) run() {
	if l.initFn != nil {
		l.initFn()
	}

	for {
		l.wake.Wait()

		l.mu.Lock()
		l.wake.Reset()
		running := l.running
		l.mu.Unlock()

		for {
			item, ok := l.queue.TryPop()
			if !ok {
				break
			}
			if item.fence != nil {
				item.fence.Trigger()
				continue
			}
			l.handler(item.msg)
		}

		if !running {
			break
		}
	}

	if l.finalFn != nil {
		l.finalFn()
	}
}
