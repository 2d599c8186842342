package core

// Producer is a bounded-concurrency, waiter-fair hand-off channel with
// termination. It is the blocking primitive ObjectPool is built on; the
// rest of this module does not require it directly.
//
// Push fails once End has been called. Consume blocks until an item is
// available or the Producer has ended and drained; TryConsume never
// blocks. End is idempotent, wakes every waiter, and hands each one an
// item if any remain, in FIFO order.
type Producer[T any] struct {
	rw       *RWLock
	messages *Queue[T]
	waiting  *Queue[*waitRecord[T]]
	ended    bool
}

type waitRecord[T any] struct {
	success bool
	wakeUp  *Condition
	out     T
}

// NewProducer creates an empty, open Producer.
func NewProducer[T any]() *Producer[T] {
	return &Producer[T]{
		rw:       NewRWLock(),
		messages: NewQueue[T](),
		waiting:  NewQueue[*waitRecord[T]](),
	}
}

// Push enqueues item, handing it directly to a registered waiter if one
// exists. It returns false and does nothing if End has already been
// called.
func (p *Producer[T]) Push(item T) bool {
	g := WriteLock(p.rw)
	defer g.Release()

	if p.ended {
		return false
	}

	p.messages.Push(item)

	if record, ok := p.waiting.TryPop(); ok {
		out, _ := p.messages.TryPop()
		record.out = out
		record.success = true
		record.wakeUp.Trigger()
	}

	return true
}

// Consume blocks until an item is available or the Producer has ended
// with no items left, in which case it returns false. On success out
// holds the item and ok is true.
func (p *Producer[T]) Consume() (out T, ok bool) {
	return p.getMessage(false)
}

// TryConsume returns an item without blocking. ok is false if the queue
// is currently empty, whether or not End has been called.
func (p *Producer[T]) TryConsume() (out T, ok bool) {
	return p.getMessage(true)
}

func (p *Producer[T]) getMessage(trying bool) (out T, ok bool) {
	ready := NewCondition()
	record := &waitRecord[T]{wakeUp: ready}

	g := ReadLock(p.rw)
	if v, ok := p.messages.TryPop(); ok {
		g.Release()
		return v, true
	}
	if trying || p.ended {
		g.Release()
		return out, false
	}
	p.waiting.Push(record)
	g.Release()

	ready.Wait()

	if record.success {
		return record.out, true
	}
	return out, false
}

// IsEmpty reports whether the internal message queue is currently empty.
// It does not reflect pending waiters.
func (p *Producer[T]) IsEmpty() bool {
	return p.messages.IsEmpty()
}

// End marks the Producer closed: subsequent Push calls fail, and every
// currently registered waiter is drained -- paired with a remaining item
// if one exists, or woken with success=false otherwise. End is idempotent.
func (p *Producer[T]) End() {
	g := WriteLock(p.rw)
	defer g.Release()

	if p.ended {
		return
	}
	p.ended = true

	for {
		record, ok := p.waiting.TryPop()
		if !ok {
			break
		}
		out, success := p.messages.TryPop()
		record.out = out
		record.success = success
		record.wakeUp.Trigger()
	}
}
