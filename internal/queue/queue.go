package queue

import (
	"sync"
	"time"

	"github.com/gridfall/desktop-organizer/internal/domain"
)

// Queue is a thread-safe FIFO of pending operations. Retried operations
// re-enter at the tail after a deadline instead of blocking the worker, so
// retries interleave with freshly arriving work.
type Queue struct {
	mu     sync.Mutex
	ops    []*domain.PendingOperation
	timers map[string]*time.Timer
	closed bool
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{timers: make(map[string]*time.Timer)}
}

// Enqueue appends an operation at the tail.
func (q *Queue) Enqueue(op *domain.PendingOperation) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.ops = append(q.ops, op)
}

// EnqueueAfter appends the operation at the tail once the delay elapses. The
// caller is never blocked.
func (q *Queue) EnqueueAfter(op *domain.PendingOperation, delay time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.timers[op.ID] = time.AfterFunc(delay, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		delete(q.timers, op.ID)
		if q.closed {
			return
		}
		q.ops = append(q.ops, op)
	})
}

// Dequeue removes and returns the head operation. ok is false when the queue
// is empty.
func (q *Queue) Dequeue() (*domain.PendingOperation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ops) == 0 {
		return nil, false
	}
	op := q.ops[0]
	q.ops = q.ops[1:]
	return op, true
}

// Len returns the pending depth: queued operations plus retries waiting out
// their backoff.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops) + len(q.timers)
}

// Close drops all queued work and cancels pending retry timers. Subsequent
// enqueues are ignored.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	q.ops = nil
}
