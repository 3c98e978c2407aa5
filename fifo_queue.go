// fifo_queue.go
package tickpool

import "sync"

const (
	initialFifoCapacity = 64
)

// fifoQueue is the shared job queue the scheduler assigns from.
//
// It is a growable circular buffer guarded by a single mutex. Jobs leave
// in the order they were pushed, except that PushFront places a job ahead
// of everything still waiting. No operation blocks beyond the lock.
// Once closed, pushes are dropped and Pop reports an empty queue.
type fifoQueue struct {
	mu         sync.Mutex
	buf        []*task // circular buffer
	head, tail int     // read/write indices
	size       int     // number of tasks currently buffered
	capacity   int
	closed     bool
}

// newFifoQueue creates a queue with the given initial capacity.
// The buffer doubles whenever it fills up.
func newFifoQueue(capacity int) *fifoQueue {
	if capacity <= 0 {
		capacity = initialFifoCapacity
	}
	return &fifoQueue{
		buf:      make([]*task, capacity),
		capacity: capacity,
	}
}

// Len returns the number of tasks currently waiting.
func (q *fifoQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Push appends a task at the tail. It reports false if the queue is closed.
func (q *fifoQueue) Push(t *task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	if q.size == q.capacity {
		q.grow()
	}
	q.buf[q.tail] = t
	q.tail++
	if q.tail == q.capacity {
		q.tail = 0
	}
	q.size++
	return true
}

// PushFront inserts a task at the head so it is popped next.
func (q *fifoQueue) PushFront(t *task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	if q.size == q.capacity {
		q.grow()
	}
	q.head--
	if q.head < 0 {
		q.head = q.capacity - 1
	}
	q.buf[q.head] = t
	q.size++
	return true
}

// Pop removes and returns the head task.
//
// If the queue is empty or closed, it returns nil and false.
func (q *fifoQueue) Pop() (*task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.size == 0 {
		return nil, false
	}
	t := q.buf[q.head]
	q.buf[q.head] = nil
	q.head++
	if q.head == q.capacity {
		q.head = 0
	}
	q.size--
	return t, true
}

// Close drops every waiting task and rejects further pushes.
func (q *fifoQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	clear(q.buf)
	q.head, q.tail, q.size = 0, 0, 0
}

// grow doubles the buffer, unwrapping the ring so head lands at index 0.
// Callers must hold q.mu.
func (q *fifoQueue) grow() {
	newCap := q.capacity * 2
	buf := make([]*task, newCap)
	if q.head < q.tail {
		copy(buf, q.buf[q.head:q.tail])
	} else {
		n := copy(buf, q.buf[q.head:])
		copy(buf[n:], q.buf[:q.tail])
	}
	q.buf = buf
	q.head = 0
	q.tail = q.size
	q.capacity = newCap
}
