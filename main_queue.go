package tickpool

import "sync"

// mainQueue holds callbacks that must run on the owner goroutine.
// Producers push from anywhere; only the owner drains.
type mainQueue struct {
	mu     sync.Mutex
	items  []func()
	closed bool
}

func newMainQueue() *mainQueue {
	return &mainQueue{}
}

// Push appends a callback. It reports false once the queue is closed.
func (q *mainQueue) Push(cb func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, cb)
	return true
}

// DrainAll empties the queue and returns its contents in push order.
// The returned slice is owned by the caller.
func (q *mainQueue) DrainAll() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || len(q.items) == 0 {
		return nil
	}
	batch := q.items
	q.items = nil
	return batch
}

func (q *mainQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close drops pending callbacks and rejects new ones.
func (q *mainQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.items = nil
}
