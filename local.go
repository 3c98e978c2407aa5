package tickpool

import "sync"

// Local is typed scratch storage with one value per worker.
//
// Jobs that build large temporary buffers can keep them in a Local and
// reuse them on the next job that lands on the same worker, instead of
// allocating per job. The value is created lazily by the constructor
// passed to NewLocal.
//
// A value returned for a worker must only be touched by jobs running on
// that worker.
type Local[T any] struct {
	newFn func() T

	mu   sync.Mutex
	vals map[*Worker]*T
}

// NewLocal creates a Local whose per-worker values start as newFn().
// A nil newFn yields zero values.
func NewLocal[T any](newFn func() T) *Local[T] {
	return &Local[T]{
		newFn: newFn,
		vals:  make(map[*Worker]*T),
	}
}

// Get returns w's value, creating it on first use.
func (l *Local[T]) Get(w *Worker) *T {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.vals[w]; ok {
		return v
	}
	v := new(T)
	if l.newFn != nil {
		*v = l.newFn()
	}
	l.vals[w] = v
	return v
}

// Len returns the number of workers that have a value.
func (l *Local[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.vals)
}
