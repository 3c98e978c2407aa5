package tickpool

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrInvalidWorkers is returned by Initialize for a non-positive worker count.
	ErrInvalidWorkers = errors.New("tickpool: worker count must be positive")

	// ErrStopped is returned once the scheduler has been shut down.
	ErrStopped = errors.New("tickpool: scheduler stopped")

	// ErrNotOwner is returned by owner-only operations called from
	// any goroutine other than the one that initialized the scheduler.
	ErrNotOwner = errors.New("tickpool: not on owner goroutine")

	// ErrNotInitialized is returned by operations that need running workers.
	ErrNotInitialized = errors.New("tickpool: scheduler not initialized")

	// ErrJobExited is reported in a JobFault when a job ended its goroutine
	// with runtime.Goexit instead of returning.
	ErrJobExited = errors.New("tickpool: job exited its goroutine")
)

// PanicError wraps a value recovered from a panicking job or callback.
type PanicError struct {
	Value any
	Stack []byte
}

func newPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("tickpool: recovered panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// JobFault describes a job that panicked or exited its goroutine on a
// worker.
type JobFault struct {
	WorkerID int
	Job      string
	Err      error
}
