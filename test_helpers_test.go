package tickpool_test

import (
	"runtime"
	"testing"
	"time"

	tp "github.com/Andrej220/go-utils/tickpool"
)

// newTestScheduler creates a scheduler owned by the calling test
// goroutine and stops it when the test ends.
func newTestScheduler(t *testing.T, workers int, opts tp.Options) *tp.Scheduler {
	t.Helper()

	s, err := tp.New(opts)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	if err := s.Initialize(workers); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

// tickUntil drives the scheduler from the owner goroutine until cond holds.
func tickUntil(t *testing.T, s *tp.Scheduler, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		s.Tick()
		if cond() {
			return
		}
		runtime.Gosched()
		time.Sleep(100 * time.Microsecond)
	}
	t.Fatal("condition not satisfied before timeout")
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}
