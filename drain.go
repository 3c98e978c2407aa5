package tickpool

import (
	"context"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
)

// Drain ticks from the owner goroutine until no job is queued, no worker
// is busy and no callback is waiting, or until ctx ends.
//
// Between ticks it sleeps with exponential backoff bounded by
// Options.DrainBackoff. Drain is meant for shutdown paths and tests where
// the host loop is not running.
func (s *Scheduler) Drain(ctx context.Context) error {
	if err := s.AssertOwner(); err != nil {
		return err
	}

	pol := s.opts.DrainBackoff
	bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())

	for {
		if s.stopRequested() {
			return ErrStopped
		}
		s.Tick()
		if s.idle() {
			return nil
		}

		timer := time.NewTimer(bo.Next())
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// idle must be called on the owner. Workers are checked first: once none
// is busy, nothing but another goroutine can add callbacks or jobs.
func (s *Scheduler) idle() bool {
	return s.BusyWorkers() == 0 && s.PendingCallbacks() == 0 && s.PendingJobs() == 0
}
