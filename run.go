package tickpool

import (
	"context"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Run makes the calling goroutine the owner and drives the scheduler
// until ctx ends.
//
// It initializes the pool with Options.Workers (unless already running),
// calls Tick every Options.TickInterval, and shuts the scheduler down on
// the way out. Hosts with their own frame loop call Tick directly
// instead.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Initialize(s.opts.Workers); err != nil {
		return err
	}
	if err := s.AssertOwner(); err != nil {
		return err
	}

	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	logger := lg.FromContext(s.opts.Context)
	logger.Info("tick loop started", lg.String("interval", s.opts.TickInterval.String()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("tick loop stopping", lg.Any("reason", ctx.Err()))
			s.Stop()
			return nil
		case <-ticker.C:
			s.Tick()
		}
	}
}
