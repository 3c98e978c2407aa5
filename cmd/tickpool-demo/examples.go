package main

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"

	"github.com/Andrej220/go-utils/tickpool"
)

type example func(ctx context.Context, s *tickpool.Scheduler, cfg config) error

var examples = map[string]example{
	"dummy":       dummyJobs,
	"main-read":   readOwnerState,
	"main-action": ownerAction,
	"timed":       timedHandOff,
}

// frames is only advanced by the owner, through a callback queued every
// tick; workers must go through the main-thread queue to read it.
type frames struct {
	n int
}

// awaitJobs submits n jobs built by mk and returns once all of them have
// finished or ctx ends.
func awaitJobs(ctx context.Context, s *tickpool.Scheduler, n int, mk func(i int) tickpool.Job) error {
	var wg sync.WaitGroup
	for i := range n {
		job := mk(i)
		wg.Add(1)
		if !s.Submit(func(w *tickpool.Worker) {
			defer wg.Done()
			job(w)
		}) {
			wg.Done()
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}

func dummyJobs(ctx context.Context, s *tickpool.Scheduler, cfg config) error {
	logger := lg.FromContext(ctx)
	return awaitJobs(ctx, s, cfg.Jobs, func(i int) tickpool.Job {
		delay := time.Duration(rand.Int64N(int64(cfg.MaxDelay) + 1))
		return func(w *tickpool.Worker) {
			logger.Info("job started", lg.Int("job", i), lg.Int("worker", w.ID()), lg.String("delay", delay.String()))
			time.Sleep(delay)
			logger.Info("job complete", lg.Int("job", i))
		}
	})
}

func readOwnerState(ctx context.Context, s *tickpool.Scheduler, cfg config) error {
	logger := lg.FromContext(ctx)
	clock := &frames{}

	// keep the owner-side frame counter moving
	stopClock := make(chan struct{})
	defer close(stopClock)
	go func() {
		t := time.NewTicker(s.Options().TickInterval)
		defer t.Stop()
		for {
			select {
			case <-stopClock:
				return
			case <-t.C:
				s.EnqueueMainThread(func() { clock.n++ })
			}
		}
	}()

	return awaitJobs(ctx, s, cfg.Jobs, func(i int) tickpool.Job {
		return func(w *tickpool.Worker) {
			var frame int
			if err := w.EnqueueMainThreadAndWait(func() { frame = clock.n }); err != nil {
				logger.Warn("owner read skipped", lg.Int("job", i), lg.Any("error", err))
				return
			}
			logger.Info("read owner frame", lg.Int("job", i), lg.Int("frame", frame))
		}
	})
}

func ownerAction(ctx context.Context, s *tickpool.Scheduler, cfg config) error {
	logger := lg.FromContext(ctx)
	action := func(i int) func() {
		return func() {
			if err := s.AssertOwner(); err != nil {
				logger.Warn("owner-only action refused", lg.Int("job", i), lg.Any("error", err))
				return
			}
			logger.Info("owner-only action ran", lg.Int("job", i))
		}
	}

	return awaitJobs(ctx, s, cfg.Jobs, func(i int) tickpool.Job {
		return func(w *tickpool.Worker) {
			// called directly it refuses, redispatched it runs on the owner
			action(i)()
			if !s.OnOwner(action(i)) {
				logger.Info("action redispatched to owner", lg.Int("job", i), lg.Int("worker", w.ID()))
			}
		}
	})
}

func timedHandOff(ctx context.Context, s *tickpool.Scheduler, cfg config) error {
	logger := lg.FromContext(ctx)
	var wg sync.WaitGroup
	for i := range cfg.Jobs {
		name := "build"
		if i%2 == 1 {
			name = "build-large"
		}
		size := 1_000 * (1 + i%2*9)
		wg.Add(1)
		accepted := s.SubmitTimed(name, func(w *tickpool.Worker) {
			buf := make([]float64, 0, size)
			for j := range size {
				buf = append(buf, float64(j)*0.5)
			}
			w.EnqueueMainThread(func() {
				defer wg.Done()
				logger.Info("result applied on owner", lg.String("job", name), lg.Int("values", len(buf)))
			})
		})
		if !accepted {
			wg.Done()
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	return nil
}
