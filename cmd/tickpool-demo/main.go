// Command tickpool-demo drives a tickpool.Scheduler from a fixed-rate owner
// loop and runs one of a few example workloads against it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/Andrej220/go-utils/tickpool"
)

type config struct {
	Workers  int
	Tick     time.Duration
	Jobs     int
	MaxDelay time.Duration
	Example  string
	Timing   bool
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "tickpool-demo",
		Short: "Run example workloads on a tick-driven worker pool",
		Long: "Starts a scheduler whose owner loop ticks at a fixed rate and runs one example:\n" +
			"  dummy        jobs that sleep for a random time\n" +
			"  main-read    jobs that read owner-only state with EnqueueMainThreadAndWait\n" +
			"  main-action  jobs that redispatch owner-only work with OnOwner\n" +
			"  timed        timed jobs handing results back to the owner\n\n" +
			"Every flag can also be set as TICKPOOL_<FLAG>, e.g. TICKPOOL_MAX_DELAY=500ms.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config{
				Workers:  v.GetInt("workers"),
				Tick:     v.GetDuration("tick"),
				Jobs:     v.GetInt("jobs"),
				MaxDelay: v.GetDuration("max-delay"),
				Example:  v.GetString("example"),
				Timing:   v.GetBool("timing"),
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.Int("workers", tickpool.DefaultWorkers, "number of worker goroutines")
	flags.Duration("tick", tickpool.DefaultTickInterval, "owner loop tick interval")
	flags.Int("jobs", 20, "number of jobs to submit")
	flags.Duration("max-delay", 2*time.Second, "upper bound for simulated job work")
	flags.String("example", "dummy", "example to run: dummy, main-read, main-action, timed")
	flags.Bool("timing", false, "track per-job rolling averages")

	v.SetEnvPrefix("TICKPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	return cmd
}

func run(parent context.Context, cfg config) error {
	example, ok := examples[cfg.Example]
	if !ok {
		return fmt.Errorf("unknown example %q", cfg.Example)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := tickpool.New(tickpool.Options{
		Workers:      cfg.Workers,
		TickInterval: cfg.Tick,
		Timing:       cfg.Timing || cfg.Example == "timed",
		Context:      ctx,
	})
	if err != nil {
		return err
	}

	runCtx, finish := context.WithCancel(ctx)
	defer finish()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		// this goroutine becomes the owner
		return s.Run(gctx)
	})
	g.Go(func() error {
		defer finish()
		if err := waitRunning(gctx, s); err != nil {
			return nil
		}
		return example(gctx, s, cfg)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logger := lg.FromContext(ctx)
	for _, st := range s.TimerStats() {
		logger.Info("job timing",
			lg.String("job", st.Name),
			lg.String("average", st.Average.String()),
			lg.Int("samples", st.Samples),
		)
	}
	return nil
}

func waitRunning(ctx context.Context, s *tickpool.Scheduler) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for s.State() != tickpool.StateRunning {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
