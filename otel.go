package tickpool

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	instrumentationName = "github.com/Andrej220/go-utils/tickpool"

	metricJobsPending      = "tickpool.jobs.pending"
	metricCallbacksPending = "tickpool.callbacks.pending"
	metricWorkersBusy      = "tickpool.workers.busy"
	metricWorkers          = "tickpool.workers"
	metricJobDurationAvg   = "tickpool.job.duration.average"
)

// RegisterMetrics exposes the scheduler's queue depths, worker usage and
// per-name rolling averages as OpenTelemetry observable gauges.
//
// The values are read on collection; nothing is recorded on the hot
// path. Unregister the returned registration when the scheduler is
// discarded.
func (s *Scheduler) RegisterMetrics(mp metric.MeterProvider) (metric.Registration, error) {
	meter := mp.Meter(instrumentationName)

	pending, err := meter.Int64ObservableGauge(metricJobsPending,
		metric.WithDescription("jobs waiting for a worker"),
		metric.WithUnit("{job}"),
	)
	if err != nil {
		return nil, fmt.Errorf("tickpool: create %s gauge: %w", metricJobsPending, err)
	}
	callbacks, err := meter.Int64ObservableGauge(metricCallbacksPending,
		metric.WithDescription("main-thread callbacks waiting for the next tick"),
		metric.WithUnit("{callback}"),
	)
	if err != nil {
		return nil, fmt.Errorf("tickpool: create %s gauge: %w", metricCallbacksPending, err)
	}
	busy, err := meter.Int64ObservableGauge(metricWorkersBusy,
		metric.WithDescription("workers holding an assigned job"),
		metric.WithUnit("{worker}"),
	)
	if err != nil {
		return nil, fmt.Errorf("tickpool: create %s gauge: %w", metricWorkersBusy, err)
	}
	workers, err := meter.Int64ObservableGauge(metricWorkers,
		metric.WithDescription("size of the worker pool"),
		metric.WithUnit("{worker}"),
	)
	if err != nil {
		return nil, fmt.Errorf("tickpool: create %s gauge: %w", metricWorkers, err)
	}
	avg, err := meter.Float64ObservableGauge(metricJobDurationAvg,
		metric.WithDescription("rolling average duration of timed jobs"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("tickpool: create %s gauge: %w", metricJobDurationAvg, err)
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(pending, int64(s.PendingJobs()))
		o.ObserveInt64(callbacks, int64(s.PendingCallbacks()))
		o.ObserveInt64(busy, int64(s.BusyWorkers()))
		o.ObserveInt64(workers, int64(s.Workers()))
		for _, st := range s.TimerStats() {
			o.ObserveFloat64(avg, st.Average.Seconds(),
				metric.WithAttributes(attribute.String("job", st.Name)))
		}
		return nil
	}, pending, callbacks, busy, workers, avg)
	if err != nil {
		return nil, fmt.Errorf("tickpool: register metrics callback: %w", err)
	}
	return reg, nil
}
