package tickpool_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	tp "github.com/Andrej220/go-utils/tickpool"
)

func newTestMeterProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
	)
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func int64Gauge(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()

	g, ok := data.(metricdata.Gauge[int64])
	require.True(t, ok, "unexpected aggregation %T", data)
	require.Len(t, g.DataPoints, 1)
	return g.DataPoints[0].Value
}

func TestRegisterMetrics_QueueGauges(t *testing.T) {
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	s, err := tp.New(tp.Options{})
	require.NoError(t, err)
	defer s.Stop()

	reg, err := s.RegisterMetrics(mp)
	require.NoError(t, err)
	defer func() { _ = reg.Unregister() }()

	for range 3 {
		s.Submit(func(*tp.Worker) {})
	}
	s.EnqueueMainThread(func() {})

	got := collect(t, reader)
	assert.Equal(t, int64(3), int64Gauge(t, got["tickpool.jobs.pending"]))
	assert.Equal(t, int64(1), int64Gauge(t, got["tickpool.callbacks.pending"]))
	assert.Equal(t, int64(0), int64Gauge(t, got["tickpool.workers.busy"]))
	assert.Equal(t, int64(0), int64Gauge(t, got["tickpool.workers"]))
}

func TestRegisterMetrics_TimerAverages(t *testing.T) {
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	s, err := tp.New(tp.Options{Timing: true})
	require.NoError(t, err)
	defer s.Stop()

	reg, err := s.RegisterMetrics(mp)
	require.NoError(t, err)
	defer func() { _ = reg.Unregister() }()

	s.SubmitTimed("chunk", func(*tp.Worker) {})

	got := collect(t, reader)
	g, ok := got["tickpool.job.duration.average"].(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, g.DataPoints, 1)

	name, ok := g.DataPoints[0].Attributes.Value(attribute.Key("job"))
	require.True(t, ok)
	assert.Equal(t, "chunk", name.AsString())
	assert.Zero(t, g.DataPoints[0].Value)
}
