package tickpool

import (
	"context"
	"fmt"
	"time"

	"github.com/creasty/defaults"
)

const (
	DefaultWorkers          = 16
	DefaultTickInterval     = 16 * time.Millisecond
	DefaultTimingWindow     = 10
	DefaultTimingCategories = 256
)

// Options configure a Scheduler.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Workers is the pool size used by Run. Initialize takes its own count.
	Workers int `default:"16"`

	// TickInterval is the period between ticks when the scheduler drives
	// itself through Run.
	TickInterval time.Duration `default:"16ms"`

	// QueueCapacity is the initial capacity of the shared job queue.
	// The queue grows on demand.
	QueueCapacity int `default:"64"`

	// PinWorkers locks every worker to an OS thread and, on Linux,
	// pins it to CPU (id % NumCPU).
	PinWorkers bool

	// Timing enables per-name latency tracking for SubmitTimed.
	Timing bool

	// TimingWindow is the number of samples averaged per job name.
	TimingWindow int `default:"10"`

	// TimingCategories bounds how many job names are tracked at once.
	// The least recently used name is evicted first.
	TimingCategories int `default:"256"`

	// DrainBackoff paces the ticks issued by Drain.
	DrainBackoff BackoffPolicy

	// Context carries the zlog logger used by the scheduler.
	Context context.Context

	// Metrics receives counters for submitted, executed and faulted work.
	Metrics MetricsPolicy

	// OnJobFault is called on the worker goroutine after a job panics or
	// calls runtime.Goexit.
	OnJobFault func(JobFault)

	// OnCallbackFault is called on the owner goroutine after a
	// main-thread callback panics.
	OnCallbackFault func(error)
}

// FillDefaults replaces zero and out-of-range values with defaults.
func (o *Options) FillDefaults() error {
	if err := defaults.Set(o); err != nil {
		return fmt.Errorf("tickpool: apply option defaults: %w", err)
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = initialFifoCapacity
	}
	if o.TimingWindow <= 0 {
		o.TimingWindow = DefaultTimingWindow
	}
	if o.TimingCategories <= 0 {
		o.TimingCategories = DefaultTimingCategories
	}
	o.DrainBackoff.fillDefaults()
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
	return nil
}
