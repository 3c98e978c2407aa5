package tickpool

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// cachePad is used to prevent false sharing between hot fields.
type cachePad = cpu.CacheLinePad

// MetricsPolicy defines hooks used by the scheduler to report
// queueing and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {
	// IncSubmitted counts a job accepted into the job queue.
	IncSubmitted()

	// IncDropped counts a job or callback rejected after shutdown.
	IncDropped()

	// IncExecuted counts a job that finished on a worker, faulted or not.
	IncExecuted()

	// IncJobFault counts a job that panicked.
	IncJobFault()

	// IncCallback counts a main-thread callback run by Tick.
	IncCallback()

	// IncCallbackFault counts a main-thread callback that panicked.
	IncCallbackFault()
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are on worker and producer hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	submitted atomic.Uint64
	dropped   atomic.Uint64
	_         cachePad

	executed  atomic.Uint64
	jobFaults atomic.Uint64
	_         cachePad

	callbacks      atomic.Uint64
	callbackFaults atomic.Uint64
}

func (m *AtomicMetrics) IncSubmitted()     { m.submitted.Add(1) }
func (m *AtomicMetrics) IncDropped()       { m.dropped.Add(1) }
func (m *AtomicMetrics) IncExecuted()      { m.executed.Add(1) }
func (m *AtomicMetrics) IncJobFault()      { m.jobFaults.Add(1) }
func (m *AtomicMetrics) IncCallback()      { m.callbacks.Add(1) }
func (m *AtomicMetrics) IncCallbackFault() { m.callbackFaults.Add(1) }

// Submitted returns the total number of accepted jobs.
func (m *AtomicMetrics) Submitted() uint64 { return m.submitted.Load() }

// Dropped returns the number of jobs and callbacks rejected after shutdown.
func (m *AtomicMetrics) Dropped() uint64 { return m.dropped.Load() }

// Executed returns the total number of jobs run by workers.
func (m *AtomicMetrics) Executed() uint64 { return m.executed.Load() }

// JobFaults returns the number of jobs that panicked.
func (m *AtomicMetrics) JobFaults() uint64 { return m.jobFaults.Load() }

// Callbacks returns the number of main-thread callbacks run.
func (m *AtomicMetrics) Callbacks() uint64 { return m.callbacks.Load() }

// CallbackFaults returns the number of main-thread callbacks that panicked.
func (m *AtomicMetrics) CallbackFaults() uint64 { return m.callbackFaults.Load() }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted()     {}
func (m *NoopMetrics) IncDropped()       {}
func (m *NoopMetrics) IncExecuted()      {}
func (m *NoopMetrics) IncJobFault()      {}
func (m *NoopMetrics) IncCallback()      {}
func (m *NoopMetrics) IncCallbackFault() {}
