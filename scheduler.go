package tickpool

import (
	"context"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
)

// State is the lifecycle stage of a Scheduler.
//
//	StateUninitialized → StateRunning   [Initialize]
//	StateRunning       → StateStopping  [Shutdown]
//	StateStopping      → StateStopped   [all workers exited]
//
// StateStopping and StateStopped are terminal for the purpose of
// accepting work: nothing is queued or executed once stop is requested.
type State int32

const (
	StateUninitialized State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (st State) String() string {
	switch st {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Scheduler owns the worker pool, the shared job queue and the
// main-thread queue.
//
// A process normally holds a single Scheduler, created at start-up and
// passed to whatever needs it; independent instances are fine for tests.
// The goroutine that calls Initialize becomes the owner and must be the
// one calling Tick.
type Scheduler struct {
	opts Options

	jobs   *fifoQueue
	main   *mainQueue
	timers *timerRegistry // nil unless Options.Timing

	initMu  sync.Mutex
	workers []*Worker // written once under initMu before state leaves uninitialized

	owner atomic.Uint64
	state atomic.Int32

	stopCh    chan struct{}
	stoppedCh chan struct{} // closed once every worker has exited
	stopOnce  sync.Once
	wg       sync.WaitGroup
}

// New creates an uninitialized scheduler. No goroutines are started
// until Initialize.
func New(opts Options) (*Scheduler, error) {
	if err := opts.FillDefaults(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		opts:   opts,
		jobs:   newFifoQueue(opts.QueueCapacity),
		main:   newMainQueue(),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	if opts.Timing {
		timers, err := newTimerRegistry(opts.TimingCategories, opts.TimingWindow)
		if err != nil {
			return nil, err
		}
		s.timers = timers
	}
	return s, nil
}

// Initialize starts workers goroutines and records the calling goroutine
// as the owner.
//
// A second call on a running scheduler is a no-op whatever workers is. A
// stopped scheduler cannot be re-initialized and returns ErrStopped.
func (s *Scheduler) Initialize(workers int) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	switch s.State() {
	case StateRunning:
		return nil
	case StateStopping, StateStopped:
		return ErrStopped
	}
	if workers <= 0 {
		return ErrInvalidWorkers
	}

	s.workers = make([]*Worker, workers)
	for i := range s.workers {
		s.workers[i] = newWorker(i, s)
	}
	s.owner.Store(goroutineID())
	s.state.Store(int32(StateRunning))

	for _, w := range s.workers {
		s.wg.Add(1)
		go w.loop()
	}

	lg.FromContext(s.opts.Context).Info("scheduler initialized",
		lg.Int("workers", workers),
		lg.Any("pinned", s.opts.PinWorkers),
	)
	return nil
}

// State reports the current lifecycle stage.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Options returns the options after defaults were applied.
func (s *Scheduler) Options() Options { return s.opts }

func (s *Scheduler) stopRequested() bool {
	return s.State() >= StateStopping
}

// Tick runs one scheduling pass. It must be called periodically from the
// owner goroutine and never blocks on workers.
//
// First every main-thread callback queued before the call is run, in
// order, on the calling goroutine; if a callback stops the scheduler the
// rest of the batch is dropped. Then idle workers are visited in index
// order and each receives one job from the queue; the scan ends as soon
// as the queue is empty.
func (s *Scheduler) Tick() {
	if s.State() != StateRunning {
		return
	}

	batch := s.main.DrainAll()
	for i, cb := range batch {
		if s.stopRequested() {
			for range batch[i:] {
				s.opts.Metrics.IncDropped()
			}
			return
		}
		s.runCallback(cb)
	}

	for _, w := range s.workers {
		if w.busy() {
			continue
		}
		t, ok := s.jobs.Pop()
		if !ok {
			break
		}
		w.assign(t)
	}
}

func (s *Scheduler) runCallback(cb func()) {
	defer func() {
		if r := recover(); r != nil {
			s.reportCallbackFault(newPanicError(r))
		}
	}()
	s.opts.Metrics.IncCallback()
	cb()
}

// Submit appends a job to the shared queue. It reports false if job is
// nil or the scheduler has been shut down, in which case the job is
// dropped.
func (s *Scheduler) Submit(job Job) bool {
	return s.submit(newTask(job, ""), false)
}

// SubmitPriority places a job ahead of every job still waiting.
func (s *Scheduler) SubmitPriority(job Job) bool {
	return s.submit(newTask(job, ""), true)
}

func (s *Scheduler) submit(t *task, front bool) bool {
	if t.fn == nil {
		return false
	}
	if s.stopRequested() {
		s.opts.Metrics.IncDropped()
		return false
	}

	var ok bool
	if front {
		ok = s.jobs.PushFront(t)
	} else {
		ok = s.jobs.Push(t)
	}
	if !ok {
		s.opts.Metrics.IncDropped()
		return false
	}
	s.opts.Metrics.IncSubmitted()
	return true
}

// EnqueueMainThread queues cb to run on the owner goroutine during the
// next Tick. It reports false once the scheduler has been shut down.
func (s *Scheduler) EnqueueMainThread(cb func()) bool {
	if cb == nil {
		return false
	}
	if s.stopRequested() || !s.main.Push(cb) {
		s.opts.Metrics.IncDropped()
		return false
	}
	return true
}

// EnqueueMainThreadAndWait queues cb for the owner goroutine and blocks
// until it has run. A panic inside cb is returned as a *PanicError.
//
// If the scheduler stops before cb runs, the call returns ErrStopped
// instead of waiting forever; a later Tick drops cb rather than running
// it. Shutdown from another goroutine can still race with a Tick that is
// already running cb, so ErrStopped alone does not prove cb never ran.
//
// It must not be called from the owner goroutine: the owner only drains
// the queue inside Tick, so it would wait on itself and deadlock.
func (s *Scheduler) EnqueueMainThreadAndWait(cb func()) error {
	if cb == nil {
		return nil
	}
	if s.stopRequested() {
		s.opts.Metrics.IncDropped()
		return ErrStopped
	}

	done := make(chan struct{})
	var cbErr error
	wrapped := func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				cbErr = newPanicError(r)
				s.reportCallbackFault(cbErr)
			}
		}()
		cb()
	}
	if !s.main.Push(wrapped) {
		s.opts.Metrics.IncDropped()
		return ErrStopped
	}

	select {
	case <-done:
		return cbErr
	case <-s.stopCh:
		select {
		case <-done:
			return cbErr
		default:
			return ErrStopped
		}
	}
}

// IsOwnerThread reports whether the caller is the goroutine that
// initialized the scheduler.
func (s *Scheduler) IsOwnerThread() bool {
	owner := s.owner.Load()
	return owner != 0 && goroutineID() == owner
}

// AssertOwner returns ErrNotOwner when called off the owner goroutine.
func (s *Scheduler) AssertOwner() error {
	if s.State() == StateUninitialized {
		return ErrNotInitialized
	}
	if !s.IsOwnerThread() {
		return ErrNotOwner
	}
	return nil
}

// OnOwner runs fn immediately when called on the owner goroutine and
// reports true. Anywhere else fn is queued with EnqueueMainThread and
// OnOwner returns false without waiting.
func (s *Scheduler) OnOwner(fn func()) bool {
	if s.IsOwnerThread() {
		fn()
		return true
	}
	s.EnqueueMainThread(fn)
	return false
}

// Shutdown stops accepting work, drops everything still queued and waits
// for the workers to exit. A job that is already running is allowed to
// finish; it is never interrupted.
//
// Shutdown is safe to call more than once. If ctx ends first, ctx.Err()
// is returned and the workers keep winding down in the background.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.initMu.Lock()
		s.state.Store(int32(StateStopping))
		s.initMu.Unlock()

		s.jobs.Close()
		s.main.Close()
		close(s.stopCh) // wakes every idle worker

		go func() {
			s.wg.Wait()
			s.state.CompareAndSwap(int32(StateStopping), int32(StateStopped))
			close(s.stoppedCh)
		}()

		lg.FromContext(s.opts.Context).Info("scheduler stopping")
	})

	select {
	case <-s.stoppedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop shuts down and waits for every worker without a deadline.
func (s *Scheduler) Stop() { _ = s.Shutdown(context.Background()) }

// Workers returns the pool size, or zero before Initialize.
func (s *Scheduler) Workers() int {
	if s.State() == StateUninitialized {
		return 0
	}
	return len(s.workers)
}

// PendingJobs returns the number of jobs waiting for a worker.
func (s *Scheduler) PendingJobs() int { return s.jobs.Len() }

// PendingCallbacks returns the number of callbacks waiting for Tick.
func (s *Scheduler) PendingCallbacks() int { return s.main.Len() }

// BusyWorkers returns the number of workers holding an assigned job.
func (s *Scheduler) BusyWorkers() int {
	if s.State() == StateUninitialized {
		return 0
	}
	n := 0
	for _, w := range s.workers {
		if w.busy() {
			n++
		}
	}
	return n
}
