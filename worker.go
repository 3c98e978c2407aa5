package tickpool

import (
	"runtime"
	"slices"
	"sync"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Worker is one persistent background goroutine plus its inbox.
//
// The scheduler places at most one task in the inbox per tick, but the
// inbox is a slice so a transient double assignment is still executed
// rather than lost. A task stays in the inbox until it has finished, which
// is what keeps the worker "busy" in the eyes of Tick.
//
// A *Worker is handed to every job it runs. Jobs use it to reach the
// scheduler, to enqueue main-thread callbacks that timed jobs wait on, and
// as the key for per-worker locals.
type Worker struct {
	id int
	s  *Scheduler

	mu    sync.Mutex
	inbox []*task
	waits []<-chan struct{}

	// wake has capacity 1 and behaves like an auto-reset event:
	// repeated signals before the worker looks collapse into one.
	wake chan struct{}
}

func newWorker(id int, s *Scheduler) *Worker {
	return &Worker{
		id:   id,
		s:    s,
		wake: make(chan struct{}, 1),
	}
}

// ID returns the worker's index in the pool.
func (w *Worker) ID() int { return w.id }

// Scheduler returns the scheduler that owns the worker.
func (w *Worker) Scheduler() *Scheduler { return w.s }

// Submit enqueues a follow-up job on the shared queue.
func (w *Worker) Submit(job Job) bool { return w.s.Submit(job) }

// SubmitPriority enqueues a follow-up job ahead of everything waiting.
func (w *Worker) SubmitPriority(job Job) bool { return w.s.SubmitPriority(job) }

// EnqueueMainThread queues cb for the owner goroutine without waiting.
//
// Unlike Scheduler.EnqueueMainThread, the callback is tracked for the
// duration of the current job: a job started with SubmitTimed is only
// considered finished once every tracked callback has run.
// It must be called from the job's own goroutine.
func (w *Worker) EnqueueMainThread(cb func()) bool {
	if cb == nil {
		return false
	}
	done := make(chan struct{})
	ok := w.s.EnqueueMainThread(func() {
		defer close(done)
		cb()
	})
	if ok {
		w.mu.Lock()
		w.waits = append(w.waits, done)
		w.mu.Unlock()
	}
	return ok
}

// EnqueueMainThreadAndWait runs cb on the owner goroutine and blocks
// until it has run. See Scheduler.EnqueueMainThreadAndWait.
func (w *Worker) EnqueueMainThreadAndWait(cb func()) error {
	return w.s.EnqueueMainThreadAndWait(cb)
}

func (w *Worker) busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.inbox) > 0
}

// assign places t in the inbox and wakes the worker.
func (w *Worker) assign(t *task) {
	w.mu.Lock()
	w.inbox = append(w.inbox, t)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// next returns the inbox head without removing it.
func (w *Worker) next() (*task, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.inbox) == 0 {
		return nil, false
	}
	return w.inbox[0], true
}

// remove drops t from the inbox once it has finished.
func (w *Worker) remove(t *task) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := slices.Index(w.inbox, t); i >= 0 {
		w.inbox = slices.Delete(w.inbox, i, i+1)
	}
}

// loop is the worker goroutine. It sleeps on the wake channel while idle
// and exits once stop is requested, letting an in-flight job finish first.
//
// A job that calls runtime.Goexit takes the goroutine down with it; the
// slot is then served by a fresh goroutine unless stop was requested.
func (w *Worker) loop() {
	clean := false
	defer w.s.wg.Done()
	defer func() {
		if clean || w.s.stopRequested() {
			return
		}
		lg.FromContext(w.s.opts.Context).Warn("worker restarted", lg.Int("worker", w.id))
		w.s.wg.Add(1)
		go w.loop()
	}()

	w.serve()
	clean = true
}

func (w *Worker) serve() {
	if w.s.opts.PinWorkers {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := PinToCPU(w.id % runtime.NumCPU()); err != nil {
			lg.FromContext(w.s.opts.Context).Warn("worker pinning failed",
				lg.Int("worker", w.id),
				lg.Any("error", err),
			)
		}
	}

	for {
		if w.s.stopRequested() {
			return
		}
		t, ok := w.next()
		if !ok {
			select {
			case <-w.wake:
			case <-w.s.stopCh:
				return
			}
			continue
		}
		w.run(t)
	}
}

// run executes a single task and takes it out of the inbox. A panic or
// runtime.Goexit is reported here; a panic never escapes the worker.
func (w *Worker) run(t *task) {
	w.mu.Lock()
	w.waits = w.waits[:0]
	w.mu.Unlock()

	returned := false
	defer func() {
		var err error
		if r := recover(); r != nil {
			err = newPanicError(r)
		} else if !returned {
			err = ErrJobExited
		}
		if err != nil {
			w.s.reportJobFault(JobFault{
				WorkerID: w.id,
				Job:      t.label(),
				Err:      err,
			})
		}
		w.s.opts.Metrics.IncExecuted()
		w.remove(t)
	}()
	t.fn(w)
	returned = true
}

// awaitTracked blocks until every callback enqueued through
// w.EnqueueMainThread during the current job has run, or the scheduler
// stops.
func (w *Worker) awaitTracked() {
	w.mu.Lock()
	waits := slices.Clone(w.waits)
	w.mu.Unlock()

	for _, done := range waits {
		select {
		case <-done:
		case <-w.s.stopCh:
			return
		}
	}
}
