// Package tickpool runs background jobs on a fixed pool of workers and
// funnels work that must happen on one designated goroutine back to it
// through a queue drained once per tick.
//
// Design goals
//
// The package targets hosts that already own a periodic loop (a game
// frame, a render tick, a UI event pump) and hold state that only that
// loop may touch:
//
//   - Heavy work leaves the loop and runs on persistent workers
//   - Results come back to the loop without locks around loop-owned state
//   - A single faulty job never takes the pool down
//   - The loop itself never blocks on workers
//
// Architecture overview
//
//  1. Job queue
//     A mutex-guarded FIFO. Submit appends, SubmitPriority jumps the line.
//
//  2. Workers
//     Each worker owns a small inbox and a wake signal. Idle workers sleep
//     on the signal; they do not poll.
//
//  3. Main-thread queue
//     Callbacks queued from anywhere with EnqueueMainThread. Tick drains the
//     whole batch and runs it on the owner goroutine.
//
//  4. Scheduler
//     Tick first runs the drained callbacks, then hands one job to each idle
//     worker in index order until the job queue is empty.
//
// Owner goroutine
//
// The goroutine that calls Initialize becomes the owner. Tick, Drain and
// any code guarded by AssertOwner must run there. IsOwnerThread compares
// goroutine identities; OnOwner either runs a function in place or
// redispatches it through the main-thread queue.
//
// EnqueueMainThreadAndWait blocks until the callback has run on the
// owner. Calling it from the owner itself deadlocks; this is a caller
// contract and is not checked.
//
// Error handling
//
// Panics inside jobs are recovered at the worker loop, logged through
// zlog and reported to Options.OnJobFault; the job is discarded and the
// worker continues. A job that calls runtime.Goexit is reported the same
// way with ErrJobExited and its slot gets a fresh goroutine. Panics inside main-thread callbacks are recovered per
// callback so the rest of the batch still runs. Nothing is propagated to
// the submitter: a job that needs to report failure enqueues a
// main-thread callback carrying the outcome.
//
// Shutdown
//
// Shutdown is cooperative. It rejects new work, drops everything still
// queued, wakes every worker and waits for them to exit. A job that is
// already running finishes; it is never interrupted. Submissions after
// Shutdown are silently dropped. A stopped scheduler cannot be
// re-initialized.
//
// Instrumentation
//
// PendingJobs, PendingCallbacks and BusyWorkers are cheap snapshots.
// With Options.Timing, SubmitTimed keeps a rolling average of the last
// Options.TimingWindow durations per job name, readable through
// TimerStats and exportable with RegisterMetrics.
package tickpool
