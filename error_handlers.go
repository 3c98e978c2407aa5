package tickpool

import (
	lg "github.com/Andrej220/go-utils/zlog"
)

// reportJobFault logs a failed job and forwards it to OnJobFault.
//
// Job faults never stop the slot. The hook runs on the worker
// goroutine, so it must not block for long.
func (s *Scheduler) reportJobFault(f JobFault) {
	s.opts.Metrics.IncJobFault()
	lg.FromContext(s.opts.Context).Error("job failed",
		lg.Int("worker", f.WorkerID),
		lg.String("job", f.Job),
		lg.Any("error", f.Err),
	)
	if s.opts.OnJobFault != nil {
		s.opts.OnJobFault(f)
	}
}

// reportCallbackFault logs a panicking main-thread callback and
// forwards it to OnCallbackFault. The rest of the batch still runs.
func (s *Scheduler) reportCallbackFault(err error) {
	s.opts.Metrics.IncCallbackFault()
	lg.FromContext(s.opts.Context).Error("main-thread callback panicked", lg.Any("error", err))
	if s.opts.OnCallbackFault != nil {
		s.opts.OnCallbackFault(err)
	}
}
