package tickpool

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// TimerStat is a read-only snapshot of one job name's rolling average.
type TimerStat struct {
	Name    string
	Average time.Duration
	Samples int
}

// window keeps the most recent samples in a ring.
type window struct {
	samples []time.Duration
	next    int
}

func newWindow(size int) *window {
	return &window{samples: make([]time.Duration, 0, size)}
}

func (w *window) add(d time.Duration) {
	if len(w.samples) < cap(w.samples) {
		w.samples = append(w.samples, d)
		return
	}
	w.samples[w.next] = d
	w.next = (w.next + 1) % len(w.samples)
}

func (w *window) average() time.Duration {
	if len(w.samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range w.samples {
		sum += d
	}
	return sum / time.Duration(len(w.samples))
}

// timerRegistry maps job names to rolling windows. The number of names is
// bounded; the least recently touched one is evicted first.
type timerRegistry struct {
	mu      sync.Mutex
	windows *lru.Cache[string, *window]
	size    int
}

func newTimerRegistry(categories, samples int) (*timerRegistry, error) {
	c, err := lru.New[string, *window](categories)
	if err != nil {
		return nil, fmt.Errorf("tickpool: timer registry: %w", err)
	}
	return &timerRegistry{windows: c, size: samples}, nil
}

// register makes name visible in snapshots before its first sample.
func (r *timerRegistry) register(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.windows.Contains(name) {
		r.windows.Add(name, newWindow(r.size))
	}
}

func (r *timerRegistry) record(name string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows.Get(name)
	if !ok {
		w = newWindow(r.size)
		r.windows.Add(name, w)
	}
	w.add(d)
}

func (r *timerRegistry) snapshot() []TimerStat {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TimerStat, 0, r.windows.Len())
	for _, name := range r.windows.Keys() {
		w, ok := r.windows.Peek(name)
		if !ok {
			continue
		}
		out = append(out, TimerStat{
			Name:    name,
			Average: w.average(),
			Samples: len(w.samples),
		})
	}
	slices.SortFunc(out, func(a, b TimerStat) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// SubmitTimed submits job under name and, when timing is enabled, records
// how long it took. The measurement covers the job body plus every
// callback it queued through Worker.EnqueueMainThread, so a job that hands
// its result to the owner is timed until the hand-off has run.
//
// With timing disabled SubmitTimed is equivalent to Submit.
func (s *Scheduler) SubmitTimed(name string, job Job) bool {
	if job == nil {
		return false
	}
	if s.timers == nil {
		return s.submit(newTask(job, name), false)
	}

	timers := s.timers
	timed := func(w *Worker) {
		start := time.Now()
		job(w)
		w.awaitTracked()
		timers.record(name, time.Since(start))
	}
	timers.register(name)
	return s.submit(newTask(timed, name), false)
}

// TimerStats returns the rolling average per job name, sorted by name.
// It returns nil when timing is disabled.
func (s *Scheduler) TimerStats() []TimerStat {
	if s.timers == nil {
		return nil
	}
	return s.timers.snapshot()
}
