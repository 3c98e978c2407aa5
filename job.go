package tickpool

// Job is a unit of background work. It receives the worker executing it,
// which it may use to enqueue main-thread callbacks or further jobs.
type Job func(w *Worker)

// task is the queued form of a Job. Tasks are compared by pointer when a
// worker clears its inbox, since funcs are not comparable.
type task struct {
	fn   Job
	name string
}

func newTask(fn Job, name string) *task {
	return &task{fn: fn, name: name}
}

func (t *task) label() string {
	if t.name == "" {
		return "anonymous"
	}
	return t.name
}
