package tickpool

import (
	"time"
)

const (
	defaultBackoffInitial = 200 * time.Microsecond
	defaultBackoffMax     = 20 * time.Millisecond
)

// BackoffPolicy describes how long Drain sleeps between ticks while
// work is still outstanding. Zero values are treated as "use defaults".
type BackoffPolicy struct {
	// Initial is the first pause.
	Initial time.Duration

	// Max is the cap for the pause.
	Max time.Duration
}

// DefaultBackoff returns the policy used when none is configured.
func DefaultBackoff() BackoffPolicy {
	return BackoffPolicy{
		Initial: defaultBackoffInitial,
		Max:     defaultBackoffMax,
	}
}

func (p *BackoffPolicy) fillDefaults() {
	if p.Initial <= 0 {
		p.Initial = defaultBackoffInitial
	}
	if p.Max <= 0 {
		p.Max = defaultBackoffMax
	}
	if p.Max < p.Initial {
		p.Max = p.Initial
	}
}
