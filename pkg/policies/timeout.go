package policies

import (
	"time"

	"mercator-hq/cadence/pkg/clock"
	"mercator-hq/cadence/pkg/policy"
)

// Timeout completes once the configured duration has elapsed since the
// loop started. The output, if any, is ignored.
//
// Timeout never gates and keeps no per-iteration state: the clock is reset
// by Initialize and read once per completion check. The number of clock
// reads during an apply therefore equals the number of completion checks the
// loop performs.
type Timeout struct {
	policy.Base

	timeout time.Duration
	clock   clock.Clock
}

// NewTimeout creates a Timeout policy bounded at d.
func NewTimeout(d time.Duration, opts ...Option) *Timeout {
	return &Timeout{
		timeout: d,
		clock:   newSettings(opts).clock,
	}
}

// Timeout returns the configured bound.
func (t *Timeout) Timeout() time.Duration {
	return t.timeout
}

// Initialize restarts the clock.
func (t *Timeout) Initialize() {
	t.clock.Reset()
}

// Completed reports whether the bound has elapsed.
func (t *Timeout) Completed(policy.Value) bool {
	return t.timeout <= t.clock.Elapsed()
}
