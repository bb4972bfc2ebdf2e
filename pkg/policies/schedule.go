package policies

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"mercator-hq/cadence/pkg/clock"
	"mercator-hq/cadence/pkg/policy"
)

// Schedule gates iterations on a cron schedule: each iteration waits until
// the next fire time after the previous iteration (or after the loop
// started). Wall time is read through clock.Now.
//
// Schedule never completes, and binds only through policy.All (gate: all in
// a chain config). Use a wait strategy that sleeps, such as
// wait.Sleep, since fire times are usually minutes apart.
//
// Common cron expressions:
//   - "*/5 * * * *"  - Every 5 minutes
//   - "0 * * * *"    - Hourly
//   - "@every 30s"   - Every 30 seconds
type Schedule struct {
	policy.Base

	spec     string
	schedule cron.Schedule
	next     time.Time
}

// NewSchedule creates a Schedule policy from a standard five-field cron
// expression or descriptor.
func NewSchedule(spec string) (*Schedule, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return &Schedule{
		spec:     spec,
		schedule: sched,
	}, nil
}

// Spec returns the cron expression.
func (s *Schedule) Spec() string {
	return s.spec
}

// Next returns the instant the gate opens.
func (s *Schedule) Next() time.Time {
	return s.next
}

// Initialize computes the first fire time.
func (s *Schedule) Initialize() {
	s.next = s.schedule.Next(clock.Now())
}

// ShouldApply reports whether the fire time has passed.
func (s *Schedule) ShouldApply(policy.Value) bool {
	return !clock.Now().Before(s.next)
}

// Mutate computes the next fire time.
func (s *Schedule) Mutate() {
	s.next = s.schedule.Next(clock.Now())
}
