package policies

import "mercator-hq/cadence/pkg/clock"

// Option configures a clock-driven policy.
type Option func(*settings)

type settings struct {
	clock clock.Clock
}

func newSettings(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.clock == nil {
		s.clock = clock.NewStopwatch()
	}
	return s
}

// WithClock replaces the default monotonic stopwatch.
func WithClock(c clock.Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}
