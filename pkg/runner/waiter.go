package runner

import (
	"fmt"

	"mercator-hq/cadence/pkg/config"
	"mercator-hq/cadence/pkg/policy/wait"
)

// NewWaiter builds the wait strategy described by cfg. A positive MaxWait
// bounds every gate wait.
func NewWaiter(cfg config.WaitConfig) (wait.Strategy, error) {
	var s wait.Strategy
	switch cfg.Strategy {
	case "", "yield":
		s = wait.Yield()
	case "spin":
		s = wait.Spin()
	case "sleep":
		interval := cfg.Interval
		if interval <= 0 {
			interval = config.DefaultWaitInterval
		}
		s = wait.Sleep(interval)
	default:
		return nil, fmt.Errorf("unknown wait strategy %q", cfg.Strategy)
	}

	if cfg.MaxWait > 0 {
		s = wait.Bounded(s, cfg.MaxWait)
	}
	return s, nil
}
