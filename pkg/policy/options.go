package policy

import (
	"github.com/google/uuid"

	"mercator-hq/cadence/pkg/policy/wait"
)

// Option configures a single apply invocation.
type Option func(*options)

type options struct {
	waiter    wait.Strategy
	observers multiObserver
	name      string
	runID     string
}

func newOptions(opts []Option) options {
	o := options{
		waiter: wait.Yield(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	return o
}

// WithWaiter selects how the loop suspends while the gate is closed.
// A nil strategy keeps the default.
func WithWaiter(w wait.Strategy) Option {
	return func(o *options) {
		if w != nil {
			o.waiter = w
		}
	}
}

// WithObserver attaches an observer. Repeated calls accumulate.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithName labels the loop for observers.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}
