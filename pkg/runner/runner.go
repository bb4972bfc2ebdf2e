package runner

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/cadence/pkg/config"
	"mercator-hq/cadence/pkg/history"
	"mercator-hq/cadence/pkg/policies"
	"mercator-hq/cadence/pkg/policy"
	"mercator-hq/cadence/pkg/policy/wait"
	"mercator-hq/cadence/pkg/telemetry/logging"
	"mercator-hq/cadence/pkg/telemetry/metrics"
	"mercator-hq/cadence/pkg/telemetry/tracing"
)

// ErrUnknownChain is returned for chain names missing from the config.
var ErrUnknownChain = errors.New("unknown chain")

// Runner runs loops under the chains of a config.
//
// # Thread Safety
//
// Runner is safe for concurrent use. Every loop gets its own policy
// instances, so concurrent loops over the same chain do not share state.
type Runner struct {
	config     *config.Config
	registry   *policies.Registry
	policyOpts []policies.Option
	waiter     wait.Strategy
	logger     *slog.Logger
	observer   policy.Observer

	metrics   *metrics.Collector
	tracer    *tracing.Tracer
	store     history.Store
	ownsStore bool
	scheduler *history.Scheduler
}

// Option customizes a Runner.
type Option func(*options)

type options struct {
	registry     *policies.Registry
	policyOpts   []policies.Option
	logger       *slog.Logger
	promRegistry *prometheus.Registry
	tracingOpts  []tracing.Option
	store        history.Store
	observers    []policy.Observer
}

// WithRegistry builds chains with r instead of policies.DefaultRegistry.
func WithRegistry(r *policies.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithPolicyOptions passes opts to every policy factory.
func WithPolicyOptions(opts ...policies.Option) Option {
	return func(o *options) { o.policyOpts = append(o.policyOpts, opts...) }
}

// WithLogger sets the logger used for loop logs (default slog.Default).
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPrometheusRegistry registers loop metrics with reg.
func WithPrometheusRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.promRegistry = reg }
}

// WithTracingOptions passes opts to tracing.New.
func WithTracingOptions(opts ...tracing.Option) Option {
	return func(o *options) { o.tracingOpts = append(o.tracingOpts, opts...) }
}

// WithHistoryStore records runs into store regardless of the history
// config. The caller keeps ownership of store.
func WithHistoryStore(store history.Store) Option {
	return func(o *options) { o.store = store }
}

// WithObserver adds an observer notified after the built-in ones.
func WithObserver(obs policy.Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// New assembles a Runner from cfg. Every chain is built once so that policy
// errors surface here rather than on first use. The retention scheduler, if
// configured, stops when ctx is cancelled or on Close.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = policies.DefaultRegistry()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	r := &Runner{
		config:     cfg,
		registry:   o.registry,
		policyOpts: o.policyOpts,
		logger:     o.logger,
	}

	for _, ch := range cfg.Chains {
		if _, err := r.registry.BuildChain(ch, r.policyOpts...); err != nil {
			return nil, err
		}
	}
	for _, w := range config.Warnings(cfg) {
		r.logger.Warn("Chain configuration warning", "field", w.Field, "message", w.Message)
	}

	waiter, err := NewWaiter(cfg.Wait)
	if err != nil {
		return nil, err
	}
	r.waiter = waiter

	observers := []policy.Observer{logging.NewObserver(r.logger)}

	if cfg.Telemetry.Metrics.Enabled {
		r.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, o.promRegistry)
		observers = append(observers, r.metrics)
	}

	if cfg.Telemetry.Tracing.Enabled {
		r.tracer, err = tracing.New(&cfg.Telemetry.Tracing, o.tracingOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create tracer: %w", err)
		}
		observers = append(observers, tracing.NewObserver(r.tracer))
	}

	switch {
	case o.store != nil:
		r.store = o.store
	case cfg.History.Enabled:
		r.store, err = history.Open(cfg.History)
		if err != nil {
			r.Close(context.Background())
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		r.ownsStore = true
	}

	if r.store != nil {
		observers = append(observers, history.NewRecorder(r.store, r.logger))

		r.scheduler = history.NewScheduler(r.store, cfg.History.Retention, r.logger)
		if err := r.scheduler.Start(ctx); err != nil {
			r.Close(context.Background())
			return nil, fmt.Errorf("failed to start history retention: %w", err)
		}
	}

	observers = append(observers, o.observers...)
	r.observer = policy.Observers(observers...)

	return r, nil
}

// Chains returns the configured chain names in config order.
func (r *Runner) Chains() []string {
	names := make([]string, 0, len(r.config.Chains))
	for _, ch := range r.config.Chains {
		names = append(names, ch.Name)
	}
	return names
}

// HasChain reports whether name is configured.
func (r *Runner) HasChain(name string) bool {
	_, ok := r.config.Chain(name)
	return ok
}

// Prepare builds a fresh policy for the named chain together with the loop
// options every Runner loop uses.
func (r *Runner) Prepare(name string) (policy.Policy, []policy.Option, error) {
	ch, ok := r.config.Chain(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownChain, name)
	}

	p, err := r.registry.BuildChain(*ch, r.policyOpts...)
	if err != nil {
		return nil, nil, err
	}

	return p, []policy.Option{
		policy.WithWaiter(r.waiter),
		policy.WithObserver(r.observer),
		policy.WithName(name),
	}, nil
}

// Repeat runs fn under the named chain until the chain completes.
func (r *Runner) Repeat(ctx context.Context, chain string, fn func() error) error {
	p, opts, err := r.Prepare(chain)
	if err != nil {
		return err
	}
	return policy.Repeat(ctx, p, fn, opts...)
}

// ForEach runs fn for each item under the named chain.
func (r *Runner) ForEach(ctx context.Context, chain string, items iter.Seq[string], fn func(string) error) error {
	p, opts, err := r.Prepare(chain)
	if err != nil {
		return err
	}
	return policy.ForEach(ctx, p, items, fn, opts...)
}

// Metrics returns the metrics collector, or nil when metrics are disabled.
func (r *Runner) Metrics() *metrics.Collector {
	return r.metrics
}

// History returns the run store, or nil when history is disabled.
func (r *Runner) History() history.Store {
	return r.store
}

// Close stops the retention scheduler, flushes the tracer and closes the
// history store the Runner opened.
func (r *Runner) Close(ctx context.Context) error {
	var errs []error

	if r.scheduler != nil {
		r.scheduler.Stop()
	}
	if r.tracer != nil {
		if err := r.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down tracer: %w", err))
		}
	}
	if r.store != nil && r.ownsStore {
		if err := r.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close history store: %w", err))
		}
	}

	return errors.Join(errs...)
}
