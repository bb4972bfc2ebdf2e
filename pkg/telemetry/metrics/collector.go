package metrics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/cadence/pkg/config"
	"mercator-hq/cadence/pkg/policy"
)

const (
	// maxChainCardinality bounds the distinct chain label values.
	maxChainCardinality = 1000

	unnamedChain  = "unnamed"
	overflowChain = "other"
)

// Collector records loop metrics and implements policy.Observer.
//
// A disabled collector registers its metrics but records nothing, so it can
// be attached unconditionally.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	loopMetrics *LoopMetrics

	// Cardinality tracking
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified
// configuration. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "cadence",
//		Subsystem: "loop",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if cfg.Path == "" {
		cfg.Path = config.DefaultMetricsPath
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		loopMetrics:        NewLoopMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(maxChainCardinality),
	}
}

// LoopStarted records a running loop.
func (c *Collector) LoopStarted(ctx context.Context, info policy.LoopInfo) context.Context {
	if c.config.Enabled {
		c.loopMetrics.RecordStart(c.chainLabel(info.Name))
	}
	return ctx
}

// IterationDone counts a completed iteration.
func (c *Collector) IterationDone(_ context.Context, info policy.LoopInfo, _ int) {
	if !c.config.Enabled {
		return
	}
	c.loopMetrics.RecordIteration(c.chainLabel(info.Name), string(info.Shape))
}

// LoopStopped records the loop outcome and duration.
func (c *Collector) LoopStopped(_ context.Context, info policy.LoopInfo, summary policy.Summary) {
	if !c.config.Enabled {
		return
	}
	c.loopMetrics.RecordStop(c.chainLabel(info.Name), string(info.Shape), string(summary.Reason), summary.Duration)
}

// chainLabel maps a loop name to a bounded label value.
func (c *Collector) chainLabel(name string) string {
	if name == "" {
		return unnamedChain
	}
	if !c.cardinalityLimiter.Allow(name) {
		return overflowChain
	}
	return name
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether a label value may be used: true if it was seen
// before or the limit has not been reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
