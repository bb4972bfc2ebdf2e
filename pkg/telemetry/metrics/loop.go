package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/cadence/pkg/config"
)

// LoopMetrics tracks metrics related to loop execution.
type LoopMetrics struct {
	// Finished loops
	runsTotal *prometheus.CounterVec

	// Completed iterations
	iterationsTotal *prometheus.CounterVec

	// Loop duration histogram
	duration *prometheus.HistogramVec

	// Currently running loops
	active *prometheus.GaugeVec
}

// NewLoopMetrics creates and registers loop metrics with the provided registry.
func NewLoopMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *LoopMetrics {
	lm := &LoopMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of finished loops",
			},
			[]string{"chain", "shape", "reason"},
		),

		iterationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "iterations_total",
				Help:      "Total number of completed loop iterations",
			},
			[]string{"chain", "shape"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "duration_seconds",
				Help:      "Duration of loops in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"chain", "shape"},
		),

		active: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "active",
				Help:      "Number of loops currently running",
			},
			[]string{"chain"},
		),
	}

	registry.MustRegister(
		lm.runsTotal,
		lm.iterationsTotal,
		lm.duration,
		lm.active,
	)

	return lm
}

// RecordStart records a loop entering its first iteration.
func (lm *LoopMetrics) RecordStart(chain string) {
	lm.active.WithLabelValues(chain).Inc()
}

// RecordIteration records one completed iteration.
func (lm *LoopMetrics) RecordIteration(chain, shape string) {
	lm.iterationsTotal.WithLabelValues(chain, shape).Inc()
}

// RecordStop records a finished loop.
func (lm *LoopMetrics) RecordStop(chain, shape, reason string, duration time.Duration) {
	lm.active.WithLabelValues(chain).Dec()
	lm.runsTotal.WithLabelValues(chain, shape, reason).Inc()
	lm.duration.WithLabelValues(chain, shape).Observe(duration.Seconds())
}
