// Package metrics provides Prometheus metrics for cadence loops.
//
// # Overview
//
// Collector implements policy.Observer and records:
//
//   - cadence_loop_runs_total: Finished loops by chain, shape and stop reason
//   - cadence_loop_iterations_total: Completed iterations by chain and shape
//   - cadence_loop_duration_seconds: Loop duration by chain and shape
//   - cadence_loop_active: Loops currently running by chain
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	policy.Repeat(ctx, chain, fn, policy.WithObserver(collector))
//
//	http.Handle("/metrics", collector.Handler())
//
// # Cardinality
//
// Chain names come from configuration, but library callers may name loops
// freely. Past 1000 distinct chain names, new names are recorded as "other".
package metrics
