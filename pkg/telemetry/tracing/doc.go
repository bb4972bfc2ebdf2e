// Package tracing provides OpenTelemetry tracing for cadence loops.
//
// # Overview
//
// Tracer wraps an OpenTelemetry tracer provider configured from
// config.TracingConfig with one of two exporters:
//
//   - otlp: OTLP over gRPC to a collector (Jaeger, Tempo, ...)
//   - stdout: pretty-printed spans on a writer, for local debugging
//
// Observer implements policy.Observer: every loop becomes one span named
// "loop <chain>", with run ID, chain and shape attributes, one event per
// iteration, and the stop reason and iteration count set when it ends.
// Failed and cancelled loops carry an error status.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	policy.Repeat(ctx, chain, fn, policy.WithObserver(tracing.NewObserver(tracer)))
//
// # Sampling
//
// Samplers are parent-based: a loop started inside a sampled trace is
// always recorded. Root loops follow the configured strategy (always,
// never or ratio).
package tracing
