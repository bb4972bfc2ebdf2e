// Package telemetry groups the observability packages for cadence loops.
//
// # Components
//
//   - logging: Structured slog logging and a logging loop observer
//   - metrics: Prometheus loop metrics and the /metrics endpoint
//   - tracing: OpenTelemetry loop spans over OTLP or stdout
//
// Each component provides a policy.Observer; attach any combination with
// policy.WithObserver. Observers never influence loop control.
package telemetry
