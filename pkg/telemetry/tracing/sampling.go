package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	// SamplerAlways records every loop.
	SamplerAlways = "always"

	// SamplerNever records no loops.
	SamplerNever = "never"

	// SamplerRatio records a fraction of loops chosen by trace ID.
	SamplerRatio = "ratio"
)

// createSampler creates a sampler for strategy.
//
// Every sampler is wrapped in ParentBased, so a loop started inside an
// already-sampled trace (a cadence run invoked by a traced caller, for
// example) follows its parent's decision. Loop spans without a parent use
// the configured strategy.
//
//	telemetry:
//	  tracing:
//	    sampler: ratio
//	    sample_ratio: 0.1  # 10% of root loops
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	var base sdktrace.Sampler

	switch strategy {
	case SamplerAlways:
		base = sdktrace.AlwaysSample()
	case SamplerNever:
		base = sdktrace.NeverSample()
	case SamplerRatio:
		if ratio < 0.0 || ratio > 1.0 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
		}
		base = sdktrace.TraceIDRatioBased(ratio)
	default:
		return nil, fmt.Errorf("unknown sampler strategy: %s (valid: always, never, ratio)", strategy)
	}

	return sdktrace.ParentBased(base), nil
}
