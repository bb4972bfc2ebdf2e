package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/cadence/pkg/policy"
)

// Span attribute keys for loops.
const (
	AttrRunID      = attribute.Key("cadence.run_id")
	AttrChain      = attribute.Key("cadence.chain")
	AttrShape      = attribute.Key("cadence.shape")
	AttrIterations = attribute.Key("cadence.iterations")
	AttrReason     = attribute.Key("cadence.reason")
	AttrIteration  = attribute.Key("cadence.iteration")
)

// Observer records each loop as a span. Iterations are span events.
type Observer struct {
	tracer *Tracer
}

// NewObserver creates a span observer backed by t.
func NewObserver(t *Tracer) *Observer {
	return &Observer{tracer: t}
}

// LoopStarted starts the loop span and returns a context carrying it.
func (o *Observer) LoopStarted(ctx context.Context, info policy.LoopInfo) context.Context {
	name := "loop"
	if info.Name != "" {
		name = "loop " + info.Name
	}
	ctx, _ = o.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			AttrRunID.String(info.RunID),
			AttrChain.String(info.Name),
			AttrShape.String(string(info.Shape)),
		),
	)
	return ctx
}

// IterationDone adds an iteration event to the loop span.
func (o *Observer) IterationDone(ctx context.Context, _ policy.LoopInfo, iteration int) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("iteration", trace.WithAttributes(AttrIteration.Int(iteration)))
}

// LoopStopped ends the loop span with the summary.
func (o *Observer) LoopStopped(ctx context.Context, _ policy.LoopInfo, summary policy.Summary) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		AttrIterations.Int(summary.Iterations),
		AttrReason.String(string(summary.Reason)),
	)
	SetError(span, summary.Err)
	SetStatus(span, summary.Err)
	span.End()
}
