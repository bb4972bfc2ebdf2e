package tracing

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/cadence/pkg/config"
	"mercator-hq/cadence/pkg/policy"
)

func enabledConfig() *config.TracingConfig {
	return &config.TracingConfig{
		Enabled:     true,
		Sampler:     SamplerAlways,
		SampleRatio: 1.0,
		Exporter:    "stdout",
		ServiceName: "cadence-test",
	}
}

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tracer, err := New(enabledConfig(), WithExporter(exp))
	if err != nil {
		t.Fatalf("failed to create tracer: %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, exp
}

// ============================================================================
// Tracer
// ============================================================================

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestNew_Disabled(t *testing.T) {
	tracer, err := New(&config.TracingConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tracer.Enabled() {
		t.Error("expected tracer to be disabled")
	}

	ctx, span := tracer.Start(context.Background(), "noop")
	span.End()
	if TraceID(ctx) != "" {
		t.Error("expected no trace ID from a disabled tracer")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("expected noop shutdown, got %v", err)
	}
}

func TestNew_InvalidSampler(t *testing.T) {
	cfg := enabledConfig()
	cfg.Sampler = "sometimes"
	if _, err := New(cfg); err == nil {
		t.Error("expected sampler error")
	}
}

func TestNew_UnsupportedExporter(t *testing.T) {
	cfg := enabledConfig()
	cfg.Exporter = "zipkin"
	if _, err := New(cfg); err == nil {
		t.Error("expected exporter error")
	}
}

func TestNew_StdoutExporter(t *testing.T) {
	buf := &bytes.Buffer{}
	tracer, err := New(enabledConfig(), WithWriter(buf), WithServiceVersion("1.2.3"))
	if err != nil {
		t.Fatalf("failed to create tracer: %v", err)
	}

	_, span := tracer.Start(context.Background(), "stdout-span")
	span.End()

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Fatalf("failed to shut down: %v", err)
	}
	if !strings.Contains(buf.String(), "stdout-span") {
		t.Errorf("expected span in stdout output, got %q", buf.String())
	}
}

func TestTracer_IDs(t *testing.T) {
	tracer, _ := newRecordingTracer(t)

	if TraceID(context.Background()) != "" || SpanID(context.Background()) != "" {
		t.Error("expected empty IDs without a span")
	}

	ctx, span := tracer.Start(context.Background(), "ids")
	defer span.End()

	if len(TraceID(ctx)) != 32 {
		t.Errorf("expected 32-char trace ID, got %q", TraceID(ctx))
	}
	if len(SpanID(ctx)) != 16 {
		t.Errorf("expected 16-char span ID, got %q", SpanID(ctx))
	}
}

// ============================================================================
// Observer
// ============================================================================

func spanByName(t *testing.T, exp *tracetest.InMemoryExporter, name string) tracetest.SpanStub {
	t.Helper()
	for _, s := range exp.GetSpans() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("span %q not found", name)
	return tracetest.SpanStub{}
}

func attrValue(s tracetest.SpanStub, key string) (string, bool) {
	for _, kv := range s.Attributes {
		if string(kv.Key) == key {
			return kv.Value.Emit(), true
		}
	}
	return "", false
}

func TestObserver_RecordsLoopSpan(t *testing.T) {
	tracer, exp := newRecordingTracer(t)

	calls := 0
	err := policy.Repeat(context.Background(), nil, func() error {
		calls++
		if calls == 3 {
			return policy.ErrStop
		}
		return nil
	}, policy.WithObserver(NewObserver(tracer)), policy.WithName("poll"), policy.WithRunID("run-7"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	span := spanByName(t, exp, "loop poll")

	checks := map[string]string{
		"cadence.run_id":     "run-7",
		"cadence.chain":      "poll",
		"cadence.shape":      "repeat",
		"cadence.iterations": "2",
		"cadence.reason":     "stopped",
	}
	for key, want := range checks {
		got, ok := attrValue(span, key)
		if !ok {
			t.Errorf("expected attribute %s", key)
			continue
		}
		if got != want {
			t.Errorf("attribute %s: expected %q, got %q", key, want, got)
		}
	}

	if len(span.Events) != 2 {
		t.Errorf("expected 2 iteration events, got %d", len(span.Events))
	}
	if span.Status.Code != codes.Ok {
		t.Errorf("expected OK status, got %v", span.Status.Code)
	}
}

func TestObserver_RecordsFailure(t *testing.T) {
	tracer, exp := newRecordingTracer(t)

	boom := errors.New("boom")
	err := policy.Repeat(context.Background(), nil, func() error { return boom },
		policy.WithObserver(NewObserver(tracer)))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	span := spanByName(t, exp, "loop")
	if span.Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", span.Status.Code)
	}
	if span.Status.Description != "boom" {
		t.Errorf("expected description boom, got %q", span.Status.Description)
	}
	if got, _ := attrValue(span, "cadence.reason"); got != "failed" {
		t.Errorf("expected reason failed, got %q", got)
	}
}

func TestObserver_NestedLoopsShareTrace(t *testing.T) {
	tracer, exp := newRecordingTracer(t)
	obs := NewObserver(tracer)

	ctx, parent := tracer.Start(context.Background(), "parent")
	_ = policy.Repeat(ctx, nil, func() error { return policy.ErrStop }, policy.WithObserver(obs), policy.WithName("child"))
	parent.End()

	child := spanByName(t, exp, "loop child")
	if child.Parent.SpanID() != parent.SpanContext().SpanID() {
		t.Error("expected loop span to be a child of the caller's span")
	}
	if child.SpanContext.TraceID() != parent.SpanContext().TraceID() {
		t.Error("expected loop span in the caller's trace")
	}
}
