package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mercator-hq/cadence/pkg/policy"
)

func newTestProgress(buf *bytes.Buffer) (*Progress, *time.Time) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewProgress(buf)
	p.now = func() time.Time { return now }
	return p, &now
}

func TestProgressRendersIterations(t *testing.T) {
	buf := &bytes.Buffer{}
	p, now := newTestProgress(buf)
	info := policy.LoopInfo{Name: "poll", Shape: policy.ShapeRepeat}

	ctx := p.LoopStarted(context.Background(), info)
	*now = now.Add(2 * time.Second)
	p.IterationDone(ctx, info, 4)

	expected := "\rpoll: 4 iterations (2.0/s)"
	if buf.String() != expected {
		t.Errorf("output = %q, want %q", buf.String(), expected)
	}
}

func TestProgressFallsBackToShape(t *testing.T) {
	buf := &bytes.Buffer{}
	p, _ := newTestProgress(buf)
	info := policy.LoopInfo{Shape: policy.ShapeForEach}

	ctx := p.LoopStarted(context.Background(), info)
	p.IterationDone(ctx, info, 1)

	if !strings.HasPrefix(buf.String(), "\rfor_each: 1 iterations") {
		t.Errorf("output = %q, want shape as label", buf.String())
	}
}

func TestProgressStopped(t *testing.T) {
	tests := []struct {
		name    string
		summary policy.Summary
		suffix  string
	}{
		{
			name:    "completed",
			summary: policy.Summary{Iterations: 3, Reason: policy.ReasonCompleted},
			suffix:  " ✓ completed\n",
		},
		{
			name:    "failed",
			summary: policy.Summary{Iterations: 1, Reason: policy.ReasonFailed, Err: errors.New("boom")},
			suffix:  " ✗ failed: boom\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			p, _ := newTestProgress(buf)
			info := policy.LoopInfo{Name: "poll"}

			ctx := p.LoopStarted(context.Background(), info)
			p.LoopStopped(ctx, info, tt.summary)

			if !strings.HasSuffix(buf.String(), tt.suffix) {
				t.Errorf("output = %q, want suffix %q", buf.String(), tt.suffix)
			}
		})
	}
}

func TestProgressDrivenByLoop(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(buf)

	calls := 0
	err := policy.Repeat(context.Background(), &policy.Funcs{}, func() error {
		calls++
		if calls == 3 {
			return policy.ErrStop
		}
		return nil
	}, policy.WithObserver(p), policy.WithName("poll"))
	if err != nil {
		t.Fatalf("Repeat() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "poll: 2 iterations") {
		t.Errorf("output = %q, want 2 iterations rendered", out)
	}
	if !strings.HasSuffix(out, " ✓ stopped\n") {
		t.Errorf("output = %q, want stopped suffix", out)
	}
}
