package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"mercator-hq/cadence/pkg/policy"
)

// Progress renders a live iteration counter for running loops. It
// implements policy.Observer.
type Progress struct {
	mu      sync.Mutex
	writer  io.Writer
	started time.Time
	now     func() time.Time
}

// NewProgress creates a progress reporter that writes to w.
// If w is nil, it defaults to os.Stderr.
func NewProgress(w io.Writer) *Progress {
	if w == nil {
		w = os.Stderr
	}
	return &Progress{
		writer: w,
		now:    time.Now,
	}
}

// LoopStarted resets the rate clock.
func (p *Progress) LoopStarted(ctx context.Context, _ policy.LoopInfo) context.Context {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = p.now()
	return ctx
}

// IterationDone redraws the counter.
func (p *Progress) IterationDone(_ context.Context, info policy.LoopInfo, iteration int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.render(info, iteration)
}

// LoopStopped draws the final counter and ends the line.
func (p *Progress) LoopStopped(_ context.Context, info policy.LoopInfo, summary policy.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.render(info, summary.Iterations)
	if summary.Err != nil {
		fmt.Fprintf(p.writer, " ✗ %s: %v\n", summary.Reason, summary.Err)
		return
	}
	fmt.Fprintf(p.writer, " ✓ %s\n", summary.Reason)
}

func (p *Progress) render(info policy.LoopInfo, iterations int) {
	name := info.Name
	if name == "" {
		name = string(info.Shape)
	}

	elapsed := p.now().Sub(p.started)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(iterations) / elapsed.Seconds()
	}

	fmt.Fprintf(p.writer, "\r%s: %d iterations (%.1f/s)", name, iterations, rate)
}
