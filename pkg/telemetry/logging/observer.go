package logging

import (
	"context"
	"log/slog"

	"mercator-hq/cadence/pkg/policy"
)

// Observer logs loop lifecycle events. Start and stop are logged at info
// level, failures at error level, and iterations at debug level.
type Observer struct {
	logger *slog.Logger
}

// NewObserver creates a logging observer. A nil logger uses slog.Default.
func NewObserver(logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{logger: logger.With("component", "loop")}
}

// LoopStarted logs the start of a loop and stores its run fields in the
// returned context.
func (o *Observer) LoopStarted(ctx context.Context, info policy.LoopInfo) context.Context {
	ctx = WithRunID(ctx, info.RunID)
	ctx = WithShape(ctx, string(info.Shape))
	if info.Name != "" {
		ctx = WithChain(ctx, info.Name)
	}

	o.logger.InfoContext(ctx, "Loop started", extractContextFields(ctx)...)
	return ctx
}

// IterationDone logs a completed iteration at debug level.
func (o *Observer) IterationDone(ctx context.Context, _ policy.LoopInfo, iteration int) {
	if !o.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	args := append(extractContextFields(ctx), "iteration", iteration)
	o.logger.DebugContext(ctx, "Iteration done", args...)
}

// LoopStopped logs the loop summary.
func (o *Observer) LoopStopped(ctx context.Context, _ policy.LoopInfo, summary policy.Summary) {
	args := append(extractContextFields(ctx),
		"iterations", summary.Iterations,
		"reason", string(summary.Reason),
		"duration_ms", summary.Duration.Milliseconds(),
	)

	switch summary.Reason {
	case policy.ReasonFailed:
		o.logger.ErrorContext(ctx, "Loop failed", append(args, "error", summary.Err)...)
	case policy.ReasonCancelled:
		o.logger.WarnContext(ctx, "Loop cancelled", append(args, "error", summary.Err)...)
	default:
		o.logger.InfoContext(ctx, "Loop stopped", args...)
	}
}
