package history

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/cadence/pkg/clock"
	"mercator-hq/cadence/pkg/policy"
)

// DefaultSaveTimeout bounds how long the Recorder waits on the store.
const DefaultSaveTimeout = 5 * time.Second

// Recorder is a policy.Observer that saves every finished loop as a Run.
// Store failures are logged and never reach the loop.
type Recorder struct {
	store       Store
	logger      *slog.Logger
	saveTimeout time.Duration
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		store:       store,
		logger:      logger.With("component", "history.recorder"),
		saveTimeout: DefaultSaveTimeout,
	}
}

// LoopStarted implements policy.Observer.
func (r *Recorder) LoopStarted(ctx context.Context, _ policy.LoopInfo) context.Context {
	return ctx
}

// IterationDone implements policy.Observer.
func (r *Recorder) IterationDone(context.Context, policy.LoopInfo, int) {}

// LoopStopped saves the run. The save outlives cancellation of the loop's
// context so cancelled loops are still recorded.
func (r *Recorder) LoopStopped(ctx context.Context, info policy.LoopInfo, summary policy.Summary) {
	run := &Run{
		ID:         info.RunID,
		Chain:      info.Name,
		Shape:      string(info.Shape),
		Iterations: summary.Iterations,
		Reason:     string(summary.Reason),
		StartedAt:  clock.Now().Add(-summary.Duration),
		Duration:   summary.Duration,
	}
	if summary.Err != nil {
		run.Error = summary.Err.Error()
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.saveTimeout)
	defer cancel()

	if err := r.store.Save(saveCtx, run); err != nil {
		r.logger.Error("Failed to record run",
			"run_id", run.ID,
			"error", err,
		)
	}
}
