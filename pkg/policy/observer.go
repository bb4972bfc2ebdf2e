package policy

import (
	"context"
	"time"
)

// Shape identifies which apply function drives a loop.
type Shape string

const (
	// ShapeMap is a lazy sequence-to-output transform.
	ShapeMap Shape = "map"
	// ShapeForEach is a strict side-effecting pass over a sequence.
	ShapeForEach Shape = "for_each"
	// ShapeProduce is a lazy loop over a zero-argument producer.
	ShapeProduce Shape = "produce"
	// ShapeRepeat is a strict loop over a zero-argument action.
	ShapeRepeat Shape = "repeat"
)

// Reason explains why a loop stopped.
type Reason string

const (
	// ReasonCompleted means the policy reported completion.
	ReasonCompleted Reason = "completed"
	// ReasonExhausted means the input sequence ran out.
	ReasonExhausted Reason = "exhausted"
	// ReasonStopped means a caller operation returned ErrStop.
	ReasonStopped Reason = "stopped"
	// ReasonAbandoned means the consumer of a lazy shape stopped pulling.
	ReasonAbandoned Reason = "abandoned"
	// ReasonFailed means a caller operation or the wait strategy failed.
	ReasonFailed Reason = "failed"
	// ReasonCancelled means the context was cancelled.
	ReasonCancelled Reason = "cancelled"
)

// LoopInfo identifies one apply invocation.
type LoopInfo struct {
	// RunID is unique per apply invocation.
	RunID string

	// Name is the label set with WithName, if any.
	Name string

	// Shape is the apply function driving the loop.
	Shape Shape
}

// Summary describes a finished loop.
type Summary struct {
	// Iterations is the number of times the caller operation completed.
	Iterations int

	// Reason explains why the loop stopped.
	Reason Reason

	// Err is the error returned to the caller, if any.
	Err error

	// Duration is the wall time spent inside the loop.
	Duration time.Duration
}

// Observer receives loop lifecycle notifications. Observers never influence
// loop control.
type Observer interface {
	// LoopStarted is called after policies were initialized. The returned
	// context is passed to the remaining notifications of this loop.
	LoopStarted(ctx context.Context, info LoopInfo) context.Context

	// IterationDone is called after Mutate with the 1-based iteration number.
	IterationDone(ctx context.Context, info LoopInfo, iteration int)

	// LoopStopped is called exactly once when the loop ends.
	LoopStopped(ctx context.Context, info LoopInfo, summary Summary)
}

// Observers fans notifications out to every non-nil observer in order.
func Observers(observers ...Observer) Observer {
	var list multiObserver
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) LoopStarted(ctx context.Context, info LoopInfo) context.Context {
	for _, o := range m {
		ctx = o.LoopStarted(ctx, info)
	}
	return ctx
}

func (m multiObserver) IterationDone(ctx context.Context, info LoopInfo, iteration int) {
	for _, o := range m {
		o.IterationDone(ctx, info, iteration)
	}
}

func (m multiObserver) LoopStopped(ctx context.Context, info LoopInfo, summary Summary) {
	for _, o := range m {
		o.LoopStopped(ctx, info, summary)
	}
}
