package policy

import (
	"context"
	"errors"
	"iter"
	"time"

	"mercator-hq/cadence/pkg/policy/wait"
)

// Map applies p to a sequence with a transform and returns the outputs as a
// lazy sequence. Nothing runs until the result is ranged over, and each
// range re-initializes p.
//
// For every input item, in order:
//
//  1. stop if p.Completed(None()),
//  2. wait until p.ShouldApply(Some(item)),
//  3. call fn and p.Mutate,
//  4. yield the output,
//  5. stop if p.Completed(Some(output)).
//
// An error from fn (or from waiting) is yielded once with a zero output and
// ends the sequence. ErrStop ends it without being yielded.
func Map[In, Out any](ctx context.Context, p Policy, items iter.Seq[In], fn func(In) (Out, error), opts ...Option) iter.Seq2[Out, error] {
	return func(yield func(Out, error) bool) {
		l := newLoop(ctx, p, ShapeMap, opts)
		l.begin()

		for item := range items {
			if l.completed(None()) {
				l.end(ReasonCompleted, nil)
				return
			}
			if err := l.gate(Some(item)); err != nil {
				yieldErr(yield, l.halt(err))
				return
			}
			out, err := fn(item)
			if err != nil {
				yieldErr(yield, l.halt(err))
				return
			}
			l.advance()
			if !yield(out, nil) {
				l.end(ReasonAbandoned, nil)
				return
			}
			if l.completed(Some(out)) {
				l.end(ReasonCompleted, nil)
				return
			}
		}
		l.end(ReasonExhausted, nil)
	}
}

// ForEach applies p to a sequence with a side-effecting action and runs the
// loop to completion before returning.
//
// For every input item, in order: stop if p.Completed(None()), wait until
// p.ShouldApply(Some(item)), call fn and p.Mutate, then stop if
// p.Completed(None()).
//
// The first error from fn (or from waiting) is returned unmodified.
func ForEach[In any](ctx context.Context, p Policy, items iter.Seq[In], fn func(In) error, opts ...Option) error {
	l := newLoop(ctx, p, ShapeForEach, opts)
	l.begin()

	for item := range items {
		if l.completed(None()) {
			l.end(ReasonCompleted, nil)
			return nil
		}
		if err := l.gate(Some(item)); err != nil {
			return l.halt(err)
		}
		if err := fn(item); err != nil {
			return l.halt(err)
		}
		l.advance()
		if l.completed(None()) {
			l.end(ReasonCompleted, nil)
			return nil
		}
	}
	l.end(ReasonExhausted, nil)
	return nil
}

// Produce applies p to a zero-argument producer and returns its outputs as
// a lazy sequence.
//
// Until p.Completed(None()) holds at the top of the loop: wait until
// p.ShouldApply(None()), call fn and p.Mutate, yield the output, and stop if
// p.Completed(Some(output)).
//
// The loop has no natural end: with a policy that never completes (NoOp, for
// example) it runs until fn returns ErrStop or an error, or the consumer
// stops ranging.
func Produce[Out any](ctx context.Context, p Policy, fn func() (Out, error), opts ...Option) iter.Seq2[Out, error] {
	return func(yield func(Out, error) bool) {
		l := newLoop(ctx, p, ShapeProduce, opts)
		l.begin()

		for !l.completed(None()) {
			if err := l.gate(None()); err != nil {
				yieldErr(yield, l.halt(err))
				return
			}
			out, err := fn()
			if err != nil {
				yieldErr(yield, l.halt(err))
				return
			}
			l.advance()
			if !yield(out, nil) {
				l.end(ReasonAbandoned, nil)
				return
			}
			if l.completed(Some(out)) {
				break
			}
		}
		l.end(ReasonCompleted, nil)
	}
}

// Repeat applies p to a zero-argument action and runs the loop to completion
// before returning.
//
// Until p.Completed(None()) holds at the top of the loop: wait until
// p.ShouldApply(None()), then call fn and p.Mutate.
//
// Unlike Produce, Repeat has no output to inspect, so completion is only
// ever asked with None(): a policy that completes solely on an output never
// stops Repeat. The first error from fn is returned unmodified.
func Repeat(ctx context.Context, p Policy, fn func() error, opts ...Option) error {
	l := newLoop(ctx, p, ShapeRepeat, opts)
	l.begin()

	for !l.completed(None()) {
		if err := l.gate(None()); err != nil {
			return l.halt(err)
		}
		if err := fn(); err != nil {
			return l.halt(err)
		}
		l.advance()
	}
	l.end(ReasonCompleted, nil)
	return nil
}

func yieldErr[Out any](yield func(Out, error) bool, err error) {
	if err == nil {
		return
	}
	var zero Out
	yield(zero, err)
}

// loop carries the per-invocation state shared by the apply shapes.
type loop struct {
	ctx        context.Context
	policy     Policy
	waiter     wait.Strategy
	observer   Observer
	info       LoopInfo
	started    time.Time
	iterations int
}

func newLoop(ctx context.Context, p Policy, shape Shape, opts []Option) *loop {
	o := newOptions(opts)
	if ctx == nil {
		ctx = context.Background()
	}
	if absent(p) {
		p = &Chain{}
	}
	return &loop{
		ctx:      ctx,
		policy:   p,
		waiter:   o.waiter,
		observer: o.observers,
		info: LoopInfo{
			RunID: o.runID,
			Name:  o.name,
			Shape: shape,
		},
	}
}

func (l *loop) begin() {
	l.policy.Initialize()
	l.started = time.Now()
	l.ctx = l.observer.LoopStarted(l.ctx, l.info)
}

func (l *loop) completed(output Value) bool {
	return l.policy.Completed(output)
}

func (l *loop) gate(item Value) error {
	return l.waiter.Wait(l.ctx, func() bool {
		return l.policy.ShouldApply(item)
	})
}

func (l *loop) advance() {
	l.policy.Mutate()
	l.iterations++
	l.observer.IterationDone(l.ctx, l.info, l.iterations)
}

// halt ends the loop on err and returns the error the caller must see.
func (l *loop) halt(err error) error {
	switch {
	case errors.Is(err, ErrStop):
		l.end(ReasonStopped, nil)
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		l.end(ReasonCancelled, err)
	default:
		l.end(ReasonFailed, err)
	}
	return err
}

func (l *loop) end(reason Reason, err error) {
	l.observer.LoopStopped(l.ctx, l.info, Summary{
		Iterations: l.iterations,
		Reason:     reason,
		Err:        err,
		Duration:   time.Since(l.started),
	})
}
