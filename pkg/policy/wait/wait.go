package wait

import (
	"context"
	"errors"
	"runtime"
	"time"
)

// ErrTimeout is returned by a Bounded strategy when the gate stays closed
// past its deadline.
var ErrTimeout = errors.New("wait: gate did not open before deadline")

// Strategy waits until ready reports true.
type Strategy interface {
	Wait(ctx context.Context, ready func() bool) error
}

// Func adapts a function to the Strategy interface.
type Func func(ctx context.Context, ready func() bool) error

// Wait calls f(ctx, ready).
func (f Func) Wait(ctx context.Context, ready func() bool) error {
	return f(ctx, ready)
}

// Spin returns a Strategy that re-evaluates ready in a tight loop.
func Spin() Strategy {
	return Func(func(ctx context.Context, ready func() bool) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if ready() {
				return nil
			}
		}
	})
}

// Yield returns a Strategy that yields the processor between evaluations.
func Yield() Strategy {
	return Func(func(ctx context.Context, ready func() bool) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if ready() {
				return nil
			}
			runtime.Gosched()
		}
	})
}

// Sleep returns a Strategy that suspends for interval between evaluations.
// A non-positive interval behaves like Yield.
func Sleep(interval time.Duration) Strategy {
	if interval <= 0 {
		return Yield()
	}
	return Func(func(ctx context.Context, ready func() bool) error {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if ready() {
				return nil
			}
			timer.Reset(interval)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	})
}

// Bounded returns a Strategy that delegates to inner but gives up with
// ErrTimeout once max has elapsed. A non-positive max returns inner unchanged.
//
// Cancellation of the parent context is reported as the parent's error, not
// ErrTimeout.
func Bounded(inner Strategy, max time.Duration) Strategy {
	if max <= 0 {
		return inner
	}
	return Func(func(ctx context.Context, ready func() bool) error {
		if ctx.Err() == nil && ready() {
			return nil
		}

		boundCtx, cancel := context.WithTimeout(ctx, max)
		defer cancel()

		err := inner.Wait(boundCtx, ready)
		if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return err
	})
}
