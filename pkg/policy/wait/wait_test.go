package wait

import (
	"context"
	"errors"
	"testing"
	"time"
)

func countdown(n int) (func() bool, *int) {
	calls := 0
	return func() bool {
		calls++
		return calls > n
	}, &calls
}

func TestStrategies_OpenGateEvaluatesOnce(t *testing.T) {
	strategies := map[string]Strategy{
		"spin":    Spin(),
		"yield":   Yield(),
		"sleep":   Sleep(time.Millisecond),
		"bounded": Bounded(Yield(), time.Second),
	}

	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			ready, calls := countdown(0)
			if err := s.Wait(context.Background(), ready); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *calls != 1 {
				t.Errorf("expected 1 evaluation, got %d", *calls)
			}
		})
	}
}

func TestStrategies_WaitUntilReady(t *testing.T) {
	strategies := map[string]Strategy{
		"spin":  Spin(),
		"yield": Yield(),
		"sleep": Sleep(time.Millisecond),
	}

	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			ready, calls := countdown(3)
			if err := s.Wait(context.Background(), ready); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *calls != 4 {
				t.Errorf("expected 4 evaluations, got %d", *calls)
			}
		})
	}
}

func TestStrategies_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, s := range map[string]Strategy{"spin": Spin(), "yield": Yield(), "sleep": Sleep(time.Millisecond)} {
		t.Run(name, func(t *testing.T) {
			ready, calls := countdown(0)
			err := s.Wait(ctx, ready)
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
			if *calls != 0 {
				t.Errorf("expected gate not evaluated, got %d evaluations", *calls)
			}
		})
	}
}

func TestSleep_CancelWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Sleep(5*time.Millisecond).Wait(ctx, func() bool { return false })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestBounded_Timeout(t *testing.T) {
	s := Bounded(Sleep(time.Millisecond), 10*time.Millisecond)

	err := s.Wait(context.Background(), func() bool { return false })
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestBounded_ParentCancellationWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Bounded(Yield(), time.Second).Wait(ctx, func() bool { return false })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBounded_NonPositiveReturnsInner(t *testing.T) {
	inner := Func(func(ctx context.Context, ready func() bool) error { return nil })
	s := Bounded(inner, 0)

	if err := s.Wait(context.Background(), func() bool { return false }); err != nil {
		t.Errorf("expected inner strategy result, got %v", err)
	}
}
