package policy

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"testing"

	"mercator-hq/cadence/pkg/policy/wait"
)

// countTo completes once Mutate has run n times.
func countTo(n int) *Funcs {
	count := 0
	return &Funcs{
		OnInitialize: func() { count = 0 },
		Done:         func(Value) bool { return count >= n },
		OnMutate:     func() { count++ },
	}
}

// outputEquals completes only when handed an output equal to want.
func outputEquals(want int) *Funcs {
	return &Funcs{
		Done: func(v Value) bool {
			got, ok := v.Get()
			return ok && got == want
		},
	}
}

type recordingObserver struct {
	started    []LoopInfo
	iterations []int
	stopped    []Summary
}

func (o *recordingObserver) LoopStarted(ctx context.Context, info LoopInfo) context.Context {
	o.started = append(o.started, info)
	return ctx
}

func (o *recordingObserver) IterationDone(_ context.Context, _ LoopInfo, iteration int) {
	o.iterations = append(o.iterations, iteration)
}

func (o *recordingObserver) LoopStopped(_ context.Context, _ LoopInfo, summary Summary) {
	o.stopped = append(o.stopped, summary)
}

func (o *recordingObserver) lastReason(t *testing.T) Reason {
	t.Helper()
	if len(o.stopped) != 1 {
		t.Fatalf("expected exactly one LoopStopped, got %d", len(o.stopped))
	}
	return o.stopped[0].Reason
}

func identity(v int) (int, error) { return v, nil }

func collect[T any](t *testing.T, seq iter.Seq2[T, error]) []T {
	t.Helper()
	var out []T
	for v, err := range seq {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, v)
	}
	return out
}

// ============================================================================
// Hook order
// ============================================================================

func TestMap_HookOrderPerItem(t *testing.T) {
	r := &recorder{}
	p := r.policy("p", true, false)

	seq := Map(context.Background(), p, slices.Values([]int{7}), func(v int) (int, error) {
		r.trace = append(r.trace, "fn")
		return v, nil
	})
	for range seq {
		r.trace = append(r.trace, "yield")
	}

	assertTrace(t, r.trace, []string{"p.init", "p.done", "p.gate", "fn", "p.mutate", "yield", "p.done"})
}

func TestForEach_HookOrderPerItem(t *testing.T) {
	r := &recorder{}
	p := r.policy("p", true, false)

	err := ForEach(context.Background(), p, slices.Values([]int{7}), func(int) error {
		r.trace = append(r.trace, "fn")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertTrace(t, r.trace, []string{"p.init", "p.done", "p.gate", "fn", "p.mutate", "p.done"})
}

func TestRepeat_HookOrder(t *testing.T) {
	r := &recorder{}
	calls := 0
	p := r.policy("p", true, false)

	err := Repeat(context.Background(), p, func() error {
		calls++
		r.trace = append(r.trace, "fn")
		if calls == 2 {
			return ErrStop
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertTrace(t, r.trace, []string{"p.init", "p.done", "p.gate", "fn", "p.mutate", "p.done", "p.gate", "fn"})
}

// ============================================================================
// Shapes
// ============================================================================

func TestMap_IsLazy(t *testing.T) {
	calls := 0
	_ = Map(context.Background(), &Chain{}, slices.Values([]int{1, 2, 3}), func(v int) (int, error) {
		calls++
		return v, nil
	})
	if calls != 0 {
		t.Errorf("expected no calls before ranging, got %d", calls)
	}
}

func TestMap_NeverCompletingPolicyIsIdentity(t *testing.T) {
	in := []int{0, 1, 2, 3, 4}
	got := collect[int](t, Map(context.Background(), &Chain{}, slices.Values(in), identity))

	if !reflect.DeepEqual(got, in) {
		t.Errorf("expected %v, got %v", in, got)
	}
}

func TestMap_StopsAfterYieldingCompletingOutput(t *testing.T) {
	obs := &recordingObserver{}
	got := collect[int](t, Map(context.Background(), outputEquals(2), slices.Values([]int{0, 1, 2, 3, 4}), identity, WithObserver(obs)))

	if !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("expected [0 1 2], got %v", got)
	}
	if reason := obs.lastReason(t); reason != ReasonCompleted {
		t.Errorf("expected reason %q, got %q", ReasonCompleted, reason)
	}
}

func TestMap_RerangingReinitializes(t *testing.T) {
	seq := Map(context.Background(), countTo(2), slices.Values([]int{1, 2, 3}), identity)

	first := collect[int](t, seq)
	second := collect[int](t, seq)
	if len(first) != 2 || len(second) != 2 {
		t.Errorf("expected 2 outputs per range, got %d and %d", len(first), len(second))
	}
}

func TestMap_AbandonedByConsumer(t *testing.T) {
	obs := &recordingObserver{}
	seq := Map(context.Background(), &Chain{}, slices.Values([]int{1, 2, 3}), identity, WithObserver(obs))
	for range seq {
		break
	}

	if reason := obs.lastReason(t); reason != ReasonAbandoned {
		t.Errorf("expected reason %q, got %q", ReasonAbandoned, reason)
	}
	if obs.stopped[0].Iterations != 1 {
		t.Errorf("expected 1 iteration, got %d", obs.stopped[0].Iterations)
	}
}

func TestForEach_ExhaustsSequence(t *testing.T) {
	obs := &recordingObserver{}
	var seen []int
	err := ForEach(context.Background(), countTo(5), slices.Values([]int{1, 2, 3}), func(v int) error {
		seen = append(seen, v)
		return nil
	}, WithObserver(obs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 3 {
		t.Errorf("expected 3 calls, got %d", len(seen))
	}
	if reason := obs.lastReason(t); reason != ReasonExhausted {
		t.Errorf("expected reason %q, got %q", ReasonExhausted, reason)
	}
	if !reflect.DeepEqual(obs.iterations, []int{1, 2, 3}) {
		t.Errorf("expected iterations [1 2 3], got %v", obs.iterations)
	}
}

func TestProduce_StopsOnOutput(t *testing.T) {
	next := 0
	got := collect[int](t, Produce(context.Background(), outputEquals(3), func() (int, error) {
		next++
		return next, nil
	}))

	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", got)
	}
}

func TestRepeat_IgnoresOutputAwareCompletion(t *testing.T) {
	calls := 0
	err := Repeat(context.Background(), outputEquals(1), func() error {
		calls++
		if calls == 5 {
			return ErrStop
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An output-aware rule cannot stop Repeat; only ErrStop ended the loop.
	if calls != 5 {
		t.Errorf("expected 5 calls, got %d", calls)
	}
}

func TestRepeat_CountBound(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			calls := 0
			if err := Repeat(context.Background(), countTo(n), func() error {
				calls++
				return nil
			}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if calls != n {
				t.Errorf("expected %d calls, got %d", n, calls)
			}
		})
	}
}

func TestApply_NilPolicyBehavesAsNoOp(t *testing.T) {
	got := collect[int](t, Map(context.Background(), nil, slices.Values([]int{1, 2}), identity))
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("expected [1 2], got %v", got)
	}
}

// ============================================================================
// Errors and cancellation
// ============================================================================

func TestMap_ErrorIsYieldedOnceUnmodified(t *testing.T) {
	boom := errors.New("boom")
	obs := &recordingObserver{}
	calls := 0

	seq := Map(context.Background(), &Chain{}, slices.Values([]int{1, 2, 3}), func(v int) (int, error) {
		calls++
		if v == 2 {
			return 0, boom
		}
		return v, nil
	}, WithObserver(obs))

	var outputs []int
	var errs []error
	for v, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		outputs = append(outputs, v)
	}

	if len(errs) != 1 || errs[0] != boom {
		t.Errorf("expected exactly the original error once, got %v", errs)
	}
	if !reflect.DeepEqual(outputs, []int{1}) {
		t.Errorf("expected [1], got %v", outputs)
	}
	if calls != 2 {
		t.Errorf("expected loop aborted after 2 calls, got %d", calls)
	}
	if reason := obs.lastReason(t); reason != ReasonFailed {
		t.Errorf("expected reason %q, got %q", ReasonFailed, reason)
	}
}

func TestForEach_ErrorIsReturnedUnmodified(t *testing.T) {
	boom := errors.New("boom")
	err := ForEach(context.Background(), &Chain{}, slices.Values([]int{1, 2}), func(int) error { return boom })
	if err != boom {
		t.Errorf("expected original error, got %v", err)
	}
}

func TestProduce_ErrStopEndsCleanly(t *testing.T) {
	obs := &recordingObserver{}
	calls := 0
	got := collect[int](t, Produce(context.Background(), &Chain{}, func() (int, error) {
		calls++
		if calls > 3 {
			return 0, fmt.Errorf("drained: %w", ErrStop)
		}
		return calls, nil
	}, WithObserver(obs)))

	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", got)
	}
	if reason := obs.lastReason(t); reason != ReasonStopped {
		t.Errorf("expected reason %q, got %q", ReasonStopped, reason)
	}
	if obs.stopped[0].Err != nil {
		t.Errorf("expected no error in summary, got %v", obs.stopped[0].Err)
	}
}

func TestForEach_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	obs := &recordingObserver{}

	calls := 0
	err := ForEach(ctx, &Chain{}, slices.Values([]int{1, 2}), func(int) error {
		calls++
		return nil
	}, WithObserver(obs))

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no calls, got %d", calls)
	}
	if reason := obs.lastReason(t); reason != ReasonCancelled {
		t.Errorf("expected reason %q, got %q", ReasonCancelled, reason)
	}
}

func TestRepeat_WaiterReceivesGate(t *testing.T) {
	gateOpen := false
	evaluations := 0
	p := &Funcs{
		Gate: func(Value) bool {
			evaluations++
			return gateOpen
		},
		Done: func(Value) bool { return evaluations > 0 && gateOpen },
	}

	// The injected waiter opens the gate on its second evaluation.
	waiter := wait.Func(func(ctx context.Context, ready func() bool) error {
		if ready() {
			return nil
		}
		gateOpen = true
		if !ready() {
			return errors.New("gate still closed")
		}
		return nil
	})

	calls := 0
	err := Repeat(context.Background(), p, func() error {
		calls++
		return nil
	}, WithWaiter(waiter))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 || evaluations != 2 {
		t.Errorf("expected 1 call after 2 gate evaluations, got %d calls and %d evaluations", calls, evaluations)
	}
}

func TestRepeat_BoundedWaitFails(t *testing.T) {
	p := &Funcs{Gate: func(Value) bool { return false }}
	waiter := wait.Func(func(context.Context, func() bool) error { return wait.ErrTimeout })

	err := Repeat(context.Background(), p, func() error { return nil }, WithWaiter(waiter))
	if !errors.Is(err, wait.ErrTimeout) {
		t.Errorf("expected wait.ErrTimeout, got %v", err)
	}
}

// ============================================================================
// Observers
// ============================================================================

func TestObservers_InfoAndFanOut(t *testing.T) {
	first, second := &recordingObserver{}, &recordingObserver{}

	err := ForEach(context.Background(), countTo(2), slices.Values([]int{1, 2, 3}), func(int) error { return nil },
		WithObserver(Observers(first, nil, second)),
		WithName("poll"),
		WithRunID("run-1"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, obs := range []*recordingObserver{first, second} {
		if len(obs.started) != 1 {
			t.Fatalf("observer %d: expected 1 start, got %d", i, len(obs.started))
		}
		info := obs.started[0]
		if info.Name != "poll" || info.RunID != "run-1" || info.Shape != ShapeForEach {
			t.Errorf("observer %d: unexpected info %+v", i, info)
		}
		if obs.stopped[0].Iterations != 2 || obs.stopped[0].Reason != ReasonCompleted {
			t.Errorf("observer %d: unexpected summary %+v", i, obs.stopped[0])
		}
	}
}

func TestOptions_GeneratesRunID(t *testing.T) {
	obs := &recordingObserver{}
	_ = Repeat(context.Background(), countTo(0), func() error { return nil }, WithObserver(obs))
	_ = Repeat(context.Background(), countTo(0), func() error { return nil }, WithObserver(obs))

	if len(obs.started) != 2 || obs.started[0].RunID == "" || obs.started[0].RunID == obs.started[1].RunID {
		t.Errorf("expected distinct generated run IDs, got %+v", obs.started)
	}
}
