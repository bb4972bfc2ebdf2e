package policies

import "mercator-hq/cadence/pkg/policy"

// Until completes once an output of type T satisfies a predicate. Without an
// output, or with an output of another type, it never completes; on its own
// it therefore never stops policy.Repeat or policy.ForEach.
type Until[T any] struct {
	policy.Base

	pred func(T) bool
}

// NewUntil creates an Until policy. A nil predicate never completes.
func NewUntil[T any](pred func(T) bool) *Until[T] {
	return &Until[T]{pred: pred}
}

// Completed reports whether output satisfies the predicate.
func (u *Until[T]) Completed(output policy.Value) bool {
	if u.pred == nil {
		return false
	}
	v, ok := output.Get()
	if !ok {
		return false
	}
	typed, ok := v.(T)
	return ok && u.pred(typed)
}
