package policies

import (
	"context"
	"slices"
	"testing"

	"mercator-hq/cadence/pkg/policy"
)

// shape runs one apply shape over items inputs (ignored by the producer
// shapes) and reports how many outputs or calls it produced.
type shape struct {
	name string
	run  func(t *testing.T, p policy.Policy, items int) int
}

func inputs(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

var shapes = []shape{
	{
		name: "map",
		run: func(t *testing.T, p policy.Policy, items int) int {
			n := 0
			seq := policy.Map(context.Background(), p, slices.Values(inputs(items)), func(i int) (int, error) {
				return i, nil
			})
			for _, err := range seq {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				n++
			}
			return n
		},
	},
	{
		name: "for_each",
		run: func(t *testing.T, p policy.Policy, items int) int {
			n := 0
			err := policy.ForEach(context.Background(), p, slices.Values(inputs(items)), func(int) error {
				n++
				return nil
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			return n
		},
	},
	{
		name: "produce",
		run: func(t *testing.T, p policy.Policy, _ int) int {
			n := 0
			seq := policy.Produce(context.Background(), p, func() (int, error) {
				return n, nil
			})
			for _, err := range seq {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				n++
			}
			return n
		},
	},
	{
		name: "repeat",
		run: func(t *testing.T, p policy.Policy, _ int) int {
			n := 0
			err := policy.Repeat(context.Background(), p, func() error {
				n++
				return nil
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			return n
		},
	},
}
