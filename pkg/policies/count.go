package policies

import "mercator-hq/cadence/pkg/policy"

// Count completes after Amount iterations. The output, if any, is ignored.
// An Amount of zero completes before the first iteration.
type Count struct {
	policy.Base

	amount uint64
	count  uint64
}

// NewCount creates a Count policy bounded at amount iterations.
func NewCount(amount uint64) *Count {
	return &Count{amount: amount}
}

// Amount returns the configured bound.
func (c *Count) Amount() uint64 {
	return c.amount
}

// Initialize resets the iteration count.
func (c *Count) Initialize() {
	c.count = 0
}

// Mutate counts one iteration.
func (c *Count) Mutate() {
	c.count++
}

// Completed reports whether the bound has been reached.
func (c *Count) Completed(policy.Value) bool {
	return c.amount <= c.count
}
