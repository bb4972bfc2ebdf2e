package policies

import "mercator-hq/cadence/pkg/policy"

// NoOp is the identity policy: the gate is always open and the loop never
// completes on its account. Each NoOp is a distinct instance, so the same
// NoOp cannot be added to a chain twice.
type NoOp struct {
	policy.Base
	_ byte
}

// NewNoOp creates a NoOp policy.
func NewNoOp() *NoOp {
	return &NoOp{}
}
