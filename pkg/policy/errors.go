package policy

import "errors"

var (
	// ErrCycle is returned when composing a policy into a chain that already
	// contains it.
	ErrCycle = errors.New("policy: policy already present in chain")

	// ErrStop may be returned (or wrapped) by a caller operation to end the
	// loop cleanly. It is never reported back to the caller.
	ErrStop = errors.New("policy: stop iteration")
)
