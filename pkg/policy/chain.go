package policy

import (
	"fmt"
	"reflect"
)

// composite is implemented by policies that own other policies, so that
// composition can detect a policy reached through nesting.
type composite interface {
	members() []Policy
}

// Chain is an ordered list of policies combined into one Policy.
//
// The zero value is an empty chain, which behaves like a policy with all
// defaults: the gate is open and the loop never completes.
//
// # Combination
//
// Hooks are evaluated self-first over the list. ShouldApply and Completed
// short-circuit on the first true result; Initialize and Mutate run from the
// last policy to the first. Once Completed has returned true it keeps
// returning true until the next Initialize.
type Chain struct {
	policies []Policy
	done     bool
}

// NewChain creates a chain from policies in order. Nil policies are skipped.
// It fails with ErrCycle if a policy appears twice.
func NewChain(policies ...Policy) (*Chain, error) {
	c := &Chain{}
	for _, p := range policies {
		if err := c.Extend(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustChain is like NewChain but panics on error. It simplifies safe
// initialization of package-level chains and tests.
func MustChain(policies ...Policy) *Chain {
	c, err := NewChain(policies...)
	if err != nil {
		panic(err)
	}
	return c
}

// Extend appends p after the current tail.
//
// Extending with a nil policy is a no-op. Extending with a policy that is
// already reachable from the chain, or with a composite that reaches the
// chain itself, fails with ErrCycle and leaves the chain unchanged.
func (c *Chain) Extend(p Policy) error {
	if absent(p) {
		return nil
	}
	if err := checkDisjoint(c, p); err != nil {
		return err
	}
	c.policies = append(c.policies, p)
	return nil
}

// Len returns the number of policies directly in the chain.
func (c *Chain) Len() int {
	return len(c.policies)
}

// Policies returns a copy of the chain's policies in order.
func (c *Chain) Policies() []Policy {
	return append([]Policy(nil), c.policies...)
}

func (c *Chain) members() []Policy {
	return c.policies
}

// Initialize resets every policy, last first, and clears the completion latch.
func (c *Chain) Initialize() {
	c.done = false
	for i := len(c.policies) - 1; i >= 0; i-- {
		c.policies[i].Initialize()
	}
}

// ShouldApply reports whether any policy admits the iteration.
func (c *Chain) ShouldApply(item Value) bool {
	if len(c.policies) == 0 {
		return true
	}
	for _, p := range c.policies {
		if p.ShouldApply(item) {
			return true
		}
	}
	return false
}

// Completed reports whether any policy has reached its bound.
func (c *Chain) Completed(output Value) bool {
	if c.done {
		return true
	}
	for _, p := range c.policies {
		if p.Completed(output) {
			c.done = true
			return true
		}
	}
	return false
}

// Mutate advances every policy, last first.
func (c *Chain) Mutate() {
	for i := len(c.policies) - 1; i >= 0; i-- {
		c.policies[i].Mutate()
	}
}

// AllOf is a composite that admits an iteration only when every member
// does. Completion is an OR over the members that latches until the next
// Initialize, and side effects run last first, as in Chain.
//
// AllOf exists because Chain gates with OR: wrap gating policies in AllOf to
// make each of them binding.
type AllOf struct {
	policies []Policy
	done     bool
}

// All creates an AllOf from policies in order. Nil policies are skipped.
// It fails with ErrCycle if a policy appears twice.
func All(policies ...Policy) (*AllOf, error) {
	a := &AllOf{}
	for _, p := range policies {
		if absent(p) {
			continue
		}
		if err := checkDisjoint(a, p); err != nil {
			return nil, err
		}
		a.policies = append(a.policies, p)
	}
	return a, nil
}

func (a *AllOf) members() []Policy {
	return a.policies
}

// Initialize resets every member, last first, and clears the completion latch.
func (a *AllOf) Initialize() {
	a.done = false
	for i := len(a.policies) - 1; i >= 0; i-- {
		a.policies[i].Initialize()
	}
}

// ShouldApply reports whether every member admits the iteration.
func (a *AllOf) ShouldApply(item Value) bool {
	for _, p := range a.policies {
		if !p.ShouldApply(item) {
			return false
		}
	}
	return true
}

// Completed reports whether any member has reached its bound.
func (a *AllOf) Completed(output Value) bool {
	if a.done {
		return true
	}
	for _, p := range a.policies {
		if p.Completed(output) {
			a.done = true
			return true
		}
	}
	return false
}

// Mutate advances every member, last first.
func (a *AllOf) Mutate() {
	for i := len(a.policies) - 1; i >= 0; i-- {
		a.policies[i].Mutate()
	}
}

// checkDisjoint fails if anything reachable from p is already reachable
// from owner, owner included.
func checkDisjoint(owner, p Policy) error {
	existing := reachable(owner, nil)
	for _, candidate := range reachable(p, nil) {
		for _, e := range existing {
			if samePolicy(candidate, e) {
				return fmt.Errorf("%w: %T", ErrCycle, candidate)
			}
		}
	}
	return nil
}

// reachable appends p and every policy nested in it to acc.
func reachable(p Policy, acc []Policy) []Policy {
	acc = append(acc, p)
	if c, ok := p.(composite); ok {
		for _, m := range c.members() {
			acc = reachable(m, acc)
		}
	}
	return acc
}

// samePolicy reports whether a and b are the same policy instance. Only
// pointers to non-empty types have identity.
func samePolicy(a, b Policy) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || ta.Kind() != reflect.Pointer || ta.Elem().Size() == 0 {
		return false
	}
	return a == b
}

// absent reports whether p is nil or a typed nil pointer.
func absent(p Policy) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
