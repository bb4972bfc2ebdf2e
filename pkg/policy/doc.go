// Package policy composes loop-control policies and drives caller operations
// under them.
//
// # Hook Contract
//
// A Policy answers four questions at fixed phases of a loop:
//
//   - Initialize resets iteration state once per apply, before the first item.
//   - ShouldApply gates the current iteration; the loop waits until it is true.
//   - Completed decides whether the loop must stop. It is asked without an
//     output at the top of every iteration and, for output-bearing shapes,
//     again with the output just produced.
//   - Mutate advances iteration state after the operation ran.
//
// Embed Base to inherit the neutral defaults (no-op, true, false, no-op) and
// override only the hooks a policy cares about. Absent items and outputs are
// carried explicitly by Value rather than by nil.
//
// # Chains
//
// A Chain is an ordered list of policies that itself implements Policy:
//
//	chain, err := policy.NewChain(policies.NewCount(10), policies.NewTimeout(time.Minute))
//
// Hook results combine self-first over the list:
//
//   - ShouldApply is an OR: the first permissive policy admits the iteration.
//   - Completed is an OR: the first policy at its bound stops the loop.
//   - Initialize and Mutate run tail-first, so every policy is touched exactly
//     once per phase.
//
// Because any permissive policy admits an iteration, a gate such as a rate
// limit only throttles a chain whose other members also gate. Use All to
// require every member's consent instead.
//
// Extend rejects a policy that is already part of the chain (directly or via
// a nested composite) with ErrCycle. Only pointer policies have identity;
// stateless value policies may repeat freely.
//
// # Apply Shapes
//
// Four generic functions own the loop:
//
//   - Map lazily transforms a sequence.
//   - ForEach runs a side-effecting action over a sequence.
//   - Produce lazily repeats a zero-argument producer.
//   - Repeat repeats a zero-argument action.
//
// Repeat has no output to inspect, so an output-aware completion rule can
// never stop it; only Completed(None()) can. Combining such a policy with an
// unbounded action loops forever. The same holds for NoOp alone.
//
// Errors returned by caller operations abort the loop and reach the caller
// unmodified. Returning ErrStop ends the loop cleanly instead.
//
// # Waiting
//
// While the gate is closed the loop suspends through a wait.Strategy
// (default wait.Yield) and observes context cancellation. Use WithWaiter to
// select another strategy.
//
// # Thread Safety
//
// A loop runs entirely on the caller's goroutine. Policies and chains carry
// unsynchronized iteration state: never apply the same chain from two
// goroutines at once, and never Extend a chain while it is being applied.
package policy
