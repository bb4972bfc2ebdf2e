// Package policies provides the concrete loop-control policies.
//
// # Bounds
//
//   - Count stops after a fixed number of iterations.
//   - Timeout stops once a duration has elapsed on a clock.Clock.
//   - Until stops once an output satisfies a predicate.
//   - Expr stops once a CEL expression over the loop state holds.
//
// # Gates
//
//   - Rate admits iterations at a token-bucket pace.
//   - Schedule admits an iteration each time a cron schedule fires.
//
// NoOp leaves every hook at its default. Applied alone to an unbounded
// producer or action it never terminates.
//
// # Composition
//
// Bounds compose freely in a policy.Chain: the first bound reached stops the
// loop. Gates only throttle when every other policy in the chain also gates,
// because a chain admits an iteration as soon as one member does; wrap gates
// and bounds in policy.All to make the gate binding:
//
//	all, _ := policy.All(policies.NewRate(10, 1), policies.NewCount(100))
//
// # Registry
//
// Registry builds policies and chains from configuration. DefaultRegistry
// knows every policy in this package under its type name.
package policies
