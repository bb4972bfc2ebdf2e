// Package wait provides the suspension strategies used while a policy gate
// is closed.
//
// A Strategy blocks until a readiness predicate reports true, the context is
// cancelled, or the strategy gives up. Every strategy checks the context and
// then evaluates the predicate before suspending for the first time, so an
// open gate costs exactly one evaluation.
//
//   - Spin re-evaluates with no suspension at all. It burns a full CPU core
//     while the gate stays closed and exists for parity with tight loops.
//   - Yield calls runtime.Gosched between evaluations. This is the default.
//   - Sleep suspends on a timer between evaluations.
//   - Bounded wraps another strategy and fails with ErrTimeout once a
//     deadline passes.
//
// Func adapts a plain function, which lets tests inject deterministic gates.
package wait
