package policies

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"mercator-hq/cadence/pkg/clock"
	"mercator-hq/cadence/pkg/policy"
)

// Expr completes when a CEL expression evaluates to true.
//
// The expression sees four variables:
//
//	iterations  int       iterations completed since Initialize
//	elapsed     duration  time since Initialize on the policy clock
//	has_output  bool      whether a loop output is being inspected
//	output      dyn       the output, or null
//
// For example:
//
//	iterations >= 10 || elapsed > duration("30s")
//	has_output && output.status == "ready"
//
// An evaluation error counts as not completed; Err reports the last one.
// The clock is read once per completion check.
type Expr struct {
	policy.Base

	expression string
	program    cel.Program
	clock      clock.Clock
	iterations int64
	lastErr    error
}

var exprEnv = mustExprEnv()

func mustExprEnv() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("iterations", cel.IntType),
		cel.Variable("elapsed", cel.DurationType),
		cel.Variable("has_output", cel.BoolType),
		cel.Variable("output", cel.DynType),
	)
	if err != nil {
		panic(fmt.Sprintf("policies: failed to create CEL environment: %v", err))
	}
	return env
}

// NewExpr compiles expression into an Expr policy. The expression must
// type-check to bool.
func NewExpr(expression string, opts ...Option) (*Expr, error) {
	ast, issues := exprEnv.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expression, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression %q must return bool, got %s", expression, ast.OutputType())
	}

	program, err := exprEnv.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build program for %q: %w", expression, err)
	}

	return &Expr{
		expression: expression,
		program:    program,
		clock:      newSettings(opts).clock,
	}, nil
}

// Expression returns the source expression.
func (e *Expr) Expression() string {
	return e.expression
}

// Err returns the last evaluation error, if any.
func (e *Expr) Err() error {
	return e.lastErr
}

// Initialize resets the iteration count and restarts the clock.
func (e *Expr) Initialize() {
	e.iterations = 0
	e.lastErr = nil
	e.clock.Reset()
}

// Mutate counts one iteration.
func (e *Expr) Mutate() {
	e.iterations++
}

// Completed evaluates the expression against the current loop state.
func (e *Expr) Completed(output policy.Value) bool {
	v, present := output.Get()
	vars := map[string]any{
		"iterations": e.iterations,
		"elapsed":    e.clock.Elapsed(),
		"has_output": present,
		"output":     v,
	}

	result, _, err := e.program.Eval(vars)
	if err != nil {
		e.lastErr = fmt.Errorf("failed to evaluate %q: %w", e.expression, err)
		return false
	}

	done, ok := result.Value().(bool)
	if !ok {
		e.lastErr = fmt.Errorf("expression %q returned %T", e.expression, result.Value())
		return false
	}
	e.lastErr = nil
	return done
}

