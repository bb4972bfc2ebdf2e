// Package runner assembles a cadence configuration into runnable loops.
//
// A Runner owns everything a loop needs besides the caller's operation:
// the named chains (built fresh per loop through a policies.Registry), the
// wait strategy, and the observers selected by the telemetry and history
// sections of the config.
//
// # Usage
//
//	r, err := runner.New(ctx, cfg, runner.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer r.Close(context.Background())
//
//	err = r.Repeat(ctx, "poll", func() error {
//	    return check()
//	})
//
// Shapes without a Runner method (Map, Produce) use Prepare:
//
//	p, opts, err := r.Prepare("poll")
//	for out, err := range policy.Map(ctx, p, items, fn, opts...) {
//	    ...
//	}
package runner
