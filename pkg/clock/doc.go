// Package clock provides the elapsed-time source consumed by time-bound
// policies.
//
// A Clock is a resettable stopwatch: Reset rebases the origin and Elapsed
// reports the monotonic duration since the last Reset. Stopwatch is the
// default implementation backed by the host's monotonic clock. Tests should
// substitute clocktest.Scripted, which replays a fixed sequence of readings
// and counts how many times it was read.
//
// # Wall Time
//
// Policies that need wall-clock instants (for example cron-style schedules)
// read them through Now, which delegates to NowFunc. Override NowFunc in tests
// for determinism and restore it afterwards:
//
//	defer func(prev func() time.Time) { clock.NowFunc = prev }(clock.NowFunc)
//	clock.NowFunc = func() time.Time { return fixed }
package clock
