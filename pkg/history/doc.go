// Package history records finished loops.
//
// A Run captures one loop: its run ID, chain name, apply shape, iteration
// count, stop reason, error text, start time and duration. Runs are written
// by Recorder, a policy.Observer, into a Store.
//
// # Stores
//
//   - MemoryStore keeps runs in process memory
//   - SQLiteStore persists runs with either the pure-Go "sqlite" driver
//     (modernc.org/sqlite) or the cgo "sqlite3" driver (mattn/go-sqlite3)
//
// # Retention
//
// Scheduler prunes runs older than a maximum age on a cron schedule:
//
//	sched := history.NewScheduler(store, cfg.History.Retention, logger)
//	if err := sched.Start(ctx); err != nil {
//	    return err
//	}
//	defer sched.Stop()
package history
