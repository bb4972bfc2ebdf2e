// Package logging provides structured logging for cadence loops.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging with run IDs and chain names
//   - A runtime-adjustable minimum level
//   - A policy.Observer that logs loop lifecycle events
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logger.Info("Loop configured", "chain", "poll", "policies", 3)
//
//	// Context fields are attached automatically
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "Processing")  // Includes run_id
//
// # Loop Observer
//
// NewObserver logs loop start and stop at info level (failures at error)
// and every iteration at debug level:
//
//	policy.Repeat(ctx, chain, fn, policy.WithObserver(logging.NewObserver(logger.Slog())))
package logging
