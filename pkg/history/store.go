package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mercator-hq/cadence/pkg/config"
)

var (
	// ErrRunNotFound is returned when a run ID is unknown.
	ErrRunNotFound = errors.New("run not found")

	// ErrDuplicateRun is returned when saving a run ID twice.
	ErrDuplicateRun = errors.New("run already recorded")
)

// Run is the record of one finished loop.
type Run struct {
	ID         string        `json:"id" yaml:"id"`
	Chain      string        `json:"chain" yaml:"chain"`
	Shape      string        `json:"shape" yaml:"shape"`
	Iterations int           `json:"iterations" yaml:"iterations"`
	Reason     string        `json:"reason" yaml:"reason"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Query filters List results. Zero fields match everything.
type Query struct {
	// Chain matches runs of one chain.
	Chain string

	// Reason matches runs with one stop reason.
	Reason string

	// Since matches runs started at or after this instant.
	Since time.Time

	// Limit caps the number of runs returned; zero means no limit.
	Limit int
}

// matches reports whether r satisfies every filter except Limit.
func (q Query) matches(r *Run) bool {
	if q.Chain != "" && r.Chain != q.Chain {
		return false
	}
	if q.Reason != "" && r.Reason != q.Reason {
		return false
	}
	if !q.Since.IsZero() && r.StartedAt.Before(q.Since) {
		return false
	}
	return true
}

// Store persists runs.
type Store interface {
	// Save records a run. Saving an existing ID fails with ErrDuplicateRun.
	Save(ctx context.Context, run *Run) error

	// Get returns one run by ID or ErrRunNotFound.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns matching runs, most recent first.
	List(ctx context.Context, q Query) ([]*Run, error)

	// Prune deletes runs started before olderThan and reports how many.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)

	// Close releases resources.
	Close() error
}

func validateRun(run *Run) error {
	if run == nil {
		return fmt.Errorf("run cannot be nil")
	}
	if run.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	return nil
}

// Open creates the store selected by cfg.Driver.
func Open(cfg config.HistoryConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case DriverModernc, DriverMattn:
		return NewSQLiteStore(SQLiteConfig{
			Driver:      cfg.Driver,
			Path:        cfg.Path,
			BusyTimeout: cfg.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unsupported history driver: %s", cfg.Driver)
	}
}
