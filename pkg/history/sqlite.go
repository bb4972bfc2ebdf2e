package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver (cgo)
	_ "modernc.org/sqlite"          // SQLite driver (pure Go)
)

// SQLite driver names accepted by SQLiteConfig.Driver.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// Driver is DriverModernc (default) or DriverMattn.
	Driver string

	// Path is the path to the SQLite database file.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// SQLiteStore persists runs in SQLite.
//
// The database runs in WAL mode with a single connection, since SQLite
// supports one writer at a time.
type SQLiteStore struct {
	db        *sql.DB
	driver    string
	closeOnce sync.Once

	saveStmt  *sql.Stmt
	getStmt   *sql.Stmt
	pruneStmt *sql.Stmt
}

// NewSQLiteStore opens (creating if needed) a SQLite run store.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverModernc
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db, driver: cfg.Driver}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

// buildDSN renders the connection string; the two drivers spell pragmas
// differently.
func buildDSN(cfg SQLiteConfig) (string, error) {
	ms := cfg.BusyTimeout.Milliseconds()
	switch cfg.Driver {
	case DriverModernc:
		return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)", cfg.Path, ms), nil
	case DriverMattn:
		return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL", cfg.Path, ms), nil
	default:
		return "", fmt.Errorf("unsupported sqlite driver: %s", cfg.Driver)
	}
}

// Driver returns the database/sql driver name in use.
func (s *SQLiteStore) Driver() string {
	return s.driver
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		chain TEXT NOT NULL,
		shape TEXT NOT NULL,
		iterations INTEGER NOT NULL,
		reason TEXT NOT NULL,
		error TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_chain ON runs(chain);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO runs (id, chain, shape, iterations, reason, error, started_at, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.getStmt, err = s.db.Prepare(`
		SELECT id, chain, shape, iterations, reason, error, started_at, duration_ns
		FROM runs
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.pruneStmt, err = s.db.Prepare(`
		DELETE FROM runs
		WHERE started_at < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune statement: %w", err)
	}

	return nil
}

// Save records a run.
func (s *SQLiteStore) Save(ctx context.Context, run *Run) error {
	if err := validateRun(run); err != nil {
		return err
	}

	res, err := s.saveStmt.ExecContext(ctx,
		run.ID,
		run.Chain,
		run.Shape,
		run.Iterations,
		run.Reason,
		run.Error,
		run.StartedAt.UnixNano(),
		int64(run.Duration),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateRun, run.ID)
	}
	return nil
}

// Get returns the run with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	run, err := scanRun(s.getStmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return run, nil
}

// List returns matching runs, most recent first.
func (s *SQLiteStore) List(ctx context.Context, q Query) ([]*Run, error) {
	var (
		where []string
		args  []any
	)
	if q.Chain != "" {
		where = append(where, "chain = ?")
		args = append(args, q.Chain)
	}
	if q.Reason != "" {
		where = append(where, "reason = ?")
		args = append(args, q.Reason)
	}
	if !q.Since.IsZero() {
		where = append(where, "started_at >= ?")
		args = append(args, q.Since.UnixNano())
	}

	var sb strings.Builder
	sb.WriteString("SELECT id, chain, shape, iterations, reason, error, started_at, duration_ns FROM runs")
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY started_at DESC, id ASC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return out, nil
}

// Prune deletes runs started before olderThan.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.pruneStmt.ExecContext(ctx, olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned runs: %w", err)
	}
	return n, nil
}

// Close closes the prepared statements and the database.
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.saveStmt, s.getStmt, s.pruneStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		err = s.db.Close()
	})
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run       Run
		startedAt int64
		duration  int64
	)
	if err := sc.Scan(
		&run.ID,
		&run.Chain,
		&run.Shape,
		&run.Iterations,
		&run.Reason,
		&run.Error,
		&startedAt,
		&duration,
	); err != nil {
		return nil, err
	}
	run.StartedAt = time.Unix(0, startedAt)
	run.Duration = time.Duration(duration)
	return &run, nil
}
