package clock

import (
	"sync"
	"time"
)

// NowFunc returns the current wall time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Clock is a monotonic elapsed-time source with reset.
type Clock interface {
	// Reset rebases the elapsed-time origin to the current instant.
	Reset()

	// Elapsed returns the duration since the last Reset.
	Elapsed() time.Duration
}

// Stopwatch is the default Clock. It reads the current instant through a
// now function, which defaults to time.Now and therefore carries the
// monotonic clock reading.
//
// A Stopwatch that was never Reset measures from its construction.
//
// # Thread Safety
//
// Stopwatch is safe for concurrent use.
type Stopwatch struct {
	now   func() time.Time
	mu    sync.Mutex
	start time.Time
}

// NewStopwatch creates a Stopwatch started at the current instant.
func NewStopwatch() *Stopwatch {
	return newStopwatch(time.Now)
}

func newStopwatch(now func() time.Time) *Stopwatch {
	return &Stopwatch{
		now:   now,
		start: now(),
	}
}

// Reset rebases the origin to the current instant.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = s.now()
}

// Elapsed returns the duration since the last Reset.
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(s.start)
}
