// Package clocktest provides deterministic Clock implementations for tests.
package clocktest

import (
	"sync"
	"time"
)

// Scripted is a fake clock.Clock that returns a pre-scripted sequence of
// durations on successive Elapsed calls. Once the script is exhausted the
// last reading repeats; an empty script always reads zero.
//
// Reset does not rewind the script: it only counts resets, so a test can
// assert that a policy rebased its clock exactly once per apply.
type Scripted struct {
	mu       sync.Mutex
	readings []time.Duration
	reads    int
	resets   int
}

// NewScripted creates a Scripted clock replaying readings in order.
func NewScripted(readings ...time.Duration) *Scripted {
	return &Scripted{readings: append([]time.Duration(nil), readings...)}
}

// Reset records a reset.
func (s *Scripted) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
}

// Elapsed returns the next scripted reading.
func (s *Scripted) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads++
	if len(s.readings) == 0 {
		return 0
	}
	idx := s.reads - 1
	if idx >= len(s.readings) {
		idx = len(s.readings) - 1
	}
	return s.readings[idx]
}

// Reads returns how many times Elapsed has been called.
func (s *Scripted) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Resets returns how many times Reset has been called.
func (s *Scripted) Resets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets
}

// Manual is a fake clock.Clock whose elapsed time only moves when the test
// calls Advance. Reset rebases the origin to the current manual instant.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	origin time.Duration
}

// NewManual creates a Manual clock at zero.
func NewManual() *Manual {
	return &Manual{}
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
}

// Reset rebases the origin.
func (m *Manual) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.origin = m.now
}

// Elapsed returns the time advanced since the last Reset.
func (m *Manual) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now - m.origin
}
