package history

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps runs in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*Run)}
}

// Save records a copy of run.
func (m *MemoryStore) Save(ctx context.Context, run *Run) error {
	if err := validateRun(run); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[run.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRun, run.ID)
	}
	stored := *run
	m.runs[run.ID] = &stored
	return nil
}

// Get returns a copy of the run with the given ID.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	found := *run
	return &found, nil
}

// List returns copies of matching runs, most recent first.
func (m *MemoryStore) List(ctx context.Context, q Query) ([]*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Run
	for _, run := range m.runs {
		if q.matches(run) {
			found := *run
			out = append(out, &found)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Prune deletes runs started before olderThan.
func (m *MemoryStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for id, run := range m.runs {
		if run.StartedAt.Before(olderThan) {
			delete(m.runs, id)
			deleted++
		}
	}
	return deleted, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
