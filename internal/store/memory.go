// internal/store/memory.go
//
// In-memory session store for live puzzle sessions.
//
// Characteristics:
//   - Stores sessions keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; Prune drops idle sessions.
//   - Errors are returned for missing IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("not found")

// Session is anything the store can hold.
type Session interface {
	SessionID() string
	LastActive() time.Time
}

// Store defines the persistence interface for live sessions.
type Store[T Session] interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s T) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session is not present.
	Get(ctx context.Context, id string) (T, error)

	// Prune removes sessions idle since before cutoff and reports how many.
	Prune(ctx context.Context, cutoff time.Time) int

	// Each calls fn for every stored session. fn runs outside the store's
	// lock and may call back into the store.
	Each(ctx context.Context, fn func(T))
}

// memory is an in-memory map-based Store implementation.
type memory[T Session] struct {
	mu       sync.RWMutex // guards sessions map
	sessions map[string]T // keyed by SessionID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore[T Session]() Store[T] {
	return &memory[T]{sessions: make(map[string]T)}
}

// Save adds or updates the session in the map.
func (m *memory[T]) Save(ctx context.Context, s T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.SessionID()] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory[T]) Get(ctx context.Context, id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	var zero T
	return zero, ErrNotFound
}

// Each snapshots the sessions, then visits them.
func (m *memory[T]) Each(ctx context.Context, fn func(T)) {
	m.mu.RLock()
	all := make([]T, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()
	for _, s := range all {
		fn(s)
	}
}

// Prune drops every session whose last activity is before cutoff.
func (m *memory[T]) Prune(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Janitor prunes st every interval, dropping sessions idle longer than ttl,
// until ctx is cancelled.
func Janitor[T Session](ctx context.Context, st Store[T], interval, ttl time.Duration, onPrune func(n int)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Prune(ctx, now.Add(-ttl)); n > 0 && onPrune != nil {
				onPrune(n)
			}
		}
	}
}
