// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used in development/testing, or when durability is not required
// (STORE_DRIVER=memory).
//
// Characteristics:
//   - Stores *session.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/robalobadob/bigmonte/internal/session"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex                // guards sessions
	sessions map[string]*session.Session // keyed by session ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*session.Session)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// ListByOwner returns the owner's sessions, most recently updated first.
func (m *memory) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Summary, error) {
	m.mu.RLock()
	out := []Summary{}
	for _, s := range m.sessions {
		if ownerID != "" && s.OwnerID() == ownerID {
			out = append(out, summarize(s.Snapshot()))
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Claim moves every session owned by from to to.
func (m *memory) Claim(ctx context.Context, from, to string) (int, error) {
	if from == "" || to == "" {
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sessions {
		if s.OwnerID() == from {
			s.SetOwner(to)
			n++
		}
	}
	return n, nil
}
