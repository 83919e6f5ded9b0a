// Package session stores the selection state of anonymous registration
// sessions between requests.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/festival"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store persists selection snapshots keyed by session id.
type Store interface {
	Load(ctx context.Context, id string) (festival.SelectionSnapshot, error)
	Save(ctx context.Context, id string, snap festival.SelectionSnapshot) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory. It is used when Redis is
// unavailable and in tests.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memoryEntry
}

type memoryEntry struct {
	snap    festival.SelectionSnapshot
	expires time.Time
}

// NewMemoryStore returns an empty MemoryStore. A ttl of zero keeps sessions
// forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, items: map[string]memoryEntry{}}
}

// Load returns the snapshot stored under id.
func (m *MemoryStore) Load(_ context.Context, id string) (festival.SelectionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return festival.SelectionSnapshot{}, ErrNotFound
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.items, id)
		return festival.SelectionSnapshot{}, ErrNotFound
	}
	return copySnapshot(e.snap), nil
}

// Save stores snap under id and refreshes its expiry.
func (m *MemoryStore) Save(_ context.Context, id string, snap festival.SelectionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{snap: copySnapshot(snap)}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.items[id] = e
	return nil
}

// Delete removes id. Deleting an unknown session is not an error.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func copySnapshot(s festival.SelectionSnapshot) festival.SelectionSnapshot {
	out := festival.SelectionSnapshot{
		Events:       append([]string(nil), s.Events...),
		Participants: make(map[string]int, len(s.Participants)),
	}
	for k, v := range s.Participants {
		out.Participants[k] = v
	}
	return out
}
