package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Store keeps sessions for the lifetime of a booking view.
//
// Save is a compare-and-set on Session.Version: it fails with
// ErrSessionConflict when the stored copy changed since the session was
// loaded, and bumps the version on success.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	payload   []byte
	version   int
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is an in-process Store. Sessions are stored serialized so that
// callers never share a *Session.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

// Get returns a copy of the stored session. An expired entry is removed.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if entry.expired(m.now()) {
		m.mu.Lock()
		if current, ok := m.sessions[id]; ok && current.expired(m.now()) {
			delete(m.sessions, id)
		}
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	var session Session
	if err := json.Unmarshal(entry.payload, &session); err != nil {
		return nil, fmt.Errorf("booking: decode session: %w", err)
	}
	return &session, nil
}

// Save stores the session. A zero ttl never expires.
func (m *MemoryStore) Save(ctx context.Context, session *Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	stored := 0
	if current, ok := m.sessions[session.ID]; ok && !current.expired(now) {
		stored = current.version
	}
	if stored != session.Version {
		return ErrSessionConflict
	}

	staged := *session
	staged.Version = stored + 1
	payload, err := json.Marshal(&staged)
	if err != nil {
		return fmt.Errorf("booking: encode session: %w", err)
	}
	entry := memoryEntry{payload: payload, version: staged.Version}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	m.sessions[session.ID] = entry
	session.Version = staged.Version
	return nil
}

// Delete removes a session; unknown ids are ignored.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, entry := range m.sessions {
		if entry.expired(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
