package session

import (
	"fmt"
	"sync"
)

// SnapshotStore is the persistence surface the manager needs. A nil
// store means sessions live only in memory.
type SnapshotStore interface {
	Save(Snapshot) error
	Load(id string) (Snapshot, error)
	Delete(id string) error
}

// Manager tracks live sessions and falls back to the snapshot store
// for sessions that are not in memory, so a restarted server can pick
// up where a conversation left off. The mutex guards the session map;
// individual sessions are serialized by the transport.
type Manager struct {
	mu    sync.Mutex
	cat   *Catalog
	live  map[string]*Session
	store SnapshotStore
}

// NewManager returns a manager over the shared catalog.
func NewManager(cat *Catalog, store SnapshotStore) *Manager {
	return &Manager{
		cat:   cat,
		live:  make(map[string]*Session),
		store: store,
	}
}

// Start creates a new session and persists its initial snapshot.
func (m *Manager) Start() (*Session, error) {
	s := New(m.cat)
	m.mu.Lock()
	m.live[s.ID] = s
	m.mu.Unlock()
	if err := m.Persist(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the live session for an id, restoring it from the store
// when it is not in memory.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.live[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}

	if m.store == nil {
		return nil, fmt.Errorf("unknown session %q", id)
	}
	snap, err := m.store.Load(id)
	if err != nil {
		return nil, err
	}
	s, err = Restore(m.cat, snap)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.live[id] = s
	m.mu.Unlock()
	return s, nil
}

// Persist writes the session's current snapshot to the store, if any.
func (m *Manager) Persist(s *Session) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Save(s.Snapshot()); err != nil {
		return fmt.Errorf("persisting session %s: %w", s.ID, err)
	}
	return nil
}

// Drop removes a session from memory and from the store.
func (m *Manager) Drop(id string) error {
	m.mu.Lock()
	delete(m.live, id)
	m.mu.Unlock()
	if m.store == nil {
		return nil
	}
	return m.store.Delete(id)
}
