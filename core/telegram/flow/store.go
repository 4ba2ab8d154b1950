package flow

import "sync"

// Session is one user's in-progress collection: which schema, which field
// is next, and everything already collected. Exactly one session per user
// exists at a time.
type Session struct {
	SchemaID  string
	Cursor    int
	Collected map[string]any
	UserID    int64
}

// Store holds per-user sessions. Implementations must guarantee that a read
// following a write for the same user observes that write.
type Store interface {
	Get(userID int64) (*Session, bool)
	Put(userID int64, s *Session)
	Clear(userID int64)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore constructs an in-memory Store implementation.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[int64]*Session)}
}

// Get returns the session for a user if one exists.
func (m *memoryStore) Get(userID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Put stores the session for a user, replacing any existing one.
func (m *memoryStore) Put(userID int64, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = s
}

// Clear removes the session for a user.
func (m *memoryStore) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
