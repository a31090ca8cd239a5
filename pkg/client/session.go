package client

import (
	"sync"

	"github.com/shiftline-hq/shiftline-client/internal/domain"
)

// Session is the token pair the client authenticates with.
type Session = domain.Session

// SessionStore persists the token pair between requests (and, for durable
// implementations, between processes).
type SessionStore interface {
	LoadSession() (domain.Session, bool, error)
	SaveSession(s domain.Session) error
	ClearSession() error
}

// MemorySessionStore keeps the session for the lifetime of the process.
type MemorySessionStore struct {
	mu      sync.RWMutex
	session *domain.Session
}

func NewMemorySessionStore() *MemorySessionStore { return &MemorySessionStore{} }

func (m *MemorySessionStore) LoadSession() (domain.Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return domain.Session{}, false, nil
	}
	return *m.session, true, nil
}

func (m *MemorySessionStore) SaveSession(s domain.Session) error {
	m.mu.Lock()
	m.session = &s
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) ClearSession() error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}
