package pos

import (
	"sync"

	"github.com/google/uuid"

	"livesell/internal/checkout"
)

// SessionFactory builds a checkout session for a new sell transaction.
type SessionFactory func(id string) *checkout.Session

// SessionManager tracks the open sell sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*checkout.Session
	factory  SessionFactory
}

func NewSessionManager(factory SessionFactory) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*checkout.Session),
		factory:  factory,
	}
}

// Create opens a session with an empty cart.
func (m *SessionManager) Create() *checkout.Session {
	id := uuid.NewString()
	session := m.factory(id)
	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()
	return session
}

func (m *SessionManager) Get(id string) (*checkout.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Close discards a session and its cart.
func (m *SessionManager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
