package service

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ============================================================
// Session Manager
// ============================================================

var ErrSessionNotFound = errors.New("session not found")

type sessionEntry struct {
	mu      sync.Mutex
	session *Session
}

// Manager хранит сессии по ID. События одной сессии выполняются
// строго по очереди, разные сессии не блокируют друг друга.
type Manager struct {
	mu       sync.Mutex
	opts     Options
	sessions map[string]*sessionEntry // sessionID -> entry
}

func NewManager(opts Options) *Manager {
	return &Manager{
		opts:     opts,
		sessions: make(map[string]*sessionEntry),
	}
}

func (m *Manager) Create() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.sessions[id] = &sessionEntry{session: NewSession(id, m.opts)}
	return id
}

// Do выполняет fn под замком сессии.
func (m *Manager) Do(id string, fn func(*Session) error) error {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.session)
}

func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}
