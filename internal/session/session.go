// Package session holds the signed-in users and their resolved access.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harentsoaR/colortherapy-api/internal/access"
	"github.com/harentsoaR/colortherapy-api/internal/models"
)

// Session is the identity and permission matrix of one login.
type Session struct {
	ID         string
	User       models.User
	Access     access.Access
	Navigation []access.Entry
	ExpiresAt  time.Time
}

// ResolveFunc computes access and navigation for a user.
type ResolveFunc func(user *models.User) (access.Access, []access.Entry)

// Manager owns every live session. Sessions are created at login, replaced
// when an administrator edits the user or the config is reloaded, and cleared
// at logout or when the user is blocked or deleted.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new session for user.
func (m *Manager) Create(user models.User, a access.Access, nav []access.Entry) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		User:       user,
		Access:     a,
		Navigation: nav,
		ExpiresAt:  m.now().Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s.clone()
}

// Get returns a copy of a live session. Expired sessions are dropped.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !m.now().Before(s.ExpiresAt) {
		m.Clear(id)
		return nil, false
	}
	return s.clone(), true
}

// Replace swaps the user record and access of every session of user.ID.
// It returns how many sessions were updated.
func (m *Manager) Replace(user models.User, a access.Access, nav []access.Entry) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, s := range m.sessions {
		if s.User.ID == user.ID {
			s.User = user
			s.Access = a
			s.Navigation = nav
			n++
		}
	}
	return n
}

// Clear ends one session.
func (m *Manager) Clear(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// ClearUser ends every session of a user and returns how many were ended.
func (m *Manager) ClearUser(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if s.User.ID.Hex() == userID {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Refresh re-resolves every session, e.g. after the app config changed.
func (m *Manager) Refresh(resolve ResolveFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		s.Access, s.Navigation = resolve(&s.User)
	}
}

// Sweep drops expired sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of sessions held, expired or not.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (s *Session) clone() *Session {
	c := *s
	c.Navigation = append([]access.Entry(nil), s.Navigation...)
	return &c
}
