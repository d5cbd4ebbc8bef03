// Package session implements the single-session manager: at most one user
// is logged in per process, and a session older than the configured TTL is
// invalid and cleared before any core operation runs.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session errors
var (
	// ErrSessionExpired indicates the active session outlived its TTL and
	// has been cleared. The collaborator should prompt for a re-login.
	ErrSessionExpired = errors.New("session expired")

	// ErrNoSession indicates no active session exists for the requested user.
	ErrNoSession = errors.New("no active session")
)

// Session records the authenticated identity and the login timestamp.
type Session struct {
	UserID    uuid.UUID
	StartedAt time.Time
}

// Manager tracks the singleton session. It is an explicit, injectable
// object rather than process-global state, so tests can construct
// isolated instances.
type Manager struct {
	mu       sync.Mutex
	current  *Session
	ttl      time.Duration
	timeFunc func() time.Time // Injectable for testing
}

// NewManager creates a Manager with the given session TTL.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		timeFunc: time.Now,
	}
}

// NewManagerWithClock creates a Manager with an injected clock. Used by
// tests that need to move time forward.
func NewManagerWithClock(ttl time.Duration, timeFunc func() time.Time) *Manager {
	return &Manager{
		ttl:      ttl,
		timeFunc: timeFunc,
	}
}

// Login creates and stores the singleton session for the given user,
// overwriting any prior session. Only one session is supported at a time.
func (m *Manager) Login(userID uuid.UUID) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Session{UserID: userID, StartedAt: m.timeFunc()}
	m.current = &s
	return s
}

// IsValid reports whether a session exists and is within its TTL.
func (m *Manager) IsValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current != nil && !m.stale()
}

// ExpireIfStale clears the session and returns ErrSessionExpired when the
// session has outlived its TTL. It is invoked at the start of every core
// operation. A valid session, or no session at all, returns nil.
func (m *Manager) ExpireIfStale() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}

	if m.stale() {
		m.current = nil
		return ErrSessionExpired
	}

	return nil
}

// Require runs the staleness check and then verifies the active session
// belongs to the given user. Returns ErrSessionExpired when the session
// just lapsed, or ErrNoSession when no session exists or it belongs to a
// different user (only one session is supported).
func (m *Manager) Require(userID uuid.UUID) error {
	if err := m.ExpireIfStale(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || m.current.UserID != userID {
		return ErrNoSession
	}

	return nil
}

// Logout clears the session unconditionally. Idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
}

// stale reports whether the current session is past its TTL.
// Callers must hold m.mu; m.current must be non-nil.
func (m *Manager) stale() bool {
	return m.timeFunc().Sub(m.current.StartedAt) > m.ttl
}
