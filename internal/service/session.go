package service

import (
	"sync"
	"time"
)

// SessionManager tracks logged in Telegram users in memory.
// Expiry is computed on each check; expired entries stay in the map until
// the user logs in again or logs out.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[int64]time.Time
	duration time.Duration
	now      func() time.Time
}

// NewSessionManager creates a session manager with a fixed session lifetime
func NewSessionManager(duration time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[int64]time.Time),
		duration: duration,
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	m.now = now
	return m
}

// Login starts or restarts the user's session
func (m *SessionManager) Login(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = m.now()
}

// IsAuthenticated reports whether the user may run authenticated commands.
// Admins always pass without a session.
func (m *SessionManager) IsAuthenticated(userID int64, isAdmin bool) bool {
	if isAdmin {
		return true
	}

	m.mu.RLock()
	loggedInAt, exists := m.sessions[userID]
	m.mu.RUnlock()

	if !exists {
		return false
	}
	return m.now().Sub(loggedInAt) < m.duration
}

// Logout removes the user's session and reports whether one existed
func (m *SessionManager) Logout(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[userID]; !exists {
		return false
	}
	delete(m.sessions, userID)
	return true
}

// Len returns the number of stored sessions, expired ones included
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close drops every session
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[int64]time.Time)
}
