package service

import (
	"sync"

	"github.com/FireKid846/TG-bot/internal/domain"
)

// StateStore holds the pending interactive flow of each user
type StateStore struct {
	mu     sync.RWMutex
	states map[int64]*domain.StateData
}

// NewStateStore creates an empty state store
func NewStateStore() *StateStore {
	return &StateStore{states: make(map[int64]*domain.StateData)}
}

// Get returns user's current state
func (s *StateStore) Get(userID int64) *domain.StateData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, exists := s.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	copied := *state
	return &copied
}

// Set replaces user's state, discarding any flow in progress
func (s *StateStore) Set(userID int64, state *domain.StateData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
}

// Clear ends user's flow
func (s *StateStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

// Close drops every pending flow
func (s *StateStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[int64]*domain.StateData)
}
