// Package session implements the client-side session state: a store
// holding the current signed-in projection, a facade mediating between
// the identity provider and the profile store, and a guard gating
// navigation to protected views.
package session

import (
	"sync"

	"server/internal/domain"
)

// State enumerates the session lifecycle.
type State int

const (
	// StateInitializing holds until the provider's first session
	// notification arrives. Protected content must not render yet.
	StateInitializing State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Session is the process-local projection of who is currently signed in:
// the provider identity merged with the stored profile, when one exists.
type Session struct {
	Identity   domain.Identity
	Profile    domain.ProfileRecord
	HasProfile bool
}

// Store holds the UI-visible session state. It has exactly one writer,
// the facade's session-change handler; everything else only reads.
type Store struct {
	mu      sync.RWMutex
	state   State
	session *Session
	lastErr string
}

// NewStore creates a Store in the Initializing state.
func NewStore() *Store {
	return &Store{state: StateInitializing}
}

// Current returns the session state and, when authenticated, a copy of
// the session.
func (s *Store) Current() (State, *Session) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return s.state, nil
	}
	copied := *s.session
	return s.state, &copied
}

// LastError returns the most recent operation error message, or "".
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) set(state State, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.session = session
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
}

func (s *Store) clearError() {
	s.setError("")
}
