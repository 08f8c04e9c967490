// Package session holds the process-wide authenticated session. The Store
// is the single owner of the current session; flows only ever request a
// replacement through Install and never mutate it in place.
package session

import (
	"sync"

	"github.com/letteratech/identity-service/internal/core/domain"
)

// Session is an identity snapshot plus the opaque token issued with it.
type Session struct {
	Identity *domain.Identity
	Token    string
}

// Store guards the current session. Initialized empty; installed by the
// issuance, login, and recovery flows; cleared only by explicit logout.
type Store struct {
	mu      sync.RWMutex
	current *Session
}

func NewStore() *Store {
	return &Store{}
}

// Install replaces any existing session. A recovery-triggered
// re-authentication goes through here too: the old session is replaced,
// not merely cleared.
func (s *Store) Install(identity *domain.Identity, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &Session{Identity: identity, Token: token}
}

// Clear removes the session (logout).
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Current returns the active session, or nil when logged out.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
