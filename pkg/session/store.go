// Package session holds the authenticated principal for the lifetime of the
// process. Nothing is persisted: a restart requires a new login.
package session

import (
	"sync"

	"ticketdesk/pkg/model"
)

// Store holds the current credential. It is safe for concurrent use; the
// HTTP transport reads the token from request goroutines while the UI
// thread sets and clears it.
type Store struct {
	mu         sync.RWMutex
	credential *model.Credential
}

// NewStore creates an empty (logged out) store.
func NewStore() *Store {
	return &Store{}
}

// SetCredential replaces the current credential.
func (s *Store) SetCredential(c model.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = &c
}

// ClearCredential forgets the current credential.
func (s *Store) ClearCredential() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = nil
}

// Credential returns the current credential, if any.
func (s *Store) Credential() (model.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.credential == nil {
		return model.Credential{}, false
	}
	return *s.credential, true
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.credential == nil {
		return ""
	}
	return s.credential.Token
}

// IsLoggedIn reports whether a credential with a non-empty token is held.
func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}
