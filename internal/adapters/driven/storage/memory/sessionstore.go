package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// Used when --token is given and nothing should touch disk.
type SessionStore struct {
	mu     sync.RWMutex
	tokens map[string]domain.StoredToken
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		tokens: make(map[string]domain.StoredToken),
	}
}

// Save stores or replaces the token for its profile.
func (s *SessionStore) Save(_ context.Context, token domain.StoredToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Profile] = token
	return nil
}

// Get retrieves the token for a profile.
func (s *SessionStore) Get(_ context.Context, profile string) (*domain.StoredToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[profile]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &token, nil
}

// Delete removes the token for a profile.
func (s *SessionStore) Delete(_ context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, profile)
	return nil
}

// List returns all stored tokens ordered by profile.
func (s *SessionStore) List(_ context.Context) ([]domain.StoredToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tokens := make([]domain.StoredToken, 0, len(s.tokens))
	for _, t := range s.tokens {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Profile < tokens[j].Profile
	})
	return tokens, nil
}
