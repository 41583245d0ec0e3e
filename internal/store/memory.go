package store

import (
	"context"
	"slices"
	"sync"

	"github.com/darmiel/tokenkeep/internal/core"
)

var _ core.TokenRepository = (*InMemoryTokenStore)(nil)

// InMemoryTokenStore keeps tokens in a slice in insertion order.
type InMemoryTokenStore struct {
	mu     sync.RWMutex
	tokens []core.Token
}

func NewInMemoryTokenStore() *InMemoryTokenStore {
	return &InMemoryTokenStore{
		tokens: make([]core.Token, 0),
	}
}

func (s *InMemoryTokenStore) All(_ context.Context) ([]core.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.tokens), nil
}

func (s *InMemoryTokenStore) Get(_ context.Context, id string) (core.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return core.Token{}, core.ErrNotFound
	}
	return s.tokens[idx], nil
}

func (s *InMemoryTokenStore) Insert(_ context.Context, token core.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(token.ID) >= 0 {
		return core.ErrDuplicateID
	}
	s.tokens = append(s.tokens, token)
	return nil
}

func (s *InMemoryTokenStore) Update(_ context.Context, token core.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(token.ID)
	if idx < 0 {
		return core.ErrNotFound
	}
	s.tokens[idx] = token
	return nil
}

func (s *InMemoryTokenStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	s.tokens = slices.Delete(s.tokens, idx, idx+1)
	return true, nil
}

// indexOf must be called with s.mu held.
func (s *InMemoryTokenStore) indexOf(id string) int {
	return slices.IndexFunc(s.tokens, func(t core.Token) bool {
		return t.ID == id
	})
}
