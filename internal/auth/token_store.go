package auth

import "sync"

// TokenStore maps session tokens to user IDs. Process-wide state with
// explicit insert/lookup/remove and no implicit cleanup; it does not survive
// a restart.
type TokenStore struct {
	mu          sync.RWMutex
	tokenToUser map[string]string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokenToUser: make(map[string]string)}
}

func (s *TokenStore) Put(token, userID string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenToUser[token] = userID
}

// UserID returns the user behind a token, or "" if the token is unknown.
func (s *TokenStore) UserID(token string) string {
	if token == "" {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokenToUser[token]
}

func (s *TokenStore) Remove(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokenToUser, token)
}
