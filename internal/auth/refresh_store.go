package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RefreshToken records an issued refresh token and its owner binding.
type RefreshToken struct {
	Token     string
	UserID    string
	ClientID  string
	ExpiresAt time.Time
}

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
)

// RefreshTokenStore tracks issued refresh tokens in memory. Unlike
// authorization codes, refresh tokens are reusable until expiry: Lookup never
// consumes them and there is no rotation.
type RefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken
	now    func() time.Time
}

func NewRefreshTokenStore() *RefreshTokenStore {
	return &RefreshTokenStore{
		tokens: make(map[string]*RefreshToken),
		now:    time.Now,
	}
}

// Issue mints an opaque refresh token bound to the user/client pair.
func (s *RefreshTokenStore) Issue(userID, clientID string, ttl time.Duration) string {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = &RefreshToken{
		Token:     token,
		UserID:    userID,
		ClientID:  clientID,
		ExpiresAt: s.now().Add(ttl),
	}
	return token
}

// Lookup returns a copy of the record for token. Expired tokens are deleted
// on sight and reported as ErrRefreshTokenExpired; a later lookup of the same
// token sees ErrRefreshTokenNotFound.
func (s *RefreshTokenStore) Lookup(token string) (RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tokens[token]
	if !ok {
		return RefreshToken{}, ErrRefreshTokenNotFound
	}
	if s.now().After(rec.ExpiresAt) {
		delete(s.tokens, token)
		return RefreshToken{}, ErrRefreshTokenExpired
	}
	return *rec, nil
}

// RevokeAllForUser removes every refresh token owned by userID and reports
// how many were dropped. Linear scan; the table stays small enough that an
// index by user is not worth carrying.
func (s *RefreshTokenStore) RevokeAllForUser(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	revoked := 0
	for token, rec := range s.tokens {
		if rec.UserID == userID {
			delete(s.tokens, token)
			revoked++
		}
	}
	return revoked
}
