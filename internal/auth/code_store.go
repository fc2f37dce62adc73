package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuthorizationCode records an issued code together with everything the token
// exchange must later match against it.
type AuthorizationCode struct {
	Code                string
	ClientID            string
	UserID              string
	RedirectURI         string
	CodeChallenge       string
	CodeChallengeMethod string
	ExpiresAt           time.Time
}

// Classified redemption failures. Callers collapse these before anything
// reaches an OAuth client; the distinction exists for logs and tests.
var (
	ErrCodeNotFound = errors.New("authorization code not found")
	ErrCodeExpired  = errors.New("authorization code expired")
)

// AuthorizationCodeStore tracks issued authorization codes in memory. Every
// access goes through the store mutex; in particular Redeem is a single
// check-and-mutate step, so two requests racing on the same code cannot both
// win.
type AuthorizationCodeStore struct {
	mu    sync.Mutex
	codes map[string]*AuthorizationCode
	now   func() time.Time
}

func NewAuthorizationCodeStore() *AuthorizationCodeStore {
	return &AuthorizationCodeStore{
		codes: make(map[string]*AuthorizationCode),
		now:   time.Now,
	}
}

// Issue mints a fresh single-use code bound to the given client, user,
// redirect URI and PKCE challenge. The code is an opaque UUID with no
// embedded structure.
func (s *AuthorizationCodeStore) Issue(clientID, userID, redirectURI, codeChallenge, codeChallengeMethod string, ttl time.Duration) string {
	code := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = &AuthorizationCode{
		Code:                code,
		ClientID:            clientID,
		UserID:              userID,
		RedirectURI:         redirectURI,
		CodeChallenge:       codeChallenge,
		CodeChallengeMethod: codeChallengeMethod,
		ExpiresAt:           s.now().Add(ttl),
	}
	return code
}

// Peek returns a copy of the stored record without consuming it.
func (s *AuthorizationCodeStore) Peek(code string) (AuthorizationCode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.codes[code]
	if !ok {
		return AuthorizationCode{}, false
	}
	return *rec, true
}

// Redeem consumes an authorization code. Exactly one caller can succeed for a
// given code: the winner gets the record back and the entry is deleted inside
// the same critical section, so every later caller — replay or racing loser —
// sees ErrCodeNotFound. Expired codes are deleted on sight and reported as
// ErrCodeExpired.
func (s *AuthorizationCodeStore) Redeem(code string) (AuthorizationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.codes[code]
	if !ok {
		return AuthorizationCode{}, ErrCodeNotFound
	}
	if s.now().After(rec.ExpiresAt) {
		delete(s.codes, code)
		return AuthorizationCode{}, ErrCodeExpired
	}

	delete(s.codes, code)
	return *rec, nil
}
