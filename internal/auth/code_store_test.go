package auth

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationCodeStoreIssueAndPeek(t *testing.T) {
	store := NewAuthorizationCodeStore()

	code := store.Issue("extension", "user-42", "http://localhost:3000/oauth/extension-callback",
		ChallengeS256("verifier123"), ChallengeMethodS256, 10*time.Minute)
	require.NotEmpty(t, code)

	rec, ok := store.Peek(code)
	require.True(t, ok)
	assert.Equal(t, code, rec.Code)
	assert.Equal(t, "extension", rec.ClientID)
	assert.Equal(t, "user-42", rec.UserID)
	assert.Equal(t, "http://localhost:3000/oauth/extension-callback", rec.RedirectURI)
	assert.Equal(t, ChallengeS256("verifier123"), rec.CodeChallenge)
	assert.Equal(t, "S256", rec.CodeChallengeMethod)

	// Peek is read-only
	_, ok = store.Peek(code)
	assert.True(t, ok)
}

func TestAuthorizationCodeStoreIssueUniqueCodes(t *testing.T) {
	store := NewAuthorizationCodeStore()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := store.Issue("extension", "user-42", "uri", "challenge", ChallengeMethodS256, time.Minute)
		assert.False(t, seen[code])
		seen[code] = true
	}
}

func TestAuthorizationCodeStoreRedeemSingleUse(t *testing.T) {
	store := NewAuthorizationCodeStore()
	code := store.Issue("extension", "user-42", "uri", "challenge", ChallengeMethodS256, time.Minute)

	rec, err := store.Redeem(code)
	require.NoError(t, err)
	assert.Equal(t, "user-42", rec.UserID)

	// The record is deleted on success, so the second attempt sees not-found
	_, err = store.Redeem(code)
	assert.ErrorIs(t, err, ErrCodeNotFound)

	_, ok := store.Peek(code)
	assert.False(t, ok)
}

func TestAuthorizationCodeStoreRedeemUnknown(t *testing.T) {
	store := NewAuthorizationCodeStore()

	_, err := store.Redeem("no-such-code")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestAuthorizationCodeStoreRedeemExpired(t *testing.T) {
	store := NewAuthorizationCodeStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	code := store.Issue("extension", "user-42", "uri", "challenge", ChallengeMethodS256, 10*time.Minute)

	// Just before the deadline the code still redeems
	store.now = func() time.Time { return base.Add(10 * time.Minute) }
	other := store.Issue("extension", "user-42", "uri", "challenge", ChallengeMethodS256, 10*time.Minute)
	_, err := store.Redeem(code)
	assert.NoError(t, err)

	// Past the deadline the code is lazily deleted
	store.now = func() time.Time { return base.Add(21 * time.Minute) }
	_, err = store.Redeem(other)
	assert.ErrorIs(t, err, ErrCodeExpired)

	_, ok := store.Peek(other)
	assert.False(t, ok, "expired code should be deleted on redemption attempt")

	_, err = store.Redeem(other)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestAuthorizationCodeStoreRedeemConcurrent(t *testing.T) {
	store := NewAuthorizationCodeStore()
	code := store.Issue("extension", "user-42", "uri", "challenge", ChallengeMethodS256, time.Minute)

	const attempts = 32
	var successes atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := store.Redeem(code); err == nil {
				successes.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load(), "exactly one concurrent redemption may succeed")
}
