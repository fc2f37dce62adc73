package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenTTL bounds the lifetime of issued bearer tokens. The token
// endpoint reports it as expires_in.
const AccessTokenTTL = 15 * time.Minute

// ErrInvalidAccessToken is the only failure Verify reports. Expired,
// malformed and forged tokens are deliberately indistinguishable so the token
// alone cannot be used as an oracle.
var ErrInvalidAccessToken = errors.New("invalid access token")

// AccessTokenClaims is the payload of issued access tokens. Tokens are
// self-contained: any holder of the signing secret can verify them offline.
type AccessTokenClaims struct {
	ClientID string `json:"clientId"`
	jwt.RegisteredClaims
}

// TokenSigner signs and verifies the HS256 bearer tokens handed to OAuth
// clients.
type TokenSigner struct {
	secret []byte
	now    func() time.Time
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Sign produces a bearer token asserting userID acting through clientID,
// issued now and expiring AccessTokenTTL later.
func (s *TokenSigner) Sign(userID, clientID string) (string, error) {
	now := s.now()
	claims := AccessTokenClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature integrity and expiry and returns the embedded
// identity. Pinning the method to HS256 rules out algorithm confusion
// attacks.
func (s *TokenSigner) Verify(tokenString string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAccessToken
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}
