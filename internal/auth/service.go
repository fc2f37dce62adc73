package auth

import (
	"time"

	oautherr "github.com/go-oauth2/oauth2/v4/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// Grant lifetimes. Expiration is evaluated lazily against the stored instant
// at access time; nothing runs on a timer.
const (
	AuthorizationCodeTTL = 10 * time.Minute
	RefreshTokenTTL      = 7 * 24 * time.Hour
)

// TokenPair is the success payload of the token endpoint for both grants.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// OAuthService coordinates the client registry, the code and refresh token
// stores and the token signer to run the authorization-code flow. It trusts
// the userID it is handed: session authentication happens before a request
// reaches this layer, and is never re-checked here.
type OAuthService struct {
	registry *ClientRegistry
	codes    *AuthorizationCodeStore
	refresh  *RefreshTokenStore
	signer   *TokenSigner
}

func NewOAuthService(registry *ClientRegistry, codes *AuthorizationCodeStore, refresh *RefreshTokenStore, signer *TokenSigner) *OAuthService {
	return &OAuthService{
		registry: registry,
		codes:    codes,
		refresh:  refresh,
		signer:   signer,
	}
}

// StartAuthorization validates an authorize request and mints a single-use
// code bound to it. Authorize-phase failures are classified individually
// (unknown client, unregistered redirect, unsupported challenge method)
// because at this point the caller is the user's own browser, not the
// third-party client.
func (s *OAuthService) StartAuthorization(clientID, redirectURI, codeChallenge, codeChallengeMethod, userID string) (string, error) {
	if _, ok := s.registry.Lookup(clientID); !ok {
		log.WithField("client_id", clientID).Info("authorize request for unknown client")
		return "", oautherr.ErrInvalidClient
	}
	if !s.registry.IsAllowedRedirect(clientID, redirectURI) {
		log.WithFields(logrus.Fields{
			"client_id":    clientID,
			"redirect_uri": redirectURI,
		}).Info("authorize request with unregistered redirect_uri")
		return "", oautherr.ErrInvalidRedirectURI
	}
	if codeChallengeMethod != ChallengeMethodS256 {
		log.WithFields(logrus.Fields{
			"client_id": clientID,
			"method":    codeChallengeMethod,
		}).Info("authorize request with unsupported code_challenge_method")
		return "", oautherr.ErrUnsupportedCodeChallengeMethod
	}

	code := s.codes.Issue(clientID, userID, redirectURI, codeChallenge, codeChallengeMethod, AuthorizationCodeTTL)
	log.WithFields(logrus.Fields{
		"client_id": clientID,
		"user_id":   userID,
	}).Debug("authorization code issued")
	return code, nil
}

// ExchangeCode redeems an authorization code for a token pair. The code is
// consumed before the PKCE check on purpose: a request that guessed the code
// but not the verifier still burns it, so codes are never retryable. Every
// failure collapses to invalid_grant so a caller cannot probe which check
// tripped; the real reason goes to the internal log only.
func (s *OAuthService) ExchangeCode(code, clientID, redirectURI, codeVerifier string) (*TokenPair, error) {
	rec, err := s.codes.Redeem(code)
	if err != nil {
		log.WithFields(logrus.Fields{
			"client_id": clientID,
			"reason":    err.Error(),
		}).Info("authorization code redemption refused")
		return nil, oautherr.ErrInvalidGrant
	}
	if rec.ClientID != clientID || rec.RedirectURI != redirectURI {
		log.WithFields(logrus.Fields{
			"client_id":       clientID,
			"bound_client_id": rec.ClientID,
		}).Info("authorization code binding mismatch")
		return nil, oautherr.ErrInvalidGrant
	}
	if !VerifyPKCE(codeVerifier, rec.CodeChallenge, rec.CodeChallengeMethod) {
		log.WithField("client_id", clientID).Info("PKCE verification failed")
		return nil, oautherr.ErrInvalidGrant
	}

	accessToken, err := s.signer.Sign(rec.UserID, clientID)
	if err != nil {
		log.WithError(err).Error("access token signing failed")
		return nil, oautherr.ErrServerError
	}
	refreshToken := s.refresh.Issue(rec.UserID, clientID, RefreshTokenTTL)

	log.WithFields(logrus.Fields{
		"client_id": clientID,
		"user_id":   rec.UserID,
	}).Info("authorization code exchanged")
	return &TokenPair{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(AccessTokenTTL.Seconds()),
		RefreshToken: refreshToken,
	}, nil
}

// Refresh issues a fresh access token against a still-valid refresh token.
// The refresh token itself comes back unchanged: this server does not rotate
// refresh tokens.
func (s *OAuthService) Refresh(refreshToken, clientID string) (*TokenPair, error) {
	rec, err := s.refresh.Lookup(refreshToken)
	if err != nil {
		log.WithFields(logrus.Fields{
			"client_id": clientID,
			"reason":    err.Error(),
		}).Info("refresh token rejected")
		return nil, oautherr.ErrInvalidGrant
	}
	if rec.ClientID != clientID {
		log.WithFields(logrus.Fields{
			"client_id":       clientID,
			"bound_client_id": rec.ClientID,
		}).Info("refresh token client mismatch")
		return nil, oautherr.ErrInvalidGrant
	}

	accessToken, err := s.signer.Sign(rec.UserID, clientID)
	if err != nil {
		log.WithError(err).Error("access token signing failed")
		return nil, oautherr.ErrServerError
	}
	return &TokenPair{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(AccessTokenTTL.Seconds()),
		RefreshToken: refreshToken,
	}, nil
}

// RevokeUserTokens drops every refresh token owned by userID and reports how
// many were revoked. Outstanding access tokens stay valid until they expire.
func (s *OAuthService) RevokeUserTokens(userID string) int {
	revoked := s.refresh.RevokeAllForUser(userID)
	if revoked > 0 {
		log.WithFields(logrus.Fields{
			"user_id": userID,
			"revoked": revoked,
		}).Info("refresh tokens revoked for user")
	}
	return revoked
}
