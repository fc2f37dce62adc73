package middleware

import (
	"net/http"
	"strings"

	"github.com/franciscosanchezn/gin-oauth-bridge/internal/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware for downstream handlers.
const (
	ContextUserID   = "userID"
	ContextClientID = "clientID"
)

// OAuth2Auth middleware that guards resource endpoints with the bearer access
// tokens minted by the token endpoint, following RFC 6749 (OAuth2) and
// RFC 6750 (bearer token usage).
func OAuth2Auth(signer *auth.TokenSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		// RFC 6750: Extract Bearer token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "authorization_required",
				"Missing Authorization header. A valid Bearer token is required.")
			return
		}

		// Validate Bearer scheme format
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_request",
				"Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token",
				"Bearer token is empty")
			return
		}

		// The signer collapses every failure mode (expired, forged, malformed)
		// into one; the response must not be more specific than that.
		claims, err := signer.Verify(tokenString)
		if err != nil {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token",
				"Access token is invalid or expired")
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextClientID, claims.ClientID)

		c.Next()
	}
}

// respondWithOAuth2Error responds with RFC 6750 compliant error format
func respondWithOAuth2Error(c *gin.Context, status int, errorCode, description string) {
	c.JSON(status, gin.H{
		"error":             errorCode,
		"error_description": description,
	})
	c.Abort()
}
