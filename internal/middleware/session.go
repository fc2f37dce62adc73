package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionUserIDKey is where the login flow stores the authenticated user ID
// inside the cookie session.
const SessionUserIDKey = "userID"

// RequireSession guards browser-facing routes: the request must carry a
// logged-in cookie session. The user ID lands on the gin context under the
// same key the Bearer middleware uses, so handlers do not care which guard
// ran.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, _ := session.Get(SessionUserIDKey).(string)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":             "authentication_required",
				"error_description": "Log in before using this endpoint",
			})
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}
