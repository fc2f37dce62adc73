package controllers

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-oauth-bridge/internal/auth"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/middleware"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/models"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/services"
	"github.com/gin-gonic/gin"
)

// ResourceController serves the API endpoints reachable with an OAuth access
// token. The Bearer middleware has already validated the token and put the
// subject and client on the context.
type ResourceController struct {
	userService services.UserService
	oauthSvc    *auth.OAuthService
}

func NewResourceController(userService services.UserService, oauthSvc *auth.OAuthService) *ResourceController {
	return &ResourceController{userService: userService, oauthSvc: oauthSvc}
}

// Me returns the identity behind the access token
// @Summary Current user
// @Description Return the user the access token was issued for
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.APIError
// @Router /api/me [get]
func (rc *ResourceController) Me(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	user, err := rc.userService.GetUserByID(userID)
	if err != nil {
		// Token subjects can outlive their users; self-contained tokens are
		// not invalidated by account deletion.
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "User not found"))
		return
	}

	c.JSON(http.StatusOK, userPayload(user))
}

// ProtectedResource is a sample endpoint demonstrating token-scoped access
// @Summary Protected resource
// @Description Example resource that requires a valid access token
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/protected-resource [get]
func (rc *ResourceController) ProtectedResource(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	clientID := c.GetString(middleware.ContextClientID)

	c.JSON(http.StatusOK, gin.H{
		"message":   "This is a protected resource",
		"userId":    userID,
		"clientId":  clientID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// LogoutEverywhere revokes every refresh token the user holds, across all
// clients. Access tokens already issued keep working until they expire
// (15 minutes at most).
func (rc *ResourceController) LogoutEverywhere(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	revoked := rc.oauthSvc.RevokeUserTokens(userID)

	c.JSON(http.StatusOK, gin.H{
		"message": "All refresh tokens revoked",
		"revoked": revoked,
	})
}
