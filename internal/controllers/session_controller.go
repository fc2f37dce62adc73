package controllers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/franciscosanchezn/gin-oauth-bridge/internal/middleware"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/models"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Passwords need at least one letter and one digit on top of the length
// check done by the binding tag.
var (
	passwordLetter = regexp.MustCompile(`[A-Za-z]`)
	passwordDigit  = regexp.MustCompile(`[0-9]`)
)

// SessionAuthController implements the first-party cookie-session login flow.
// This is the mechanism that authenticates users before they can authorize
// OAuth clients; the OAuth core never sees passwords or session cookies.
type SessionAuthController struct {
	userService services.UserService
}

func NewSessionAuthController(userService services.UserService) *SessionAuthController {
	return &SessionAuthController{userService: userService}
}

// Signup registers a new user and logs them in
// @Summary Sign up
// @Description Register a new account and establish a cookie session
// @Tags session-auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Router /signup [post]
func (sc *SessionAuthController) Signup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}
	if !passwordLetter.MatchString(req.Password) || !passwordDigit.MatchString(req.Password) {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed,
			"Password must contain both letters and numbers"))
		return
	}

	user, err := sc.userService.CreateUser(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, models.NewAPIError(models.ErrConflict, "Email already registered"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Failed to create user"))
		return
	}

	if err := establishSession(c, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Failed to establish session"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    userPayload(user),
	})
}

// Login authenticates an existing user
// @Summary Log in
// @Description Verify credentials and establish a cookie session
// @Tags session-auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} models.APIError
// @Router /login [post]
func (sc *SessionAuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	user, err := sc.userService.Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "Invalid email or password"))
		return
	}

	if err := establishSession(c, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Failed to establish session"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"user":    userPayload(user),
	})
}

// Logout destroys the current session. Guarded by RequireSession.
func (sc *SessionAuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true})
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Failed to logout. Please try again."))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func establishSession(c *gin.Context, userID string) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserIDKey, userID)
	return session.Save()
}

// userPayload shapes a user for responses, always excluding the password hash.
func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"createdAt": user.CreatedAt,
	}
}
