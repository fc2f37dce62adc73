package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/franciscosanchezn/gin-oauth-bridge/internal/auth"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/middleware"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/models"
	"github.com/gin-gonic/gin"
	oautherr "github.com/go-oauth2/oauth2/v4/errors"
)

// OAuthController exposes the authorize and token endpoints. It owns request
// parsing and HTTP status mapping only; every protocol decision lives in
// auth.OAuthService.
type OAuthController struct {
	svc *auth.OAuthService
}

func NewOAuthController(svc *auth.OAuthService) *OAuthController {
	return &OAuthController{svc: svc}
}

// Authorize starts the authorization code flow
// @Summary Authorization endpoint
// @Description OAuth 2.0 authorization endpoint (Authorization Code + PKCE). Requires a logged-in session.
// @Tags oauth2
// @Produce json
// @Param client_id query string true "Client identifier"
// @Param redirect_uri query string true "Registered redirect URI"
// @Param response_type query string true "Must be 'code'"
// @Param state query string true "Opaque CSRF token, echoed back unchanged"
// @Param code_challenge query string true "PKCE code challenge"
// @Param code_challenge_method query string true "Must be 'S256'"
// @Success 302
// @Failure 400 {object} models.OAuth2Error
// @Router /oauth/authorize [get]
func (oc *OAuthController) Authorize(c *gin.Context) {
	var query struct {
		ClientID            string `form:"client_id" binding:"required"`
		RedirectURI         string `form:"redirect_uri" binding:"required"`
		ResponseType        string `form:"response_type" binding:"required"`
		State               string `form:"state" binding:"required"`
		CodeChallenge       string `form:"code_challenge" binding:"required"`
		CodeChallengeMethod string `form:"code_challenge_method" binding:"required"`
	}

	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest, err.Error()))
		return
	}
	if query.ResponseType != "code" {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnsupportedResponseType,
			`response_type must be "code"`))
		return
	}

	// Asserted by the session guard; the core trusts it as-is.
	userID := c.GetString(middleware.ContextUserID)

	code, err := oc.svc.StartAuthorization(query.ClientID, query.RedirectURI,
		query.CodeChallenge, query.CodeChallengeMethod, userID)
	if err != nil {
		respondOAuthError(c, err)
		return
	}

	redirectURL, err := url.Parse(query.RedirectURI)
	if err != nil {
		// The registry only holds parseable URIs, so this should be unreachable.
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest, "redirect_uri is not a valid URL"))
		return
	}
	q := redirectURL.Query()
	q.Set("code", code)
	q.Set("state", query.State)
	redirectURL.RawQuery = q.Encode()

	c.Redirect(http.StatusFound, redirectURL.String())
}

// Token exchanges a grant for tokens
// @Summary Token endpoint
// @Description OAuth 2.0 token endpoint. Supports the authorization_code (with PKCE) and refresh_token grants.
// @Tags oauth2
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "authorization_code or refresh_token"
// @Param client_id formData string true "Client identifier"
// @Param code formData string false "Authorization code (authorization_code grant)"
// @Param redirect_uri formData string false "Redirect URI used at authorization (authorization_code grant)"
// @Param code_verifier formData string false "PKCE code verifier (authorization_code grant)"
// @Param refresh_token formData string false "Refresh token (refresh_token grant)"
// @Success 200 {object} auth.TokenPair
// @Failure 400 {object} models.OAuth2Error
// @Failure 401 {object} models.OAuth2Error
// @Router /oauth/token [post]
func (oc *OAuthController) Token(c *gin.Context) {
	clientID := c.PostForm("client_id")
	if clientID == "" {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest, "client_id is required"))
		return
	}

	switch c.PostForm("grant_type") {
	case "authorization_code":
		code := c.PostForm("code")
		redirectURI := c.PostForm("redirect_uri")
		codeVerifier := c.PostForm("code_verifier")
		if code == "" || redirectURI == "" || codeVerifier == "" {
			c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest,
				"code, redirect_uri, and code_verifier are required for the authorization_code grant"))
			return
		}

		pair, err := oc.svc.ExchangeCode(code, clientID, redirectURI, codeVerifier)
		if err != nil {
			respondOAuthError(c, err)
			return
		}
		c.JSON(http.StatusOK, pair)

	case "refresh_token":
		refreshToken := c.PostForm("refresh_token")
		if refreshToken == "" {
			c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest,
				"refresh_token is required for the refresh_token grant"))
			return
		}

		pair, err := oc.svc.Refresh(refreshToken, clientID)
		if err != nil {
			respondOAuthError(c, err)
			return
		}
		c.JSON(http.StatusOK, pair)

	default:
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnsupportedGrantType,
			`grant_type must be "authorization_code" or "refresh_token"`))
	}
}

// respondOAuthError maps the service's classified failures to RFC 6749 wire
// responses. invalid_grant descriptions stay generic on purpose.
func respondOAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, oautherr.ErrInvalidClient):
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidClient, "Unknown client_id"))
	case errors.Is(err, oautherr.ErrInvalidRedirectURI):
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest,
			"redirect_uri is not registered for this client"))
	case errors.Is(err, oautherr.ErrUnsupportedCodeChallengeMethod):
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest,
			"code_challenge_method must be S256"))
	case errors.Is(err, oautherr.ErrInvalidGrant):
		c.JSON(http.StatusUnauthorized, models.NewOAuth2Error(models.ErrInvalidGrant,
			"The provided grant is invalid, expired, or revoked"))
	default:
		c.JSON(http.StatusInternalServerError, models.NewOAuth2Error(models.ErrServerError,
			"Token issuance failed"))
	}
}
