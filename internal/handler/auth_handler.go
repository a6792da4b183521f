package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Thanhbi2612/Dreamlens/internal/dto"
	"github.com/Thanhbi2612/Dreamlens/internal/middleware"
	"github.com/Thanhbi2612/Dreamlens/internal/service"
	"github.com/Thanhbi2612/Dreamlens/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

// GoogleOAuth Google authorization code flow
type GoogleOAuth interface {
	Enabled() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*service.GoogleUserInfo, error)
}

// AuthHandler authentication endpoints
type AuthHandler struct {
	authService    *service.AuthService
	accountService *service.AccountService
	oauth          GoogleOAuth
	frontendURL    string
	logger         logrus.FieldLogger
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(authService *service.AuthService, accountService *service.AccountService, oauth GoogleOAuth, frontendURL string, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
		oauth:          oauth,
		frontendURL:    frontendURL,
		logger:         logger,
	}
}

// Register creates a local account
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "account"
// @Success 201 {object} dto.UserInfo
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.Created(c, dto.NewUserInfo(user))
}

// Login issues an access token
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "credentials"
// @Success 200 {object} dto.LoginResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.OK(c, resp)
}

// GetMe returns the current user
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	me, err := h.authService.GetMe(c.Request.Context(), userID)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.OK(c, me)
}

// Logout tokens are stateless; the client discards its token
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.Message(c, "Successfully logged out")
}

// DeleteAccount removes the current user and all their data
// @Summary Delete account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.DeleteAccountRequest false "confirmation"
// @Success 200 {object} dto.DeleteAccountResponse
// @Router /api/auth/account [delete]
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	var req dto.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindFailed(c, err)
		return
	}

	user, _ := middleware.GetUser(c)
	resp, err := h.accountService.DeleteAccount(c.Request.Context(), user, req.Password)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.OK(c, resp)
}

// GoogleLogin redirects to the Google consent page
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.oauth == nil || !h.oauth.Enabled() {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Google login is not configured")
		return
	}

	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int(oauthStateTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauth.AuthCodeURL(state))
}

// GoogleCallback completes the Google flow and redirects to the frontend
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	if err != nil || state == "" || state != c.Query("state") {
		h.googleFailed(c, errors.New("oauth state mismatch"))
		return
	}

	if h.oauth == nil || !h.oauth.Enabled() {
		h.googleFailed(c, errors.New("google login is not configured"))
		return
	}

	code := c.Query("code")
	if code == "" {
		h.googleFailed(c, errors.New("missing authorization code"))
		return
	}

	info, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		h.googleFailed(c, err)
		return
	}

	user, err := h.authService.GetOrCreateGoogleUser(c.Request.Context(), info)
	if err != nil {
		h.googleFailed(c, err)
		return
	}

	resp, err := h.authService.NewLoginResponse(user)
	if err != nil {
		h.googleFailed(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.frontendRedirect(url.Values{
		"token": {resp.AccessToken},
		"login": {"success"},
	}))
}

func (h *AuthHandler) googleFailed(c *gin.Context, err error) {
	h.logger.WithError(err).Warn("google login failed")
	c.Redirect(http.StatusTemporaryRedirect, h.frontendRedirect(url.Values{"error": {"google_login_failed"}}))
}

func (h *AuthHandler) frontendRedirect(params url.Values) string {
	return h.frontendURL + "?" + params.Encode()
}
