package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/service/session"
	"github.com/kloda-app/kloda/backend/internal/transport/http/middleware"
	"github.com/kloda-app/kloda/backend/internal/transport/http/response"
	"github.com/kloda-app/kloda/backend/pkg/httputil"
	"github.com/kloda-app/kloda/backend/pkg/useragent"
)

// AuthService is the part of session.AuthService the handlers use.
type AuthService interface {
	middleware.Authorizer
	Register(ctx context.Context, in session.RegisterInput, client domain.ClientInfo) (*domain.AuthResult, error)
	Login(ctx context.Context, in session.LoginInput, client domain.ClientInfo) (*domain.AuthResult, error)
	Refresh(ctx context.Context, token string, client domain.ClientInfo) (*domain.RefreshResult, error)
	Logout(ctx context.Context, userID int64) error
	Me(ctx context.Context, userID int64) (*domain.UserProfile, error)
	ListSessions(ctx context.Context, userID int64) ([]domain.RefreshSession, error)
	RevokeSession(ctx context.Context, userID int64, sessionID string) error
}

type AuthHandler struct {
	auth   AuthService
	cookie httputil.CookieOptions
}

func NewAuthHandler(auth AuthService, cookie httputil.CookieOptions) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,notblank,max=50"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=72"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

func clientInfo(r *http.Request) domain.ClientInfo {
	return domain.ClientInfo{
		IP:        useragent.ExtractIPAddress(r),
		UserAgent: useragent.ExtractDeviceInfo(r).JSON(),
	}
}

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "New user"
// @Success 200 {object} domain.AuthResult
// @Failure 400 {object} response.Message
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validationMessage(err))
		return
	}

	res, err := h.auth.Register(c.Request.Context(), session.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}, clientInfo(c.Request))
	if err != nil {
		response.Error(c, err)
		return
	}

	httputil.SetRefreshCookie(c.Writer, res.RefreshToken, h.cookie)
	c.JSON(http.StatusOK, res)
}

// Login godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} domain.AuthResult
// @Failure 403 {object} response.Message
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validationMessage(err))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), session.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, clientInfo(c.Request))
	if err != nil {
		response.Error(c, err)
		return
	}

	httputil.SetRefreshCookie(c.Writer, res.RefreshToken, h.cookie)
	c.JSON(http.StatusOK, res)
}

// Refresh godoc
// @Summary Rotate the refresh cookie and issue a new access token
// @Tags Auth
// @Produce json
// @Success 200 {object} accessTokenResponse
// @Failure 401 {object} response.Message
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := httputil.GetRefreshToken(c.Request)

	res, err := h.auth.Refresh(c.Request.Context(), token, clientInfo(c.Request))
	if err != nil {
		response.Error(c, err)
		return
	}

	httputil.SetRefreshCookie(c.Writer, res.RefreshToken, h.cookie)
	c.JSON(http.StatusOK, accessTokenResponse{AccessToken: res.AccessToken})
}

// Logout godoc
// @Summary Log out of every device
// @Tags Auth
// @Security BearerAuth
// @Success 200
// @Failure 401 {object} response.Message
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	if err := h.auth.Logout(c.Request.Context(), identity.UserID()); err != nil {
		response.Error(c, err)
		return
	}

	httputil.ClearRefreshCookie(c.Writer, h.cookie)
	c.Status(http.StatusOK)
}

// Me godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.UserProfile
// @Failure 401 {object} response.Message
// @Router /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), middleware.IdentityFrom(c).UserID())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Sessions godoc
// @Summary Active refresh sessions of the current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.RefreshSession
// @Router /v1/auth/sessions [get]
func (h *AuthHandler) Sessions(c *gin.Context) {
	sessions, err := h.auth.ListSessions(c.Request.Context(), middleware.IdentityFrom(c).UserID())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// RevokeSession godoc
// @Summary Revoke one refresh session
// @Tags Auth
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Message
// @Router /v1/auth/sessions/{id} [delete]
func (h *AuthHandler) RevokeSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.auth.RevokeSession(c.Request.Context(), middleware.IdentityFrom(c).UserID(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message{Message: "Session " + id + " revoked"})
}
