// Package handler provides the HTTP handlers of the auth feature.
package handler

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"customer_backend/internal/api"
	"customer_backend/internal/feature/auth/transport/http/dto"
	"customer_backend/internal/feature/auth/usecase"
	userentity "customer_backend/internal/feature/users/domain/entity"
	userdto "customer_backend/internal/feature/users/transport/http/dto"
	jwtmw "customer_backend/internal/platform/jwt"
	"customer_backend/internal/shared/validation"
)

const (
	stateCookie = "oauth_state"
	stateMaxAge = 600 // seconds
)

// AuthUsecase defines the authentication flows used by the handler.
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput, meta usecase.ClientMeta) (*usecase.AuthResult, error)
	Login(ctx context.Context, email, password string, meta usecase.ClientMeta) (*usecase.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string, meta usecase.ClientMeta) (*usecase.AuthResult, error)
	Logout(ctx context.Context, refreshToken string, userID uint) error
	Profile(ctx context.Context, userID uint) (*userentity.User, error)
	GoogleLogin(ctx context.Context, p usecase.GoogleProfile) (*usecase.AuthResult, error)
}

// GoogleOAuth runs the Google authorization code flow.
type GoogleOAuth interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (usecase.GoogleProfile, error)
}

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	auth          AuthUsecase
	google        GoogleOAuth // nil when Google sign-in is not configured
	frontendURL   string
	secureCookies bool
	log           *zap.Logger
}

// NewAuthHandler creates an AuthHandler. google may be nil.
func NewAuthHandler(auth AuthUsecase, google GoogleOAuth, frontendURL string, secureCookies bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		google:        google,
		frontendURL:   strings.TrimRight(frontendURL, "/"),
		secureCookies: secureCookies,
		log:           log.With(zap.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password,
	}, clientMeta(c))
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "email already in use"})
			return
		}
		h.internal(c, "register failed", err)
		return
	}
	h.log.Info("user registered", zap.Uint("user_id", res.User.ID), zap.String("remote_addr", c.ClientIP()))
	c.JSON(http.StatusCreated, authResponse(res))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, clientMeta(c))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			h.log.Warn("login failed", zap.String("remote_addr", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid email or password"})
			return
		}
		h.internal(c, "login failed", err)
		return
	}
	c.JSON(http.StatusOK, authResponse(res))
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshReq
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, clientMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSessionRevoked):
			h.log.Warn("revoked refresh token reused", zap.String("remote_addr", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid refresh token"})
		case errors.Is(err, usecase.ErrInvalidRefreshToken),
			errors.Is(err, usecase.ErrSessionExpired),
			errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid refresh token"})
		default:
			h.internal(c, "refresh failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, authResponse(res))
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}
	var req dto.RefreshReq
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken, userID); err != nil {
		if errors.Is(err, usecase.ErrInvalidRefreshToken) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid refresh token"})
			return
		}
		h.internal(c, "logout failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}
	user, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			return
		}
		h.internal(c, "profile failed", err)
		return
	}
	c.JSON(http.StatusOK, userdto.NewUserRes(*user))
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, dto.MeRes{
		ID:    userID,
		Email: c.GetString(jwtmw.ContextUserEmail),
		Role:  c.GetString(jwtmw.ContextUserRole),
	})
}

// GoogleStart handles GET /auth/google by redirecting to the consent page.
func (h *AuthHandler) GoogleStart(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "google sign-in is not configured"})
		return
	}
	state, err := newState()
	if err != nil {
		h.internal(c, "oauth state", err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateMaxAge, "/auth/google", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

// GoogleCallback handles GET /auth/google/callback and hands the access token to the frontend.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "google sign-in is not configured"})
		return
	}

	expected, err := c.Cookie(stateCookie)
	state := c.Query("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/auth/google", "", h.secureCookies, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "missing authorization code"})
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		h.log.Warn("google exchange failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "google sign-in failed"})
		return
	}

	res, err := h.auth.GoogleLogin(c.Request.Context(), profile)
	if err != nil {
		if errors.Is(err, usecase.ErrGoogleProfileIncomplete) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: err.Error()})
			return
		}
		h.internal(c, "google login failed", err)
		return
	}
	c.Redirect(http.StatusFound, h.frontendURL+"/auth/callback?token="+url.QueryEscape(res.AccessToken))
}

func (h *AuthHandler) internal(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return false
	}
	if details := validation.Struct(dst); details != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "validation failed", Details: details})
		return false
	}
	return true
}

func clientMeta(c *gin.Context) usecase.ClientMeta {
	return usecase.ClientMeta{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
}

func authResponse(res *usecase.AuthResult) api.AuthResponse {
	return api.AuthResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresIn:    int64(res.ExpiresIn.Seconds()),
		User: api.UserSummary{
			ID:    res.User.ID,
			Name:  res.User.Name,
			Email: res.User.Email,
			Role:  string(res.User.Role),
		},
	}
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
