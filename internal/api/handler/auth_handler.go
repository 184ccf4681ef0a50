package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"smartplanning/backend/internal/dto"
	"smartplanning/backend/internal/service"
	"smartplanning/backend/pkg/jwt"
	"smartplanning/backend/pkg/response"
)

// AuthHandler serves the auth module.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler builds the AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login signs a user in.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	tokens, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, 11001, "invalid email or password")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, tokens)
}

// RefreshToken exchanges a refresh token for a new pair.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request payload")
		return
	}

	tokens, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired),
			errors.Is(err, jwt.ErrTokenInvalid),
			errors.Is(err, service.ErrTokenRevoked),
			errors.Is(err, service.ErrUserNotFound):
			response.Unauthorized(c, 11002, "refresh token invalid or expired")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, tokens)
}

// Logout revokes the current access token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString("token_jti")
	expiresAt, _ := c.Get("token_expires_at")
	expiry, _ := expiresAt.(time.Time)

	if err := h.authSvc.Logout(c.Request.Context(), jti, expiry); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// GetCurrentUser returns the signed-in user.
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11003, "user not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}
