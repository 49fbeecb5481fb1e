package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/docmint-backend/internal/dto"
	"github.com/ignatzorin/docmint-backend/internal/http/response"
	"github.com/ignatzorin/docmint-backend/internal/service"
)

// AuthService операции аккаунта, нужные хэндлеру.
type AuthService interface {
	Signup(ctx context.Context, in service.SignupInput, meta service.SessionMeta) (*service.AuthResult, error)
	Login(ctx context.Context, in service.LoginInput, meta service.SessionMeta) (*service.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string, meta service.SessionMeta) (*service.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*service.Account, error)
	AcceptDisclaimer(ctx context.Context, userID uuid.UUID) (*service.Account, error)
}

// AuthHandler предоставляет HTTP слой для регистрации и логина.
type AuthHandler struct {
	auth AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup обрабатывает POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Signup(c.Request.Context(), req, sessionMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Login обрабатывает POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req, sessionMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Refresh обрабатывает POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, sessionMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"tokens": tokens})
}

// Logout обрабатывает POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"loggedOut": true})
}

// Me обрабатывает GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	account, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": account})
}

// AcceptDisclaimer обрабатывает POST /api/auth/accept-disclaimer.
func (h *AuthHandler) AcceptDisclaimer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	account, err := h.auth.AcceptDisclaimer(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": account})
}
