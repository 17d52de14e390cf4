// Package handler exposes the auth subsystem over HTTP. Handlers bind and
// validate request bodies, delegate to the auth service, and map typed
// failures to the stable {"error": message} body shape.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gastoncarriquiry/menu-maker/auth"
	"github.com/gastoncarriquiry/menu-maker/authctx"
	"github.com/gastoncarriquiry/menu-maker/errors"
	"github.com/gastoncarriquiry/menu-maker/logger"
	"github.com/gastoncarriquiry/menu-maker/server"
	"github.com/gastoncarriquiry/menu-maker/validation"
)

// AuthHandler serves the /api/auth routes.
type AuthHandler struct {
	svc *auth.Service
	log *logger.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(svc *auth.Service, log *logger.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log.WithComponent("handler")}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type authResponse struct {
	Message string         `json:"message"`
	User    auth.AuthUser  `json:"user"`
	Tokens  auth.TokenPair `json:"tokens"`
}

type refreshResponse struct {
	Message string         `json:"message"`
	Tokens  auth.TokenPair `json:"tokens"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.Validation("Email, username, and password are required"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	result, err := h.svc.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		h.logFailure("registration failed", err)
		server.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Message: "User registered successfully",
		User:    result.User,
		Tokens:  result.Tokens,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.Validation("Email/username and password are required"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.EmailOrUsername, req.Password)
	if err != nil {
		h.logFailure("login failed", err)
		server.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		User:    result.User,
		Tokens:  result.Tokens,
	})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.MissingField("Refresh token is required"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, errors.MissingField("Refresh token is required"))
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.logFailure("token refresh failed", err)
		server.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, refreshResponse{
		Message: "Tokens refreshed successfully",
		Tokens:  tokens,
	})
}

// Profile handles GET /api/auth/profile. It runs behind the required auth
// guard, so the identity is always present.
func (h *AuthHandler) Profile(c *gin.Context) {
	identity := authctx.MustGet(c.Request.Context())

	user, err := h.svc.GetByID(c.Request.Context(), identity.ID)
	if err != nil {
		h.logFailure("profile fetch failed", err)
		server.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout handles POST /api/auth/logout. Tokens are stateless bearer
// capabilities, so there is nothing to invalidate server-side; the client
// discards its stored pair.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful. Please remove tokens from client storage.",
	})
}

// logFailure logs internal errors with their cause; expected auth failures
// are logged at debug only to keep the log signal clean.
func (h *AuthHandler) logFailure(msg string, err error) {
	if appErr, ok := errors.AsAppError(err); ok && appErr.HTTPStatus < http.StatusInternalServerError {
		h.log.Debug(msg, logger.Fields(logger.FieldError, appErr.Error()))
		return
	}
	h.log.WithError(err).Error(msg)
}
