package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/fitmatch-backend/internal/usecase/auth"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// Register handles user registration
// @Summary Register
// @Description Create an account and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.RegisterRequest true "Credentials"
// @Success 201 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	if _, err := h.authUseCase.Register(c.Request.Context(), req.Email, req.Password); err != nil {
		respondError(c, err, "registration failed")
		return
	}

	result, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Login handles email/password authentication
// @Summary Login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.LoginRequest true "Credentials"
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	result, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "authentication failed")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout handles user logout
// @Summary Logout
// @Description Logout user and invalidate session
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "missing session",
		})
		return
	}

	if err := h.authUseCase.Logout(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "logout failed",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "logged out successfully",
	})
}

// Me returns current user info
// @Summary Get current user
// @Description Get authenticated user information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUseCase.GetSessionUser(c.Request.Context(), c.GetString("session_id"))
	if err != nil {
		respondError(c, err, "failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}
