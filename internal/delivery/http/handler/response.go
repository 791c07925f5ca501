package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
)

// ErrorResponse represents an error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a plain confirmation payload
type SuccessResponse struct {
	Message string `json:"message"`
}

func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized",
		})
		return "", false
	}
	return userID, true
}

// respondError maps domain errors to HTTP statuses
func respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrCannotRequestSelf):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrDuplicateEmail):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrInvalidToken):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrNotRequestReceiver):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrMatchNotFound):
		status, message = http.StatusNotFound, err.Error()
	}

	c.JSON(status, ErrorResponse{
		Error: message,
	})
}
