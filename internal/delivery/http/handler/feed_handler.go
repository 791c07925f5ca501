package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/fitmatch-backend/internal/usecase/feed"
)

type FeedHandler struct {
	feedUseCase *feed.FeedUseCase
}

func NewFeedHandler(feedUseCase *feed.FeedUseCase) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
	}
}

// Discover handles GET /feed
// @Summary Discover partners
// @Description List other users with a complete profile, nearest first
// @Tags feed
// @Security BearerAuth
// @Produce json
// @Param activity query string false "Only users practicing this activity"
// @Param max_distance_km query number false "Distance cap in km"
// @Param limit query int false "Maximum number of users"
// @Success 200 {array} domain.User
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /feed [get]
func (h *FeedHandler) Discover(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var filter feed.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid query parameters",
		})
		return
	}

	users, err := h.feedUseCase.Discover(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err, "failed to load feed")
		return
	}

	c.JSON(http.StatusOK, users)
}

// Reason handles GET /feed/:user_id/reason
// @Summary Matching reason
// @Description Short generated explanation of why two users fit
// @Tags feed
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} feed.ReasonResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /feed/{user_id}/reason [get]
func (h *FeedHandler) Reason(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.feedUseCase.Reason(c.Request.Context(), userID, c.Param("user_id"))
	if err != nil {
		respondError(c, err, "failed to build reason")
		return
	}

	c.JSON(http.StatusOK, result)
}
