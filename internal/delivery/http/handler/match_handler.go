package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/fitmatch-backend/internal/usecase/match"
)

type MatchHandler struct {
	matchUseCase *match.MatchUseCase
}

func NewMatchHandler(matchUseCase *match.MatchUseCase) *MatchHandler {
	return &MatchHandler{
		matchUseCase: matchUseCase,
	}
}

// GetMatches handles GET /matches
// @Summary List matches
// @Description Requests sent and received by the current user, with the counterpart embedded
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Match
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches [get]
func (h *MatchHandler) GetMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	matches, err := h.matchUseCase.GetMatches(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get matches")
		return
	}

	c.JSON(http.StatusOK, matches)
}

// PendingCount handles GET /matches/pending-count
// @Summary Pending request count
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 200 {object} match.PendingCountResponse
// @Failure 401 {object} ErrorResponse
// @Router /matches/pending-count [get]
func (h *MatchHandler) PendingCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.matchUseCase.PendingIncomingCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to count requests")
		return
	}

	c.JSON(http.StatusOK, match.PendingCountResponse{
		Count: count,
	})
}

// SendRequest handles POST /matches/requests/:user_id
// @Summary Send a partner request
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "Receiver ID"
// @Success 201 {object} domain.Match
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /matches/requests/{user_id} [post]
func (h *MatchHandler) SendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.matchUseCase.SendRequest(c.Request.Context(), userID, c.Param("user_id"))
	if err != nil {
		respondError(c, err, "failed to send request")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Respond handles POST /matches/:match_id/respond
// @Summary Accept or decline a request
// @Description A declined record is removed for both users and returned with status declined
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param match_id path string true "Match ID"
// @Param request body match.RespondRequest true "accept or decline"
// @Success 200 {object} domain.Match
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /matches/{match_id}/respond [post]
func (h *MatchHandler) Respond(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req match.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	result, err := h.matchUseCase.RespondToRequest(c.Request.Context(), userID, c.Param("match_id"), req.Action)
	if err != nil {
		respondError(c, err, "failed to respond to request")
		return
	}

	c.JSON(http.StatusOK, result)
}
