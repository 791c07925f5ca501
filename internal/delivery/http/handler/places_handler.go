package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/profile"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/suggestion"
)

const DefaultPlacesQuery = "gyms and public sports courts"

// PlacesQuery represents GET /places parameters
type PlacesQuery struct {
	Query string   `form:"query"`
	Lat   *float64 `form:"lat"`
	Lng   *float64 `form:"lng"`
}

type PlacesHandler struct {
	profileUseCase    *profile.ProfileUseCase
	suggestionUseCase *suggestion.SuggestionUseCase
}

func NewPlacesHandler(profileUseCase *profile.ProfileUseCase, suggestionUseCase *suggestion.SuggestionUseCase) *PlacesHandler {
	return &PlacesHandler{
		profileUseCase:    profileUseCase,
		suggestionUseCase: suggestionUseCase,
	}
}

// Search handles GET /places
// @Summary Nearby places
// @Description Workout spots around the given coordinates, or around the stored location when omitted
// @Tags places
// @Security BearerAuth
// @Produce json
// @Param query query string false "What to look for"
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Success 200 {object} domain.PlaceSuggestions
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /places [get]
func (h *PlacesHandler) Search(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var q PlacesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid query parameters",
		})
		return
	}
	if (q.Lat == nil) != (q.Lng == nil) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "lat and lng must be given together",
		})
		return
	}

	var loc domain.Location
	if q.Lat != nil {
		loc = domain.Location{Lat: *q.Lat, Lng: *q.Lng}
		if !loc.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "coordinates out of range",
			})
			return
		}
	} else {
		me, err := h.profileUseCase.GetProfile(c.Request.Context(), userID, userID)
		if err != nil {
			respondError(c, err, "failed to get location")
			return
		}
		loc = me.Location
	}

	query := strings.TrimSpace(q.Query)
	if query == "" {
		query = DefaultPlacesQuery
	}

	c.JSON(http.StatusOK, h.suggestionUseCase.SearchNearbyPlaces(c.Request.Context(), query, loc.Lat, loc.Lng))
}
