package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/fitmatch-backend/internal/usecase/profile"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

// UpdateMyProfile handles PUT /profile/me
// @Summary Update my profile
// @Description Replace the editable fields of the current user's profile
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.UpdateProfileRequest true "Profile update data"
// @Success 200 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me [put]
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req profile.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	user, err := h.profileUseCase.EditProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

// CompleteOnboarding handles POST /profile/complete-onboarding
// @Summary Complete onboarding
// @Description Save onboarding answers and mark the profile complete
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.OnboardingRequest true "Onboarding answers"
// @Success 200 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/complete-onboarding [post]
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req profile.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	user, err := h.profileUseCase.CompleteOnboarding(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to complete onboarding")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateLocation handles PUT /profile/me/location
// @Summary Update location
// @Description Store the coordinates reported by the device
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.UpdateLocationRequest true "Coordinates"
// @Success 200 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me/location [put]
func (h *ProfileHandler) UpdateLocation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req profile.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	user, err := h.profileUseCase.UpdateLocation(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to update location")
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetProfileByUserID handles GET /profile/:user_id
// @Summary Get user profile
// @Description Get another user's profile with distance from the caller
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} domain.User
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/{user_id} [get]
func (h *ProfileHandler) GetProfileByUserID(c *gin.Context) {
	currentUID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.profileUseCase.GetProfile(c.Request.Context(), currentUID, c.Param("user_id"))
	if err != nil {
		respondError(c, err, "failed to get profile")
		return
	}

	c.JSON(http.StatusOK, user)
}
