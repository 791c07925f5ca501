package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/fitmatch-backend/internal/usecase/seed"
)

type AdminHandler struct {
	seedUseCase *seed.SeedUseCase
}

func NewAdminHandler(seedUseCase *seed.SeedUseCase) *AdminHandler {
	return &AdminHandler{
		seedUseCase: seedUseCase,
	}
}

// Reset handles POST /admin/reset
// @Summary Reset local data
// @Description Wipe the local store, sessions included, and seed the demo users again
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/reset [post]
func (h *AdminHandler) Reset(c *gin.Context) {
	if err := h.seedUseCase.ClearAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to reset data",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "local data reset",
	})
}
