package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/fitmatch-backend/internal/usecase/chat"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/profile"
	"github.com/gdugdh24/fitmatch-backend/internal/usecase/suggestion"
)

// IcebreakerResponse represents a suggested opening line
type IcebreakerResponse struct {
	Text string `json:"text"`
}

type ChatHandler struct {
	chatUseCase       *chat.ChatUseCase
	profileUseCase    *profile.ProfileUseCase
	suggestionUseCase *suggestion.SuggestionUseCase
}

func NewChatHandler(
	chatUseCase *chat.ChatUseCase,
	profileUseCase *profile.ProfileUseCase,
	suggestionUseCase *suggestion.SuggestionUseCase,
) *ChatHandler {
	return &ChatHandler{
		chatUseCase:       chatUseCase,
		profileUseCase:    profileUseCase,
		suggestionUseCase: suggestionUseCase,
	}
}

// GetChats handles GET /chats/:buddy_id
// @Summary Conversation history
// @Tags chats
// @Security BearerAuth
// @Produce json
// @Param buddy_id path string true "Buddy ID"
// @Success 200 {array} domain.ChatMessage
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chats/{buddy_id} [get]
func (h *ChatHandler) GetChats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	messages, err := h.chatUseCase.GetChats(c.Request.Context(), userID, c.Param("buddy_id"))
	if err != nil {
		respondError(c, err, "failed to get chats")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage handles POST /chats/:buddy_id
// @Summary Send a message
// @Tags chats
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param buddy_id path string true "Buddy ID"
// @Param request body chat.SendMessageRequest true "Message"
// @Success 201 {object} domain.ChatMessage
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /chats/{buddy_id} [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req chat.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	message, err := h.chatUseCase.Send(c.Request.Context(), userID, c.Param("buddy_id"), req.Text)
	if err != nil {
		respondError(c, err, "failed to send message")
		return
	}

	c.JSON(http.StatusCreated, message)
}

// Icebreaker handles GET /chats/:buddy_id/icebreaker
// @Summary Suggest an opener
// @Tags chats
// @Security BearerAuth
// @Produce json
// @Param buddy_id path string true "Buddy ID"
// @Success 200 {object} IcebreakerResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /chats/{buddy_id}/icebreaker [get]
func (h *ChatHandler) Icebreaker(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	buddy, err := h.profileUseCase.GetProfile(c.Request.Context(), userID, c.Param("buddy_id"))
	if err != nil {
		respondError(c, err, "failed to get buddy")
		return
	}

	c.JSON(http.StatusOK, IcebreakerResponse{
		Text: h.suggestionUseCase.Icebreaker(c.Request.Context(), buddy),
	})
}
