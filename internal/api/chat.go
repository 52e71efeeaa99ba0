package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/agentic-grocery/backend/internal/service"
)

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatHandler struct {
	chatService    *service.ChatService
	profileService *service.ProfileService
}

func NewChatHandler(chatService *service.ChatService, profileService *service.ProfileService) *ChatHandler {
	return &ChatHandler{chatService: chatService, profileService: profileService}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/chat", h.Chat)
}

// Chat extracts recipe preferences from a free-text message, merged with the
// caller's stored dietary profile.
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, h.chatService.Process(req.Message, profile))
}
