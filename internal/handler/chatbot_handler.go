package handler

import (
	"net/http"

	"github.com/edushare/backend/internal/dto"
	"github.com/edushare/backend/internal/service"
	"github.com/edushare/backend/pkg/response"
	"github.com/edushare/backend/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ChatbotHandler struct {
	chatbotService service.ChatbotService
}

func NewChatbotHandler(chatbotService service.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{chatbotService: chatbotService}
}

func (h *ChatbotHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	answer, err := h.chatbotService.Chat(c.Request.Context(), req.Message, req.Mode)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{Response: answer})
}
