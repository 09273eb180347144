package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesflow-ai/entitlement-service/internal/copilot"
	"github.com/salesflow-ai/entitlement-service/internal/service"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// AIHandler обработчик AI-ассистента
type AIHandler struct {
	service service.AIService
	log     *logger.Logger
}

// NewAIHandler создает новый обработчик AI-ассистента
func NewAIHandler(service service.AIService, log *logger.Logger) *AIHandler {
	return &AIHandler{service: service, log: log}
}

type chatRequest struct {
	Message   string            `json:"message" binding:"required"`
	History   []copilot.Message `json:"history"`
	Vertical  string            `json:"vertical"`
	Situation string            `json:"situation"`
}

// Chat отвечает на сообщение пользователя с учетом дневной квоты
func (h *AIHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reply, err := h.service.Chat(c.Request.Context(), copilot.ChatRequest{
		Message:   req.Message,
		History:   req.History,
		Vertical:  req.Vertical,
		Situation: req.Situation,
	})
	if err != nil {
		h.log.Warn("AI chat failed: %v", err)
		respondError(c, err, "AI assistant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply})
}
