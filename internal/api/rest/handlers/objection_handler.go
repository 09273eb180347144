package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesflow-ai/entitlement-service/internal/service"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// ObjectionHandler обработчик библиотеки возражений
type ObjectionHandler struct {
	service service.ObjectionService
	log     *logger.Logger
}

// NewObjectionHandler создает новый обработчик возражений
func NewObjectionHandler(service service.ObjectionService, log *logger.Logger) *ObjectionHandler {
	return &ObjectionHandler{service: service, log: log}
}

// GetObjections возвращает возражения с ответами, опционально по поиску
func (h *ObjectionHandler) GetObjections(c *gin.Context) {
	term := c.Query("search")

	objections, err := h.service.Search(c.Request.Context(), term)
	if err != nil {
		h.log.Error("Failed to search objections: %v", err)
		respondError(c, err, "objections")
		return
	}

	h.log.Info("Returned %d objections", len(objections))
	c.JSON(http.StatusOK, objections)
}

type objectionRespondRequest struct {
	Objection string `json:"objection" binding:"required"`
	Company   string `json:"company"`
	Situation string `json:"situation"`
}

// Respond подбирает ответ на конкретное возражение
func (h *ObjectionHandler) Respond(c *gin.Context) {
	var req objectionRespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	advice, err := h.service.Respond(c.Request.Context(), req.Objection, req.Company, req.Situation)
	if err != nil {
		h.log.Warn("Failed to answer objection: %v", err)
		respondError(c, err, "objection response")
		return
	}

	c.JSON(http.StatusOK, advice)
}
