package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesflow-ai/entitlement-service/internal/leadgen"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// LeadGenHandler проксирует запросы к backend-сервису лидогенерации
type LeadGenHandler struct {
	client *leadgen.Client
	log    *logger.Logger
}

// NewLeadGenHandler создает новый обработчик лидогенерации
func NewLeadGenHandler(client *leadgen.Client, log *logger.Logger) *LeadGenHandler {
	return &LeadGenHandler{client: client, log: log}
}

// Verify запускает верификацию лида
func (h *LeadGenHandler) Verify(c *gin.Context) {
	var req leadgen.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.client.VerifyLead(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("Lead verification failed: %v", err)
		respondError(c, err, "lead verification")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Enrich обогащает данные лида
func (h *LeadGenHandler) Enrich(c *gin.Context) {
	var req leadgen.EnrichmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.client.EnrichLead(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("Lead enrichment failed: %v", err)
		respondError(c, err, "lead enrichment")
		return
	}
	c.JSON(http.StatusOK, result)
}

type messageIntentRequest struct {
	LeadID  string `json:"lead_id"`
	Message string `json:"message" binding:"required"`
}

// AnalyzeMessageIntent анализирует intent одного сообщения
func (h *LeadGenHandler) AnalyzeMessageIntent(c *gin.Context) {
	var req messageIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.client.AnalyzeMessageIntent(c.Request.Context(), req.LeadID, req.Message)
	if err != nil {
		h.log.Warn("Message intent analysis failed: %v", err)
		respondError(c, err, "intent analysis")
		return
	}
	c.JSON(http.StatusOK, result)
}

// PipelineStats возвращает статистику пайплайна лидогенерации
func (h *LeadGenHandler) PipelineStats(c *gin.Context) {
	stats, err := h.client.PipelineStats(c.Request.Context())
	if err != nil {
		h.log.Warn("Pipeline stats failed: %v", err)
		respondError(c, err, "pipeline stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
