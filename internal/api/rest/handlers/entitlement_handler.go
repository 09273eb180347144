package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesflow-ai/entitlement-service/internal/entitlement"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// EntitlementHandler обработчик состояния подписки и квот
type EntitlementHandler struct {
	gate *entitlement.Gate
	log  *logger.Logger
}

// NewEntitlementHandler создает новый обработчик подписки
func NewEntitlementHandler(gate *entitlement.Gate, log *logger.Logger) *EntitlementHandler {
	return &EntitlementHandler{gate: gate, log: log}
}

// GetState возвращает текущее состояние подписки и лимиты
func (h *EntitlementHandler) GetState(c *gin.Context) {
	state := h.gate.State()
	limits := h.gate.Limits()

	c.JSON(http.StatusOK, gin.H{
		"tier":                state.Tier(),
		"is_pro":              state.IsPro,
		"lead_count":          state.LeadCount,
		"ai_calls_today":      state.AICallsToday,
		"free_lead_limit":     limits.FreeLeadLimit,
		"free_ai_calls_limit": limits.FreeAICallsPerDay,
	})
}

// CanAddLead сообщает, разрешено ли создание нового лида
func (h *EntitlementHandler) CanAddLead(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"allowed": h.gate.CanAddLead()})
}

// CanUseAI сообщает, разрешен ли AI-вызов сегодня
func (h *EntitlementHandler) CanUseAI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"allowed": h.gate.CanUseAI()})
}

// Upgrade переводит пользователя на PRO тариф
func (h *EntitlementHandler) Upgrade(c *gin.Context) {
	if err := h.gate.UpgradeToPro(c.Request.Context()); err != nil {
		h.log.Error("Failed to upgrade to pro: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade subscription"})
		return
	}

	h.log.Info("Subscription upgraded to pro")
	c.JSON(http.StatusOK, gin.H{"tier": h.gate.State().Tier()})
}
