package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/internal/followup"
	"github.com/salesflow-ai/entitlement-service/internal/service"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// LeadHandler обработчик для лидов
type LeadHandler struct {
	service service.LeadService
	log     *logger.Logger
}

// NewLeadHandler создает новый обработчик лидов
func NewLeadHandler(service service.LeadService, log *logger.Logger) *LeadHandler {
	return &LeadHandler{service: service, log: log}
}

// GetLeads возвращает список всех лидов
func (h *LeadHandler) GetLeads(c *gin.Context) {
	leads, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to get leads: %v", err)
		respondError(c, err, "leads")
		return
	}

	h.log.Info("Returned %d leads", len(leads))
	c.JSON(http.StatusOK, leads)
}

// GetLead возвращает лида по ID
func (h *LeadHandler) GetLead(c *gin.Context) {
	id := c.Param("id")

	lead, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warn("Lead not found: %s", id)
		respondError(c, err, "lead")
		return
	}

	c.JSON(http.StatusOK, lead)
}

// CreateLead создает нового лида с проверкой квоты тарифа
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req domain.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	lead, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("Failed to create lead: %v", err)
		respondError(c, err, "lead")
		return
	}

	h.log.Info("Created lead %s", lead.ID)
	c.JSON(http.StatusCreated, lead)
}

// UpdateLead обновляет лида
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	id := c.Param("id")

	var req domain.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	lead, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "lead")
		return
	}

	c.JSON(http.StatusOK, lead)
}

// GetFollowUp возвращает следующую задачу жизненного цикла лида
func (h *LeadHandler) GetFollowUp(c *gin.Context) {
	id := c.Param("id")

	lead, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "lead")
		return
	}

	start := lead.CreatedAt
	if lead.StartDate != nil {
		start = *lead.StartDate
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"days_since_start": followup.DaysSinceStart(start, now),
		"upcoming_task":    followup.UpcomingTask(start, now),
	})
}

// DeleteLead удаляет лида
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "lead")
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
