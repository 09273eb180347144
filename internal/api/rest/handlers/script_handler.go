package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/salesflow-ai/entitlement-service/internal/api/rest/middleware"
	"github.com/salesflow-ai/entitlement-service/internal/service"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// ScriptHandler обработчик библиотеки скриптов
type ScriptHandler struct {
	scripts  service.ScriptService
	tracking service.CopyTrackingService
	log      *logger.Logger
}

// NewScriptHandler создает новый обработчик скриптов
func NewScriptHandler(scripts service.ScriptService, tracking service.CopyTrackingService, log *logger.Logger) *ScriptHandler {
	return &ScriptHandler{scripts: scripts, tracking: tracking, log: log}
}

// GetScripts возвращает скрипты с фильтрами по компании и категории
func (h *ScriptHandler) GetScripts(c *gin.Context) {
	company := c.Query("company")
	category := c.Query("category")

	scripts, err := h.scripts.List(c.Request.Context(), company, category)
	if err != nil {
		h.log.Error("Failed to list scripts: %v", err)
		respondError(c, err, "scripts")
		return
	}

	h.log.Info("Returned %d scripts", len(scripts))
	c.JSON(http.StatusOK, scripts)
}

// GetPopular возвращает самые копируемые скрипты
func (h *ScriptHandler) GetPopular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	scripts, err := h.tracking.Popular(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("Failed to get popular scripts: %v", err)
		respondError(c, err, "popular scripts")
		return
	}

	c.JSON(http.StatusOK, scripts)
}

// GetScript возвращает скрипт по ID
func (h *ScriptHandler) GetScript(c *gin.Context) {
	id := c.Param("id")

	script, err := h.scripts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warn("Script not found: %s", id)
		respondError(c, err, "script")
		return
	}

	c.JSON(http.StatusOK, script)
}

type renderRequest struct {
	Values map[string]string `json:"values"`
}

// RenderScript подставляет значения переменных в текст скрипта
func (h *ScriptHandler) RenderScript(c *gin.Context) {
	id := c.Param("id")

	var body renderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	text, variables, err := h.scripts.Render(c.Request.Context(), id, body.Values)
	if err != nil {
		respondError(c, err, "script")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"text":      text,
		"variables": variables,
	})
}

type copyRequest struct {
	FinalText string `json:"final_text"`
}

// CopyScript фиксирует копирование скрипта пользователем
func (h *ScriptHandler) CopyScript(c *gin.Context) {
	id := c.Param("id")

	var body copyRequest
	// Тело опционально, старые клиенты шлют пустой POST.
	_ = c.ShouldBindJSON(&body)

	h.tracking.TrackCopy(c.Request.Context(), id, middleware.UserID(c), body.FinalText)
	c.JSON(http.StatusAccepted, gin.H{"status": "tracked"})
}

// GetCopyHistory возвращает последние копирования пользователя
func (h *ScriptHandler) GetCopyHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	history, err := h.tracking.History(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		h.log.Error("Failed to get copy history: %v", err)
		respondError(c, err, "copy history")
		return
	}

	c.JSON(http.StatusOK, history)
}
