package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/internal/repository"
)

// respondQuotaExceeded отвечает 402 с payload для paywall-экрана клиента.
func respondQuotaExceeded(c *gin.Context, quotaErr *domain.QuotaError) {
	c.JSON(http.StatusPaymentRequired, gin.H{
		"error":            "Quota exceeded",
		"feature":          quotaErr.Feature,
		"used":             quotaErr.Used,
		"limit":            quotaErr.Limit,
		"upgrade_required": true,
	})
}

// respondError транслирует доменные ошибки в HTTP статусы.
func respondError(c *gin.Context, err error, message string) {
	var quotaErr *domain.QuotaError
	switch {
	case errors.As(err, &quotaErr):
		respondQuotaExceeded(c, quotaErr)
	case errors.Is(err, repository.ErrNotFound) || errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message + " not found"})
	case errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, repository.ErrInvalidData):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + message + " data"})
	case errors.Is(err, domain.ErrExternalServiceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": message + " temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process " + message})
	}
}
