package domain

import (
	"errors"
	"fmt"
)

// Application errors
var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput неверные входные данные
	ErrInvalidInput = errors.New("invalid input data")

	// ErrUnauthenticated пользователь не аутентифицирован
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("internal error")

	// ErrLeadLimitReached лимит лидов бесплатного тарифа исчерпан
	ErrLeadLimitReached = errors.New("free tier lead limit reached")

	// ErrAIQuotaExceeded дневная квота AI-вызовов исчерпана
	ErrAIQuotaExceeded = errors.New("daily AI quota exceeded")

	// ErrExternalServiceUnavailable внешний сервис недоступен
	ErrExternalServiceUnavailable = errors.New("external service unavailable")
)

// QuotaError ошибка превышения квоты с деталями для ответа paywall-экрану.
type QuotaError struct {
	Feature string // "leads" или "ai"
	Used    int
	Limit   int
}

// Error реализует интерфейс error
func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota exceeded for %s: %d/%d", e.Feature, e.Used, e.Limit)
}

// Is позволяет сопоставлять QuotaError с сентинельными ошибками квот.
func (e *QuotaError) Is(target error) bool {
	switch e.Feature {
	case "leads":
		return target == ErrLeadLimitReached
	case "ai":
		return target == ErrAIQuotaExceeded
	}
	return false
}

// NewQuotaError создает новую ошибку превышения квоты.
func NewQuotaError(feature string, used, limit int) *QuotaError {
	return &QuotaError{Feature: feature, Used: used, Limit: limit}
}

// ExternalServiceError представляет ошибку внешнего сервиса
type ExternalServiceError struct {
	Service     string
	Message     string
	StatusCode  int
	OriginalErr error
}

// Error реализует интерфейс error
func (e *ExternalServiceError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("%s service error: %s: %v", e.Service, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("%s service error: %s", e.Service, e.Message)
}

// Unwrap возвращает оригинальную ошибку
func (e *ExternalServiceError) Unwrap() error {
	return e.OriginalErr
}

// Is сопоставляет любую ошибку внешнего сервиса с сентинелью недоступности.
func (e *ExternalServiceError) Is(target error) bool {
	return target == ErrExternalServiceUnavailable
}

// NewExternalServiceError создает новую ошибку внешнего сервиса
func NewExternalServiceError(service, message string, statusCode int, err error) *ExternalServiceError {
	return &ExternalServiceError{
		Service:     service,
		Message:     message,
		StatusCode:  statusCode,
		OriginalErr: err,
	}
}
