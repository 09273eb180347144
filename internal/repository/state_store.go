package repository

import "context"

// Ключи локального durable-хранилища состояния подписки.
const (
	StateKeyIsPro            = "is_pro"
	StateKeyLeadCount        = "lead_count"
	StateKeyAICallsToday     = "ai_calls_today"
	StateKeyAICallsResetDate = "ai_calls_reset_date"
	StateKeyUserID           = "user_id"
)

// StateStore локальное key-value хранилище состояния установки.
// Значения хранятся строками: "true" для флагов, десятичные строки для
// счетчиков. Отсутствующий ключ возвращает ErrNotFound.
type StateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
