package repository

import (
	"context"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
)

// SubscriptionRepository интерфейс удаленного хранилища user_subscriptions.
// Для гейта это advisory-источник: чтение может только поднять pro-статус,
// запись выполняется best-effort при апгрейде.
type SubscriptionRepository interface {
	// GetByUserID возвращает запись о подписке аккаунта или ErrNotFound.
	GetByUserID(ctx context.Context, userID string) (*domain.UserSubscription, error)
	// Upsert создает или обновляет запись о подписке аккаунта.
	Upsert(ctx context.Context, sub *domain.UserSubscription) error
}
