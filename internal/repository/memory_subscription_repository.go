package repository

import (
	"context"
	"sync"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
)

// InMemorySubscriptionRepository реализация репозитория подписок в памяти
// (для тестов и запуска без удаленного хранилища).
type InMemorySubscriptionRepository struct {
	subscriptions map[string]domain.UserSubscription
	mutex         sync.RWMutex

	// FailLookups и FailUpserts симулируют сетевые ошибки в тестах.
	FailLookups error
	FailUpserts error
}

// NewInMemorySubscriptionRepository создает новый репозиторий подписок в памяти.
func NewInMemorySubscriptionRepository() *InMemorySubscriptionRepository {
	return &InMemorySubscriptionRepository{
		subscriptions: make(map[string]domain.UserSubscription),
	}
}

// GetByUserID возвращает запись о подписке аккаунта или ErrNotFound.
func (r *InMemorySubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserSubscription, error) {
	if r.FailLookups != nil {
		return nil, r.FailLookups
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	sub, exists := r.subscriptions[userID]
	if !exists {
		return nil, ErrNotFound
	}
	return &sub, nil
}

// Upsert создает или обновляет запись о подписке аккаунта.
func (r *InMemorySubscriptionRepository) Upsert(ctx context.Context, sub *domain.UserSubscription) error {
	if r.FailUpserts != nil {
		return r.FailUpserts
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.subscriptions[sub.UserID] = *sub
	return nil
}
