package repository

import (
	"context"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// CachedSubscriptionRepository реализует SubscriptionRepository с кешированием.
type CachedSubscriptionRepository struct {
	repo  SubscriptionRepository
	cache *RedisCacheRepository
	log   *logger.Logger
}

// NewCachedSubscriptionRepository создает новый репозиторий с кешированием.
func NewCachedSubscriptionRepository(
	repo SubscriptionRepository,
	cache *RedisCacheRepository,
	log *logger.Logger,
) SubscriptionRepository {
	return &CachedSubscriptionRepository{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// GetByUserID получает подписку по user_id (сначала из кеша, потом из БД).
func (r *CachedSubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserSubscription, error) {
	cachedSub, err := r.cache.GetCachedUserSubscription(ctx, userID)
	if err != nil {
		r.log.Warnw("Error getting subscription from cache", "error", err, "userID", userID)
		// Продолжаем выполнение при ошибке кеша
	}

	if cachedSub != nil {
		r.log.Debugw("Subscription found in cache", "userID", userID)
		return cachedSub, nil
	}

	sub, err := r.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.CacheUserSubscription(ctx, sub); err != nil {
		r.log.Warnw("Failed to cache subscription after fetching", "error", err, "userID", userID)
	}

	return sub, nil
}

// Upsert сохраняет подписку в БД и обновляет кеш.
func (r *CachedSubscriptionRepository) Upsert(ctx context.Context, sub *domain.UserSubscription) error {
	if err := r.repo.Upsert(ctx, sub); err != nil {
		return err
	}

	// Кеш обновляем best-effort, несмотря на ошибку кеширования продолжаем
	if err := r.cache.CacheUserSubscription(ctx, sub); err != nil {
		r.log.Warnw("Failed to cache subscription after upsert", "error", err, "userID", sub.UserID)
	}

	return nil
}
