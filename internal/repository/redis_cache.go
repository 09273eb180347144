package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	// Префикс ключей кеша подписок
	userSubscriptionKeyPrefix = "user_subscription:"

	// TTL для кэша
	defaultCacheTTL = 15 * time.Minute
)

// RedisCacheRepository реализует кеширование удаленных подписок с использованием Redis.
type RedisCacheRepository struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisCacheRepository создает новый экземпляр Redis репозитория.
func NewRedisCacheRepository(redisAddr, redisPassword string, redisDB int, log *logger.Logger) (*RedisCacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	// Проверяем соединение с Redis
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Errorw("Failed to connect to Redis", "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("Connected to Redis successfully", "addr", redisAddr)
	return &RedisCacheRepository{
		client: client,
		log:    log,
	}, nil
}

// Close закрывает соединение с Redis.
func (r *RedisCacheRepository) Close() error {
	return r.client.Close()
}

// CacheUserSubscription кеширует запись о подписке аккаунта.
func (r *RedisCacheRepository) CacheUserSubscription(ctx context.Context, sub *domain.UserSubscription) error {
	key := userSubscriptionKeyPrefix + sub.UserID

	data, err := json.Marshal(sub)
	if err != nil {
		r.log.Errorw("Failed to marshal subscription for caching", "error", err, "userID", sub.UserID)
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}

	if err := r.client.Set(ctx, key, data, defaultCacheTTL).Err(); err != nil {
		r.log.Errorw("Failed to cache subscription in Redis", "error", err, "userID", sub.UserID)
		return fmt.Errorf("failed to cache subscription: %w", err)
	}

	return nil
}

// GetCachedUserSubscription получает запись о подписке из кеша.
// Возвращает (nil, nil), если записи в кеше нет.
func (r *RedisCacheRepository) GetCachedUserSubscription(ctx context.Context, userID string) (*domain.UserSubscription, error) {
	key := userSubscriptionKeyPrefix + userID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.log.Errorw("Error getting subscription from Redis", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to get subscription from cache: %w", err)
	}

	var sub domain.UserSubscription
	if err := json.Unmarshal(data, &sub); err != nil {
		r.log.Errorw("Failed to unmarshal cached subscription", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to unmarshal cached subscription: %w", err)
	}

	return &sub, nil
}

// InvalidateUserSubscription удаляет запись о подписке из кеша.
func (r *RedisCacheRepository) InvalidateUserSubscription(ctx context.Context, userID string) error {
	key := userSubscriptionKeyPrefix + userID
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.log.Errorw("Failed to invalidate subscription cache", "error", err, "userID", userID)
		return fmt.Errorf("failed to invalidate subscription cache: %w", err)
	}
	return nil
}
