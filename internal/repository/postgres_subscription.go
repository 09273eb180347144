package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"

	"github.com/jmoiron/sqlx"
)

// postgresSubscriptionRepo реализует SubscriptionRepository для PostgreSQL.
type postgresSubscriptionRepo struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresSubscriptionRepository создает новый экземпляр репозитория для PostgreSQL.
func NewPostgresSubscriptionRepository(db *sqlx.DB, log *logger.Logger) SubscriptionRepository {
	return &postgresSubscriptionRepo{
		db:  db,
		log: log,
	}
}

// GetByUserID возвращает запись о подписке аккаунта.
func (r *postgresSubscriptionRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserSubscription, error) {
	var sub domain.UserSubscription
	query := `
        SELECT user_id, is_pro, upgraded_at
        FROM user_subscriptions
        WHERE user_id = $1`

	err := r.db.GetContext(ctx, &sub, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Debugw("Subscription not found for user", "userID", userID)
			return nil, ErrNotFound
		}
		r.log.Errorw("Failed to get subscription from DB", "error", err, "userID", userID)
		return nil, fmt.Errorf("repository: failed to get subscription by user ID: %w", err)
	}

	return &sub, nil
}

// Upsert создает или обновляет запись о подписке аккаунта (last-write-wins).
func (r *postgresSubscriptionRepo) Upsert(ctx context.Context, sub *domain.UserSubscription) error {
	query := `
        INSERT INTO user_subscriptions (user_id, is_pro, upgraded_at)
        VALUES (:user_id, :is_pro, :upgraded_at)
        ON CONFLICT (user_id) DO UPDATE SET
            is_pro = EXCLUDED.is_pro,
            upgraded_at = EXCLUDED.upgraded_at`

	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		r.log.Errorw("Failed to upsert subscription in DB", "error", err, "userID", sub.UserID)
		return fmt.Errorf("repository: failed to upsert subscription: %w", err)
	}

	r.log.Debugw("Upserted subscription in DB", "userID", sub.UserID, "isPro", sub.IsPro)
	return nil
}
