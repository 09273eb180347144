package repository

import (
	"context"
	"fmt"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"

	"github.com/jmoiron/sqlx"
)

// postgresCopyEventRepo реализует CopyEventRepository для PostgreSQL.
type postgresCopyEventRepo struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresCopyEventRepository создает новый репозиторий событий копирования.
func NewPostgresCopyEventRepository(db *sqlx.DB, log *logger.Logger) CopyEventRepository {
	return &postgresCopyEventRepo{db: db, log: log}
}

// Create сохраняет событие копирования скрипта.
func (r *postgresCopyEventRepo) Create(ctx context.Context, event *domain.CopyEvent) error {
	query := `
        INSERT INTO script_copy_events (id, script_id, user_id, final_text, copied_at)
        VALUES (:id, :script_id, :user_id, :final_text, :copied_at)`

	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		r.log.Errorw("Failed to insert copy event", "error", err, "scriptID", event.ScriptID)
		return fmt.Errorf("repository: failed to create copy event: %w", err)
	}
	return nil
}

// HistoryByUserID возвращает последние события копирования пользователя.
func (r *postgresCopyEventRepo) HistoryByUserID(ctx context.Context, userID string, limit int) ([]domain.CopyEvent, error) {
	query := `
        SELECT id, script_id, user_id, final_text, copied_at
        FROM script_copy_events
        WHERE user_id = $1
        ORDER BY copied_at DESC
        LIMIT $2`

	var events []domain.CopyEvent
	if err := r.db.SelectContext(ctx, &events, query, userID, limit); err != nil {
		r.log.Errorw("Failed to get copy history", "error", err, "userID", userID)
		return nil, fmt.Errorf("repository: failed to get copy history: %w", err)
	}
	return events, nil
}
