package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"

	"github.com/jmoiron/sqlx"
)

// postgresLeadRepo реализует LeadRepository для PostgreSQL.
type postgresLeadRepo struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresLeadRepository создает новый репозиторий лидов для PostgreSQL.
func NewPostgresLeadRepository(db *sqlx.DB, log *logger.Logger) LeadRepository {
	return &postgresLeadRepo{db: db, log: log}
}

// GetAll возвращает всех лидов, новые первыми.
func (r *postgresLeadRepo) GetAll(ctx context.Context) ([]domain.Lead, error) {
	var leads []domain.Lead
	query := `
        SELECT id, name, status, last_message, temperature, unread, start_date, created_at, updated_at
        FROM leads
        ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &leads, query); err != nil {
		r.log.Errorw("Failed to get leads from DB", "error", err)
		return nil, fmt.Errorf("repository: failed to get leads: %w", err)
	}
	return leads, nil
}

// GetByID возвращает лида по ID или ErrNotFound.
func (r *postgresLeadRepo) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	var lead domain.Lead
	query := `
        SELECT id, name, status, last_message, temperature, unread, start_date, created_at, updated_at
        FROM leads
        WHERE id = $1`

	if err := r.db.GetContext(ctx, &lead, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.log.Errorw("Failed to get lead by ID from DB", "error", err, "leadID", id)
		return nil, fmt.Errorf("repository: failed to get lead by ID: %w", err)
	}
	return &lead, nil
}

// Create сохраняет нового лида.
func (r *postgresLeadRepo) Create(ctx context.Context, lead *domain.Lead) error {
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	query := `
        INSERT INTO leads (id, name, status, last_message, temperature, unread, start_date, created_at, updated_at)
        VALUES (:id, :name, :status, :last_message, :temperature, :unread, :start_date, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, lead); err != nil {
		r.log.Errorw("Failed to create lead in DB", "error", err, "leadID", lead.ID)
		return fmt.Errorf("repository: failed to create lead: %w", err)
	}

	r.log.Debugw("Created lead in DB", "leadID", lead.ID)
	return nil
}

// Update обновляет существующего лида.
func (r *postgresLeadRepo) Update(ctx context.Context, lead *domain.Lead) error {
	lead.UpdatedAt = time.Now()

	query := `
        UPDATE leads SET
            name = :name,
            status = :status,
            last_message = :last_message,
            temperature = :temperature,
            unread = :unread,
            start_date = :start_date,
            updated_at = :updated_at
        WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, lead)
	if err != nil {
		r.log.Errorw("Failed to update lead in DB", "error", err, "leadID", lead.ID)
		return fmt.Errorf("repository: failed to update lead: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет лида.
func (r *postgresLeadRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		r.log.Errorw("Failed to delete lead from DB", "error", err, "leadID", id)
		return fmt.Errorf("repository: failed to delete lead: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
