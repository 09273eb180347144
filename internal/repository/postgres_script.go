package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"

	"github.com/jmoiron/sqlx"
)

// postgresScriptRepo реализует ScriptRepository для PostgreSQL.
//
// Хранилище исторически имеет две таблицы скриптов с разными схемами:
// новую scripts (name/text/vertical/usage_count) и старую mlm_scripts
// (title/content/company/copied_count). Читаем сначала новую, при пустом
// результате падаем на старую; обе нормализуются к domain.Script.
type postgresScriptRepo struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresScriptRepository создает новый репозиторий скриптов для PostgreSQL.
func NewPostgresScriptRepository(db *sqlx.DB, log *logger.Logger) ScriptRepository {
	return &postgresScriptRepo{db: db, log: log}
}

// dbScript строка из любой из двух таблиц скриптов.
type dbScript struct {
	ID          string         `db:"id"`
	Title       sql.NullString `db:"title"`
	Name        sql.NullString `db:"name"`
	Content     sql.NullString `db:"content"`
	Text        sql.NullString `db:"text"`
	Category    sql.NullString `db:"category"`
	Company     sql.NullString `db:"company"`
	Vertical    sql.NullString `db:"vertical"`
	Tags        []byte         `db:"tags"`
	Tone        sql.NullString `db:"tone"`
	CopiedCount sql.NullInt64  `db:"copied_count"`
	UsageCount  sql.NullInt64  `db:"usage_count"`
	IsActive    sql.NullBool   `db:"is_active"`
	CreatedAt   sql.NullTime   `db:"created_at"`
}

// normalize приводит строку любой из таблиц к единой модели.
func (r *postgresScriptRepo) normalize(s dbScript) domain.Script {
	script := domain.Script{
		ID:       s.ID,
		Title:    firstNonEmpty(s.Title.String, s.Name.String, "Unbenannt"),
		Content:  firstNonEmpty(s.Content.String, s.Text.String, ""),
		Category: firstNonEmpty(s.Category.String, "general"),
		Company:  firstNonEmpty(s.Company.String, s.Vertical.String, "GENERAL"),
		Tone:     s.Tone.String,
		// Скрипт активен, пока явно не деактивирован
		IsActive: !s.IsActive.Valid || s.IsActive.Bool,
	}

	switch {
	case s.CopiedCount.Valid:
		script.CopiedCount = int(s.CopiedCount.Int64)
	case s.UsageCount.Valid:
		script.CopiedCount = int(s.UsageCount.Int64)
	}

	if s.CreatedAt.Valid {
		script.CreatedAt = s.CreatedAt.Time
	}

	if len(s.Tags) > 0 {
		if err := json.Unmarshal(s.Tags, &script.Tags); err != nil {
			r.log.Warnw("Failed to decode script tags, leaving empty", "error", err, "scriptID", s.ID)
		}
	}

	return script
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// List возвращает скрипты с фильтрами, читая сначала scripts, потом mlm_scripts.
func (r *postgresScriptRepo) List(ctx context.Context, company, category string, limit int) ([]domain.Script, error) {
	scripts, err := r.listPrimary(ctx, company, category, limit)
	if err != nil {
		r.log.Warnw("Primary scripts table query failed, falling back to mlm_scripts", "error", err)
	}
	if len(scripts) > 0 {
		return scripts, nil
	}

	scripts, err = r.listLegacy(ctx, company, category, limit)
	if err != nil {
		r.log.Errorw("Failed to list scripts from mlm_scripts", "error", err)
		return nil, fmt.Errorf("repository: failed to list scripts: %w", err)
	}
	return scripts, nil
}

func (r *postgresScriptRepo) listPrimary(ctx context.Context, company, category string, limit int) ([]domain.Script, error) {
	query := `
        SELECT id, name, text, category, vertical, tags, tone, usage_count, is_active, created_at
        FROM scripts
        WHERE ($1 = '' OR vertical ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%')
          AND ($2 = '' OR category = $2)
        ORDER BY created_at DESC
        LIMIT $3`

	var rows []dbScript
	if err := r.db.SelectContext(ctx, &rows, query, normalizeCompanyFilter(company), category, limit); err != nil {
		return nil, err
	}
	return r.normalizeAll(rows), nil
}

func (r *postgresScriptRepo) listLegacy(ctx context.Context, company, category string, limit int) ([]domain.Script, error) {
	query := `
        SELECT id, title, content, category, company, tags, tone, copied_count, is_active, created_at
        FROM mlm_scripts
        WHERE ($1 = '' OR company ILIKE '%' || $1 || '%')
          AND ($2 = '' OR category = $2)
        LIMIT $3`

	var rows []dbScript
	if err := r.db.SelectContext(ctx, &rows, query, normalizeCompanyFilter(company), category, limit); err != nil {
		return nil, err
	}
	return r.normalizeAll(rows), nil
}

func (r *postgresScriptRepo) normalizeAll(rows []dbScript) []domain.Script {
	scripts := make([]domain.Script, 0, len(rows))
	for _, row := range rows {
		scripts = append(scripts, r.normalize(row))
	}
	return scripts
}

// normalizeCompanyFilter: "all" означает отсутствие фильтра.
func normalizeCompanyFilter(company string) string {
	if company == "all" {
		return ""
	}
	return company
}

// GetByID возвращает скрипт по ID, проверяя обе таблицы.
func (r *postgresScriptRepo) GetByID(ctx context.Context, id string) (*domain.Script, error) {
	var row dbScript
	err := r.db.GetContext(ctx, &row, `
        SELECT id, name, text, category, vertical, tags, tone, usage_count, is_active, created_at
        FROM scripts WHERE id = $1`, id)
	if err == nil {
		script := r.normalize(row)
		return &script, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		r.log.Warnw("Primary scripts lookup failed, trying mlm_scripts", "error", err, "scriptID", id)
	}

	err = r.db.GetContext(ctx, &row, `
        SELECT id, title, content, category, company, tags, tone, copied_count, is_active, created_at
        FROM mlm_scripts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.log.Errorw("Failed to get script by ID", "error", err, "scriptID", id)
		return nil, fmt.Errorf("repository: failed to get script by ID: %w", err)
	}

	script := r.normalize(row)
	return &script, nil
}

// Popular возвращает самые копируемые скрипты из mlm_scripts.
func (r *postgresScriptRepo) Popular(ctx context.Context, limit int) ([]domain.Script, error) {
	query := `
        SELECT id, title, content, category, company, tags, tone, copied_count, is_active, created_at
        FROM mlm_scripts
        ORDER BY copied_count DESC NULLS LAST
        LIMIT $1`

	var rows []dbScript
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		r.log.Errorw("Failed to get popular scripts", "error", err)
		return nil, fmt.Errorf("repository: failed to get popular scripts: %w", err)
	}
	return r.normalizeAll(rows), nil
}

// IncrementCopiedCount увеличивает счетчик копирований. Инкремент атомарный
// на стороне БД, попытка сначала в mlm_scripts, затем в scripts.
func (r *postgresScriptRepo) IncrementCopiedCount(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE mlm_scripts SET copied_count = COALESCE(copied_count, 0) + 1 WHERE id = $1`, id)
	if err != nil {
		r.log.Errorw("Failed to increment copied_count", "error", err, "scriptID", id)
		return fmt.Errorf("repository: failed to increment copied count: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}

	result, err = r.db.ExecContext(ctx,
		`UPDATE scripts SET usage_count = COALESCE(usage_count, 0) + 1 WHERE id = $1`, id)
	if err != nil {
		r.log.Errorw("Failed to increment usage_count", "error", err, "scriptID", id)
		return fmt.Errorf("repository: failed to increment usage count: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
