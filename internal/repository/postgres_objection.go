package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// postgresObjectionRepo реализует ObjectionRepository для PostgreSQL.
//
// Хранилище имеет три варианта схемы: objection_responses с FK на таблицу
// objections (текст возражения лежит там), objection_responses без связки
// и legacy-таблицу objection_handling_advanced с четырьмя LIRA-шагами.
// Читаем по очереди, первый непустой результат выигрывает.
type postgresObjectionRepo struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresObjectionRepository создает новый репозиторий возражений для PostgreSQL.
func NewPostgresObjectionRepository(db *sqlx.DB, log *logger.Logger) ObjectionRepository {
	return &postgresObjectionRepo{db: db, log: log}
}

// dbObjectionResponse строка objection_responses, опционально с JOIN к objections.
type dbObjectionResponse struct {
	ID             string         `db:"id"`
	ObjectionText  sql.NullString `db:"objection_text"`
	Technique      sql.NullString `db:"technique"`
	ResponseScript sql.NullString `db:"response_script"`
	SuccessRate    sql.NullString `db:"success_rate"`
	Tone           sql.NullString `db:"tone"`
	WhenToUse      sql.NullString `db:"when_to_use"`
	Vertical       sql.NullString `db:"vertical"`
}

// dbObjectionAdvanced строка legacy-таблицы с LIRA-шагами.
type dbObjectionAdvanced struct {
	ID          string         `db:"id"`
	Objection   sql.NullString `db:"objection"`
	Step1Buffer sql.NullString `db:"step_1_buffer"`
	Step2Iso    sql.NullString `db:"step_2_isolate"`
	Step3Ref    sql.NullString `db:"step_3_reframe"`
	Step4Close  sql.NullString `db:"step_4_close"`
}

// Search возвращает возражения, пробуя таблицы от новой схемы к legacy.
func (r *postgresObjectionRepo) Search(ctx context.Context, term string, limit int) ([]domain.Objection, error) {
	objections, err := r.searchJoined(ctx, term, limit)
	if err != nil {
		r.log.Warnw("Joined objection query failed, trying flat table", "error", err)
	}
	if len(objections) > 0 {
		return objections, nil
	}

	objections, err = r.searchFlat(ctx, term, limit)
	if err != nil {
		r.log.Warnw("Flat objection query failed, trying legacy table", "error", err)
	}
	if len(objections) > 0 {
		return objections, nil
	}

	objections, err = r.searchLegacy(ctx, term, limit)
	if err != nil {
		r.log.Errorw("Failed to search objections", "error", err)
		return nil, fmt.Errorf("repository: failed to search objections: %w", err)
	}
	return objections, nil
}

func (r *postgresObjectionRepo) searchJoined(ctx context.Context, term string, limit int) ([]domain.Objection, error) {
	query := `
        SELECT r.id, o.objection_text, r.technique, r.response_script,
               r.success_rate, r.tone, r.when_to_use, r.vertical
        FROM objection_responses r
        JOIN objections o ON o.id = r.objection_id
        WHERE ($1 = ''
               OR o.objection_text ILIKE '%' || $1 || '%'
               OR r.technique ILIKE '%' || $1 || '%'
               OR r.response_script ILIKE '%' || $1 || '%')
        LIMIT $2`

	var rows []dbObjectionResponse
	if err := r.db.SelectContext(ctx, &rows, query, term, limit); err != nil {
		return nil, err
	}
	return r.normalizeResponses(rows), nil
}

func (r *postgresObjectionRepo) searchFlat(ctx context.Context, term string, limit int) ([]domain.Objection, error) {
	query := `
        SELECT id, NULL AS objection_text, technique, response_script,
               success_rate, tone, when_to_use, vertical
        FROM objection_responses
        WHERE ($1 = ''
               OR technique ILIKE '%' || $1 || '%'
               OR response_script ILIKE '%' || $1 || '%')
        LIMIT $2`

	var rows []dbObjectionResponse
	if err := r.db.SelectContext(ctx, &rows, query, term, limit); err != nil {
		return nil, err
	}
	return r.normalizeResponses(rows), nil
}

func (r *postgresObjectionRepo) searchLegacy(ctx context.Context, term string, limit int) ([]domain.Objection, error) {
	query := `
        SELECT id, objection, step_1_buffer, step_2_isolate, step_3_reframe, step_4_close
        FROM objection_handling_advanced
        WHERE ($1 = '' OR objection ILIKE '%' || $1 || '%')
        LIMIT $2`

	var rows []dbObjectionAdvanced
	if err := r.db.SelectContext(ctx, &rows, query, term, limit); err != nil {
		return nil, err
	}

	objections := make([]domain.Objection, 0, len(rows))
	for _, row := range rows {
		objections = append(objections, domain.Objection{
			ID:        row.ID,
			Objection: firstNonEmpty(row.Objection.String, "Einwand"),
			// Ответом считается reframe-шаг, buffer как запасной вариант
			Response:     firstNonEmpty(row.Step3Ref.String, row.Step1Buffer.String),
			Technique:    "LIRA",
			Step1Buffer:  row.Step1Buffer.String,
			Step2Isolate: row.Step2Iso.String,
			Step3Reframe: row.Step3Ref.String,
			Step4Close:   row.Step4Close.String,
		})
	}
	return objections, nil
}

func (r *postgresObjectionRepo) normalizeResponses(rows []dbObjectionResponse) []domain.Objection {
	objections := make([]domain.Objection, 0, len(rows))
	for _, row := range rows {
		objections = append(objections, domain.Objection{
			ID: row.ID,
			// Без JOIN текст возражения недоступен, техника его замещает
			Objection:   firstNonEmpty(row.ObjectionText.String, row.Technique.String, "Einwand"),
			Response:    row.ResponseScript.String,
			Technique:   row.Technique.String,
			WhenToUse:   row.WhenToUse.String,
			Tone:        row.Tone.String,
			SuccessRate: row.SuccessRate.String,
			Vertical:    row.Vertical.String,
		})
	}
	return objections
}
