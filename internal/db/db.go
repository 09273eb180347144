package db

import (
	"fmt"

	"github.com/salesflow-ai/entitlement-service/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // драйвер pgx через database/sql
	"github.com/jmoiron/sqlx"
)

// NewPostgres открывает соединение с удаленным PostgreSQL через pgx.
func NewPostgres(dsn string, log *logger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Errorw("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("db: failed to connect: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Errorw("Failed to ping database", "error", err)
		return nil, fmt.Errorf("db: failed to ping: %w", err)
	}

	log.Infow("Database connection established")
	return db, nil
}
