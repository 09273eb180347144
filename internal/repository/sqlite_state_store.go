package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/salesflow-ai/entitlement-service/pkg/logger"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // драйвер SQLite без cgo
)

const stateSchema = `
CREATE TABLE IF NOT EXISTS app_state (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// sqliteStateStore реализует StateStore поверх локального SQLite файла.
type sqliteStateStore struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewSQLiteStateStore открывает (или создает) локальное хранилище состояния.
func NewSQLiteStateStore(path string, log *logger.Logger) (StateStore, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		log.Errorw("Failed to open local state store", "error", err, "path", path)
		return nil, fmt.Errorf("repository: failed to open state store: %w", err)
	}

	// Одно соединение: хранилище однопользовательское, а SQLite не любит
	// конкурирующие писатели
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(stateSchema); err != nil {
		db.Close()
		log.Errorw("Failed to initialize state store schema", "error", err, "path", path)
		return nil, fmt.Errorf("repository: failed to init state schema: %w", err)
	}

	log.Infow("Local state store opened", "path", path)
	return &sqliteStateStore{db: db, log: log}, nil
}

// Get возвращает значение ключа или ErrNotFound.
func (s *sqliteStateStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM app_state WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		s.log.Errorw("Failed to read state key", "error", err, "key", key)
		return "", fmt.Errorf("repository: failed to read state key %q: %w", key, err)
	}
	return value, nil
}

// Set сохраняет значение ключа (upsert).
func (s *sqliteStateStore) Set(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO app_state (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		s.log.Errorw("Failed to write state key", "error", err, "key", key)
		return fmt.Errorf("repository: failed to write state key %q: %w", key, err)
	}
	return nil
}

// Delete удаляет ключ. Отсутствие ключа не является ошибкой.
func (s *sqliteStateStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = $1`, key); err != nil {
		s.log.Errorw("Failed to delete state key", "error", err, "key", key)
		return fmt.Errorf("repository: failed to delete state key %q: %w", key, err)
	}
	return nil
}

// Close закрывает хранилище.
func (s *sqliteStateStore) Close() error {
	return s.db.Close()
}
