package repository

import (
	"context"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
)

// ScriptRepository интерфейс хранилища библиотеки скриптов.
type ScriptRepository interface {
	// List возвращает скрипты с фильтрами по компании (подстрока,
	// без учета регистра; "all" или пустая строка - без фильтра) и
	// категории (точное совпадение).
	List(ctx context.Context, company, category string, limit int) ([]domain.Script, error)
	// GetByID возвращает скрипт по ID или ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Script, error)
	// Popular возвращает скрипты, отсортированные по числу копирований.
	Popular(ctx context.Context, limit int) ([]domain.Script, error)
	// IncrementCopiedCount увеличивает счетчик копирований скрипта.
	IncrementCopiedCount(ctx context.Context, id string) error
}

// CopyEventRepository интерфейс хранилища событий копирования скриптов.
type CopyEventRepository interface {
	// Create сохраняет событие копирования.
	Create(ctx context.Context, event *domain.CopyEvent) error
	// HistoryByUserID возвращает последние события пользователя.
	HistoryByUserID(ctx context.Context, userID string, limit int) ([]domain.CopyEvent, error)
}
