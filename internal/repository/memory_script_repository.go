package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
)

// InMemoryScriptRepository реализация репозитория скриптов в памяти
// (для тестов и запуска без удаленного хранилища).
type InMemoryScriptRepository struct {
	scripts map[string]domain.Script
	order   []string
	mutex   sync.RWMutex

	// FailAll симулирует недоступность хранилища в тестах.
	FailAll error
}

// NewInMemoryScriptRepository создает новый репозиторий скриптов в памяти.
func NewInMemoryScriptRepository(seed ...domain.Script) *InMemoryScriptRepository {
	r := &InMemoryScriptRepository{scripts: make(map[string]domain.Script)}
	for _, s := range seed {
		r.scripts[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r
}

// List возвращает скрипты с фильтрами по компании и категории.
func (r *InMemoryScriptRepository) List(ctx context.Context, company, category string, limit int) ([]domain.Script, error) {
	if r.FailAll != nil {
		return nil, r.FailAll
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if company == "all" {
		company = ""
	}

	var result []domain.Script
	for _, id := range r.order {
		s := r.scripts[id]
		if company != "" && !strings.Contains(strings.ToLower(s.Company), strings.ToLower(company)) {
			continue
		}
		if category != "" && s.Category != category {
			continue
		}
		result = append(result, s)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// GetByID возвращает скрипт по ID или ErrNotFound.
func (r *InMemoryScriptRepository) GetByID(ctx context.Context, id string) (*domain.Script, error) {
	if r.FailAll != nil {
		return nil, r.FailAll
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s, exists := r.scripts[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &s, nil
}

// Popular возвращает скрипты, отсортированные по числу копирований.
func (r *InMemoryScriptRepository) Popular(ctx context.Context, limit int) ([]domain.Script, error) {
	if r.FailAll != nil {
		return nil, r.FailAll
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]domain.Script, 0, len(r.scripts))
	for _, s := range r.scripts {
		result = append(result, s)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CopiedCount > result[j].CopiedCount
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// IncrementCopiedCount увеличивает счетчик копирований скрипта.
func (r *InMemoryScriptRepository) IncrementCopiedCount(ctx context.Context, id string) error {
	if r.FailAll != nil {
		return r.FailAll
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	s, exists := r.scripts[id]
	if !exists {
		return ErrNotFound
	}
	s.CopiedCount++
	r.scripts[id] = s
	return nil
}

// InMemoryCopyEventRepository реализация хранилища событий копирования в памяти.
type InMemoryCopyEventRepository struct {
	events []domain.CopyEvent
	mutex  sync.RWMutex
}

// NewInMemoryCopyEventRepository создает новое хранилище событий в памяти.
func NewInMemoryCopyEventRepository() *InMemoryCopyEventRepository {
	return &InMemoryCopyEventRepository{}
}

// Create сохраняет событие копирования.
func (r *InMemoryCopyEventRepository) Create(ctx context.Context, event *domain.CopyEvent) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.events = append(r.events, *event)
	return nil
}

// HistoryByUserID возвращает последние события пользователя (новые первыми).
func (r *InMemoryCopyEventRepository) HistoryByUserID(ctx context.Context, userID string, limit int) ([]domain.CopyEvent, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []domain.CopyEvent
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].UserID == userID {
			result = append(result, r.events[i])
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

// Events возвращает все сохраненные события (для проверок в тестах).
func (r *InMemoryCopyEventRepository) Events() []domain.CopyEvent {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]domain.CopyEvent, len(r.events))
	copy(out, r.events)
	return out
}
