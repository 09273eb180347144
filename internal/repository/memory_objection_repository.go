package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
)

// InMemoryObjectionRepository реализация ObjectionRepository в памяти для
// тестов и локального режима без базы.
type InMemoryObjectionRepository struct {
	mu         sync.RWMutex
	objections []domain.Objection

	// FailAll симулирует недоступность хранилища в тестах.
	FailAll error
}

// NewInMemoryObjectionRepository создает новый репозиторий возражений в памяти.
func NewInMemoryObjectionRepository(seed ...domain.Objection) *InMemoryObjectionRepository {
	return &InMemoryObjectionRepository{objections: seed}
}

// Search возвращает возражения, фильтруя по подстроке без учета регистра.
func (r *InMemoryObjectionRepository) Search(ctx context.Context, term string, limit int) ([]domain.Objection, error) {
	if r.FailAll != nil {
		return nil, r.FailAll
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	term = strings.ToLower(term)
	result := make([]domain.Objection, 0)
	for _, o := range r.objections {
		if term != "" &&
			!strings.Contains(strings.ToLower(o.Objection), term) &&
			!strings.Contains(strings.ToLower(o.Technique), term) &&
			!strings.Contains(strings.ToLower(o.Response), term) {
			continue
		}
		result = append(result, o)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}
