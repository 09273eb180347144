package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
)

// InMemoryLeadRepository реализация репозитория лидов в памяти.
type InMemoryLeadRepository struct {
	leads map[string]domain.Lead
	mutex sync.RWMutex
}

// NewInMemoryLeadRepository создает новый репозиторий лидов в памяти.
func NewInMemoryLeadRepository() *InMemoryLeadRepository {
	return &InMemoryLeadRepository{leads: make(map[string]domain.Lead)}
}

// GetAll возвращает всех лидов, новые первыми.
func (r *InMemoryLeadRepository) GetAll(ctx context.Context) ([]domain.Lead, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	leads := make([]domain.Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		leads = append(leads, lead)
	}
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return leads, nil
}

// GetByID возвращает лида по ID или ErrNotFound.
func (r *InMemoryLeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	lead, exists := r.leads[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &lead, nil
}

// Create сохраняет нового лида.
func (r *InMemoryLeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	r.leads[lead.ID] = *lead
	return nil
}

// Update обновляет существующего лида.
func (r *InMemoryLeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.leads[lead.ID]; !exists {
		return ErrNotFound
	}
	lead.UpdatedAt = time.Now()
	r.leads[lead.ID] = *lead
	return nil
}

// Delete удаляет лида.
func (r *InMemoryLeadRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.leads[id]; !exists {
		return ErrNotFound
	}
	delete(r.leads, id)
	return nil
}
