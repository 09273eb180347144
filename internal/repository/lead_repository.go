package repository

import (
	"context"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
)

// LeadRepository интерфейс хранилища лидов.
type LeadRepository interface {
	GetAll(ctx context.Context) ([]domain.Lead, error)
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	Create(ctx context.Context, lead *domain.Lead) error
	Update(ctx context.Context, lead *domain.Lead) error
	Delete(ctx context.Context, id string) error
}
