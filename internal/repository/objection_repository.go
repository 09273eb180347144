package repository

import (
	"context"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
)

// ObjectionRepository интерфейс хранилища библиотеки возражений.
type ObjectionRepository interface {
	// Search возвращает возражения с ответами. Непустой term фильтрует
	// по тексту возражения, технике и тексту ответа (подстрока, без
	// учета регистра).
	Search(ctx context.Context, term string, limit int) ([]domain.Objection, error)
}
