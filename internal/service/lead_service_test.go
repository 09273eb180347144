package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/internal/entitlement"
	"github.com/salesflow-ai/entitlement-service/internal/repository"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

func newLoadedGate(t *testing.T, limits entitlement.Limits) (*entitlement.Gate, *repository.InMemoryStateStore) {
	t.Helper()
	store := repository.NewInMemoryStateStore()
	gate := entitlement.NewGate(limits, store, nil, logger.NewNop())
	_, err := gate.Load(context.Background())
	require.NoError(t, err)
	return gate, store
}

func TestCreateLeadIncrementsQuota(t *testing.T) {
	gate, _ := newLoadedGate(t, entitlement.Limits{FreeLeadLimit: 5})
	repo := repository.NewInMemoryLeadRepository()
	svc := NewLeadService(repo, gate, logger.NewNop())

	lead, err := svc.Create(context.Background(), domain.LeadRequest{Name: "Anna"})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, domain.LeadStatusNew, lead.Status)
	assert.Equal(t, 1, gate.State().LeadCount)
}

func TestCreateLeadBlockedAtLimit(t *testing.T) {
	gate, _ := newLoadedGate(t, entitlement.Limits{FreeLeadLimit: 2})
	repo := repository.NewInMemoryLeadRepository()
	svc := NewLeadService(repo, gate, logger.NewNop())

	for i := 0; i < 2; i++ {
		_, err := svc.Create(context.Background(), domain.LeadRequest{Name: "Lead"})
		require.NoError(t, err)
	}

	_, err := svc.Create(context.Background(), domain.LeadRequest{Name: "One too many"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLeadLimitReached)

	var quotaErr *domain.QuotaError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 2, quotaErr.Used)
	assert.Equal(t, 2, quotaErr.Limit)

	// Третий лид не должен был попасть в хранилище.
	leads, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}

func TestCreateLeadProUnlimited(t *testing.T) {
	gate, _ := newLoadedGate(t, entitlement.Limits{FreeLeadLimit: 1})
	require.NoError(t, gate.UpgradeToPro(context.Background()))

	repo := repository.NewInMemoryLeadRepository()
	svc := NewLeadService(repo, gate, logger.NewNop())

	for i := 0; i < 10; i++ {
		_, err := svc.Create(context.Background(), domain.LeadRequest{Name: "Lead"})
		require.NoError(t, err)
	}
}

func TestCreateLeadRejectsUnknownStatus(t *testing.T) {
	gate, _ := newLoadedGate(t, entitlement.Limits{FreeLeadLimit: 5})
	svc := NewLeadService(repository.NewInMemoryLeadRepository(), gate, logger.NewNop())

	_, err := svc.Create(context.Background(), domain.LeadRequest{Name: "Anna", Status: "FROZEN"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateLead(t *testing.T) {
	gate, _ := newLoadedGate(t, entitlement.Limits{FreeLeadLimit: 5})
	repo := repository.NewInMemoryLeadRepository()
	svc := NewLeadService(repo, gate, logger.NewNop())

	lead, err := svc.Create(context.Background(), domain.LeadRequest{Name: "Anna"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), lead.ID, domain.LeadRequest{Name: "Anna B.", Status: string(domain.LeadStatusClosing)})
	require.NoError(t, err)
	assert.Equal(t, "Anna B.", updated.Name)
	assert.Equal(t, domain.LeadStatusClosing, updated.Status)

	_, err = svc.Update(context.Background(), "missing", domain.LeadRequest{Name: "X"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteLead(t *testing.T) {
	gate, _ := newLoadedGate(t, entitlement.Limits{FreeLeadLimit: 5})
	repo := repository.NewInMemoryLeadRepository()
	svc := NewLeadService(repo, gate, logger.NewNop())

	lead, err := svc.Create(context.Background(), domain.LeadRequest{Name: "Anna"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), lead.ID))
	_, err = svc.GetByID(context.Background(), lead.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
