package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/internal/entitlement"
	"github.com/salesflow-ai/entitlement-service/internal/repository"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// LeadService интерфейс сервиса для работы с лидами
type LeadService interface {
	GetAll(ctx context.Context) ([]domain.Lead, error)
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	// Create создает лида, если квота бесплатного тарифа позволяет.
	// При исчерпанной квоте возвращает QuotaError.
	Create(ctx context.Context, req domain.LeadRequest) (*domain.Lead, error)
	Update(ctx context.Context, id string, req domain.LeadRequest) (*domain.Lead, error)
	Delete(ctx context.Context, id string) error
}

type leadService struct {
	repo repository.LeadRepository
	gate *entitlement.Gate
	log  *logger.Logger
}

// NewLeadService создает новый сервис для работы с лидами
func NewLeadService(repo repository.LeadRepository, gate *entitlement.Gate, log *logger.Logger) LeadService {
	return &leadService{repo: repo, gate: gate, log: log}
}

func (s *leadService) GetAll(ctx context.Context) ([]domain.Lead, error) {
	s.log.Debug("Getting all leads")
	return s.repo.GetAll(ctx)
}

func (s *leadService) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	s.log.Debug("Getting lead by ID: %s", id)
	return s.repo.GetByID(ctx, id)
}

func (s *leadService) Create(ctx context.Context, req domain.LeadRequest) (*domain.Lead, error) {
	s.log.Debug("Creating lead: %s", req.Name)

	if !s.gate.CanAddLead() {
		state := s.gate.State()
		limits := s.gate.Limits()
		s.log.Infow("lead creation blocked by quota", "lead_count", state.LeadCount, "limit", limits.FreeLeadLimit)
		s.gate.NotifyLeadLimitReached(ctx)
		return nil, domain.NewQuotaError(entitlement.FeatureLeads, state.LeadCount, limits.FreeLeadLimit)
	}

	status := domain.LeadStatusNew
	if req.Status != "" {
		if !domain.ValidStatus(req.Status) {
			return nil, domain.ErrInvalidInput
		}
		status = domain.LeadStatus(req.Status)
	}

	now := time.Now().UTC()
	lead := &domain.Lead{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Status:      status,
		LastMessage: req.LastMessage,
		Temperature: req.Temperature,
		StartDate:   &now,
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, err
	}

	// Лид уже создан, счетчик квоты догоняет его состояние.
	if err := s.gate.IncrementLeadCount(ctx); err != nil {
		s.log.Errorw("failed to persist lead count", "error", err)
	}

	return lead, nil
}

func (s *leadService) Update(ctx context.Context, id string, req domain.LeadRequest) (*domain.Lead, error) {
	s.log.Debug("Updating lead: %s", id)

	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		lead.Name = req.Name
	}
	if req.Status != "" {
		if !domain.ValidStatus(req.Status) {
			return nil, domain.ErrInvalidInput
		}
		lead.Status = domain.LeadStatus(req.Status)
	}
	if req.LastMessage != "" {
		lead.LastMessage = req.LastMessage
	}
	if req.Temperature != 0 {
		lead.Temperature = req.Temperature
	}

	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *leadService) Delete(ctx context.Context, id string) error {
	s.log.Debug("Deleting lead: %s", id)
	return s.repo.Delete(ctx, id)
}
