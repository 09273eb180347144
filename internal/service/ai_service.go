package service

import (
	"context"

	"github.com/salesflow-ai/entitlement-service/internal/copilot"
	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/internal/entitlement"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// ChatClient абстракция AI-ассистента для подмены в тестах.
type ChatClient interface {
	Chat(ctx context.Context, req copilot.ChatRequest) (string, error)
}

// AIService интерфейс AI-ассистента с учетом дневной квоты
type AIService interface {
	// Chat отвечает на сообщение пользователя. При исчерпанной дневной
	// квоте возвращает QuotaError, не обращаясь к ассистенту.
	Chat(ctx context.Context, req copilot.ChatRequest) (string, error)
}

type aiService struct {
	client ChatClient
	gate   *entitlement.Gate
	log    *logger.Logger
}

// NewAIService создает новый сервис AI-ассистента
func NewAIService(client ChatClient, gate *entitlement.Gate, log *logger.Logger) AIService {
	return &aiService{client: client, gate: gate, log: log}
}

func (s *aiService) Chat(ctx context.Context, req copilot.ChatRequest) (string, error) {
	if !s.gate.CanUseAI() {
		state := s.gate.State()
		limits := s.gate.Limits()
		s.log.Infow("AI call blocked by quota", "calls_today", state.AICallsToday, "limit", limits.FreeAICallsPerDay)
		return "", domain.NewQuotaError(entitlement.FeatureAI, state.AICallsToday, limits.FreeAICallsPerDay)
	}

	reply, err := s.client.Chat(ctx, req)
	if err != nil {
		return "", err
	}

	// Квота списывается только за успешный ответ.
	if err := s.gate.IncrementAICalls(ctx); err != nil {
		s.log.Errorw("failed to persist AI call count", "error", err)
	}

	return reply, nil
}
