package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/internal/repository"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// CopyTrackingService интерфейс учета копирований скриптов.
// Трекинг не должен мешать пользователю: любые ошибки записи логируются
// и глотаются, TrackCopy никогда не возвращает ошибку.
type CopyTrackingService interface {
	TrackCopy(ctx context.Context, scriptID, userID, finalText string)
	History(ctx context.Context, userID string, limit int) ([]domain.CopyEvent, error)
	Popular(ctx context.Context, limit int) ([]domain.Script, error)
}

type copyTrackingService struct {
	events  repository.CopyEventRepository
	scripts repository.ScriptRepository
	log     *logger.Logger
}

// NewCopyTrackingService создает новый сервис учета копирований
func NewCopyTrackingService(events repository.CopyEventRepository, scripts repository.ScriptRepository, log *logger.Logger) CopyTrackingService {
	return &copyTrackingService{events: events, scripts: scripts, log: log}
}

// TrackCopy фиксирует факт копирования: сохраняет событие и увеличивает
// счетчик популярности скрипта.
func (s *copyTrackingService) TrackCopy(ctx context.Context, scriptID, userID, finalText string) {
	event := &domain.CopyEvent{
		ID:        uuid.New().String(),
		ScriptID:  scriptID,
		UserID:    userID,
		FinalText: finalText,
		CopiedAt:  time.Now().UTC(),
	}

	if err := s.events.Create(ctx, event); err != nil {
		s.log.Warnw("failed to record copy event", "script_id", scriptID, "error", err)
	}

	if err := s.scripts.IncrementCopiedCount(ctx, scriptID); err != nil {
		s.log.Warnw("failed to increment copied count", "script_id", scriptID, "error", err)
	}
}

// History возвращает последние копирования пользователя.
func (s *copyTrackingService) History(ctx context.Context, userID string, limit int) ([]domain.CopyEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.events.HistoryByUserID(ctx, userID, limit)
}

// Popular возвращает скрипты, отсортированные по числу копирований.
func (s *copyTrackingService) Popular(ctx context.Context, limit int) ([]domain.Script, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.scripts.Popular(ctx, limit)
}
