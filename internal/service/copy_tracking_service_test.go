package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/internal/repository"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

func TestTrackCopyRecordsEventAndCount(t *testing.T) {
	scripts := repository.NewInMemoryScriptRepository(
		domain.Script{ID: "s-1", Title: "Opener", Content: "Hi", IsActive: true},
	)
	events := repository.NewInMemoryCopyEventRepository()
	svc := NewCopyTrackingService(events, scripts, logger.NewNop())

	svc.TrackCopy(context.Background(), "s-1", "user-1", "Hi Anna")

	recorded := events.Events()
	require.Len(t, recorded, 1)
	assert.Equal(t, "s-1", recorded[0].ScriptID)
	assert.Equal(t, "Hi Anna", recorded[0].FinalText)
	assert.NotEmpty(t, recorded[0].ID)

	script, err := scripts.GetByID(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, 1, script.CopiedCount)
}

func TestTrackCopySwallowsStorageErrors(t *testing.T) {
	scripts := repository.NewInMemoryScriptRepository()
	scripts.FailAll = errors.New("db down")
	events := repository.NewInMemoryCopyEventRepository()
	svc := NewCopyTrackingService(events, scripts, logger.NewNop())

	// Не должно паниковать и не должно возвращать ошибку наружу.
	svc.TrackCopy(context.Background(), "s-1", "user-1", "text")
}

func TestHistoryReturnsUserEvents(t *testing.T) {
	scripts := repository.NewInMemoryScriptRepository()
	events := repository.NewInMemoryCopyEventRepository()
	svc := NewCopyTrackingService(events, scripts, logger.NewNop())

	svc.TrackCopy(context.Background(), "s-1", "user-1", "a")
	svc.TrackCopy(context.Background(), "s-2", "user-2", "b")
	svc.TrackCopy(context.Background(), "s-3", "user-1", "c")

	history, err := svc.History(context.Background(), "user-1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
}
