package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

func TestSQLiteStateStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewSQLiteStateStore(path, logger.NewNop())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	_, err = store.Get(ctx, StateKeyIsPro)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, StateKeyLeadCount, "3"))
	value, err := store.Get(ctx, StateKeyLeadCount)
	require.NoError(t, err)
	assert.Equal(t, "3", value)

	// Повторный Set перезаписывает значение
	require.NoError(t, store.Set(ctx, StateKeyLeadCount, "4"))
	value, err = store.Get(ctx, StateKeyLeadCount)
	require.NoError(t, err)
	assert.Equal(t, "4", value)

	require.NoError(t, store.Delete(ctx, StateKeyLeadCount))
	_, err = store.Get(ctx, StateKeyLeadCount)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStateStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := NewSQLiteStateStore(path, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, StateKeyIsPro, "true"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStateStore(path, logger.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, StateKeyIsPro)
	require.NoError(t, err)
	assert.Equal(t, "true", value)
}
