package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(".env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, DevFreeLeadLimit, cfg.Limits.FreeLeadLimit)
	assert.Equal(t, DevFreeAICallsPerDay, cfg.Limits.FreeAICallsPerDay)
	assert.Equal(t, "entitlement.db", cfg.State.Path)
}

func TestLoadConfigProductionLimits(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig(".env")
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DefaultFreeLeadLimit, cfg.Limits.FreeLeadLimit)
	assert.Equal(t, DefaultFreeAICallsPerDay, cfg.Limits.FreeAICallsPerDay)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("FREE_LEAD_LIMIT", "100")
	t.Setenv("FREE_AI_CALLS_PER_DAY", "25")
	t.Setenv("STATE_PATH", "/tmp/state.db")

	cfg, err := LoadConfig(".env")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Limits.FreeLeadLimit)
	assert.Equal(t, 25, cfg.Limits.FreeAICallsPerDay)
	assert.Equal(t, "/tmp/state.db", cfg.State.Path)
}
