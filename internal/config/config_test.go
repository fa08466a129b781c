package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "leadscore.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Batch.MaxConcurrentLeads)
	assert.InDelta(t, 2.0, cfg.Batch.RemoteCallsPerSec, 0.001)
	assert.Empty(t, cfg.Anthropic.Key)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, 10, cfg.Anthropic.TimeoutSecs)
	assert.InDelta(t, 0.25, cfg.Scorer.BudgetWeight, 0.001)
	assert.InDelta(t, 0.15, cfg.Scorer.IndustryWeight, 0.001)
	assert.InDelta(t, 0.15, cfg.Scorer.CompanySizeWeight, 0.001)
	assert.InDelta(t, 0.20, cfg.Scorer.EngagementWeight, 0.001)
	assert.InDelta(t, 0.10, cfg.Scorer.StatusWeight, 0.001)
	assert.InDelta(t, 0.15, cfg.Scorer.DecisionMakerWeight, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/leads
anthropic:
  key: test-key
  timeout_secs: 3
log:
  level: debug
  format: console
server:
  port: 9090
scorer:
  budget_weight: 0.30
  engagement_weight: 0.15
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/leads", cfg.Store.DatabaseURL)
	assert.Equal(t, "test-key", cfg.Anthropic.Key)
	assert.Equal(t, 3, cfg.Anthropic.TimeoutSecs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 0.30, cfg.Scorer.BudgetWeight, 0.001)
	assert.InDelta(t, 0.15, cfg.Scorer.EngagementWeight, 0.001)
	// Untouched keys keep their defaults.
	assert.InDelta(t, 0.10, cfg.Scorer.StatusWeight, 0.001)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("LEADSCORE_ANTHROPIC_KEY", "env-key")
	t.Setenv("LEADSCORE_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Anthropic.Key)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	assert.Error(t, err)
}
