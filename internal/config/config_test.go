package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Listen)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8081"}, cfg.Server.CORSOrigins)
	assert.Equal(t, config.DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, ":memory:", cfg.Storage.Path)
	assert.Equal(t, "sequential", cfg.Alerts.IDScheme)
	assert.True(t, cfg.Alerts.Seed)
	assert.Zero(t, cfg.Generator.Seed)
	assert.Empty(t, cfg.Narrator.APIKey)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Narrator.Model)
	assert.Equal(t, 200, cfg.Narrator.MaxTokens)
	assert.Equal(t, 0.7, cfg.Narrator.Temperature)
	assert.Equal(t, 15*time.Second, cfg.Narrator.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Narrator.CacheTTL)
	assert.Equal(t, "critical", cfg.Notify.MinSeverity)
	assert.Empty(t, cfg.Compliance.ScanSchedule)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cloudops.yaml")
	data := []byte(`
server:
  listen: ":9090"
  cors_origins: ["https://dash.example.com"]
storage:
  driver: sqlite
  path: /tmp/alerts.db
alerts:
  id_scheme: uuid
  seed: false
narrator:
  model: gpt-4o-mini
  timeout: 5s
notify:
  min_severity: warning
  webhook:
    enabled: true
    url: https://hooks.example.com/cloudops
compliance:
  scan_schedule: "@every 1h"
logging:
  level: debug
`)
	err := os.WriteFile(cfgPath, data, 0o644)
	require.NoError(t, err)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, []string{"https://dash.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/alerts.db", cfg.Storage.Path)
	assert.Equal(t, "uuid", cfg.Alerts.IDScheme)
	assert.False(t, cfg.Alerts.Seed)
	assert.Equal(t, "gpt-4o-mini", cfg.Narrator.Model)
	assert.Equal(t, 5*time.Second, cfg.Narrator.Timeout)
	assert.Equal(t, "warning", cfg.Notify.MinSeverity)
	assert.True(t, cfg.Notify.Webhook.Enabled)
	assert.Equal(t, "@every 1h", cfg.Compliance.ScanSchedule)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CLOUDOPS_LOGGING_LEVEL", "error")
	t.Setenv("CLOUDOPS_SERVER_LISTEN", ":7070")
	t.Setenv("CLOUDOPS_GENERATOR_SEED", "42")
	t.Setenv("CLOUDOPS_NARRATOR_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, ":7070", cfg.Server.Listen)
	assert.Equal(t, int64(42), cfg.Generator.Seed)
	assert.Equal(t, "sk-from-env", cfg.Narrator.APIKey)
}

func TestLoad_PrefixedKeyWins(t *testing.T) {
	t.Setenv("CLOUDOPS_NARRATOR_API_KEY", "sk-prefixed")
	t.Setenv("OPENAI_API_KEY", "sk-generic")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-prefixed", cfg.Narrator.APIKey)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	err := os.WriteFile(cfgPath, []byte("invalid: [yaml"), 0o644)
	require.NoError(t, err)

	_, err = config.Load(cfgPath)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"driver", "storage:\n  driver: postgres\n", "storage.driver"},
		{"id scheme", "alerts:\n  id_scheme: random\n", "alerts.id_scheme"},
		{"severity", "notify:\n  min_severity: urgent\n", "notify.min_severity"},
		{"slack url", "notify:\n  slack:\n    enabled: true\n", "notify.slack.webhook_url"},
		{"webhook url", "notify:\n  webhook:\n    enabled: true\n", "notify.webhook.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "cloudops.yaml")
			require.NoError(t, os.WriteFile(cfgPath, []byte(tt.yaml), 0o644))

			_, err := config.Load(cfgPath)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
