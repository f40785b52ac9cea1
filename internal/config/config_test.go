package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/N1XSS/controle-siscomex-test/internal/config"
)

func TestLoadSyncerConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadSyncerConfig("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://portalunico.siscomex.gov.br", cfg.API.BaseURL)
	assert.Equal(t, "America/Sao_Paulo", cfg.API.Timezone)
	assert.Equal(t, 1000, cfg.Rate.LimitHour)
	assert.Equal(t, 900, cfg.Rate.EffectiveSafeLimit())
	assert.Equal(t, 60*time.Second, cfg.Auth.MinInterval)
	assert.Equal(t, 2*time.Minute, cfg.Auth.SafetyMargin)
	assert.True(t, cfg.Fetch.SuspensionActs)
	assert.False(t, cfg.Fetch.ExemptionActs)
	assert.True(t, cfg.Fetch.FiscalRequirements)
	assert.Equal(t, 500, cfg.Sync.MaxRefreshPerRun)
	assert.Equal(t, 24, cfg.Sync.StalenessHours)
	assert.Equal(t, 20, cfg.Sync.Workers)
	assert.Equal(t, 50, cfg.Sync.LinkFlushSize)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoadSyncerConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SISCOMEX_RATE_LIMIT_HOUR", "600")
	t.Setenv("SISCOMEX_RATE_SAFE_LIMIT", "500")
	t.Setenv("SISCOMEX_AUTH_CLIENT_ID", "id-from-env")
	t.Setenv("SISCOMEX_DATABASE_HOST", "db.internal")
	t.Setenv("SISCOMEX_SYNC_WORKERS", "5")

	cfg, err := config.LoadSyncerConfig("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.Rate.LimitHour)
	assert.Equal(t, 500, cfg.Rate.EffectiveSafeLimit())
	assert.Equal(t, "id-from-env", cfg.Auth.ClientID)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5, cfg.Sync.Workers)
}

func TestSyncerConfig_Validation(t *testing.T) {
	cfg, err := config.LoadSyncerConfig("", t.TempDir())
	require.NoError(t, err)

	assert.Error(t, cfg.ValidateCredentials())
	assert.Error(t, cfg.ValidateDatabase())

	cfg.Auth.ClientID = "id"
	cfg.Auth.ClientSecret = "secret"
	assert.NoError(t, cfg.ValidateCredentials())

	cfg.Database.Host = "localhost"
	cfg.Database.DBName = "siscomex"
	assert.NoError(t, cfg.ValidateDatabase())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "app",
		Password: "secret",
		DBName:   "siscomex",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=app password=secret dbname=siscomex sslmode=disable",
		cfg.DSN())
}
