package internal

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"ENV", "LOG_LEVEL", "PORT", "STORAGE_PROVIDER", "NATS_URL", "WAREHOUSE_LAT", "SESSION_IDLE_TTL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint16(3000), cfg.Port)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, "", cfg.NATS.URL)
	assert.InDelta(t, 10.772726, cfg.Geo.WarehouseLat, 1e-9)
	assert.InDelta(t, 106.698804, cfg.Geo.WarehouseLng, 1e-9)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTTL)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "8080")
	t.Setenv("STORAGE_PROVIDER", "memory")
	t.Setenv("SESSION_IDLE_TTL", "15m")
	t.Setenv("SENTRY_ENABLED", "yes")
	t.Setenv("SENTRY_SAMPLE_RATE", "0.25")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, ,http://localhost:5173")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint16(8080), cfg.Port)
	assert.Equal(t, "memory", cfg.Storage.Provider)
	assert.Equal(t, 15*time.Minute, cfg.Session.IdleTTL)
	assert.True(t, cfg.Sentry.Enabled)
	assert.InDelta(t, 0.25, cfg.Sentry.SampleRate, 1e-9)
	assert.Equal(t, []string{"https://shop.example.com", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("PORT", "not-a-port")
	t.Setenv("STORAGE_PROVIDER", "memory")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint16(3000), cfg.Port)
}

func TestLoadConfig_Rejects(t *testing.T) {
	t.Run("unknown storage provider", func(t *testing.T) {
		t.Setenv("STORAGE_PROVIDER", "floppy")
		_, err := loadConfig()
		assert.Error(t, err)
	})

	t.Run("s3 without credentials in prod", func(t *testing.T) {
		t.Setenv("ENV", "prod")
		t.Setenv("STORAGE_PROVIDER", "s3")
		t.Setenv("S3_ACCESS_KEY_ID", "")
		_, err := loadConfig()
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "prod", "info").Info("hello", slog.String("k", "v"))
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	NewLogger(&buf, "dev", "warn").Info("hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	NewLogger(&buf, "dev", "debug").Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}
