package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpire)
	assert.Equal(t, 1, cfg.Catalog.Page)
	assert.Equal(t, 12, cfg.Catalog.Limit)
	assert.Equal(t, 100, cfg.Catalog.MaxLimit)
	assert.Equal(t, 10, cfg.ReviewsLimit)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "notification_queue", cfg.RabbitMQQueue)
	assert.True(t, cfg.RateLimitEnabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("CATALOG_DEFAULT_LIMIT", "24")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("APP_ENV", "production")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, 24, cfg.Catalog.Limit)
	assert.False(t, cfg.RateLimitEnabled)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("JWT_EXPIRE: 1h\nREDIS_ADDR: localhost:6379\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.JWTExpire)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_InvalidDefaults(t *testing.T) {
	t.Setenv("CATALOG_DEFAULT_LIMIT", "0")

	_, err := config.Load()
	assert.Error(t, err)
}
