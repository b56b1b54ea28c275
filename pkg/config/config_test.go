package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "JWT_SECRET", "STORAGE_BACKEND", "DATABASE_URL", "SQLITE_PATH",
		"BADGER_PATH", "CATALOG_PATH", "LOG_LEVEL", "LOG_FORMAT", "ALLOWED_ORIGINS",
		"TRUSTED_PROXIES", "ENABLE_RATE_LIMIT", "RATE_LIMIT_PER_MINUTE", "MAX_REQUEST_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg := New()

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, StorageSQLite, cfg.StorageBackend)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.True(t, cfg.EnableRateLimit)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Contains(t, cfg.GetAllowedOrigins(), "http://localhost:5173")
}

func TestDatabaseURLSelectsPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/vetted")

	assert.Equal(t, StoragePostgres, New().StorageBackend)
}

func TestProductionDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://vetted.app, https://www.vetted.app")

	cfg := New()

	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"https://vetted.app", "https://www.vetted.app"}, cfg.GetAllowedOrigins())
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	cfg := New()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")

	cfg.JWTSecret = "dev-secret"
	assert.NoError(t, cfg.Validate())

	cfg.StorageBackend = StoragePostgres
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg.StorageBackend = "mongo"
	assert.ErrorContains(t, cfg.Validate(), "unknown STORAGE_BACKEND")

	cfg.StorageBackend = StorageMemory
	cfg.Environment = "production"
	err = cfg.Validate()
	assert.ErrorContains(t, err, "memory backend")
	assert.ErrorContains(t, err, "at least 32 characters")
}

func TestInvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")

	assert.Equal(t, 120, New().RateLimitPerMinute)
}
