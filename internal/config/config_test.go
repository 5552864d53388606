package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DATABASE_URL", "sqlite:///tmp/bank.db")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "sqlite:///tmp/bank.db", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.APIAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 20, cfg.RateLimitCapacity)
	assert.Equal(t, 10, cfg.RateLimitRefillPerSec)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("API_ADDR", ":9999")
	t.Setenv("GRPC_ADDR", ":7777")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("API_RATE_LIMIT_CAPACITY", "5")
	t.Setenv("API_MAX_BODY_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.APIAddr)
	assert.Equal(t, ":7777", cfg.GRPCAddr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 5, cfg.RateLimitCapacity)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ENV")
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadMalformedIntFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("API_RATE_LIMIT_CAPACITY", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.RateLimitCapacity)
}

func TestValidateRejectsNegativeRateLimit(t *testing.T) {
	cfg := &Config{Environment: "test", DatabaseURL: "x", RateLimitCapacity: -1}
	assert.Error(t, cfg.Validate())
}
