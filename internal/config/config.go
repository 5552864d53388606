package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration, loaded from the environment.
type Config struct {
	Environment string
	DatabaseURL string
	APIAddr     string
	GRPCAddr    string
	RedisAddr   string

	RateLimitCapacity     int
	RateLimitRefillPerSec int
	MaxBodyBytes          int64
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: os.Getenv("APP_ENV"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APIAddr:     getenv("API_ADDR", ":8080"),
		GRPCAddr:    getenv("GRPC_ADDR", ":50051"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		RateLimitCapacity:     getenvInt("API_RATE_LIMIT_CAPACITY", 20),
		RateLimitRefillPerSec: getenvInt("API_RATE_LIMIT_REFILL_PER_SEC", 10),
		MaxBodyBytes:          int64(getenvInt("API_MAX_BODY_BYTES", 1<<20)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	var missing []string
	if c.Environment == "" {
		missing = append(missing, "APP_ENV")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return errors.New("missing required environment variables: " + strings.Join(missing, ", "))
	}

	if c.RateLimitCapacity < 0 || c.RateLimitRefillPerSec < 0 {
		return errors.New("rate limit settings must not be negative")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
