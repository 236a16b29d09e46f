package config_test

import (
	"testing"
	"time"

	"github.com/wcewong/paygen/internal/shared/config"

	"github.com/stretchr/testify/assert"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(envOf(nil))

	assert.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "MYR", cfg.DefaultCurrency)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 5, cfg.MaxDBRetries)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
	assert.Equal(t, 3*time.Second, cfg.OutboxPollInterval)
	assert.Empty(t, cfg.AdminJWTSecret)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, 15*time.Minute, cfg.AdminTokenTTL)
	assert.Error(t, cfg.RequireKafka())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := config.LoadFrom(envOf(map[string]string{
		"PORT":             "8080",
		"API_PREFIX":       "/v2/",
		"DEFAULT_CURRENCY": "sgd",
		"DB_HOST":          "db",
		"REDIS_ADDR":       "redis:6379",
		"KAFKA_BROKER":     "kafka:9092",
		"MAX_DB_RETRIES":   "2",
		"RATE_LIMIT_RPS":   "0.5",
		"ADMIN_JWT_SECRET": "0123456789abcdef",
		"SHUTDOWN_TIMEOUT": "3s",
	}))

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/v2", cfg.APIPrefix)
	assert.Equal(t, "SGD", cfg.DefaultCurrency)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.MaxDBRetries)
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.NoError(t, cfg.RequireKafka())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"currency too long", map[string]string{"DEFAULT_CURRENCY": "RINGGIT"}},
		{"currency not letters", map[string]string{"DEFAULT_CURRENCY": "M1R"}},
		{"non numeric port", map[string]string{"PORT": "http"}},
		{"retries not an integer", map[string]string{"MAX_DB_RETRIES": "five"}},
		{"zero retries", map[string]string{"MAX_DB_RETRIES": "0"}},
		{"bad ssl mode", map[string]string{"DB_SSLMODE": "sometimes"}},
		{"bad redis addr", map[string]string{"REDIS_ADDR": "redis"}},
		{"short jwt secret", map[string]string{"ADMIN_JWT_SECRET": "short"}},
		{"password hash without secret", map[string]string{"ADMIN_PASSWORD_HASH": "$2a$10$abcdefghijklmnopqrstuv"}},
		{"password hash not bcrypt", map[string]string{"ADMIN_JWT_SECRET": "0123456789abcdef", "ADMIN_PASSWORD_HASH": "plaintext"}},
		{"bad duration", map[string]string{"OUTBOX_POLL_INTERVAL": "soon"}},
		{"negative rate", map[string]string{"RATE_LIMIT_RPS": "-1"}},
		{"relative metrics path", map[string]string{"METRICS_PATH": "metrics"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFrom(envOf(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestConfig_MigrationURL(t *testing.T) {
	cfg, err := config.LoadFrom(envOf(map[string]string{
		"DB_HOST":     "db",
		"DB_USER":     "pay gen",
		"DB_PASSWORD": "p@ss/word",
		"DB_NAME":     "paygen",
		"DB_SSLMODE":  "require",
	}))
	assert.NoError(t, err)

	assert.Equal(t, "pgx5://pay%20gen:p%40ss%2Fword@db:5432/paygen?sslmode=require", cfg.MigrationURL())
}
