package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port            string        `validate:"required,numeric"`
	APIPrefix       string        `validate:"required"`
	DefaultCurrency string        `validate:"required,len=3,alpha"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	MetricsPath     string        `validate:"required,startswith=/"`

	DBHost     string `validate:"required"`
	DBUser     string `validate:"required"`
	DBPassword string
	DBName     string `validate:"required"`
	DBPort     string `validate:"required,numeric"`
	DBSSLMode  string `validate:"oneof=disable allow prefer require verify-ca verify-full"`

	RedisAddr    string `validate:"omitempty,hostname_port"`
	KafkaBroker  string `validate:"omitempty,hostname_port"`
	MaxDBRetries int    `validate:"gte=1"`

	RateLimitRPS   float64 `validate:"gt=0"`
	RateLimitBurst int     `validate:"gte=1"`

	AdminJWTSecret    string        `validate:"required_with=AdminPasswordHash,omitempty,min=16"`
	AdminUsername     string        `validate:"required"`
	AdminPasswordHash string        `validate:"omitempty,startswith=$2"`
	AdminTokenTTL     time.Duration `validate:"gt=0"`

	OutboxPollInterval time.Duration `validate:"gt=0"`
	ConsumerGroupID    string        `validate:"required"`
}

// Load reads Config from the environment, applying defaults for unset keys.
func Load() (Config, error) {
	return load(os.Getenv)
}

// LoadFrom reads Config from getenv; used by tests.
func LoadFrom(getenv func(string) string) (Config, error) {
	return load(getenv)
}

func load(getenv func(string) string) (Config, error) {
	e := env{getenv: getenv}

	cfg := Config{
		Port:            e.getString("PORT", "3000"),
		APIPrefix:       "/" + strings.Trim(e.getString("API_PREFIX", "api/v1"), "/"),
		DefaultCurrency: strings.ToUpper(e.getString("DEFAULT_CURRENCY", "MYR")),
		ShutdownTimeout: e.getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MetricsPath:     e.getString("METRICS_PATH", "/metrics"),

		DBHost:     e.getString("DB_HOST", "localhost"),
		DBUser:     e.getString("DB_USER", "postgres"),
		DBPassword: e.getString("DB_PASSWORD", ""),
		DBName:     e.getString("DB_NAME", "paygen"),
		DBPort:     e.getString("DB_PORT", "5432"),
		DBSSLMode:  e.getString("DB_SSLMODE", "disable"),

		RedisAddr:    e.getString("REDIS_ADDR", ""),
		KafkaBroker:  e.getString("KAFKA_BROKER", ""),
		MaxDBRetries: e.getInt("MAX_DB_RETRIES", 5),

		RateLimitRPS:   e.getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: e.getInt("RATE_LIMIT_BURST", 40),

		AdminJWTSecret:    e.getString("ADMIN_JWT_SECRET", ""),
		AdminUsername:     e.getString("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: e.getString("ADMIN_PASSWORD_HASH", ""),
		AdminTokenTTL:     e.getDuration("ADMIN_TOKEN_TTL", 15*time.Minute),

		OutboxPollInterval: e.getDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		ConsumerGroupID:    e.getString("KAFKA_CONSUMER_GROUP", "paygen-payslip-requested"),
	}

	if len(e.errs) > 0 {
		return Config{}, fmt.Errorf("config: %s", strings.Join(e.errs, "; "))
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// RequireKafka fails when no broker is configured.
func (c Config) RequireKafka() error {
	if c.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	return nil
}

// MigrationURL is the database URL in the form the pgx/v5 migrate driver
// expects.
func (c Config) MigrationURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

type env struct {
	getenv func(string) string
	errs   []string
}

func (e *env) getString(key, def string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return def
}

func (e *env) getInt(key string, def int) int {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("%s must be an integer", key))
		return def
	}
	return n
}

func (e *env) getFloat(key string, def float64) float64 {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("%s must be a number", key))
		return def
	}
	return f
}

func (e *env) getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("%s must be a duration", key))
		return def
	}
	return d
}
