package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	UserID    string

	// Database. An empty DatabaseURL selects the local SQLite file.
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string

	// Redis backs the per-user lock and the busy-time cache. Empty means
	// in-process locking and no cache.
	RedisURL string

	// RabbitMQ receives outbox events. Empty means events stay local.
	RabbitMQURL string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxAttempts      int
	OutboxRetention        time.Duration
	OutboxProcessorEnabled bool

	// Calendar
	CalendarProvider   string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	GoogleCalendarID   string
	CalDAVURL          string
	CalDAVUsername     string
	CalDAVPassword     string
	CalDAVCalendarPath string
	BusyCacheTTL       time.Duration

	// Advisor
	AdvisorURL         string
	AdvisorAPIKey      string
	AdvisorModel       string
	AdvisorRatePerSec  float64
	AdvisorConcurrency int

	// Resilience
	ExternalTimeout  time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration
	LockTTL          time.Duration

	// MCP
	MCPAddr      string
	MCPAuthToken string

	// Metrics
	MetricsAddr string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")
	defaultDriver := "sqlite"
	if databaseURL != "" {
		defaultDriver = "auto"
	}

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		UserID:    getEnv("CADENCE_USER_ID", "00000000-0000-0000-0000-000000000001"),

		DatabaseURL:    databaseURL,
		DatabaseDriver: getEnv("DATABASE_DRIVER", defaultDriver),
		SQLitePath:     getEnv("SQLITE_PATH", ""),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxAttempts:      getIntEnv("OUTBOX_MAX_ATTEMPTS", 5),
		OutboxRetention:        getDurationEnv("OUTBOX_RETENTION", 7*24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		CalendarProvider:   getEnv("CALENDAR_PROVIDER", "none"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GoogleCalendarID:   getEnv("GOOGLE_CALENDAR_ID", "primary"),
		CalDAVURL:          getEnv("CALDAV_URL", ""),
		CalDAVUsername:     getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword:     getEnv("CALDAV_PASSWORD", ""),
		CalDAVCalendarPath: getEnv("CALDAV_CALENDAR_PATH", ""),
		BusyCacheTTL:       getDurationEnv("BUSY_CACHE_TTL", 2*time.Minute),

		AdvisorURL:         getEnv("ADVISOR_URL", ""),
		AdvisorAPIKey:      getEnv("ADVISOR_API_KEY", ""),
		AdvisorModel:       getEnv("ADVISOR_MODEL", ""),
		AdvisorRatePerSec:  getFloatEnv("ADVISOR_RATE_PER_SEC", 2),
		AdvisorConcurrency: getIntEnv("ADVISOR_CONCURRENCY", 4),

		ExternalTimeout:  getDurationEnv("EXTERNAL_TIMEOUT", 5*time.Second),
		BreakerThreshold: getIntEnv("BREAKER_THRESHOLD", 5),
		BreakerCooldown:  getDurationEnv("BREAKER_COOLDOWN", 30*time.Second),
		LockTTL:          getDurationEnv("LOCK_TTL", 30*time.Second),

		MCPAddr:      getEnv("MCP_ADDR", "127.0.0.1:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),

		MetricsAddr: getEnv("METRICS_ADDR", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	var errs []error
	if _, err := uuid.Parse(c.UserID); err != nil {
		errs = append(errs, fmt.Errorf("CADENCE_USER_ID: %w", err))
	}
	if c.ExternalTimeout <= 0 {
		errs = append(errs, errors.New("EXTERNAL_TIMEOUT must be positive"))
	}
	if c.LockTTL <= 0 {
		errs = append(errs, errors.New("LOCK_TTL must be positive"))
	}
	if c.AdvisorConcurrency < 1 {
		errs = append(errs, errors.New("ADVISOR_CONCURRENCY must be at least 1"))
	}
	return errors.Join(errs...)
}

// ParsedUserID returns the configured user. Validate has already checked it.
func (c *Config) ParsedUserID() uuid.UUID {
	return uuid.MustParse(c.UserID)
}

// IsLocalMode reports whether the SQLite backend is in use.
func (c *Config) IsLocalMode() bool {
	return c.DatabaseDriver == "sqlite"
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
