package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "CADENCE_USER_ID",
	"DATABASE_URL", "DATABASE_DRIVER", "SQLITE_PATH", "REDIS_URL", "RABBITMQ_URL",
	"OUTBOX_POLL_INTERVAL", "OUTBOX_BATCH_SIZE", "OUTBOX_MAX_ATTEMPTS", "OUTBOX_RETENTION",
	"OUTBOX_PROCESSOR_ENABLED",
	"CALENDAR_PROVIDER", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REFRESH_TOKEN",
	"GOOGLE_CALENDAR_ID", "CALDAV_URL", "CALDAV_USERNAME", "CALDAV_PASSWORD",
	"CALDAV_CALENDAR_PATH", "BUSY_CACHE_TTL",
	"ADVISOR_URL", "ADVISOR_API_KEY", "ADVISOR_MODEL", "ADVISOR_RATE_PER_SEC", "ADVISOR_CONCURRENCY",
	"EXTERNAL_TIMEOUT", "BREAKER_THRESHOLD", "BREAKER_COOLDOWN", "LOCK_TTL",
	"MCP_ADDR", "MCP_AUTH_TOKEN", "METRICS_ADDR",
}

// clearEnv blanks every key Load reads; empty values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", cfg.UserID)

	assert.True(t, cfg.IsLocalMode())
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.RabbitMQURL)

	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 5, cfg.OutboxMaxAttempts)
	assert.Equal(t, 7*24*time.Hour, cfg.OutboxRetention)
	assert.True(t, cfg.OutboxProcessorEnabled)

	assert.Equal(t, "none", cfg.CalendarProvider)
	assert.Equal(t, "primary", cfg.GoogleCalendarID)
	assert.Equal(t, 2*time.Minute, cfg.BusyCacheTTL)

	assert.Empty(t, cfg.AdvisorURL)
	assert.Equal(t, 2.0, cfg.AdvisorRatePerSec)
	assert.Equal(t, 4, cfg.AdvisorConcurrency)

	assert.Equal(t, 5*time.Second, cfg.ExternalTimeout)
	assert.Equal(t, 5, cfg.BreakerThreshold)
	assert.Equal(t, 30*time.Second, cfg.BreakerCooldown)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)

	assert.Equal(t, "127.0.0.1:8082", cfg.MCPAddr)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CADENCE_USER_ID", "6f1c7f0a-3b7e-4c1e-9a55-0d1f2b3c4d5e")
	t.Setenv("DATABASE_URL", "postgres://cadence@localhost/cadence")
	t.Setenv("OUTBOX_PROCESSOR_ENABLED", "false")
	t.Setenv("CALENDAR_PROVIDER", "caldav")
	t.Setenv("CALDAV_URL", "https://caldav.fastmail.com")
	t.Setenv("ADVISOR_RATE_PER_SEC", "0.5")
	t.Setenv("EXTERNAL_TIMEOUT", "1500ms")
	t.Setenv("BUSY_CACHE_TTL", "0s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "6f1c7f0a-3b7e-4c1e-9a55-0d1f2b3c4d5e", cfg.ParsedUserID().String())
	assert.Equal(t, "auto", cfg.DatabaseDriver)
	assert.False(t, cfg.IsLocalMode())
	assert.False(t, cfg.OutboxProcessorEnabled)
	assert.Equal(t, "caldav", cfg.CalendarProvider)
	assert.Equal(t, "https://caldav.fastmail.com", cfg.CalDAVURL)
	assert.Equal(t, 0.5, cfg.AdvisorRatePerSec)
	assert.Equal(t, 1500*time.Millisecond, cfg.ExternalTimeout)
	assert.Equal(t, time.Duration(0), cfg.BusyCacheTTL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("OUTBOX_BATCH_SIZE", "lots")
	t.Setenv("LOCK_TTL", "forever")
	t.Setenv("ADVISOR_RATE_PER_SEC", "fast")
	t.Setenv("OUTBOX_PROCESSOR_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Equal(t, 2.0, cfg.AdvisorRatePerSec)
	assert.True(t, cfg.OutboxProcessorEnabled)
}

func TestLoad_ValidationErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("CADENCE_USER_ID", "not-a-uuid")
	t.Setenv("EXTERNAL_TIMEOUT", "-1s")
	t.Setenv("ADVISOR_CONCURRENCY", "0")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CADENCE_USER_ID")
	assert.Contains(t, err.Error(), "EXTERNAL_TIMEOUT")
	assert.Contains(t, err.Error(), "ADVISOR_CONCURRENCY")
}
