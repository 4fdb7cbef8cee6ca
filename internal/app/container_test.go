package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	scheduleCommands "github.com/felixgeelhaar/cadence/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/felixgeelhaar/cadence/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday is a day every default working week contains.
var monday = time.Date(2030, time.January, 7, 0, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:             "test",
		UserID:             "00000000-0000-0000-0000-000000000001",
		DatabaseDriver:     "sqlite",
		SQLitePath:         filepath.Join(t.TempDir(), "cadence.db"),
		CalendarProvider:   "none",
		AdvisorConcurrency: 2,
		ExternalTimeout:    2 * time.Second,
		BreakerThreshold:   5,
		BreakerCooldown:    time.Second,
		LockTTL:            5 * time.Second,
		OutboxBatchSize:    10,
	}
}

func newTestContainer(t *testing.T, cfg *config.Config) *Container {
	t.Helper()
	c, err := NewContainer(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func advisorServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewContainer_LocalMode(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, testConfig(t))

	assert.Nil(t, c.RedisClient)
	assert.Nil(t, c.Calendar)
	assert.Nil(t, c.Advisor)
	assert.NotNil(t, c.Locker)
	assert.NotNil(t, c.OutboxProcessor)

	prefs, err := c.PreferencesService.Get(ctx, c.UserID)
	require.NoError(t, err)
	assert.Equal(t, "UTC", prefs.Timezone)

	status, results := c.Health.Check(ctx)
	assert.Equal(t, observability.HealthStatusHealthy, status)
	require.Len(t, results, 1)
	assert.Equal(t, "database", results[0].Name)
}

func TestNewContainer_ScheduleAndDeliver(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, testConfig(t))

	created, err := c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		UserID:          c.UserID,
		Title:           "Write report",
		EstimateMinutes: 90,
	})
	require.NoError(t, err)

	result, err := c.ScheduleDayHandler.Handle(ctx, scheduleCommands.ScheduleDayCommand{
		UserID: c.UserID,
		Date:   monday,
	})
	require.NoError(t, err)

	schedule := result.Schedule
	require.Len(t, schedule.Slots, 1)
	assert.Equal(t, created.TaskID, schedule.Slots[0].TaskID)
	assert.Equal(t, monday.Add(9*time.Hour), schedule.Slots[0].Start.UTC())
	assert.Equal(t, 90*time.Minute, schedule.Slots[0].Duration())
	assert.Empty(t, schedule.Degraded)

	pending, err := c.Outbox.Pending(ctx, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, c.OutboxProcessor.Drain(ctx))
	pending, err = c.Outbox.Pending(ctx, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestNewContainer_WithAdvisor(t *testing.T) {
	ctx := context.Background()
	srv := advisorServer(t, http.StatusOK,
		`{"priority":"high","scheduledTime":"2030-01-07T10:00:00Z","insights":"Due soon"}`)

	cfg := testConfig(t)
	cfg.AdvisorURL = srv.URL
	c := newTestContainer(t, cfg)
	require.NotNil(t, c.Advisor)

	_, err := c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{UserID: c.UserID, Title: "Plan sprint"})
	require.NoError(t, err)

	result, err := c.ScheduleDayHandler.Handle(ctx, scheduleCommands.ScheduleDayCommand{
		UserID:     c.UserID,
		Date:       monday,
		WithAdvice: true,
	})
	require.NoError(t, err)
	require.Len(t, result.Advisories, 1)
	assert.False(t, result.Advisories[0].Fallback)
	assert.Equal(t, value_objects.PriorityHigh, result.Advisories[0].Advisory.Priority)
	assert.Empty(t, result.Schedule.Degraded)
}

func TestNewContainer_AdvisorFailureDegrades(t *testing.T) {
	ctx := context.Background()
	srv := advisorServer(t, http.StatusInternalServerError, "")

	cfg := testConfig(t)
	cfg.AdvisorURL = srv.URL
	c := newTestContainer(t, cfg)

	_, err := c.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{UserID: c.UserID, Title: "Plan sprint"})
	require.NoError(t, err)

	result, err := c.ScheduleDayHandler.Handle(ctx, scheduleCommands.ScheduleDayCommand{
		UserID:     c.UserID,
		Date:       monday,
		WithAdvice: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{scheduleCommands.CollaboratorAdvisor}, result.Schedule.Degraded)
	require.Len(t, result.Advisories, 1)
	assert.True(t, result.Advisories[0].Fallback)
	assert.Len(t, result.Schedule.Slots, 1)
}

func TestNewContainer_InvalidCalendarConfig(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.CalendarProvider = "outlook"

		_, err := NewContainer(context.Background(), cfg, nil)
		assert.Error(t, err)
	})

	t.Run("caldav without credentials", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.CalendarProvider = "caldav"

		_, err := NewContainer(context.Background(), cfg, nil)
		assert.Error(t, err)
	})
}

func TestNewContainer_RedisUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisURL = "redis://127.0.0.1:1/0"
	cfg.ExternalTimeout = 200 * time.Millisecond

	c := newTestContainer(t, cfg)

	assert.Nil(t, c.RedisClient)
	assert.NotNil(t, c.Locker)
}
