package observability

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ScheduleBuilt(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	result := &schedulingDomain.ScheduleResult{
		Slots:    make([]schedulingDomain.ScheduledSlot, 3),
		Degraded: []string{"calendar"},
	}
	m.ScheduleBuilt(result, 120*time.Millisecond)
	m.ScheduleBuilt(&schedulingDomain.ScheduleResult{}, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.schedules.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.schedules.WithLabelValues("false")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.tasksPlaced.WithLabelValues("scheduled")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.buildDuration))
}

func TestMetrics_Observers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.CollaboratorFallback("advisor")
	m.CollaboratorFallback("advisor")
	m.BreakerStateChanged("calendar", "open")
	m.OutboxDelivered("schedule.generated", true)
	m.OutboxDelivered("schedule.generated", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fallbacks.WithLabelValues("advisor")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.breakerState.WithLabelValues("calendar")))

	expected := `
# HELP cadence_outbox_deliveries_total Outbox publish attempts, by routing key and result.
# TYPE cadence_outbox_deliveries_total counter
cadence_outbox_deliveries_total{ok="false",routing_key="schedule.generated"} 1
cadence_outbox_deliveries_total{ok="true",routing_key="schedule.generated"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m.outboxDelivered, strings.NewReader(expected)))

	m.BreakerStateChanged("calendar", "closed")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.breakerState.WithLabelValues("calendar")))
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	second.CollaboratorFallback("calendar")

	assert.Equal(t, 1.0, testutil.ToFloat64(first.fallbacks.WithLabelValues("calendar")))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	m.CollaboratorFallback("calendar")

	health := NewHealthRegistry(time.Second)
	health.Register("database", func(context.Context) error { return nil })

	srv := httptest.NewServer(NewHandler(reg, health))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `cadence_collaborator_fallbacks_total{collaborator="calendar"} 1`)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	health.Register("redis", func(context.Context) error { return errors.New("connection refused") })
	resp2, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp2.StatusCode)

	var payload struct {
		Status HealthStatus        `json:"status"`
		Checks []HealthCheckResult `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&payload))
	assert.Equal(t, HealthStatusUnhealthy, payload.Status)
	require.Len(t, payload.Checks, 2)
	assert.Equal(t, "database", payload.Checks[0].Name)
	assert.Equal(t, "connection refused", payload.Checks[1].Message)
}

func TestHealthRegistry_Timeout(t *testing.T) {
	health := NewHealthRegistry(20 * time.Millisecond)
	health.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status, results := health.Check(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, status)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Message, "deadline")
}
