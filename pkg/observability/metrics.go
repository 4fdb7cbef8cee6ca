package observability

import (
	"errors"
	"strconv"
	"time"

	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cadence"

// Metrics records scheduling, resilience and outbox measurements in
// Prometheus collectors. It satisfies the metrics and observer ports of the
// scheduling commands, the resilience guard and the outbox processor.
type Metrics struct {
	schedules       *prometheus.CounterVec
	buildDuration   prometheus.Histogram
	tasksPlaced     *prometheus.CounterVec
	fallbacks       *prometheus.CounterVec
	breakerState    *prometheus.GaugeVec
	outboxDelivered *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. If reg is nil, the default
// registerer is used. Collectors that are already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedules_built_total",
			Help:      "Daily schedules built, by whether a collaborator fell back.",
		}, []string{"degraded"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "schedule_build_seconds",
			Help:      "Time spent building a daily schedule, including collaborator calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		tasksPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_tasks_total",
			Help:      "Tasks considered by the allocator, by outcome.",
		}, []string{"outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collaborator_fallbacks_total",
			Help:      "Calendar or advisor failures replaced by a fallback.",
		}, []string{"collaborator"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
		}, []string{"name"}),
		outboxDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_deliveries_total",
			Help:      "Outbox publish attempts, by routing key and result.",
		}, []string{"routing_key", "ok"}),
	}

	var err error
	if m.schedules, err = register(reg, m.schedules); err != nil {
		return nil, err
	}
	if m.buildDuration, err = register(reg, m.buildDuration); err != nil {
		return nil, err
	}
	if m.tasksPlaced, err = register(reg, m.tasksPlaced); err != nil {
		return nil, err
	}
	if m.fallbacks, err = register(reg, m.fallbacks); err != nil {
		return nil, err
	}
	if m.breakerState, err = register(reg, m.breakerState); err != nil {
		return nil, err
	}
	if m.outboxDelivered, err = register(reg, m.outboxDelivered); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ScheduleBuilt records one finished build.
func (m *Metrics) ScheduleBuilt(result *schedulingDomain.ScheduleResult, elapsed time.Duration) {
	m.buildDuration.Observe(elapsed.Seconds())
	if result == nil {
		return
	}
	m.schedules.WithLabelValues(strconv.FormatBool(len(result.Degraded) > 0)).Inc()
	m.tasksPlaced.WithLabelValues("scheduled").Add(float64(len(result.Slots)))
	m.tasksPlaced.WithLabelValues("unscheduled").Add(float64(len(result.Unscheduled)))
}

// CollaboratorFallback counts a fallback for collaborator.
func (m *Metrics) CollaboratorFallback(collaborator string) {
	m.fallbacks.WithLabelValues(collaborator).Inc()
}

// BreakerStateChanged tracks the current breaker state.
func (m *Metrics) BreakerStateChanged(name, state string) {
	value := 0.0
	switch state {
	case "half-open":
		value = 1
	case "open":
		value = 2
	}
	m.breakerState.WithLabelValues(name).Set(value)
}

// OutboxDelivered counts a publish attempt.
func (m *Metrics) OutboxDelivered(routingKey string, ok bool) {
	m.outboxDelivered.WithLabelValues(routingKey, strconv.FormatBool(ok)).Inc()
}
