package commands

import (
	"context"
	"sync"
	"time"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var (
	userID = uuid.MustParse("0b8f6a9e-2a4f-4b39-8f0e-5d8d3c1c7a21")
	monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
)

func at(h, m int) time.Time {
	return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func testPrefs() *prefsDomain.Preferences {
	p := prefsDomain.DefaultPreferences(userID)
	p.BreakPolicy = prefsDomain.BreakPolicy{}
	p.CalendarSyncEnabled = true
	return p
}

func newTask(title string, priority value_objects.Priority, estimate time.Duration) *task.Task {
	return task.Restore(task.Snapshot{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           title,
		Priority:        priority,
		EstimateMinutes: int(estimate / time.Minute),
		CreatedAt:       monday.Add(-24 * time.Hour),
		UpdatedAt:       monday.Add(-24 * time.Hour),
	})
}

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, t *task.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindActive(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*task.Task, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockPrefsRepo struct {
	mock.Mock
}

func (m *mockPrefsRepo) Get(ctx context.Context, userID uuid.UUID) (*prefsDomain.Preferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prefsDomain.Preferences), args.Error(1)
}

func (m *mockPrefsRepo) Save(ctx context.Context, p *prefsDomain.Preferences) error {
	return m.Called(ctx, p).Error(0)
}

// memoryOutbox keeps saved messages in a slice.
type memoryOutbox struct {
	mu    sync.Mutex
	saved []*outbox.Message
}

func (o *memoryOutbox) Save(_ context.Context, msgs ...*outbox.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.saved = append(o.saved, msgs...)
	return nil
}

func (o *memoryOutbox) Pending(context.Context, time.Time, int) ([]*outbox.Message, error) {
	return nil, nil
}
func (o *memoryOutbox) MarkPublished(context.Context, int64, time.Time) error      { return nil }
func (o *memoryOutbox) MarkFailed(context.Context, int64, string, time.Time) error { return nil }
func (o *memoryOutbox) MarkDead(context.Context, int64, string, time.Time) error   { return nil }
func (o *memoryOutbox) Purge(context.Context, time.Time) (int64, error)            { return 0, nil }

func (o *memoryOutbox) routingKeys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]string, 0, len(o.saved))
	for _, m := range o.saved {
		keys = append(keys, m.RoutingKey)
	}
	return keys
}

// passthroughUoW runs everything in the caller's context.
type passthroughUoW struct {
	mu        sync.Mutex
	commits   int
	rollbacks int
}

func (u *passthroughUoW) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }

func (u *passthroughUoW) Commit(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.commits++
	return nil
}

func (u *passthroughUoW) Rollback(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rollbacks++
	return nil
}

type calendarFunc func(ctx context.Context, userID uuid.UUID, rng schedulingDomain.Interval) ([]schedulingDomain.Interval, error)

func (f calendarFunc) BusyIntervals(ctx context.Context, userID uuid.UUID, rng schedulingDomain.Interval) ([]schedulingDomain.Interval, error) {
	return f(ctx, userID, rng)
}

type advisorFunc func(ctx context.Context, t *task.Task, ac schedulingDomain.AdvisorContext) (*schedulingDomain.Suggestion, error)

func (f advisorFunc) Suggest(ctx context.Context, t *task.Task, ac schedulingDomain.AdvisorContext) (*schedulingDomain.Suggestion, error) {
	return f(ctx, t, ac)
}

type recordingMetrics struct {
	mu        sync.Mutex
	built     int
	fallbacks []string
}

func (m *recordingMetrics) ScheduleBuilt(*schedulingDomain.ScheduleResult, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.built++
}

func (m *recordingMetrics) CollaboratorFallback(c string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks = append(m.fallbacks, c)
}

func slotTitles(slots []schedulingDomain.ScheduledSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Title
	}
	return out
}
