package queries

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*task.Task, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

var (
	userID = uuid.New()
	now    = time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
)

func restored(s task.Snapshot) *task.Task {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.UserID == uuid.Nil {
		s.UserID = userID
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now.Add(-24 * time.Hour)
	}
	s.UpdatedAt = s.CreatedAt
	return task.Restore(s)
}

func at(hoursFromNow int) *time.Time {
	v := now.Add(time.Duration(hoursFromNow) * time.Hour)
	return &v
}

func titlesOf(dtos []TaskDTO) []string {
	out := make([]string, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.Title)
	}
	return out
}

func TestGetTaskHandler_Handle(t *testing.T) {
	mine := restored(task.Snapshot{Title: "mine", Advisory: &task.Advisory{
		Priority: value_objects.PriorityHigh, ScheduledTime: now, Insight: "soon",
	}})
	theirs := restored(task.Snapshot{Title: "theirs", UserID: uuid.New()})
	repo := new(mockTaskRepo)
	repo.On("FindByID", mock.Anything, mine.ID()).Return(mine, nil)
	repo.On("FindByID", mock.Anything, theirs.ID()).Return(theirs, nil)
	handler := NewGetTaskHandler(repo)

	got, err := handler.Handle(context.Background(), GetTaskQuery{TaskID: mine.ID(), UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
	require.NotNil(t, got.Advisory)
	assert.Equal(t, "high", got.Advisory.Priority)

	_, err = handler.Handle(context.Background(), GetTaskQuery{TaskID: theirs.ID(), UserID: userID})
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestListTasksHandler_Handle(t *testing.T) {
	low := restored(task.Snapshot{Title: "low", Priority: value_objects.PriorityLow, DueDate: at(48), CreatedAt: now.Add(-3 * time.Hour)})
	high := restored(task.Snapshot{Title: "high", Priority: value_objects.PriorityHigh, Tags: []string{"work"}, CreatedAt: now.Add(-2 * time.Hour)})
	medium := restored(task.Snapshot{Title: "medium", Priority: value_objects.PriorityMedium, DueDate: at(24), CreatedAt: now.Add(-time.Hour)})
	done := restored(task.Snapshot{Title: "done", Status: task.StatusCompleted, CreatedAt: now.Add(-4 * time.Hour)})

	repo := new(mockTaskRepo)
	repo.On("FindActive", mock.Anything, userID).Return([]*task.Task{medium, low, high}, nil)
	repo.On("FindByUserID", mock.Anything, userID).Return([]*task.Task{medium, low, high, done}, nil)
	handler := NewListTasksHandler(repo)

	tests := []struct {
		name  string
		query ListTasksQuery
		want  []string
	}{
		{"active by creation", ListTasksQuery{}, []string{"low", "high", "medium"}},
		{"all", ListTasksQuery{Status: "all"}, []string{"done", "low", "high", "medium"}},
		{"completed only", ListTasksQuery{Status: "completed"}, []string{"done"}},
		{"by priority", ListTasksQuery{SortBy: "priority"}, []string{"high", "medium", "low"}},
		{"by due date", ListTasksQuery{SortBy: "due_date"}, []string{"medium", "low", "high"}},
		{"priority filter", ListTasksQuery{Priority: "HIGH"}, []string{"high"}},
		{"tag filter", ListTasksQuery{Tag: "work"}, []string{"high"}},
		{"limit", ListTasksQuery{SortBy: "priority", Limit: 2}, []string{"high", "medium"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.UserID = userID
			got, err := handler.Handle(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titlesOf(got))
		})
	}
}

func TestListOverdueHandler_Handle(t *testing.T) {
	repo := new(mockTaskRepo)
	repo.On("FindActive", mock.Anything, userID).Return([]*task.Task{
		restored(task.Snapshot{Title: "yesterday", DueDate: at(-24)}),
		restored(task.Snapshot{Title: "last week", DueDate: at(-24 * 7)}),
		restored(task.Snapshot{Title: "tomorrow", DueDate: at(24)}),
		restored(task.Snapshot{Title: "undated"}),
	}, nil)

	got, err := NewListOverdueHandler(repo).Handle(context.Background(), ListOverdueQuery{UserID: userID, Now: now})

	require.NoError(t, err)
	assert.Equal(t, []string{"last week", "yesterday"}, titlesOf(got))
}

func TestListUpcomingHandler_Handle(t *testing.T) {
	repo := new(mockTaskRepo)
	soon := restored(task.Snapshot{Title: "soon", DueDate: at(30)})
	repo.On("FindDueBetween", mock.Anything, userID, now, now.AddDate(0, 0, 7)).Return([]*task.Task{soon}, nil)
	repo.On("FindDueBetween", mock.Anything, userID, now, now.AddDate(0, 0, 2)).Return([]*task.Task{}, nil)
	handler := NewListUpcomingHandler(repo)

	week, err := handler.Handle(context.Background(), ListUpcomingQuery{UserID: userID, Now: now})
	require.NoError(t, err)
	assert.Equal(t, []string{"soon"}, titlesOf(week))

	twoDays, err := handler.Handle(context.Background(), ListUpcomingQuery{UserID: userID, Days: 2, Now: now})
	require.NoError(t, err)
	assert.Empty(t, twoDays)
}

func TestProductivityStatsHandler_Handle(t *testing.T) {
	start := now.AddDate(0, 0, -7)
	completedAt := func(created time.Time, after time.Duration) task.Snapshot {
		done := created.Add(after)
		return task.Snapshot{Title: "done", Status: task.StatusCompleted, CreatedAt: created, CompletedAt: &done}
	}

	repo := new(mockTaskRepo)
	repo.On("FindByUserID", mock.Anything, userID).Return([]*task.Task{
		restored(completedAt(start.Add(time.Hour), 2*time.Hour)),
		restored(completedAt(start.Add(2*time.Hour), 4*time.Hour)),
		restored(task.Snapshot{Title: "late", DueDate: at(-1), CreatedAt: start.Add(3 * time.Hour)}),
		restored(task.Snapshot{Title: "postponed", Status: task.StatusPostponed, CreatedAt: start.Add(4 * time.Hour)}),
		restored(task.Snapshot{Title: "too old", CreatedAt: start.Add(-time.Hour)}),
	}, nil)
	handler := NewProductivityStatsHandler(repo)
	handler.now = func() time.Time { return now }

	got, err := handler.Handle(context.Background(), ProductivityStatsQuery{UserID: userID, Start: start, End: now})

	require.NoError(t, err)
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 2, got.Completed)
	assert.Equal(t, map[string]int{"completed": 2, "pending": 1, "postponed": 1}, got.ByStatus)
	assert.InDelta(t, 0.5, got.CompletionRate, 1e-9)
	assert.Equal(t, 3*time.Hour, got.AvgCompletionTime)
	assert.Equal(t, 1, got.Overdue)
}
