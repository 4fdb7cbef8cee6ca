package commands

import (
	"context"
	"time"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// mockOutboxRepo records saved messages instead of asserting on them one
// by one.
type mockOutboxRepo struct {
	mock.Mock
	saved []*outbox.Message
}

func (m *mockOutboxRepo) Save(ctx context.Context, msgs ...*outbox.Message) error {
	m.saved = append(m.saved, msgs...)
	return m.Called(ctx, msgs).Error(0)
}

func (m *mockOutboxRepo) Pending(ctx context.Context, now time.Time, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, reason string, retryAt time.Time) error {
	return m.Called(ctx, id, reason, retryAt).Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string, at time.Time) error {
	return m.Called(ctx, id, reason, at).Error(0)
}

func (m *mockOutboxRepo) Purge(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOutboxRepo) routingKeys() []string {
	keys := make([]string, 0, len(m.saved))
	for _, msg := range m.saved {
		keys = append(keys, msg.RoutingKey)
	}
	return keys
}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
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

// committingUoW expects one successful transaction.
func committingUoW() *mockUnitOfWork {
	uow := new(mockUnitOfWork)
	uow.On("Begin", mock.Anything).Return(context.Background(), nil)
	uow.On("Commit", mock.Anything).Return(nil)
	return uow
}

// rollingBackUoW expects one failed transaction.
func rollingBackUoW() *mockUnitOfWork {
	uow := new(mockUnitOfWork)
	uow.On("Begin", mock.Anything).Return(context.Background(), nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	return uow
}

// storedTask returns a task as a repository would, with no pending events.
func storedTask(userID uuid.UUID, title string) *task.Task {
	t, err := task.NewTask(userID, title)
	if err != nil {
		panic(err)
	}
	t.PullEvents()
	return t
}
