package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

type txMarker struct{}

func TestTransact(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, txMarker{}, true)

	t.Run("commits and returns the value", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)

		got, err := Transact(ctx, uow, func(ctx context.Context) (int, error) {
			assert.Equal(t, true, ctx.Value(txMarker{}))
			return 42, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 42, got)
		uow.AssertExpectations(t)
	})

	t.Run("rolls back and keeps the function error", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		fnErr := errors.New("boom")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(errors.New("rollback failed"))

		got, err := Transact(ctx, uow, func(context.Context) (int, error) { return 7, fnErr })

		assert.ErrorIs(t, err, fnErr)
		assert.Zero(t, got)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("begin failure skips the function", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		beginErr := errors.New("no connection")
		uow.On("Begin", ctx).Return(ctx, beginErr)

		called := false
		err := WithUnitOfWork(ctx, uow, func(context.Context) error {
			called = true
			return nil
		})

		assert.ErrorIs(t, err, beginErr)
		assert.False(t, called)
	})

	t.Run("commit failure is returned", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		commitErr := errors.New("disk full")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(commitErr)

		err := WithUnitOfWork(ctx, uow, func(context.Context) error { return nil })

		assert.ErrorIs(t, err, commitErr)
	})
}
