package application

import "context"

// UnitOfWork scopes a set of repository calls to one transaction carried
// in the context.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// WithUnitOfWork runs fn in a transaction, committing on success and
// rolling back when fn fails. fn's error wins over a rollback error.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn func(ctx context.Context) error) error {
	_, err := Transact(ctx, uow, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Transact is WithUnitOfWork for functions that produce a value.
func Transact[T any](ctx context.Context, uow UnitOfWork, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return zero, err
	}

	v, err := fn(txCtx)
	if err != nil {
		_ = uow.Rollback(txCtx)
		return zero, err
	}
	if err := uow.Commit(txCtx); err != nil {
		return zero, err
	}
	return v, nil
}
