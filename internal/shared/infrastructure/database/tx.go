package database

import (
	"context"
	"errors"
)

// ErrNoTransaction is returned when Commit or Rollback finds no transaction.
var ErrNoTransaction = errors.New("no transaction in context")

type txKey struct{}

type txInfo struct {
	tx    Transaction
	owned bool
}

func withTx(ctx context.Context, tx Transaction, owned bool) context.Context {
	return context.WithValue(ctx, txKey{}, txInfo{tx: tx, owned: owned})
}

func txFromContext(ctx context.Context) (txInfo, bool) {
	info, ok := ctx.Value(txKey{}).(txInfo)
	return info, ok && info.tx != nil
}

// ExecutorFromContext returns the transaction carried by ctx, or conn when
// there is none, so repositories join a surrounding unit of work.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if info, ok := txFromContext(ctx); ok {
		return info.tx
	}
	return conn
}

// UnitOfWork runs application commands inside a single transaction.
// Nested Begin calls share the outer transaction and only the outermost
// unit commits or rolls back.
type UnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a unit of work on conn.
func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if info, ok := txFromContext(ctx); ok {
		return withTx(ctx, info.tx, false), nil
	}
	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return withTx(ctx, tx, true), nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	info, ok := txFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !info.owned {
		return nil
	}
	return info.tx.Commit(ctx)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	info, ok := txFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !info.owned {
		return nil
	}
	return info.tx.Rollback(ctx)
}
