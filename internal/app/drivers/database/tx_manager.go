package database

import (
	"context"
	"database/sql"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/pkg/exceptions"
)

type txContextKey struct{}

// Querier is the query surface shared by *sql.DB and *sql.Tx so repositories
// run unchanged inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// QuerierFrom resolves the active transaction carried in ctx, falling back
// to the plain connection pool.
func QuerierFrom(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

type transactionManager struct {
	db *sql.DB
}

func NewTransactionManager(db *sql.DB) contracts.TransactionManager {
	return &transactionManager{db: db}
}

// WithinTransaction opens a transaction and stores it in the context handed
// to fn. A nested call finds the stored transaction and joins it, so the
// outermost caller owns commit and rollback.
func (m *transactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return exceptions.ErrPostgresDBBeginTx(err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txContextKey{}, tx)); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return exceptions.ErrPostgresDBCommitTx(err)
	}

	return nil
}
