// Package database wraps pgxpool with the connection, transaction, and health
// plumbing the relational repositories need. Repositories depend on the
// Querier interface so they run identically against the pool, an open
// transaction, or a mock in tests.
//
// Example usage:
//
//	pool, err := database.NewPool(ctx, cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	err = pool.WithTransaction(ctx, func(tx database.Transaction) error {
//	    _, err := tx.Exec(ctx, "DELETE FROM comments WHERE post_id = $1", id)
//	    return err
//	})
package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the query surface shared by Pool and Transaction.
// Repository code written against Querier works inside and outside a
// transaction without change.
type Querier interface {
	// Query executes a query that returns rows, typically a SELECT.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)

	// QueryRow executes a query expected to return at most one row.
	// Errors are deferred until Scan; no rows yields pgx.ErrNoRows.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row

	// Exec executes a statement that returns no rows.
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Transaction extends Querier with commit and rollback control.
type Transaction interface {
	Querier

	// Commit commits the transaction.
	Commit(ctx context.Context) error

	// Rollback aborts the transaction.
	Rollback(ctx context.Context) error
}

// TransactionFunc performs work inside a transaction. Returning an error
// rolls the transaction back; returning nil commits it.
type TransactionFunc func(tx Transaction) error
