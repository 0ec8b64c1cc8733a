package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines the unit-of-work boundary. Every mutating core
// operation runs between Begin and Commit; on any failure the whole unit rolls
// back so partial application is impossible.
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error
}
