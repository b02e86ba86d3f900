package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// WithinTx runs fn inside one database transaction: commit on nil error,
// rollback otherwise. Every core mutating operation goes through this one
// unit-of-work boundary; nothing inside the core commits on its own.
func WithinTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
