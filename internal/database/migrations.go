package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema. Every statement is
// idempotent, so this runs on every boot and never destroys data.
// id values come from a sequence and are never reused after deletion.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS expenses (
			id BIGSERIAL PRIMARY KEY,
			amount DECIMAL(12, 2) NOT NULL CHECK (amount <> 0),
			category TEXT NOT NULL,
			category_key TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			expense_date DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_expenses_expense_date ON expenses(expense_date)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_category_key ON expenses(category_key)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
