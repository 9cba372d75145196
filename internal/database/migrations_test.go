package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	pool := TestPool(t)
	ctx := context.Background()

	t.Run("is idempotent", func(t *testing.T) {
		// TestPool already ran migrations once; running them again must
		// succeed and leave existing data alone.
		require.NoError(t, RunMigrations(ctx, pool))
		require.NoError(t, RunMigrations(ctx, pool))
	})

	t.Run("creates the expenses table", func(t *testing.T) {
		var count int
		err := pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM information_schema.tables
			WHERE table_name = 'expenses'
		`).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("creates the supporting indexes", func(t *testing.T) {
		rows, err := pool.Query(ctx, `
			SELECT indexname FROM pg_indexes WHERE tablename = 'expenses'
		`)
		require.NoError(t, err)
		defer rows.Close()

		var names []string
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			names = append(names, name)
		}
		require.NoError(t, rows.Err())
		require.Contains(t, names, "idx_expenses_expense_date")
		require.Contains(t, names, "idx_expenses_category_key")
	})

	t.Run("rejects zero amounts at the schema level", func(t *testing.T) {
		tx := TestTx(t)
		_, err := tx.Exec(ctx, `
			INSERT INTO expenses (amount, category, category_key, expense_date)
			VALUES (0, 'Food', 'food', '2024-01-05')
		`)
		require.Error(t, err)
	})
}
