// Package repository provides database access for the expense ledger.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

const expenseColumns = "id, amount, category, category_key, description, expense_date, created_at, updated_at"

// Options tune the ledger store. Zero values disable the behavior.
type Options struct {
	// QueryTimeout bounds every store call; on expiry the call fails
	// with a StorageError instead of hanging.
	QueryTimeout time.Duration
	// DisallowFutureDates rejects expenses dated after today.
	DisallowFutureDates bool
}

// LedgerRepository owns create, edit, delete and list operations on
// expense records. Every mutation runs in its own transaction with
// commit-on-success, rollback-on-any-error; partial writes are never
// observable.
type LedgerRepository struct {
	db   database.DB
	opts Options
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db database.DB, opts Options) *LedgerRepository {
	return &LedgerRepository{db: db, opts: opts}
}

// DB returns the underlying database handle. Used by the report engine
// and tests.
func (r *LedgerRepository) DB() database.DB {
	return r.db
}

func (r *LedgerRepository) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opts.QueryTimeout)
}

// Add validates and inserts one expense, returning it with the assigned
// id and timestamps. Ids come from a sequence and are never reused.
func (r *LedgerRepository) Add(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	expense.Category = strings.TrimSpace(expense.Category)
	expense.CategoryKey = models.NormalizeCategory(expense.Category)
	if err := expense.Validate(r.opts.DisallowFutureDates); err != nil {
		return nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, models.WrapStorage(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO expenses (amount, category, category_key, description, expense_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, expense.Amount, expense.Category, expense.CategoryKey, expense.Description, expense.Date,
	).Scan(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return nil, models.WrapStorage(err, "failed to insert expense")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, models.WrapStorage(err, "failed to commit expense insert")
	}
	return expense, nil
}

// GetByID retrieves an expense by id.
func (r *LedgerRepository) GetByID(ctx context.Context, id int64) (*models.Expense, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var exp models.Expense
	err := r.db.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id,
	).Scan(&exp.ID, &exp.Amount, &exp.Category, &exp.CategoryKey,
		&exp.Description, &exp.Date, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFoundf("expense %d not found", id)
		}
		return nil, models.WrapStorage(err, "failed to get expense %d", id)
	}
	return &exp, nil
}

// Edit applies a partial update to an expense. The record is loaded and
// locked, supplied fields replace stored values, the combined result is
// re-validated, and the row is written back with a fresh updated_at, all
// inside one transaction.
func (r *LedgerRepository) Edit(ctx context.Context, id int64, params models.UpdateParams) (*models.Expense, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	if params.IsEmpty() {
		return nil, models.Validationf("no fields to update")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, models.WrapStorage(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exp models.Expense
	err = tx.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1 FOR UPDATE`, id,
	).Scan(&exp.ID, &exp.Amount, &exp.Category, &exp.CategoryKey,
		&exp.Description, &exp.Date, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFoundf("expense %d not found", id)
		}
		return nil, models.WrapStorage(err, "failed to load expense %d", id)
	}

	if params.Amount != nil {
		exp.Amount = *params.Amount
	}
	if params.Category != nil {
		exp.Category = strings.TrimSpace(*params.Category)
		exp.CategoryKey = models.NormalizeCategory(exp.Category)
	}
	if params.Description != nil {
		exp.Description = *params.Description
	}
	if params.Date != nil {
		exp.Date = *params.Date
	}

	if err := exp.Validate(r.opts.DisallowFutureDates); err != nil {
		return nil, err
	}

	// clock_timestamp() rather than NOW() so updated_at strictly
	// increases even within a single transaction.
	err = tx.QueryRow(ctx, `
		UPDATE expenses SET
			amount = $2,
			category = $3,
			category_key = $4,
			description = $5,
			expense_date = $6,
			updated_at = clock_timestamp()
		WHERE id = $1
		RETURNING updated_at
	`, exp.ID, exp.Amount, exp.Category, exp.CategoryKey, exp.Description, exp.Date,
	).Scan(&exp.UpdatedAt)
	if err != nil {
		return nil, models.WrapStorage(err, "failed to update expense %d", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, models.WrapStorage(err, "failed to commit expense update")
	}
	return &exp, nil
}

// Delete removes an expense by id. Deletion is terminal: the id is never
// reassigned and there is no tombstone.
func (r *LedgerRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.WrapStorage(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return models.WrapStorage(err, "failed to delete expense %d", id)
	}
	if tag.RowsAffected() == 0 {
		return models.NotFoundf("expense %d not found", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.WrapStorage(err, "failed to commit expense delete")
	}
	return nil
}

// List retrieves expenses matching the filter, newest first. Ordering is
// expense_date descending then id descending for stable pagination.
func (r *LedgerRepository) List(ctx context.Context, filter models.Filter) ([]models.Expense, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	var conds []string
	var args []any

	addCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.StartDate != nil {
		addCond("expense_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addCond("expense_date <= $%d", *filter.EndDate)
	}
	if filter.Category != "" {
		addCond("category_key = $%d", models.NormalizeCategory(filter.Category))
	}
	if filter.MinAmount != nil {
		addCond("amount >= $%d", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		addCond("amount <= $%d", *filter.MaxAmount)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY expense_date DESC, id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, models.WrapStorage(err, "failed to query expenses")
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// scanExpenses is a helper to scan expense rows.
func scanExpenses(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
},
) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		var exp models.Expense
		if err := rows.Scan(
			&exp.ID, &exp.Amount, &exp.Category, &exp.CategoryKey,
			&exp.Description, &exp.Date, &exp.CreatedAt, &exp.UpdatedAt,
		); err != nil {
			return nil, models.WrapStorage(err, "failed to scan expense")
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, models.WrapStorage(err, "error iterating expenses")
	}
	return expenses, nil
}
