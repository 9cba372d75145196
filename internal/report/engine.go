// Package report computes summaries, rankings, and monthly reports from
// the expense ledger.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

// Options tune the aggregation engine.
type Options struct {
	// QueryTimeout bounds every aggregation query.
	QueryTimeout time.Duration
}

// Engine runs read-only aggregation queries against the ledger. It holds
// no state of its own; consistency comes entirely from the store's
// transaction isolation, so a concurrent mutation is either fully visible
// or not at all.
type Engine struct {
	db   database.DB
	opts Options
}

// NewEngine creates a new aggregation Engine.
func NewEngine(db database.DB, opts Options) *Engine {
	return &Engine{db: db, opts: opts}
}

func (e *Engine) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.opts.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.opts.QueryTimeout)
}

// Summarize returns total spend, record count, and mean amount over an
// inclusive date range. An empty range yields count 0 and a nil mean,
// never a numeric zero, so "no data" stays distinguishable from "zero
// spend".
func (e *Engine) Summarize(ctx context.Context, period models.Period) (*models.Summary, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := e.opContext(ctx)
	defer cancel()

	var summary models.Summary
	var mean decimal.NullDecimal
	err := e.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*), AVG(amount)
		FROM expenses
		WHERE expense_date BETWEEN $1 AND $2
	`, period.Start, period.End).Scan(&summary.Total, &summary.Count, &mean)
	if err != nil {
		return nil, models.WrapStorage(err, "failed to summarize period")
	}

	if mean.Valid {
		m := mean.Decimal
		summary.Mean = &m
	}
	return &summary, nil
}

// TopCategories ranks categories by summed amount over a period,
// descending, with ties broken by category name ascending. Categories
// with zero net spend are excluded. A limit below 1 is rejected; a limit
// beyond the number of distinct categories returns all of them.
func (e *Engine) TopCategories(ctx context.Context, period models.Period, limit int) ([]models.CategoryTotal, error) {
	if limit < 1 {
		return nil, models.Validationf("limit must be at least 1, got %d", limit)
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := e.opContext(ctx)
	defer cancel()

	return e.topCategories(ctx, period, limit)
}

// topCategories runs the ranking query. A limit of 0 means no truncation.
func (e *Engine) topCategories(ctx context.Context, period models.Period, limit int) ([]models.CategoryTotal, error) {
	// COLLATE "C" pins both the display-name choice and the tie-break
	// to byte order, independent of the database's default collation.
	query := `
		SELECT MIN(category COLLATE "C"), SUM(amount) AS total
		FROM expenses
		WHERE expense_date BETWEEN $1 AND $2
		GROUP BY category_key
		HAVING SUM(amount) <> 0
		ORDER BY total DESC, category_key COLLATE "C" ASC
	`
	args := []any{period.Start, period.End}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := e.db.Query(ctx, query, args...)
	if err != nil {
		return nil, models.WrapStorage(err, "failed to rank categories")
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, models.WrapStorage(err, "failed to scan category total")
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, models.WrapStorage(err, "error iterating category totals")
	}
	return totals, nil
}

// MonthlyReport summarizes one calendar month and embeds the full
// category breakdown. Dates are compared as calendar dates; there is no
// timezone conversion anywhere in the pipeline.
func (e *Engine) MonthlyReport(ctx context.Context, year, month int) (*models.MonthlyReport, error) {
	period, err := models.MonthPeriod(year, month)
	if err != nil {
		return nil, err
	}

	summary, err := e.Summarize(ctx, period)
	if err != nil {
		return nil, err
	}

	ctx, cancel := e.opContext(ctx)
	defer cancel()

	categories, err := e.topCategories(ctx, period, 0)
	if err != nil {
		return nil, err
	}

	return &models.MonthlyReport{
		Year:       year,
		Month:      month,
		Summary:    *summary,
		Categories: categories,
	}, nil
}

// DailyAverage returns the mean of per-day spend totals over a period,
// rounded to two places, or nil when the period holds no records.
func (e *Engine) DailyAverage(ctx context.Context, period models.Period) (*decimal.Decimal, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := e.opContext(ctx)
	defer cancel()

	var avg decimal.NullDecimal
	err := e.db.QueryRow(ctx, `
		SELECT AVG(day_total) FROM (
			SELECT SUM(amount) AS day_total
			FROM expenses
			WHERE expense_date BETWEEN $1 AND $2
			GROUP BY expense_date
		) AS daily
	`, period.Start, period.End).Scan(&avg)
	if err != nil {
		return nil, models.WrapStorage(err, "failed to compute daily average")
	}

	if !avg.Valid {
		return nil, nil
	}
	rounded := avg.Decimal.Round(2)
	return &rounded, nil
}

// BudgetAlert compares total spend in a period against a budget limit.
func (e *Engine) BudgetAlert(ctx context.Context, period models.Period, limit decimal.Decimal) (*models.BudgetAlert, error) {
	if !limit.IsPositive() {
		return nil, models.Validationf("budget limit must be positive, got %s", limit)
	}

	summary, err := e.Summarize(ctx, period)
	if err != nil {
		return nil, err
	}

	alert := &models.BudgetAlert{
		TotalSpent:  summary.Total,
		BudgetLimit: limit,
		Status:      models.BudgetStatusSafe,
	}
	if summary.Total.GreaterThan(limit) {
		alert.Status = models.BudgetStatusAlert
	}
	return alert, nil
}

// Categories lists the distinct category labels currently in use, one
// display name per normalized key, sorted by key.
func (e *Engine) Categories(ctx context.Context) ([]string, error) {
	ctx, cancel := e.opContext(ctx)
	defer cancel()

	rows, err := e.db.Query(ctx, `
		SELECT MIN(category COLLATE "C")
		FROM expenses
		GROUP BY category_key
		ORDER BY category_key COLLATE "C"
	`)
	if err != nil {
		return nil, models.WrapStorage(err, "failed to list categories")
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, models.WrapStorage(err, "failed to scan category")
		}
		categories = append(categories, name)
	}
	if err := rows.Err(); err != nil {
		return nil, models.WrapStorage(err, "error iterating categories")
	}
	return categories, nil
}
