package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
	"gitlab.com/yelinaung/expense-ledger/internal/repository"
)

func setupEngineTest(t *testing.T) (*Engine, *repository.LedgerRepository, context.Context) {
	t.Helper()
	tx := database.TestTx(t)
	return NewEngine(tx, Options{}),
		repository.NewLedgerRepository(tx, repository.Options{}),
		context.Background()
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func period(start, end time.Time) models.Period {
	return models.Period{Start: start, End: end}
}

func addExpense(t *testing.T, repo *repository.LedgerRepository, ctx context.Context, amount float64, category string, day time.Time) {
	t.Helper()
	_, err := repo.Add(ctx, &models.Expense{
		Amount:   decimal.NewFromFloat(amount),
		Category: category,
		Date:     day,
	})
	require.NoError(t, err)
}

func TestEngine_Summarize(t *testing.T) {
	engine, repo, ctx := setupEngineTest(t)

	addExpense(t, repo, ctx, 100, "Food", date(2024, 1, 5))
	addExpense(t, repo, ctx, 50, "Fuel", date(2024, 1, 10))
	addExpense(t, repo, ctx, 25, "Food", date(2024, 2, 1))

	t.Run("totals the period", func(t *testing.T) {
		summary, err := engine.Summarize(ctx, period(date(2024, 1, 1), date(2024, 1, 31)))
		require.NoError(t, err)
		require.True(t, decimal.NewFromInt(150).Equal(summary.Total))
		require.Equal(t, int64(2), summary.Count)
		require.NotNil(t, summary.Mean)
		require.True(t, decimal.NewFromInt(75).Equal(*summary.Mean))
	})

	t.Run("period endpoints are inclusive", func(t *testing.T) {
		summary, err := engine.Summarize(ctx, period(date(2024, 1, 5), date(2024, 1, 10)))
		require.NoError(t, err)
		require.Equal(t, int64(2), summary.Count)
	})

	t.Run("empty range reports absent mean, not zero", func(t *testing.T) {
		summary, err := engine.Summarize(ctx, period(date(2020, 1, 1), date(2020, 12, 31)))
		require.NoError(t, err)
		require.True(t, summary.Total.IsZero())
		require.Equal(t, int64(0), summary.Count)
		require.Nil(t, summary.Mean)
	})

	t.Run("rejects an inverted period", func(t *testing.T) {
		_, err := engine.Summarize(ctx, period(date(2024, 2, 1), date(2024, 1, 1)))
		require.Error(t, err)
		require.Equal(t, models.KindValidation, models.KindOf(err))
	})
}

func TestEngine_TopCategories(t *testing.T) {
	engine, repo, ctx := setupEngineTest(t)

	jan := period(date(2024, 1, 1), date(2024, 1, 31))

	addExpense(t, repo, ctx, 30, "Food", date(2024, 1, 5))
	addExpense(t, repo, ctx, 20, "food", date(2024, 1, 6))
	addExpense(t, repo, ctx, 50, "Fuel", date(2024, 1, 10))
	addExpense(t, repo, ctx, 10, "Books", date(2024, 1, 12))
	// Zero net spend: a purchase fully refunded within the period.
	addExpense(t, repo, ctx, 40, "Gadgets", date(2024, 1, 15))
	addExpense(t, repo, ctx, -40, "Gadgets", date(2024, 1, 20))

	t.Run("groups case-insensitively and ranks by sum", func(t *testing.T) {
		totals, err := engine.TopCategories(ctx, jan, 10)
		require.NoError(t, err)
		require.Len(t, totals, 3)

		// "Food"+"food" merge to 50, tying with Fuel; the tie breaks on
		// category name ascending, so Food comes first.
		require.Equal(t, "Food", totals[0].Category)
		require.True(t, decimal.NewFromInt(50).Equal(totals[0].Total))
		require.Equal(t, "Fuel", totals[1].Category)
		require.True(t, decimal.NewFromInt(50).Equal(totals[1].Total))
		require.Equal(t, "Books", totals[2].Category)
	})

	t.Run("excludes zero net spend categories", func(t *testing.T) {
		totals, err := engine.TopCategories(ctx, jan, 10)
		require.NoError(t, err)
		for _, ct := range totals {
			require.NotEqual(t, "Gadgets", ct.Category)
		}
	})

	t.Run("truncates to limit", func(t *testing.T) {
		totals, err := engine.TopCategories(ctx, jan, 1)
		require.NoError(t, err)
		require.Len(t, totals, 1)
		require.Equal(t, "Food", totals[0].Category)
	})

	t.Run("limit beyond distinct categories returns all", func(t *testing.T) {
		totals, err := engine.TopCategories(ctx, jan, 100)
		require.NoError(t, err)
		require.Len(t, totals, 3)
	})

	t.Run("rejects limit below one", func(t *testing.T) {
		for _, limit := range []int{0, -3} {
			_, err := engine.TopCategories(ctx, jan, limit)
			require.Error(t, err)
			require.Equal(t, models.KindValidation, models.KindOf(err))
		}
	})

	t.Run("empty period returns no rows", func(t *testing.T) {
		totals, err := engine.TopCategories(ctx, period(date(2020, 1, 1), date(2020, 1, 31)), 5)
		require.NoError(t, err)
		require.Empty(t, totals)
	})
}

func TestEngine_MonthlyReport(t *testing.T) {
	engine, repo, ctx := setupEngineTest(t)

	addExpense(t, repo, ctx, 100, "Food", date(2024, 1, 5))
	addExpense(t, repo, ctx, 50, "Fuel", date(2024, 1, 10))
	addExpense(t, repo, ctx, 25, "Food", date(2024, 2, 1))

	t.Run("scopes to the calendar month with full breakdown", func(t *testing.T) {
		rep, err := engine.MonthlyReport(ctx, 2024, 1)
		require.NoError(t, err)
		require.Equal(t, 2024, rep.Year)
		require.Equal(t, 1, rep.Month)
		require.True(t, decimal.NewFromInt(150).Equal(rep.Summary.Total))
		require.Equal(t, int64(2), rep.Summary.Count)

		require.Len(t, rep.Categories, 2)
		require.Equal(t, "Food", rep.Categories[0].Category)
		require.True(t, decimal.NewFromInt(100).Equal(rep.Categories[0].Total))
		require.Equal(t, "Fuel", rep.Categories[1].Category)
		require.True(t, decimal.NewFromInt(50).Equal(rep.Categories[1].Total))
	})

	t.Run("a month with no records reports absent mean", func(t *testing.T) {
		rep, err := engine.MonthlyReport(ctx, 2024, 6)
		require.NoError(t, err)
		require.Equal(t, int64(0), rep.Summary.Count)
		require.Nil(t, rep.Summary.Mean)
		require.Empty(t, rep.Categories)
	})

	t.Run("rejects an invalid month", func(t *testing.T) {
		_, err := engine.MonthlyReport(ctx, 2024, 13)
		require.Error(t, err)
		require.Equal(t, models.KindValidation, models.KindOf(err))
	})
}

func TestEngine_DailyAverage(t *testing.T) {
	engine, repo, ctx := setupEngineTest(t)

	addExpense(t, repo, ctx, 30, "Food", date(2024, 1, 5))
	addExpense(t, repo, ctx, 20, "Fuel", date(2024, 1, 5))
	addExpense(t, repo, ctx, 10, "Food", date(2024, 1, 6))

	t.Run("averages per-day totals", func(t *testing.T) {
		avg, err := engine.DailyAverage(ctx, period(date(2024, 1, 1), date(2024, 1, 31)))
		require.NoError(t, err)
		require.NotNil(t, avg)
		// Day totals are 50 and 10, so the average is 30.
		require.True(t, decimal.NewFromInt(30).Equal(*avg))
	})

	t.Run("a single day's average equals its total", func(t *testing.T) {
		avg, err := engine.DailyAverage(ctx, period(date(2024, 1, 5), date(2024, 1, 5)))
		require.NoError(t, err)
		require.NotNil(t, avg)
		require.True(t, decimal.NewFromInt(50).Equal(*avg))
	})

	t.Run("empty period yields nil", func(t *testing.T) {
		avg, err := engine.DailyAverage(ctx, period(date(2020, 1, 1), date(2020, 1, 31)))
		require.NoError(t, err)
		require.Nil(t, avg)
	})
}

func TestEngine_BudgetAlert(t *testing.T) {
	engine, repo, ctx := setupEngineTest(t)

	addExpense(t, repo, ctx, 100, "Food", date(2024, 1, 5))
	addExpense(t, repo, ctx, 50, "Fuel", date(2024, 1, 10))

	jan := period(date(2024, 1, 1), date(2024, 1, 31))

	t.Run("safe under the limit", func(t *testing.T) {
		alert, err := engine.BudgetAlert(ctx, jan, decimal.NewFromInt(200))
		require.NoError(t, err)
		require.Equal(t, models.BudgetStatusSafe, alert.Status)
		require.True(t, decimal.NewFromInt(150).Equal(alert.TotalSpent))
	})

	t.Run("safe exactly at the limit", func(t *testing.T) {
		alert, err := engine.BudgetAlert(ctx, jan, decimal.NewFromInt(150))
		require.NoError(t, err)
		require.Equal(t, models.BudgetStatusSafe, alert.Status)
	})

	t.Run("alerts above the limit", func(t *testing.T) {
		alert, err := engine.BudgetAlert(ctx, jan, decimal.NewFromFloat(149.99))
		require.NoError(t, err)
		require.Equal(t, models.BudgetStatusAlert, alert.Status)
	})

	t.Run("rejects a non-positive limit", func(t *testing.T) {
		_, err := engine.BudgetAlert(ctx, jan, decimal.Zero)
		require.Error(t, err)
		require.Equal(t, models.KindValidation, models.KindOf(err))
	})
}

func TestEngine_Categories(t *testing.T) {
	engine, repo, ctx := setupEngineTest(t)

	t.Run("empty ledger has no categories", func(t *testing.T) {
		categories, err := engine.Categories(ctx)
		require.NoError(t, err)
		require.Empty(t, categories)
	})

	t.Run("lists one label per normalized key", func(t *testing.T) {
		addExpense(t, repo, ctx, 10, "Food", date(2024, 1, 5))
		addExpense(t, repo, ctx, 10, "food", date(2024, 1, 6))
		addExpense(t, repo, ctx, 10, "Fuel", date(2024, 1, 7))

		categories, err := engine.Categories(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"Food", "Fuel"}, categories)
	})
}
