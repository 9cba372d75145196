package tools

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

type addExpenseArgs struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
}

func (r *Registry) addExpense(ctx context.Context, raw json.RawMessage) (any, error) {
	var args addExpenseArgs
	if err := decodeArgs("add_expense", raw, &args); err != nil {
		return nil, err
	}

	date, err := models.ParseDate(args.Date)
	if err != nil {
		return nil, err
	}

	expense, err := r.ledger.Add(ctx, &models.Expense{
		Amount:      args.Amount,
		Category:    args.Category,
		Description: args.Description,
		Date:        date,
	})
	if err != nil {
		return nil, err
	}
	return toPayload(expense), nil
}

type idArgs struct {
	ID int64 `json:"id"`
}

func (r *Registry) getExpense(ctx context.Context, raw json.RawMessage) (any, error) {
	var args idArgs
	if err := decodeArgs("get_expense", raw, &args); err != nil {
		return nil, err
	}

	expense, err := r.ledger.GetByID(ctx, args.ID)
	if err != nil {
		return nil, err
	}
	return toPayload(expense), nil
}

type editExpenseArgs struct {
	ID          int64            `json:"id"`
	Date        *string          `json:"date,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
}

func (r *Registry) editExpense(ctx context.Context, raw json.RawMessage) (any, error) {
	var args editExpenseArgs
	if err := decodeArgs("edit_expense", raw, &args); err != nil {
		return nil, err
	}

	params := models.UpdateParams{
		Amount:      args.Amount,
		Category:    args.Category,
		Description: args.Description,
	}
	if args.Date != nil {
		date, err := models.ParseDate(*args.Date)
		if err != nil {
			return nil, err
		}
		params.Date = &date
	}

	expense, err := r.ledger.Edit(ctx, args.ID, params)
	if err != nil {
		return nil, err
	}
	return toPayload(expense), nil
}

func (r *Registry) deleteExpense(ctx context.Context, raw json.RawMessage) (any, error) {
	var args idArgs
	if err := decodeArgs("delete_expense", raw, &args); err != nil {
		return nil, err
	}

	if err := r.ledger.Delete(ctx, args.ID); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": args.ID}, nil
}

type filterArgs struct {
	StartDate *string          `json:"start_date,omitempty"`
	EndDate   *string          `json:"end_date,omitempty"`
	Category  string           `json:"category,omitempty"`
	MinAmount *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount *decimal.Decimal `json:"max_amount,omitempty"`
}

func (a filterArgs) toFilter() (models.Filter, error) {
	filter := models.Filter{
		Category:  a.Category,
		MinAmount: a.MinAmount,
		MaxAmount: a.MaxAmount,
	}
	if a.StartDate != nil {
		start, err := models.ParseDate(*a.StartDate)
		if err != nil {
			return models.Filter{}, err
		}
		filter.StartDate = &start
	}
	if a.EndDate != nil {
		end, err := models.ParseDate(*a.EndDate)
		if err != nil {
			return models.Filter{}, err
		}
		filter.EndDate = &end
	}
	return filter, nil
}

func (r *Registry) listExpenses(ctx context.Context, raw json.RawMessage) (any, error) {
	var args filterArgs
	if err := decodeArgs("list_expenses", raw, &args); err != nil {
		return nil, err
	}

	filter, err := args.toFilter()
	if err != nil {
		return nil, err
	}

	expenses, err := r.ledger.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return map[string]any{"expenses": toPayloads(expenses), "count": len(expenses)}, nil
}

type periodArgs struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *Registry) summarize(ctx context.Context, raw json.RawMessage) (any, error) {
	var args periodArgs
	if err := decodeArgs("summarize", raw, &args); err != nil {
		return nil, err
	}

	period, err := parsePeriod(args.StartDate, args.EndDate)
	if err != nil {
		return nil, err
	}
	return r.engine.Summarize(ctx, period)
}

type topCategoriesArgs struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Limit     *int   `json:"limit,omitempty"`
}

func (r *Registry) topCategories(ctx context.Context, raw json.RawMessage) (any, error) {
	var args topCategoriesArgs
	if err := decodeArgs("top_categories", raw, &args); err != nil {
		return nil, err
	}

	period, err := parsePeriod(args.StartDate, args.EndDate)
	if err != nil {
		return nil, err
	}

	limit := r.defaultTopLimit
	if args.Limit != nil {
		limit = *args.Limit
	}

	totals, err := r.engine.TopCategories(ctx, period, limit)
	if err != nil {
		return nil, err
	}
	return map[string]any{"categories": totals}, nil
}

type monthlyReportArgs struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (r *Registry) monthlyReport(ctx context.Context, raw json.RawMessage) (any, error) {
	var args monthlyReportArgs
	if err := decodeArgs("monthly_report", raw, &args); err != nil {
		return nil, err
	}
	return r.engine.MonthlyReport(ctx, args.Year, args.Month)
}

func (r *Registry) dailyAverage(ctx context.Context, raw json.RawMessage) (any, error) {
	var args periodArgs
	if err := decodeArgs("daily_average", raw, &args); err != nil {
		return nil, err
	}

	period, err := parsePeriod(args.StartDate, args.EndDate)
	if err != nil {
		return nil, err
	}

	avg, err := r.engine.DailyAverage(ctx, period)
	if err != nil {
		return nil, err
	}
	return map[string]any{"average_daily_spend": avg}, nil
}

type budgetAlertArgs struct {
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Limit     decimal.Decimal `json:"limit"`
}

func (r *Registry) budgetAlert(ctx context.Context, raw json.RawMessage) (any, error) {
	var args budgetAlertArgs
	if err := decodeArgs("budget_alert", raw, &args); err != nil {
		return nil, err
	}

	period, err := parsePeriod(args.StartDate, args.EndDate)
	if err != nil {
		return nil, err
	}
	return r.engine.BudgetAlert(ctx, period, args.Limit)
}

func (r *Registry) listCategories(ctx context.Context, raw json.RawMessage) (any, error) {
	if err := decodeArgs("list_categories", raw, &struct{}{}); err != nil {
		return nil, err
	}

	categories, err := r.engine.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"categories": categories}, nil
}

type exportArgs struct {
	filterArgs
	Format string `json:"format"`
}

func (r *Registry) exportExpenses(ctx context.Context, raw json.RawMessage) (any, error) {
	var args exportArgs
	if err := decodeArgs("export_expenses", raw, &args); err != nil {
		return nil, err
	}

	filter, err := args.toFilter()
	if err != nil {
		return nil, err
	}
	return r.formatter.Export(ctx, filter, args.Format)
}

func (r *Registry) healthCheck(ctx context.Context, _ json.RawMessage) (any, error) {
	if _, err := r.db.Exec(ctx, `SELECT 1`); err != nil {
		return nil, models.WrapStorage(err, "database unreachable")
	}
	return map[string]any{"status": "running"}, nil
}
