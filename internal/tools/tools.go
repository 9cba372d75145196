// Package tools exposes the ledger, report, and export operations as
// named tools with fixed argument and result schemas. The transport that
// carries tool calls is deliberately thin; everything interesting lives
// behind this registry.
package tools

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/export"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
	"gitlab.com/yelinaung/expense-ledger/internal/report"
	"gitlab.com/yelinaung/expense-ledger/internal/repository"
)

// Handler executes one tool call with decoded-on-demand JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Registry maps tool names to handlers. Each tool call is an independent
// request-response unit; the registry holds no per-call state.
type Registry struct {
	ledger    *repository.LedgerRepository
	engine    *report.Engine
	formatter *export.Formatter
	db        database.DB

	defaultTopLimit int

	handlers map[string]Handler
}

// NewRegistry wires the tool set over the given components.
func NewRegistry(
	ledger *repository.LedgerRepository,
	engine *report.Engine,
	formatter *export.Formatter,
	db database.DB,
	defaultTopLimit int,
) *Registry {
	r := &Registry{
		ledger:          ledger,
		engine:          engine,
		formatter:       formatter,
		db:              db,
		defaultTopLimit: defaultTopLimit,
	}
	r.handlers = map[string]Handler{
		"add_expense":     r.addExpense,
		"get_expense":     r.getExpense,
		"edit_expense":    r.editExpense,
		"delete_expense":  r.deleteExpense,
		"list_expenses":   r.listExpenses,
		"summarize":       r.summarize,
		"top_categories":  r.topCategories,
		"monthly_report":  r.monthlyReport,
		"daily_average":   r.dailyAverage,
		"budget_alert":    r.budgetAlert,
		"list_categories": r.listCategories,
		"export_expenses": r.exportExpenses,
		"health_check":    r.healthCheck,
	}
	return r
}

// Names returns the registered tool names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Call dispatches one tool invocation. Unknown tool names and malformed
// arguments are ValidationErrors; everything else carries the kind the
// underlying component assigned.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (any, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, models.Validationf("unknown tool %q", name)
	}
	return handler(ctx, args)
}

// decodeArgs unmarshals tool arguments strictly: unknown fields are
// rejected so argument schemas stay fixed.
func decodeArgs(name string, raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return models.Validationf("invalid arguments for %s: %v", name, err)
	}
	return nil
}

// expensePayload is the structured result shape of one expense.
type expensePayload struct {
	ID          int64           `json:"id"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

func toPayload(exp *models.Expense) expensePayload {
	return expensePayload{
		ID:          exp.ID,
		Date:        exp.Date.Format(models.DateFormat),
		Amount:      exp.Amount,
		Category:    exp.Category,
		Description: exp.Description,
		CreatedAt:   exp.CreatedAt.Format(timeFormat),
		UpdatedAt:   exp.UpdatedAt.Format(timeFormat),
	}
}

const timeFormat = "2006-01-02T15:04:05.000000Z07:00"

func toPayloads(expenses []models.Expense) []expensePayload {
	payloads := make([]expensePayload, 0, len(expenses))
	for i := range expenses {
		payloads = append(payloads, toPayload(&expenses[i]))
	}
	return payloads
}

func parsePeriod(start, end string) (models.Period, error) {
	startDate, err := models.ParseDate(start)
	if err != nil {
		return models.Period{}, err
	}
	endDate, err := models.ParseDate(end)
	if err != nil {
		return models.Period{}, err
	}
	return models.Period{Start: startDate, End: endDate}, nil
}
