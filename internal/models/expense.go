// Package models defines the domain entities for the expense ledger.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar date layout used across the ledger.
// Dates are compared as calendar dates, never as instants.
const DateFormat = "2006-01-02"

// Expense represents a single ledger entry. Amounts are spend-positive:
// a positive amount is money spent, a negative amount is a refund.
type Expense struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	CategoryKey string          `json:"-"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NormalizeCategory returns the case-folded grouping key for a category
// label. Display text keeps its original casing; grouping always goes
// through this key so "Food" and "food" land in the same bucket.
func NormalizeCategory(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

// Validate checks the ledger invariants on an expense. The zero date is
// treated as missing; future dates are rejected only when the caller asks.
func (e *Expense) Validate(disallowFutureDates bool) error {
	if e.Amount.IsZero() {
		return Validationf("amount must be non-zero")
	}
	if strings.TrimSpace(e.Category) == "" {
		return Validationf("category must not be empty")
	}
	if e.Date.IsZero() {
		return Validationf("date is required")
	}
	if disallowFutureDates {
		today := time.Now().Truncate(24 * time.Hour)
		if e.Date.After(today) {
			return Validationf("future dates are not permitted: %s", e.Date.Format(DateFormat))
		}
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, Validationf("date must be in YYYY-MM-DD format, got %q", s)
	}
	return d, nil
}

// UpdateParams carries a partial update for Edit. Nil fields are left
// untouched; supplied fields replace the stored value.
type UpdateParams struct {
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	Date        *time.Time
}

// IsEmpty reports whether no field is supplied.
func (p UpdateParams) IsEmpty() bool {
	return p.Amount == nil && p.Category == nil && p.Description == nil && p.Date == nil
}

// Filter narrows a List or Export call. All fields are optional; zero
// values mean "no constraint". Category matches on the normalized key.
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// Period is an inclusive calendar date range used to scope aggregation.
type Period struct {
	Start time.Time
	End   time.Time
}

// Validate rejects inverted ranges.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return Validationf("period requires both start and end dates")
	}
	if p.End.Before(p.Start) {
		return Validationf("period end %s is before start %s",
			p.End.Format(DateFormat), p.Start.Format(DateFormat))
	}
	return nil
}

// MonthPeriod returns the inclusive period covering one calendar month.
func MonthPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, Validationf("month must be between 1 and 12, got %d", month)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return Period{Start: start, End: end}, nil
}

// Summary is the aggregate over a period. Mean is nil when the period
// holds no records, distinguishing "no data" from "zero spend".
type Summary struct {
	Total decimal.Decimal  `json:"total"`
	Count int64            `json:"count"`
	Mean  *decimal.Decimal `json:"mean,omitempty"`
}

// CategoryTotal is one row of a top-categories ranking.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// MonthlyReport combines the month's summary with its category breakdown.
type MonthlyReport struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Summary    Summary         `json:"summary"`
	Categories []CategoryTotal `json:"categories"`
}

// BudgetStatus values for BudgetAlert.
const (
	BudgetStatusSafe  = "SAFE"
	BudgetStatusAlert = "ALERT"
)

// BudgetAlert reports spending against a budget limit for a period.
type BudgetAlert struct {
	TotalSpent  decimal.Decimal `json:"total_spent"`
	BudgetLimit decimal.Decimal `json:"budget_limit"`
	Status      string          `json:"status"`
}
