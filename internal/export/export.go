// Package export renders slices of the ledger into portable formats.
package export

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

// Supported export formats.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatChart = "chart"
)

// Lister is the slice of the ledger store the formatter needs.
type Lister interface {
	List(ctx context.Context, filter models.Filter) ([]models.Expense, error)
}

// Result is a rendered export. Data crosses the tool boundary base64
// encoded, which keeps binary formats like the chart PNG structured.
type Result struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
}

// Formatter renders filtered ledger slices. It never mutates state; all
// reads go through the ledger store's List.
type Formatter struct {
	lister Lister
}

// NewFormatter creates a new Formatter backed by the given lister.
func NewFormatter(lister Lister) *Formatter {
	return &Formatter{lister: lister}
}

// Export pulls the filtered record set and renders it in the requested
// format. An unsupported format is a ValidationError; store failures
// propagate as StorageError.
func (f *Formatter) Export(ctx context.Context, filter models.Filter, format string) (*Result, error) {
	switch format {
	case FormatCSV, FormatJSON, FormatChart:
	default:
		return nil, models.Validationf("unsupported export format %q (want csv, json, or chart)", format)
	}

	expenses, err := f.lister.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		data, err := GenerateExpensesCSV(expenses)
		if err != nil {
			return nil, err
		}
		return &Result{Data: data, ContentType: "text/csv", Filename: exportFilename("csv")}, nil
	case FormatJSON:
		data, err := generateExpensesJSON(expenses)
		if err != nil {
			return nil, err
		}
		return &Result{Data: data, ContentType: "application/json", Filename: exportFilename("json")}, nil
	default:
		data, err := GenerateCategoryChart(expenses)
		if err != nil {
			return nil, err
		}
		return &Result{Data: data, ContentType: "image/png", Filename: exportFilename("png")}, nil
	}
}

// exportFilename creates a dated filename like "expenses_2026-08-28.csv".
func exportFilename(ext string) string {
	return fmt.Sprintf("expenses_%s.%s", time.Now().Format(models.DateFormat), ext)
}
