package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"

	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

// csvHeader is the fixed column order for CSV exports. Date, Amount,
// Category, and Description carry everything needed to re-import a row
// through add; ID and the timestamps are store-assigned and informational.
var csvHeader = []string{"ID", "Date", "Amount", "Category", "Description", "CreatedAt", "UpdatedAt"}

// GenerateExpensesCSV renders expenses as a delimited-row table.
func GenerateExpensesCSV(expenses []models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, models.Storagef(err, "failed to write CSV header")
	}

	for i := range expenses {
		row := []string{
			strconv.FormatInt(expenses[i].ID, 10),
			expenses[i].Date.Format(models.DateFormat),
			expenses[i].Amount.StringFixed(2),
			expenses[i].Category,
			expenses[i].Description,
			expenses[i].CreatedAt.Format("2006-01-02 15:04:05"),
			expenses[i].UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			return nil, models.Storagef(err, "failed to write CSV row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, models.Storagef(err, "CSV writer error")
	}

	return buf.Bytes(), nil
}

// exportRecord is the JSON shape of one exported expense. Dates render
// as plain calendar dates, matching the ledger's date semantics.
type exportRecord struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// generateExpensesJSON renders expenses as a structured record list.
func generateExpensesJSON(expenses []models.Expense) ([]byte, error) {
	records := make([]exportRecord, 0, len(expenses))
	for i := range expenses {
		records = append(records, exportRecord{
			ID:          expenses[i].ID,
			Date:        expenses[i].Date.Format(models.DateFormat),
			Amount:      expenses[i].Amount.StringFixed(2),
			Category:    expenses[i].Category,
			Description: expenses[i].Description,
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, models.Storagef(err, "failed to marshal expenses")
	}
	return data, nil
}
