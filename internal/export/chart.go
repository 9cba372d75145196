package export

import (
	"github.com/go-analyze/charts"
	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

// GenerateCategoryChart creates a pie chart of spend per category from
// the given expenses. Returns PNG image bytes.
func GenerateCategoryChart(expenses []models.Expense) ([]byte, error) {
	if len(expenses) == 0 {
		return nil, models.Validationf("no expenses to chart")
	}

	totals := make(map[string]decimal.Decimal)
	display := make(map[string]string)
	for i := range expenses {
		key := expenses[i].CategoryKey
		if key == "" {
			key = models.NormalizeCategory(expenses[i].Category)
		}
		totals[key] = totals[key].Add(expenses[i].Amount)
		if _, ok := display[key]; !ok {
			display[key] = expenses[i].Category
		}
	}

	var values []float64
	var names []string
	for key, total := range totals {
		names = append(names, display[key])
		values = append(values, total.InexactFloat64())
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: "Spend by Category",
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, models.Storagef(err, "failed to create chart")
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, models.Storagef(err, "failed to render chart")
	}

	return buf, nil
}
