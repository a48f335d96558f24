package stats

import "rentabilidad/internal/core"

// Build computes the full report of b over p.
func Build(b core.Business, p Period) core.Report {
	daily := Daily(b.Sales, b.Expenses, p)
	return core.Report{
		BusinessID:   b.ID,
		BusinessName: b.Name,
		Summary:      Summarize(daily, p),
		Daily:        daily,
		Products:     Products(b.Products, b.Sales, p),
		Expenses:     ExpenseBreakdown(b.Expenses, p),
	}
}
