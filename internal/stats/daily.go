package stats

import "rentabilidad/internal/core"

// Daily returns one entry per day of p, oldest first.
func Daily(sales []core.Sale, expenses []core.Expense, p Period) []core.DailyStats {
	salesByDay := make(map[string][]core.Sale)
	for _, s := range sales {
		if p.Contains(s.Date) {
			k := s.Date.String()
			salesByDay[k] = append(salesByDay[k], s)
		}
	}
	expensesByDay := make(map[string]core.Money)
	for _, e := range expenses {
		if p.Contains(e.Date) {
			k := e.Date.String()
			expensesByDay[k] = expensesByDay[k].Add(e.Amount)
		}
	}

	dates := p.Dates()
	out := make([]core.DailyStats, 0, len(dates))
	for _, d := range dates {
		k := d.String()
		day := core.DailyStats{Date: d, TotalExpenses: expensesByDay[k]}
		var top *core.Sale
		for i, s := range salesByDay[k] {
			day.TotalSales = day.TotalSales.Add(s.TotalPrice)
			day.ProductsSold += s.Quantity
			// strict comparison keeps the first maximum
			if top == nil || s.TotalPrice.Cents > top.TotalPrice.Cents {
				top = &salesByDay[k][i]
			}
		}
		day.Profit = day.TotalSales.Sub(day.TotalExpenses)
		day.ProfitMargin = SafePercent(day.Profit, day.TotalSales)
		if top != nil {
			day.TopProduct = &core.TopProduct{
				ProductID:  top.ProductID,
				Name:       top.ProductName,
				Quantity:   top.Quantity,
				TotalPrice: top.TotalPrice,
			}
		}
		out = append(out, day)
	}
	return out
}

// Summarize totals a daily series into one period figure.
func Summarize(daily []core.DailyStats, p Period) core.PeriodSummary {
	sum := core.PeriodSummary{Start: p.Start(), End: p.End, Days: p.Days}
	for _, d := range daily {
		sum.TotalSales = sum.TotalSales.Add(d.TotalSales)
		sum.TotalExpenses = sum.TotalExpenses.Add(d.TotalExpenses)
		sum.ProductsSold += d.ProductsSold
	}
	sum.Profit = sum.TotalSales.Sub(sum.TotalExpenses)
	sum.ProfitMargin = SafePercent(sum.Profit, sum.TotalSales)
	return sum
}
