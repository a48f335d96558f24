package stats

import "rentabilidad/internal/core"

// ExpenseBreakdown sums expense amounts per category within p, in the order
// categories are first seen. Categories are not checked against the known set.
func ExpenseBreakdown(expenses []core.Expense, p Period) []core.CategoryAmount {
	out := []core.CategoryAmount{}
	pos := make(map[string]int)
	for _, e := range expenses {
		if !p.Contains(e.Date) {
			continue
		}
		i, ok := pos[e.Category]
		if !ok {
			i = len(out)
			pos[e.Category] = i
			out = append(out, core.CategoryAmount{Name: e.Category})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}
