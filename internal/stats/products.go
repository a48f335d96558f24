package stats

import (
	"sort"

	"rentabilidad/internal/core"
)

// Products reports every product over p, including products without sales,
// ordered by revenue descending. Equal revenues keep catalogue order.
// Sales of deleted products are ignored.
func Products(products []core.Product, sales []core.Sale, p Period) []core.ProductStats {
	index := make(map[string]int, len(products))
	out := make([]core.ProductStats, len(products))
	for i, prod := range products {
		index[prod.ID] = i
		out[i] = core.ProductStats{ProductID: prod.ID, Name: prod.Name}
	}

	for _, s := range sales {
		if !p.Contains(s.Date) {
			continue
		}
		i, ok := index[s.ProductID]
		if !ok {
			continue
		}
		out[i].TotalSold += s.Quantity
		out[i].TotalRevenue = out[i].TotalRevenue.Add(s.TotalPrice)
	}

	for i := range out {
		st := &out[i]
		st.TotalCost = products[i].PurchasePrice.Times(st.TotalSold)
		st.Profit = st.TotalRevenue.Sub(st.TotalCost)
		st.ProfitMargin = SafePercent(st.Profit, st.TotalRevenue)
		if p.Days > 0 {
			st.AverageDailySales = float64(st.TotalSold) / float64(p.Days)
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].TotalRevenue.Cents > out[b].TotalRevenue.Cents
	})
	return out
}
