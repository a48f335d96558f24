package google

import (
	"math"
	"strings"

	"rentabilidad/internal/core"
)

const maxTitleLen = 90

// sheetTitle derives a stable sheet name. The id suffix keeps two businesses
// with the same name apart.
func sheetTitle(b core.Business) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '*', '?', '/', '\\', ':', '\'':
			return ' '
		}
		return r
	}, strings.TrimSpace(b.Name))
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		name = "Negocio"
	}
	if len([]rune(name)) > maxTitleLen {
		name = string([]rune(name)[:maxTitleLen])
	}
	suffix := b.ID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	if suffix == "" {
		return name
	}
	return name + " - " + suffix
}

// textCell keeps user text from being parsed as a formula under USER_ENTERED.
// The leading apostrophe marks the cell as text and is not displayed.
func textCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func pct(v float64) float64 {
	return math.Round(v*100) / 100
}

// reportRows lays a report out as sheet rows: header, summary, daily table,
// product table and expense breakdown, separated by blank rows.
func reportRows(r core.Report) [][]any {
	s := r.Summary
	rows := [][]any{
		{"Informe", textCell(r.BusinessName), "Desde", s.Start.String(), "Hasta", s.End.String()},
		{},
		{"Ventas", "Gastos", "Beneficio", "Margen %", "Unidades"},
		{s.TotalSales.Euros(), s.TotalExpenses.Euros(), s.Profit.Euros(), pct(s.ProfitMargin), s.ProductsSold},
		{},
		{"Fecha", "Ventas", "Gastos", "Beneficio", "Margen %", "Unidades", "Producto top"},
	}
	for _, d := range r.Daily {
		top := ""
		if d.TopProduct != nil {
			top = textCell(d.TopProduct.Name)
		}
		rows = append(rows, []any{
			d.Date.String(), d.TotalSales.Euros(), d.TotalExpenses.Euros(), d.Profit.Euros(),
			pct(d.ProfitMargin), d.ProductsSold, top,
		})
	}

	rows = append(rows, []any{}, []any{"Producto", "Vendidos", "Ingresos", "Coste", "Beneficio", "Margen %", "Media diaria"})
	for _, p := range r.Products {
		rows = append(rows, []any{
			textCell(p.Name), p.TotalSold, p.TotalRevenue.Euros(), p.TotalCost.Euros(), p.Profit.Euros(),
			pct(p.ProfitMargin), pct(p.AverageDailySales),
		})
	}

	rows = append(rows, []any{}, []any{"Categoría", "Importe"})
	for _, c := range r.Expenses {
		rows = append(rows, []any{textCell(c.Name), c.Amount.Euros()})
	}
	return rows
}

// lastColumn returns the letter of the widest row, at most Z.
func lastColumn(rows [][]any) string {
	w := 1
	for _, r := range rows {
		if len(r) > w {
			w = len(r)
		}
	}
	if w > 26 {
		w = 26
	}
	return string(rune('A' + w - 1))
}
