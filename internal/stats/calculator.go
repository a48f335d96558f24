package stats

import (
	"fmt"
	"strconv"
	"strings"

	"rentabilidad/internal/core"
)

// QuickInput holds the raw calculator fields as typed by the user.
type QuickInput struct {
	ProductName   string `json:"productName"`
	PurchasePrice string `json:"purchasePrice"`
	SellingPrice  string `json:"sellingPrice"`
	Quantity      string `json:"quantity"`
}

func (in QuickInput) complete() bool {
	for _, f := range []string{in.ProductName, in.PurchasePrice, in.SellingPrice, in.Quantity} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// QuickCalculate returns nil, nil while any field is blank. Malformed numbers
// are errors rather than NaN; zero revenue or zero cost yield a 0 percentage.
func QuickCalculate(in QuickInput) (*core.QuickResult, error) {
	if !in.complete() {
		return nil, nil
	}
	purchase, err := core.ParseNonNegativeCents(in.PurchasePrice)
	if err != nil {
		return nil, fmt.Errorf("purchase price %q: %w", in.PurchasePrice, err)
	}
	selling, err := core.ParseNonNegativeCents(in.SellingPrice)
	if err != nil {
		return nil, fmt.Errorf("selling price %q: %w", in.SellingPrice, err)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(in.Quantity))
	if err != nil || qty < 0 {
		return nil, fmt.Errorf("quantity %q: %w", in.Quantity, core.ErrInvalidQuantity)
	}

	revenue, err := core.Money{Cents: selling}.TimesChecked(qty)
	if err != nil {
		return nil, fmt.Errorf("revenue for %d units: %w", qty, err)
	}
	cost, err := core.Money{Cents: purchase}.TimesChecked(qty)
	if err != nil {
		return nil, fmt.Errorf("cost for %d units: %w", qty, err)
	}
	profit := revenue.Sub(cost)
	return &core.QuickResult{
		ProductName:  strings.TrimSpace(in.ProductName),
		Quantity:     qty,
		TotalRevenue: revenue,
		TotalCost:    cost,
		Profit:       profit,
		ProfitMargin: SafePercent(profit, revenue),
		ROI:          SafePercent(profit, cost),
	}, nil
}
