package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// TopProduct is the best-selling sale of a day, by revenue.
type TopProduct struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	TotalPrice Money  `json:"totalPrice"`
}

// DailyStats is derived per calendar day and never persisted.
type DailyStats struct {
	Date          Date        `json:"date"`
	TotalSales    Money       `json:"totalSales"`
	TotalExpenses Money       `json:"totalExpenses"`
	Profit        Money       `json:"profit"`
	ProfitMargin  float64     `json:"profitMargin"`
	ProductsSold  int         `json:"productsSold"`
	TopProduct    *TopProduct `json:"topProduct,omitempty"`
}

// ProductStats summarises one product over a period. TotalCost uses the
// product's current purchase price.
type ProductStats struct {
	ProductID         string  `json:"productId"`
	Name              string  `json:"name"`
	TotalSold         int     `json:"totalSold"`
	TotalRevenue      Money   `json:"totalRevenue"`
	TotalCost         Money   `json:"totalCost"`
	Profit            Money   `json:"profit"`
	ProfitMargin      float64 `json:"profitMargin"`
	AverageDailySales float64 `json:"averageDailySales"`
}

// PeriodSummary totals a sequence of DailyStats.
type PeriodSummary struct {
	Start         Date    `json:"start"`
	End           Date    `json:"end"`
	Days          int     `json:"days"`
	TotalSales    Money   `json:"totalSales"`
	TotalExpenses Money   `json:"totalExpenses"`
	Profit        Money   `json:"profit"`
	ProfitMargin  float64 `json:"profitMargin"`
	ProductsSold  int     `json:"productsSold"`
}

// Report bundles every aggregation computed for one business and period.
type Report struct {
	BusinessID   string           `json:"businessId"`
	BusinessName string           `json:"businessName"`
	Summary      PeriodSummary    `json:"summary"`
	Daily        []DailyStats     `json:"daily"`
	Products     []ProductStats   `json:"products"`
	Expenses     []CategoryAmount `json:"expenses"`
}

// QuickResult is the outcome of the one-shot profitability calculator.
type QuickResult struct {
	ProductName  string  `json:"productName"`
	Quantity     int     `json:"quantity"`
	TotalRevenue Money   `json:"totalRevenue"`
	TotalCost    Money   `json:"totalCost"`
	Profit       Money   `json:"profit"`
	ProfitMargin float64 `json:"profitMargin"`
	ROI          float64 `json:"roi"`
}
