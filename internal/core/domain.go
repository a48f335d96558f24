package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StockOut StockStatus = "out_of_stock"
	StockLow StockStatus = "low_stock"
	StockOK  StockStatus = "in_stock"
)

// DefaultProductCategory is assigned when a product is created without one.
const DefaultProductCategory = "General"

type (
	StockStatus string

	Product struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		PurchasePrice Money  `json:"purchasePrice"`
		SellingPrice  Money  `json:"sellingPrice"`
		Category      string `json:"category"`
		Description   string `json:"description,omitempty"`
		Stock         int    `json:"stock"`
		MinStock      int    `json:"minStock"`
	}

	// Sale keeps a copy of the product name and unit price taken when the
	// sale was registered. ProductID is a weak reference and may dangle.
	Sale struct {
		ID           string `json:"id"`
		ProductID    string `json:"productId"`
		ProductName  string `json:"productName"`
		Quantity     int    `json:"quantity"`
		UnitPrice    Money  `json:"unitPrice"`
		TotalPrice   Money  `json:"totalPrice"`
		Date         Date   `json:"date"`
		CreatedAt    int64  `json:"timestamp,omitempty"` // epoch ms
		CustomerName string `json:"customerName,omitempty"`
	}

	Expense struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Amount      Money  `json:"amount"`
		Category    string `json:"category"`
		Date        Date   `json:"date"`
		CreatedAt   int64  `json:"timestamp,omitempty"` // epoch ms
		Description string `json:"description,omitempty"`
	}

	Business struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"createdAt"`
		Products    []Product `json:"products"`
		Sales       []Sale    `json:"sales"`
		Expenses    []Expense `json:"expenses"`
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidStock      = errors.New("invalid stock")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidCategory   = errors.New("invalid expense category")
	ErrEmptyName         = errors.New("empty name")
	ErrNameTooLong       = errors.New("name too long (max 200 characters)")
	ErrProductNotFound   = errors.New("product not found")
	ErrBusinessNotFound  = errors.New("business not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidWindow     = errors.New("invalid period window")
)

var expenseCategories = []string{
	"Alquiler",
	"Servicios",
	"Salarios",
	"Marketing",
	"Suministros",
	"Transporte",
	"Impuestos",
	"Otros",
}

// ExpenseCategories returns the closed set of categories offered when an
// expense is recorded.
func ExpenseCategories() []string {
	return append([]string(nil), expenseCategories...)
}

// IsKnownExpenseCategory reports whether c belongs to ExpenseCategories.
func IsKnownExpenseCategory(c string) bool {
	for _, v := range expenseCategories {
		if v == c {
			return true
		}
	}
	return false
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > 200 {
		return ErrNameTooLong
	}
	if p.SellingPrice.Cents <= 0 || p.PurchasePrice.Cents < 0 {
		return ErrInvalidAmount
	}
	if p.SellingPrice.Cents > MaxPrice.Cents || p.PurchasePrice.Cents > MaxPrice.Cents {
		return ErrInvalidAmount
	}
	if p.Stock < 0 || p.MinStock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// StockStatus classifies the on-hand stock against the product threshold.
func (p Product) StockStatus() StockStatus {
	if p.Stock <= 0 {
		return StockOut
	}
	if p.Stock <= p.MinStock {
		return StockLow
	}
	return StockOK
}

// UnitMargin is the per-unit margin as a percentage of the selling price.
func (p Product) UnitMargin() float64 {
	return Percent(p.SellingPrice.Cents-p.PurchasePrice.Cents, p.SellingPrice.Cents)
}

// decrementStock removes q units, never going below zero.
func (p *Product) decrementStock(q int) {
	p.Stock -= q
	if p.Stock < 0 {
		p.Stock = 0
	}
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if len(e.Name) > 200 {
		return ErrNameTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !IsKnownExpenseCategory(e.Category) {
		return ErrInvalidCategory
	}
	return e.Date.Validate()
}

func (b Business) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if len(b.Name) > 200 {
		return ErrNameTooLong
	}
	return nil
}

// Percent returns num/den*100, or 0 when den is zero. Every margin and ROI
// in the application goes through it.
func Percent(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}
