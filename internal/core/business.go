package core

import (
	"strings"
	"time"
)

// SaleInput carries the user-supplied part of a sale; prices come from the product.
type SaleInput struct {
	ProductID    string
	Quantity     int
	Date         Date
	CustomerName string
}

// NewBusiness creates an empty business with a fresh identifier.
func NewBusiness(name, description string, now time.Time) (Business, error) {
	b := Business{
		ID:          NewID(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   now.UTC(),
		Products:    []Product{},
		Sales:       []Sale{},
		Expenses:    []Expense{},
	}
	if err := b.Validate(); err != nil {
		return Business{}, err
	}
	return b, nil
}

// FindProduct looks a product up by id. A missing product is reported as
// absent, never as an error.
func (b *Business) FindProduct(id string) (Product, bool) {
	if i := b.productIndex(id); i >= 0 {
		return b.Products[i], true
	}
	return Product{}, false
}

func (b *Business) productIndex(id string) int {
	for i := range b.Products {
		if b.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// AddProduct validates p, assigns an id when missing and appends it.
func (b *Business) AddProduct(p Product) (Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Category == "" {
		p.Category = DefaultProductCategory
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	if p.ID == "" {
		p.ID = NewID()
	}
	b.Products = append(b.Products, p)
	return p, nil
}

// UpdateProduct replaces the product with the same id in place. Sales
// already recorded keep their own copy of name and price.
func (b *Business) UpdateProduct(p Product) (Product, error) {
	i := b.productIndex(p.ID)
	if i < 0 {
		return Product{}, ErrProductNotFound
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Category == "" {
		p.Category = DefaultProductCategory
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	b.Products[i] = p
	return p, nil
}

// DeleteProduct removes the product. Sales referencing it are left untouched.
func (b *Business) DeleteProduct(id string) error {
	i := b.productIndex(id)
	if i < 0 {
		return ErrProductNotFound
	}
	b.Products = append(b.Products[:i], b.Products[i+1:]...)
	return nil
}

// RegisterSale records a sale of an existing product and decrements its
// stock. The sale is rejected, leaving the business unchanged, when the
// quantity exceeds the stock on hand.
func (b *Business) RegisterSale(in SaleInput, now time.Time) (Sale, error) {
	if in.Quantity <= 0 {
		return Sale{}, ErrInvalidQuantity
	}
	if err := in.Date.Validate(); err != nil {
		return Sale{}, err
	}
	i := b.productIndex(in.ProductID)
	if i < 0 {
		return Sale{}, ErrProductNotFound
	}
	p := &b.Products[i]
	if in.Quantity > p.Stock {
		return Sale{}, ErrInsufficientStock
	}
	total, err := p.SellingPrice.TimesChecked(in.Quantity)
	if err != nil {
		return Sale{}, err
	}

	sale := Sale{
		ID:           NewID(),
		ProductID:    p.ID,
		ProductName:  p.Name,
		Quantity:     in.Quantity,
		UnitPrice:    p.SellingPrice,
		TotalPrice:   total,
		Date:         in.Date,
		CreatedAt:    now.UnixMilli(),
		CustomerName: strings.TrimSpace(in.CustomerName),
	}
	b.Sales = append(b.Sales, sale)
	p.decrementStock(in.Quantity)
	return sale, nil
}

// AddExpense validates e, stamps id and creation time and appends it.
func (b *Business) AddExpense(e Expense, now time.Time) (Expense, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Description = strings.TrimSpace(e.Description)
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = now.UnixMilli()
	}
	b.Expenses = append(b.Expenses, e)
	return e, nil
}

// SalesOn returns the sales recorded on day d, in insertion order.
func (b *Business) SalesOn(d Date) []Sale {
	out := []Sale{}
	for _, s := range b.Sales {
		if s.Date.Equal(d) {
			out = append(out, s)
		}
	}
	return out
}

// ExpensesOn returns the expenses recorded on day d, in insertion order.
func (b *Business) ExpensesOn(d Date) []Expense {
	out := []Expense{}
	for _, e := range b.Expenses {
		if e.Date.Equal(d) {
			out = append(out, e)
		}
	}
	return out
}

// LowStock returns products whose stock is at or under their threshold.
func (b *Business) LowStock() []Product {
	out := []Product{}
	for _, p := range b.Products {
		if p.StockStatus() != StockOK {
			out = append(out, p)
		}
	}
	return out
}
