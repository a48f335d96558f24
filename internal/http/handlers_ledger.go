package http

import (
	"context"
	"net/http"
	"time"

	"rentabilidad/internal/core"
	"rentabilidad/internal/services"
	"rentabilidad/internal/stats"
)

const (
	defaultStatsDays = 30
	statsLoadTimeout = 10 * time.Second
)

type saleRequest struct {
	ProductID    string    `json:"productId"`
	Quantity     int       `json:"quantity"`
	Date         core.Date `json:"date"`
	CustomerName string    `json:"customerName"`
}

type dayExpenses struct {
	Date      core.Date             `json:"date"`
	Expenses  []core.Expense        `json:"expenses"`
	Total     core.Money            `json:"total"`
	Breakdown []core.CategoryAmount `json:"breakdown"`
}

type daySales struct {
	Date  core.Date   `json:"date"`
	Sales []core.Sale `json:"sales"`
	Total core.Money  `json:"total"`
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	day, err := dateParam(r.URL.Query(), "date", s.today())
	if err != nil {
		writeError(w, r, "list_sales", err)
		return
	}
	list, err := s.svc.SalesOn(r.Context(), r.PathValue("id"), day)
	if err != nil {
		writeError(w, r, "list_sales", err)
		return
	}
	var total core.Money
	for _, sale := range list {
		total = total.Add(sale.TotalPrice)
	}
	writeJSON(w, http.StatusOK, daySales{Date: day, Sales: list, Total: total})
}

func (s *Server) handleRegisterSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, services.OpSaleRegistered, err)
		return
	}
	if req.Date.IsZero() {
		req.Date = s.today()
	}
	sale, err := s.svc.RegisterSale(r.Context(), r.PathValue("id"), core.SaleInput{
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		Date:         req.Date,
		CustomerName: sanitizeInput(req.CustomerName),
	})
	if err != nil {
		writeError(w, r, services.OpSaleRegistered, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	day, err := dateParam(r.URL.Query(), "date", s.today())
	if err != nil {
		writeError(w, r, "list_expenses", err)
		return
	}
	list, err := s.svc.ExpensesOn(r.Context(), r.PathValue("id"), day)
	if err != nil {
		writeError(w, r, "list_expenses", err)
		return
	}
	var total core.Money
	for _, e := range list {
		total = total.Add(e.Amount)
	}
	writeJSON(w, http.StatusOK, dayExpenses{
		Date:      day,
		Expenses:  list,
		Total:     total,
		Breakdown: stats.ExpenseBreakdown(list, stats.Period{End: day}),
	})
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, r, services.OpExpenseAdded, err)
		return
	}
	e.ID, e.CreatedAt = "", 0
	e.Name = sanitizeInput(e.Name)
	e.Category = sanitizeInput(e.Category)
	e.Description = sanitizeInput(e.Description)
	if e.Date.IsZero() {
		e.Date = s.today()
	}
	out, err := s.svc.AddExpense(r.Context(), r.PathValue("id"), e)
	if err != nil {
		writeError(w, r, services.OpExpenseAdded, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// handleStats serves the period report, cached per business, end date and
// window until the business changes.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	end, err := dateParam(q, "end", s.today())
	if err != nil {
		writeError(w, r, "stats", err)
		return
	}
	days, err := intParam(q, "days", defaultStatsDays)
	if err != nil {
		writeError(w, r, "stats", err)
		return
	}
	id := r.PathValue("id")
	report, hit, err := s.stats.Get(statsKey(id, end, days), func() (core.Report, error) {
		// the load is shared with concurrent callers, so it must outlive this request
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), statsLoadTimeout)
		defer cancel()
		return s.svc.Report(ctx, id, end, days)
	})
	if err != nil {
		writeError(w, r, "stats", err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, report)
}
