package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"rentabilidad/internal/core"
	"rentabilidad/internal/stats"
	"rentabilidad/internal/storage"
)

// Operation names carried by business.updated events.
const (
	OpBusinessCreated = "business.created"
	OpBusinessDeleted = "business.deleted"
	OpProductAdded    = "product.added"
	OpProductUpdated  = "product.updated"
	OpProductDeleted  = "product.deleted"
	OpSaleRegistered  = "sale.registered"
	OpExpenseAdded    = "expense.added"
)

// EventPublisher announces business changes to other processes.
type EventPublisher interface {
	PublishBusinessUpdated(ctx context.Context, businessID, operation string) error
}

// BusinessService runs every state change as a read-modify-write of one
// business under a process-wide lock, then notifies listeners and publishes
// an event. Reads take no lock.
type BusinessService struct {
	repo      *storage.Repository
	publisher EventPublisher
	now       func() time.Time

	mu        sync.Mutex
	listeners []func(businessID string)
}

func NewBusinessService(repo *storage.Repository, publisher EventPublisher) *BusinessService {
	return &BusinessService{repo: repo, publisher: publisher, now: time.Now}
}

// OnChange registers fn to run after every successful write.
func (s *BusinessService) OnChange(fn func(businessID string)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// CreateBusiness stores a new business and selects it when none is selected.
func (s *BusinessService) CreateBusiness(ctx context.Context, name, description string) (core.Business, error) {
	s.mu.Lock()
	b, err := core.NewBusiness(name, description, s.now())
	if err != nil {
		s.mu.Unlock()
		return core.Business{}, err
	}
	if err := s.repo.UpsertBusiness(ctx, b); err != nil {
		s.mu.Unlock()
		return core.Business{}, fmt.Errorf("save business: %w", err)
	}
	current, err := s.repo.CurrentBusinessID(ctx)
	if err == nil && current == "" {
		err = s.repo.SetCurrentBusinessID(ctx, b.ID)
	}
	s.mu.Unlock()
	if err != nil {
		slog.WarnContext(ctx, "Business created but not selected", "business_id", b.ID, "error", err)
	}

	slog.InfoContext(ctx, "Business created", "business_id", b.ID, "name", b.Name)
	s.changed(ctx, b.ID, OpBusinessCreated)
	return b, nil
}

func (s *BusinessService) ListBusinesses(ctx context.Context) ([]core.Business, error) {
	return s.repo.ListBusinesses(ctx)
}

func (s *BusinessService) GetBusiness(ctx context.Context, id string) (core.Business, error) {
	return s.repo.GetBusiness(ctx, id)
}

func (s *BusinessService) DeleteBusiness(ctx context.Context, id string) error {
	s.mu.Lock()
	err := s.repo.DeleteBusiness(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	slog.InfoContext(ctx, "Business deleted", "business_id", id)
	s.changed(ctx, id, OpBusinessDeleted)
	return nil
}

// SelectBusiness makes id the current business.
func (s *BusinessService) SelectBusiness(ctx context.Context, id string) (core.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.repo.GetBusiness(ctx, id)
	if err != nil {
		return core.Business{}, err
	}
	if err := s.repo.SetCurrentBusinessID(ctx, id); err != nil {
		return core.Business{}, err
	}
	return b, nil
}

// CurrentBusiness returns the selected business, or ErrBusinessNotFound when
// none is selected or the selection is stale.
func (s *BusinessService) CurrentBusiness(ctx context.Context) (core.Business, error) {
	id, err := s.repo.CurrentBusinessID(ctx)
	if err != nil {
		return core.Business{}, err
	}
	if id == "" {
		return core.Business{}, fmt.Errorf("%w: none selected", core.ErrBusinessNotFound)
	}
	return s.repo.GetBusiness(ctx, id)
}

func (s *BusinessService) AddProduct(ctx context.Context, businessID string, p core.Product) (core.Product, error) {
	var out core.Product
	err := s.mutate(ctx, businessID, OpProductAdded, func(b *core.Business) error {
		var err error
		out, err = b.AddProduct(p)
		return err
	})
	return out, err
}

func (s *BusinessService) UpdateProduct(ctx context.Context, businessID string, p core.Product) (core.Product, error) {
	var out core.Product
	err := s.mutate(ctx, businessID, OpProductUpdated, func(b *core.Business) error {
		var err error
		out, err = b.UpdateProduct(p)
		return err
	})
	return out, err
}

func (s *BusinessService) DeleteProduct(ctx context.Context, businessID, productID string) error {
	return s.mutate(ctx, businessID, OpProductDeleted, func(b *core.Business) error {
		return b.DeleteProduct(productID)
	})
}

// RegisterSale appends the sale and decrements stock in one write.
func (s *BusinessService) RegisterSale(ctx context.Context, businessID string, in core.SaleInput) (core.Sale, error) {
	var out core.Sale
	err := s.mutate(ctx, businessID, OpSaleRegistered, func(b *core.Business) error {
		var err error
		out, err = b.RegisterSale(in, s.now())
		return err
	})
	if err != nil {
		return core.Sale{}, err
	}
	slog.InfoContext(ctx, "Sale registered",
		"business_id", businessID,
		"product_id", out.ProductID,
		"quantity", out.Quantity,
		"total_cents", out.TotalPrice.Cents)
	return out, nil
}

func (s *BusinessService) AddExpense(ctx context.Context, businessID string, e core.Expense) (core.Expense, error) {
	var out core.Expense
	err := s.mutate(ctx, businessID, OpExpenseAdded, func(b *core.Business) error {
		var err error
		out, err = b.AddExpense(e, s.now())
		return err
	})
	return out, err
}

func (s *BusinessService) SalesOn(ctx context.Context, businessID string, day core.Date) ([]core.Sale, error) {
	b, err := s.repo.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return b.SalesOn(day), nil
}

func (s *BusinessService) ExpensesOn(ctx context.Context, businessID string, day core.Date) ([]core.Expense, error) {
	b, err := s.repo.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return b.ExpensesOn(day), nil
}

func (s *BusinessService) LowStock(ctx context.Context, businessID string) ([]core.Product, error) {
	b, err := s.repo.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return b.LowStock(), nil
}

// Report aggregates the business over the days-long window ending at end.
func (s *BusinessService) Report(ctx context.Context, businessID string, end core.Date, days int) (core.Report, error) {
	p, err := stats.NewPeriod(end, days)
	if err != nil {
		return core.Report{}, err
	}
	b, err := s.repo.GetBusiness(ctx, businessID)
	if err != nil {
		return core.Report{}, err
	}
	return stats.Build(b, p), nil
}

// mutate loads the business, applies fn and saves the result. Nothing is
// written when fn fails.
func (s *BusinessService) mutate(ctx context.Context, businessID, op string, fn func(*core.Business) error) error {
	s.mu.Lock()
	b, err := s.repo.GetBusiness(ctx, businessID)
	if err == nil {
		err = fn(&b)
		if err == nil {
			if serr := s.repo.UpsertBusiness(ctx, b); serr != nil {
				err = fmt.Errorf("save business: %w", serr)
			}
		}
	}
	s.mu.Unlock()
	if err != nil {
		if !isClientError(err) {
			slog.ErrorContext(ctx, "Business update failed", "business_id", businessID, "operation", op, "error", err)
		}
		return err
	}
	s.changed(ctx, businessID, op)
	return nil
}

func (s *BusinessService) changed(ctx context.Context, businessID, op string) {
	s.mu.Lock()
	listeners := append([]func(string){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(businessID)
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher, skipping business update event")
		return
	}
	// Don't fail the request: the change is already stored.
	if err := s.publisher.PublishBusinessUpdated(ctx, businessID, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish business update",
			"business_id", businessID, "operation", op, "error", err)
	}
}

func isClientError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount, core.ErrInvalidQuantity, core.ErrInvalidStock, core.ErrInvalidDate,
		core.ErrInvalidCategory, core.ErrEmptyName, core.ErrNameTooLong, core.ErrProductNotFound,
		core.ErrBusinessNotFound, core.ErrInsufficientStock,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
