package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"rentabilidad/internal/amqp"
	"rentabilidad/internal/core"
	"rentabilidad/internal/sheets"
	"rentabilidad/internal/sheets/memory"
)

type fakeReader struct {
	list    []core.Business
	listErr error
}

func (f *fakeReader) GetBusiness(_ context.Context, id string) (core.Business, error) {
	for _, b := range f.list {
		if b.ID == id {
			return b, nil
		}
	}
	return core.Business{}, fmt.Errorf("%w: %s", core.ErrBusinessNotFound, id)
}

func (f *fakeReader) ListBusinesses(context.Context) ([]core.Business, error) {
	return f.list, f.listErr
}

type failingExporter struct {
	mu     sync.Mutex
	failID string
	calls  int
}

func (f *failingExporter) ExportReport(_ context.Context, b core.Business, _ core.Report) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if b.ID == f.failID {
		return "", errors.New("quota exceeded")
	}
	return "ok:" + b.ID, nil
}

func businessWithSale(id string, day core.Date) core.Business {
	return core.Business{
		ID:       id,
		Name:     "Negocio " + id,
		Products: []core.Product{{ID: "p", Name: "Pan", SellingPrice: core.Money{Cents: 200}}},
		Sales: []core.Sale{{ID: "s", ProductID: "p", ProductName: "Pan", Quantity: 3,
			UnitPrice: core.Money{Cents: 200}, TotalPrice: core.Money{Cents: 600}, Date: day}},
	}
}

func newTestWorker(reader BusinessReader, exp sheets.ReportExporter, today core.Date) *ExportWorker {
	w := NewExportWorker(reader, exp, 30, 2)
	w.today = func() core.Date { return today }
	return w
}

func TestHandleBusinessUpdatedExportsReport(t *testing.T) {
	today := core.NewDate(2025, 4, 30)
	store := memory.New()
	w := newTestWorker(&fakeReader{list: []core.Business{businessWithSale("b1", today)}}, store, today)

	msg := amqp.NewBusinessUpdatedMessage("b1", "sale.registered")
	if err := w.HandleBusinessUpdated(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	r, ok := store.Latest("b1")
	if !ok {
		t.Fatal("expected an export")
	}
	if r.Summary.Days != 30 || !r.Summary.End.Equal(today) || r.Summary.TotalSales.Cents != 600 {
		t.Fatalf("unexpected summary %+v", r.Summary)
	}
	if len(r.Daily) != 31 {
		t.Fatalf("expected 31 daily rows, got %d", len(r.Daily))
	}
}

func TestHandleBusinessUpdatedMissingBusinessIsAcked(t *testing.T) {
	store := memory.New()
	w := newTestWorker(&fakeReader{}, store, core.NewDate(2025, 4, 30))
	if err := w.HandleBusinessUpdated(context.Background(), amqp.NewBusinessUpdatedMessage("gone", "business.deleted")); err != nil {
		t.Fatalf("expected nil for deleted business, got %v", err)
	}
	if len(store.Exports()) != 0 {
		t.Fatal("nothing should be exported")
	}
}

func TestHandleBusinessUpdatedExporterError(t *testing.T) {
	today := core.NewDate(2025, 4, 30)
	exp := &failingExporter{failID: "b1"}
	w := newTestWorker(&fakeReader{list: []core.Business{businessWithSale("b1", today)}}, exp, today)
	err := w.HandleBusinessUpdated(context.Background(), amqp.NewBusinessUpdatedMessage("b1", "x"))
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected exporter error to surface for requeue, got %v", err)
	}
}

func TestExportAllContinuesPastFailures(t *testing.T) {
	today := core.NewDate(2025, 4, 30)
	var list []core.Business
	for i := 0; i < 5; i++ {
		list = append(list, businessWithSale(fmt.Sprintf("b%d", i), today))
	}
	exp := &failingExporter{failID: "b2"}
	w := newTestWorker(&fakeReader{list: list}, exp, today)

	err := w.ExportAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "b2") {
		t.Fatalf("expected joined error naming b2, got %v", err)
	}
	if exp.calls != 5 {
		t.Fatalf("every business should be attempted, got %d calls", exp.calls)
	}
}

func TestExportAllListError(t *testing.T) {
	w := newTestWorker(&fakeReader{listErr: errors.New("db down")}, memory.New(), core.NewDate(2025, 4, 30))
	if err := w.ExportAll(context.Background()); err == nil {
		t.Fatal("expected list error")
	}
}

func TestExportBusinessInvalidWindow(t *testing.T) {
	w := NewExportWorker(&fakeReader{}, memory.New(), 14, 1)
	if _, err := w.ExportBusiness(context.Background(), core.Business{ID: "x"}); !errors.Is(err, core.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestSchedulerValidatesSpec(t *testing.T) {
	if _, err := NewScheduler("not a cron", time.Minute, func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected error for invalid spec")
	}
	s, err := NewScheduler("55 23 * * *", time.Minute, func(context.Context) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	next := s.Next()
	s.Stop(context.Background())
	if next.IsZero() || next.Hour() != 23 || next.Minute() != 55 {
		t.Fatalf("unexpected next run %v", next)
	}
}

func TestSchedulerRunPassesDeadline(t *testing.T) {
	var hadDeadline bool
	s, err := NewScheduler("@daily", time.Minute, func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return errors.New("logged, not returned")
	})
	if err != nil {
		t.Fatal(err)
	}
	s.run()
	if !hadDeadline {
		t.Fatal("job context should carry the timeout")
	}
}
