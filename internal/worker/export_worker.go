package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"rentabilidad/internal/amqp"
	"rentabilidad/internal/core"
	"rentabilidad/internal/sheets"
	"rentabilidad/internal/stats"
)

// BusinessReader is the read side of the business service the worker needs.
type BusinessReader interface {
	GetBusiness(ctx context.Context, id string) (core.Business, error)
	ListBusinesses(ctx context.Context) ([]core.Business, error)
}

// ExportWorker rebuilds a business report and hands it to an exporter,
// either per business.updated message or for every business at once.
type ExportWorker struct {
	businesses  BusinessReader
	exporter    sheets.ReportExporter
	windowDays  int
	concurrency int
	today       func() core.Date
}

func NewExportWorker(businesses BusinessReader, exporter sheets.ReportExporter, windowDays, concurrency int) *ExportWorker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ExportWorker{
		businesses:  businesses,
		exporter:    exporter,
		windowDays:  windowDays,
		concurrency: concurrency,
		today:       core.Today,
	}
}

// HandleBusinessUpdated exports the business named in msg. Messages for
// businesses that no longer exist are acknowledged without exporting.
func (w *ExportWorker) HandleBusinessUpdated(ctx context.Context, msg *amqp.BusinessUpdatedMessage) error {
	slog.InfoContext(ctx, "Processing business update",
		"business_id", msg.BusinessID,
		"operation", msg.Operation)

	b, err := w.businesses.GetBusiness(ctx, msg.BusinessID)
	if errors.Is(err, core.ErrBusinessNotFound) {
		slog.InfoContext(ctx, "Business gone, skipping export", "business_id", msg.BusinessID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get business: %w", err)
	}
	_, err = w.ExportBusiness(ctx, b)
	return err
}

// ExportBusiness builds the report for the configured window ending today.
func (w *ExportWorker) ExportBusiness(ctx context.Context, b core.Business) (string, error) {
	p, err := stats.NewPeriod(w.today(), w.windowDays)
	if err != nil {
		return "", err
	}
	ref, err := w.exporter.ExportReport(ctx, b, stats.Build(b, p))
	if err != nil {
		return "", fmt.Errorf("export report for %s: %w", b.ID, err)
	}
	slog.InfoContext(ctx, "Business report exported", "business_id", b.ID, "ref", ref)
	return ref, nil
}

// ExportAll exports every business with bounded concurrency. A failing
// business does not stop the others; all failures are returned joined.
func (w *ExportWorker) ExportAll(ctx context.Context) error {
	list, err := w.businesses.ListBusinesses(ctx)
	if err != nil {
		return fmt.Errorf("list businesses: %w", err)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, b := range list {
		g.Go(func() error {
			if _, err := w.ExportBusiness(gctx, b); err != nil {
				slog.ErrorContext(gctx, "Export failed", "business_id", b.ID, "error", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.InfoContext(ctx, "Export run finished", "businesses", len(list), "failed", len(errs))
	return errors.Join(errs...)
}
