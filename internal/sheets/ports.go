package sheets

import (
	"context"

	"rentabilidad/internal/core"
)

// Ports for outbound adapters.
type (
	// ReportExporter publishes a computed report somewhere humans can read it.
	// The returned reference identifies where it was written.
	ReportExporter interface {
		ExportReport(ctx context.Context, b core.Business, r core.Report) (ref string, err error)
	}
)
