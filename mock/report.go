package mock

import (
	"context"

	"github.com/fwojciec/linksfinder"
)

var _ linksfinder.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of linksfinder.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, report *linksfinder.Report) error
}

func (w *ReportWriter) WriteReport(ctx context.Context, report *linksfinder.Report) error {
	return w.WriteReportFn(ctx, report)
}
