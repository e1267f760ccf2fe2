// Package fs writes crawl reports to the local filesystem.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/linksfinder"
)

// FormatReport returns the URLs of a report, one per line.
func FormatReport(report *linksfinder.Report) string {
	var b strings.Builder
	for _, u := range report.URLs {
		b.WriteString(u)
		b.WriteByte('\n')
	}
	return b.String()
}

// Ensure Writer implements linksfinder.ReportWriter at compile time.
var _ linksfinder.ReportWriter = (*Writer)(nil)

// Writer writes the URL list of a report to a single file.
type Writer struct {
	path string
}

// NewWriter creates a new Writer that writes to path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// WriteReport writes the report's URLs to the file, replacing it.
// The content is written to a temporary file in the same directory first
// so readers never see a partial list.
func (w *Writer) WriteReport(ctx context.Context, report *linksfinder.Report) error {
	if report == nil {
		return linksfinder.Errorf(linksfinder.EINVALID, "report required")
	}
	if w.path == "" {
		return linksfinder.Errorf(linksfinder.EINVALID, "output path required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.WriteString(FormatReport(report)); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, w.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
