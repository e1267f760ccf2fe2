package crawl

import (
	"fmt"
	"time"

	"github.com/fwojciec/linksfinder"
)

// FormatSummary returns the closing line of a crawl report.
// Elapsed time is shown in whole seconds, truncated.
func FormatSummary(report *linksfinder.Report) string {
	return fmt.Sprintf("Found %d links in %d seconds.", report.Count(), int64(report.Elapsed/time.Second))
}

// FormatProgress returns the line reported while waiting for outstanding work.
func FormatProgress(outstanding int) string {
	return fmt.Sprintf("Current number of planned tasks %d", outstanding)
}

// FormatStats returns a one-line breakdown of the work done by a crawl.
func FormatStats(report *linksfinder.Report) string {
	s := fmt.Sprintf("Fetched %d pages (%d failed, %s)", report.Fetched, report.Failed, FormatBytes(report.Bytes))
	if report.Interrupted {
		s += ", interrupted"
	}
	return s + "."
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
