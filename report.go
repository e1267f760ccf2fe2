package linksfinder

import (
	"context"
	"time"
)

// Report is the outcome of a finished crawl.
type Report struct {
	ID      string   // crawl identifier, also attached to log records
	URLs    []string // every claimed URL, ascending
	Elapsed time.Duration

	Fetched int // units of work that fetched a page successfully
	Failed  int // units of work that ended without a page
	Bytes   int // total size of fetched text

	// Interrupted is set when the crawl was cancelled before the frontier
	// was exhausted. URLs then holds what was claimed up to that point.
	Interrupted bool
}

// Count returns the number of URLs found.
func (r *Report) Count() int {
	return len(r.URLs)
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type        ProgressType
	URL         string
	Outstanding int // scheduled units of work not yet completed
	Claimed     int // URLs claimed so far
	Bytes       int
	Error       error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressFetched
	ProgressFailed
	ProgressTick
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// It may be called concurrently from multiple workers.
type ProgressFunc func(event ProgressEvent)

// ReportWriter persists the result of a finished crawl.
type ReportWriter interface {
	WriteReport(ctx context.Context, report *Report) error
}
