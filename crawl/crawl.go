// Package crawl provides the concurrent crawl engine.
// It extracts prefixed links from fetched pages, claims each newly seen link
// exactly once, schedules it on a fixed worker pool, and detects when the
// self-growing set of work has drained.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/linksfinder"
	"github.com/google/uuid"
)

// DefaultProgressInterval is how often progress is reported while draining.
const DefaultProgressInterval = 5 * time.Second

// Crawler discovers every URL reachable from a starting URL that shares it
// as a prefix.
type Crawler struct {
	Fetcher          linksfinder.Fetcher
	Workers          int
	ProgressInterval time.Duration
	Logger           *slog.Logger
}

// crawlRun holds the state of a single crawl.
type crawlRun struct {
	fetcher   linksfinder.Fetcher
	extractor *Extractor
	seen      *SeenSet
	tracker   *Tracker
	scheduler *Scheduler
	logger    *slog.Logger
	progress  linksfinder.ProgressFunc

	fetched     atomic.Int64
	failed      atomic.Int64
	bytes       atomic.Int64
	interrupted atomic.Bool
}

// Crawl crawls from startURL until no work is outstanding and returns the
// sorted set of discovered URLs. The progress callback, if provided, receives
// events as crawling proceeds and may be called from several goroutines.
//
// Cancelling ctx does not fail the crawl. Fetches already in flight run to
// completion, queued URLs are dropped without fetching, and the report holds
// whatever was claimed by then.
func (c *Crawler) Crawl(ctx context.Context, startURL string, progress linksfinder.ProgressFunc) (*linksfinder.Report, error) {
	if strings.TrimSpace(startURL) == "" {
		return nil, linksfinder.Errorf(linksfinder.EINVALID, "starting URL required")
	}
	begin := time.Now()
	id := uuid.NewString()

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	run := &crawlRun{
		fetcher:   c.Fetcher,
		extractor: NewExtractor(startURL),
		seen:      NewSeenSet(),
		tracker:   NewTracker(),
		logger:    logger.With("crawl_id", id),
		progress:  progress,
	}
	run.scheduler = NewScheduler(run.tracker, run.process,
		WithWorkers(c.Workers),
		WithPanicHandler(run.fail),
	)
	run.scheduler.Start(ctx)

	// Seeding
	seed := Normalize(startURL)
	run.seen.Claim(seed)
	run.logger.Info("crawl started",
		"url", startURL,
		"workers", run.scheduler.Workers(),
	)
	run.emit(linksfinder.ProgressEvent{Type: linksfinder.ProgressStarted, URL: seed})
	if err := run.scheduler.Submit(seed); err != nil {
		_ = run.scheduler.Close()
		return nil, err
	}

	// Draining
	interval := c.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	run.drain(ctx, interval)
	if ctx.Err() != nil {
		run.interrupted.Store(true)
	}

	// Reporting
	urls := run.seen.Snapshot()
	if err := run.scheduler.Close(); err != nil {
		return nil, err
	}
	report := &linksfinder.Report{
		ID:          id,
		URLs:        urls,
		Elapsed:     time.Since(begin),
		Fetched:     int(run.fetched.Load()),
		Failed:      int(run.failed.Load()),
		Bytes:       int(run.bytes.Load()),
		Interrupted: run.interrupted.Load(),
	}
	run.logger.Info("crawl finished",
		"count", report.Count(),
		"fetched", report.Fetched,
		"failed", report.Failed,
		"bytes", report.Bytes,
		"duration", report.Elapsed,
		"interrupted", report.Interrupted,
	)
	run.emit(linksfinder.ProgressEvent{Type: linksfinder.ProgressFinished})

	return report, nil
}

// drain blocks until the tracker is idle, emitting a tick every interval.
// Cancellation of ctx is logged once and the wait resumes.
func (r *crawlRun) drain(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	done := ctx.Done()
	for {
		select {
		case <-r.tracker.Idle():
			return
		case <-ticker.C:
			r.emit(linksfinder.ProgressEvent{Type: linksfinder.ProgressTick})
		case <-done:
			r.interrupted.Store(true)
			r.logger.Warn("crawl interrupted, waiting for in-flight work",
				"outstanding", r.tracker.Count(),
				"err", ctx.Err(),
			)
			done = nil
		}
	}
}

// process is the unit of work for one URL: fetch it, extract its links,
// and submit every link not claimed before.
func (r *crawlRun) process(ctx context.Context, rawURL string) {
	if ctx.Err() != nil {
		r.logger.Debug("skip after interruption", "url", rawURL)
		return
	}

	if err := validateURL(rawURL); err != nil {
		r.fail(rawURL, err)
		return
	}

	// In-flight fetches are never cancelled; the fetcher's timeout bounds them.
	text, err := r.fetcher.Fetch(context.WithoutCancel(ctx), rawURL)
	if err != nil {
		r.fail(rawURL, err)
		return
	}
	r.fetched.Add(1)
	r.bytes.Add(int64(len(text)))
	r.emit(linksfinder.ProgressEvent{
		Type:  linksfinder.ProgressFetched,
		URL:   rawURL,
		Bytes: len(text),
	})

	for _, link := range r.extractor.Extract(text) {
		if !r.seen.Claim(link) {
			continue
		}
		if err := r.scheduler.Submit(link); err != nil {
			r.logger.Error("submit failed", "url", link, "err", err)
		}
	}
}

// fail records a unit of work that ended without a page.
func (r *crawlRun) fail(rawURL string, err error) {
	r.failed.Add(1)
	r.logger.Warn("unit of work failed",
		"url", rawURL,
		"code", linksfinder.ErrorCode(err),
		"err", err,
	)
	r.emit(linksfinder.ProgressEvent{
		Type:  linksfinder.ProgressFailed,
		URL:   rawURL,
		Error: err,
	})
}

func (r *crawlRun) emit(event linksfinder.ProgressEvent) {
	if r.progress == nil {
		return
	}
	event.Outstanding = r.tracker.Count()
	event.Claimed = r.seen.Len()
	r.progress(event)
}

// validateURL reports whether rawURL is an absolute URL that can be fetched.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return linksfinder.Errorf(linksfinder.EINVALID, "malformed URL %q: %v", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return linksfinder.Errorf(linksfinder.EINVALID, "malformed URL %q: not absolute", rawURL)
	}
	return nil
}
