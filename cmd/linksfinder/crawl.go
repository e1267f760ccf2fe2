package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/linksfinder"
	"github.com/fwojciec/linksfinder/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	progress := func(ev linksfinder.ProgressEvent) {
		if deps.Metrics != nil {
			deps.Metrics.Observe(ev)
		}
		if ev.Type == linksfinder.ProgressTick {
			fmt.Fprintln(deps.Stdout, crawl.FormatProgress(ev.Outstanding))
		}
	}

	report, err := deps.Crawler.Crawl(deps.Ctx, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linksfinder.ErrorMessage(err))
		return err
	}

	if deps.Writer != nil {
		// An interrupted crawl still has a report worth keeping.
		if err := deps.Writer.WriteReport(context.WithoutCancel(deps.Ctx), report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	for _, u := range report.URLs {
		fmt.Fprintln(deps.Stdout, u)
	}
	fmt.Fprintln(deps.Stdout, crawl.FormatSummary(report))
	fmt.Fprintln(deps.Stderr, crawl.FormatStats(report))

	return nil
}
