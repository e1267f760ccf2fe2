package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/linksfinder"
	"github.com/fwojciec/linksfinder/crawl"
	lfprom "github.com/fwojciec/linksfinder/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Crawler *crawl.Crawler
	Metrics *lfprom.Metrics
	Writer  linksfinder.ReportWriter // optional
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Workers          int           `short:"w" default:"10" help:"Number of concurrent fetch workers"`
	ProgressInterval time.Duration `default:"5s" help:"How often to report outstanding work"`
	Timeout          time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	UserAgent        string        `default:"Mozilla/4.0" help:"User-Agent header sent with every request"`
	MaxBodySize      int64         `default:"10485760" help:"Maximum number of bytes read per page"`
	Output           string        `short:"o" help:"Also write the URLs found to this file"`
	MetricsAddr      string        `help:"Serve Prometheus metrics on this address (e.g. :9090)"`
	Verbose          bool          `short:"v" help:"Enable debug logging"`
	URL              string        `arg:"" required:"" help:"Starting URL; only links beginning with it are followed"`
}

// CrawlCmd crawls a site and prints the URLs found.
type CrawlCmd struct {
	URL string
}
