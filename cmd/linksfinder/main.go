package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linksfinder"
	"github.com/fwojciec/linksfinder/crawl"
	lffs "github.com/fwojciec/linksfinder/fs"
	lfhttp "github.com/fwojciec/linksfinder/http"
	lfprom "github.com/fwojciec/linksfinder/prometheus"
	lfslog "github.com/fwojciec/linksfinder/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The first signal interrupts the crawl; restore default handling so a
	// second one terminates the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("linksfinder"),
		kong.Description("Find every URL of a site that starts with the given URL"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Wire dependencies
	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Metrics: lfprom.NewMetrics(),
	}

	httpFetcher := lfhttp.NewFetcher(
		lfhttp.WithTimeout(cli.Timeout),
		lfhttp.WithUserAgent(cli.UserAgent),
		lfhttp.WithMaxBodySize(cli.MaxBodySize),
	)
	var fetcher linksfinder.Fetcher = lfslog.NewLoggingFetcher(httpFetcher, logger)
	fetcher = deps.Metrics.WrapFetcher(fetcher)
	defer fetcher.Close()

	if cli.MetricsAddr != "" {
		shutdown, err := serveMetrics(cli.MetricsAddr, deps.Metrics, logger)
		if err != nil {
			return fmt.Errorf("failed to serve metrics on %q: %w", cli.MetricsAddr, err)
		}
		defer shutdown()
	}

	if cli.Output != "" {
		deps.Writer = lffs.NewWriter(cli.Output)
	}

	deps.Crawler = &crawl.Crawler{
		Fetcher:          fetcher,
		Workers:          cli.Workers,
		ProgressInterval: cli.ProgressInterval,
		Logger:           logger,
	}

	cmd := &CrawlCmd{URL: cli.URL}
	return cmd.Run(deps)
}

// serveMetrics starts an HTTP server exposing /metrics on addr.
// The returned function stops the server.
func serveMetrics(addr string, metrics *lfprom.Metrics, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
