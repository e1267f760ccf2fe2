// Package prometheus exposes crawl metrics through a Prometheus registry.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/linksfinder"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "linksfinder"

// Fetch result label values.
const (
	resultOK    = "ok"
	resultError = "error"
)

// Metrics holds the crawl metrics and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	fetchedBytes  prometheus.Counter
	outstanding   prometheus.Gauge
	claimed       prometheus.Gauge
}

// NewMetrics creates the crawl metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Total number of page fetches.",
			},
			[]string{"result"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of page fetches.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		fetchedBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetched_bytes_total",
				Help:      "Total size of fetched page text.",
			},
		),
		outstanding: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tasks_outstanding",
				Help:      "Current number of scheduled units of work not yet completed.",
			},
		),
		claimed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "links_claimed",
				Help:      "Current number of distinct URLs claimed by the crawl.",
			},
		),
	}
	m.registry.MustRegister(m.fetches, m.fetchDuration, m.fetchedBytes, m.outstanding, m.claimed)
	return m
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metrics in exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe updates the gauges from a crawl progress event.
// It has the signature of linksfinder.ProgressFunc.
//
// Only tick and finished events set the gauges. They are emitted by the
// goroutine waiting for the crawl, so they arrive in order; events from
// workers may carry stale counts.
func (m *Metrics) Observe(event linksfinder.ProgressEvent) {
	switch event.Type {
	case linksfinder.ProgressTick, linksfinder.ProgressFinished:
		m.outstanding.Set(float64(event.Outstanding))
		m.claimed.Set(float64(event.Claimed))
	}
}

// WrapFetcher returns a Fetcher that records metrics for every fetch.
func (m *Metrics) WrapFetcher(next linksfinder.Fetcher) *MetricsFetcher {
	return &MetricsFetcher{next: next, metrics: m}
}

// Ensure MetricsFetcher implements linksfinder.Fetcher.
var _ linksfinder.Fetcher = (*MetricsFetcher)(nil)

// MetricsFetcher wraps a Fetcher with Prometheus instrumentation.
type MetricsFetcher struct {
	next    linksfinder.Fetcher
	metrics *Metrics
}

// Fetch delegates to the wrapped fetcher and records its outcome.
func (f *MetricsFetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	text, err := f.next.Fetch(ctx, url)
	f.metrics.fetchDuration.Observe(time.Since(begin).Seconds())
	if err != nil {
		f.metrics.fetches.WithLabelValues(resultError).Inc()
		return "", err
	}
	f.metrics.fetches.WithLabelValues(resultOK).Inc()
	f.metrics.fetchedBytes.Add(float64(len(text)))
	return text, nil
}

// Close delegates to the wrapped fetcher.
func (f *MetricsFetcher) Close() error {
	return f.next.Close()
}
