// Package http provides an HTTP-based implementation of linksfinder.Fetcher.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/linksfinder"
	"golang.org/x/net/html/charset"
)

// Fetcher defaults.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultUserAgent    = "Mozilla/4.0"
	DefaultMaxBodySize  = 10 << 20
)

// Ensure Fetcher implements linksfinder.Fetcher at compile time.
var _ linksfinder.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page text using HTTP GET requests.
//
// Bodies are decoded to UTF-8 using the charset declared in the Content-Type
// header, falling back to <meta> sniffing and then UTF-8. Redirects are
// followed by the underlying client.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified or not positive.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
// Longer bodies are truncated, not rejected.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithTransport sets the transport used by the underlying client.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.client.Transport = rt
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{},
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client.Timeout = f.timeout

	return f
}

// Fetch retrieves the body of the given URL as UTF-8 text.
// Transport errors and non-2xx responses are returned as *linksfinder.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &linksfinder.FetchError{URL: url, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &linksfinder.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &linksfinder.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	if resp.ContentLength == 0 {
		return "", nil
	}

	var body io.Reader = resp.Body
	if f.maxBodySize > 0 {
		body = io.LimitReader(body, f.maxBodySize)
	}
	// charset.NewReader peeks at the body and fails with io.EOF when it is empty.
	r, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	if err != nil {
		return "", &linksfinder.FetchError{URL: url, Err: err}
	}

	text, err := io.ReadAll(r)
	if err != nil {
		return "", &linksfinder.FetchError{URL: url, Err: err}
	}

	return string(text), nil
}

// Close releases idle connections held by the client.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
