package linksfinder

import (
	"context"
	"fmt"
)

// Fetcher retrieves the text of a page.
type Fetcher interface {
	// Fetch retrieves the body of the URL decoded as text.
	// Implementations must not block forever: a timeout configured at
	// construction eventually fails the call.
	Fetch(ctx context.Context, url string) (text string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// FetchError describes a failed fetch.
type FetchError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
