package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/linksfinder"
	main "github.com/fwojciec/linksfinder/cmd/linksfinder"
	"github.com/fwojciec/linksfinder/crawl"
	"github.com/fwojciec/linksfinder/fs"
	"github.com/fwojciec/linksfinder/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockCrawler(pages map[string]string) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				text, ok := pages[url]
				if !ok {
					return "", &linksfinder.FetchError{URL: url, StatusCode: 404}
				}
				return text, nil
			},
			CloseFn: func() error { return nil },
		},
		Workers: 2,
	}
}

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("passes report to writer", func(t *testing.T) {
		t.Parallel()

		var written *linksfinder.Report
		var stdout, stderr bytes.Buffer
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &stdout,
			Stderr:  &stderr,
			Crawler: newMockCrawler(map[string]string{"http://x.com": `"http://x.com/a"`, "http://x.com/a": ""}),
			Writer: &mock.ReportWriter{
				WriteReportFn: func(_ context.Context, report *linksfinder.Report) error {
					written = report
					return nil
				},
			},
		}

		err := (&main.CrawlCmd{URL: "http://x.com"}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, written)
		assert.Equal(t, []string{"http://x.com", "http://x.com/a"}, written.URLs)
		assert.Contains(t, stdout.String(), "http://x.com/a\n")
		assert.Contains(t, stdout.String(), "Found 2 links in 0 seconds.")
	})

	t.Run("returns writer error", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &stdout,
			Stderr:  &stderr,
			Crawler: newMockCrawler(map[string]string{"http://x.com": ""}),
			Writer: &mock.ReportWriter{
				WriteReportFn: func(context.Context, *linksfinder.Report) error {
					return errors.New("disk full")
				},
			},
		}

		err := (&main.CrawlCmd{URL: "http://x.com"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.NotContains(t, stdout.String(), "Found")
	})

	t.Run("reports invalid start URL on stderr", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &stdout,
			Stderr:  &stderr,
			Crawler: newMockCrawler(nil),
		}

		err := (&main.CrawlCmd{URL: "  "}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, linksfinder.EINVALID, linksfinder.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: ")
		assert.Empty(t, stdout.String())
	})
}

func TestCrawlCmd_Run_Interrupted(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	path := filepath.Join(t.TempDir(), "links.txt")
	var stdout, stderr bytes.Buffer
	deps := &main.Dependencies{
		Ctx:    ctx,
		Stdout: &stdout,
		Stderr: &stderr,
		Crawler: &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					cancel()
					return `"http://x.com/a" "http://x.com/b"`, nil
				},
				CloseFn: func() error { return nil },
			},
		},
		Writer: fs.NewWriter(path),
	}

	err := (&main.CrawlCmd{URL: "http://x.com"}).Run(deps)

	require.NoError(t, err)
	want := "http://x.com\nhttp://x.com/a\nhttp://x.com/b\n"
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(content))
	assert.Contains(t, stdout.String(), want+"Found 3 links in ")
	assert.Contains(t, stderr.String(), "interrupted.")
}

func TestMain_Run_WritesOutputFile(t *testing.T) {
	t.Parallel()

	site := newSite(t)
	path := filepath.Join(t.TempDir(), "links.txt")
	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"-o", path, "--progress-interval", "1h", site.URL + "/"}, &stdout, &stderr)

	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, site.URL+"\n"+site.URL+"/a\n"+site.URL+"/b\n"+site.URL+"/missing\n", string(content))
}
