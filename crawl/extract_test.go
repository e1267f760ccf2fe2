package crawl_test

import (
	"testing"

	"github.com/fwojciec/linksfinder/crawl"
	"github.com/stretchr/testify/assert"
)

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("stops at query string and quote", func(t *testing.T) {
		t.Parallel()
		links := crawl.ExtractLinks(`see 'http://x.com/page?id=1' now`, "http://x.com")
		assert.Equal(t, []string{"http://x.com/page"}, links)
	})

	t.Run("accepts quote and space delimiters across lines", func(t *testing.T) {
		t.Parallel()
		text := "\"http://x.com/a\"\n http://x.com/b\n"
		links := crawl.ExtractLinks(text, "http://x.com")
		assert.Equal(t, []string{"http://x.com/a", "http://x.com/b"}, links)
	})

	t.Run("finds several links on one line", func(t *testing.T) {
		t.Parallel()
		text := `<a href="http://x.com/a">A</a> <a href='http://x.com/b'>B</a>`
		links := crawl.ExtractLinks(text, "http://x.com")
		assert.Equal(t, []string{"http://x.com/a", "http://x.com/b"}, links)
	})

	t.Run("matches at the start of a line", func(t *testing.T) {
		t.Parallel()
		text := "http://x.com/first\nhttp://x.com/second"
		links := crawl.ExtractLinks(text, "http://x.com")
		assert.Equal(t, []string{"http://x.com/first", "http://x.com/second"}, links)
	})

	t.Run("strips a single trailing slash", func(t *testing.T) {
		t.Parallel()
		links := crawl.ExtractLinks(`"http://x.com/a/" "http://x.com/b//"`, "http://x.com")
		assert.Equal(t, []string{"http://x.com/a", "http://x.com/b/"}, links)
	})

	t.Run("collapses duplicates after normalization", func(t *testing.T) {
		t.Parallel()
		text := `"http://x.com/a/" "http://x.com/a" 'http://x.com/a?x=1'`
		links := crawl.ExtractLinks(text, "http://x.com")
		assert.Equal(t, []string{"http://x.com/a"}, links)
	})

	t.Run("ignores prefix not preceded by a delimiter", func(t *testing.T) {
		t.Parallel()
		links := crawl.ExtractLinks(`href=http://x.com/a (http://x.com/b)`, "http://x.com")
		assert.Empty(t, links)
	})

	t.Run("ignores links with another prefix", func(t *testing.T) {
		t.Parallel()
		links := crawl.ExtractLinks(`"http://y.com/a" "https://x.com/b"`, "http://x.com")
		assert.Empty(t, links)
	})

	t.Run("requires at least one character after the prefix", func(t *testing.T) {
		t.Parallel()
		links := crawl.ExtractLinks(`"http://x.com" "http://x.com?q=1"`, "http://x.com")
		assert.Empty(t, links)
	})

	t.Run("treats prefix metacharacters literally", func(t *testing.T) {
		t.Parallel()
		links := crawl.ExtractLinks(`"http://xycom/a" "http://x.com/b"`, "http://x.com")
		assert.Equal(t, []string{"http://x.com/b"}, links)
	})

	t.Run("does not span line breaks", func(t *testing.T) {
		t.Parallel()
		links := crawl.ExtractLinks("\"http://x.com/a\r\nb\"", "http://x.com")
		assert.Equal(t, []string{"http://x.com/a"}, links)
	})

	t.Run("returns empty for empty and whitespace-only text", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.ExtractLinks("", "http://x.com"))
		assert.Empty(t, crawl.ExtractLinks(" \n\t\r\n ", "http://x.com"))
	})

	t.Run("returns empty for an empty prefix", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.ExtractLinks(`"http://x.com/a"`, ""))
	})
}

func TestExtractor_Prefix(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "https://example.com/docs", crawl.NewExtractor("https://example.com/docs").Prefix())
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://x.com/a", crawl.Normalize("http://x.com/a/"))
	assert.Equal(t, "http://x.com/a", crawl.Normalize("http://x.com/a"))
	assert.Equal(t, crawl.Normalize("http://x.com/a/"), crawl.Normalize("http://x.com/a"))
}
