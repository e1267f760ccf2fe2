package crawl

import (
	"regexp"
	"strings"
)

// A link starts right after a quote, a space or a line start and runs until
// a query string, a quote or whitespace.
const (
	linkDelimiters = `(?:^|['" \r])`
	linkBody       = `[^?'" \r\n]+`
)

// Extractor finds links sharing a fixed prefix in page text.
// It matches text patterns, not HTML: a link is any run of characters that
// starts with the prefix right after a quote, a space or a line start.
// It is safe for concurrent use.
type Extractor struct {
	prefix string
	re     *regexp.Regexp
}

// NewExtractor returns an Extractor for links beginning with prefix.
// The prefix is matched literally.
func NewExtractor(prefix string) *Extractor {
	// RE2 has no lookbehind, so the leading delimiter is matched and the
	// link itself is captured.
	pattern := linkDelimiters + `(` + regexp.QuoteMeta(prefix) + linkBody + `)`
	return &Extractor{
		prefix: prefix,
		re:     regexp.MustCompile(pattern),
	}
}

// Prefix returns the prefix links must start with.
func (e *Extractor) Prefix() string {
	return e.prefix
}

// Extract returns the normalized links found in text, each once, in the order
// they first appear. Lines are matched independently.
func (e *Extractor) Extract(text string) []string {
	if e.prefix == "" {
		return nil
	}

	var links []string
	seen := make(map[string]struct{})
	for line := range strings.Lines(text) {
		line = strings.TrimSuffix(line, "\n")
		if !strings.Contains(line, e.prefix) {
			continue
		}
		for _, m := range e.re.FindAllStringSubmatch(line, -1) {
			link := Normalize(m[1])
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			links = append(links, link)
		}
	}
	return links
}

// ExtractLinks is a convenience wrapper around NewExtractor(prefix).Extract(text).
func ExtractLinks(text, prefix string) []string {
	return NewExtractor(prefix).Extract(text)
}

// Normalize strips a single trailing path separator.
func Normalize(link string) string {
	return strings.TrimSuffix(link, "/")
}
