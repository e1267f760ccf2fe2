package crawl

import (
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// seenShards is the number of independently locked partitions of a SeenSet.
const seenShards = 32

// SeenSet is the set of URLs claimed by a crawl.
// It is safe for concurrent use by multiple goroutines; each claim locks only
// the shard its URL hashes to.
type SeenSet struct {
	shards [seenShards]seenShard
}

type seenShard struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewSeenSet returns an empty SeenSet.
func NewSeenSet() *SeenSet {
	s := &SeenSet{}
	for i := range s.shards {
		s.shards[i].urls = make(map[string]struct{})
	}
	return s
}

// Claim adds url to the set.
// It returns true if url was absent, in which case the caller owns scheduling
// it. Of any number of concurrent claims on the same URL exactly one returns true.
func (s *SeenSet) Claim(url string) bool {
	shard := s.shard(url)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, ok := shard.urls[url]; ok {
		return false
	}
	shard.urls[url] = struct{}{}
	return true
}

// Contains returns true if url has been claimed.
func (s *SeenSet) Contains(url string) bool {
	shard := s.shard(url)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	_, ok := shard.urls[url]
	return ok
}

// Len returns the number of claimed URLs.
func (s *SeenSet) Len() int {
	n := 0
	for i := range s.shards {
		shard := &s.shards[i]
		shard.mu.Lock()
		n += len(shard.urls)
		shard.mu.Unlock()
	}
	return n
}

// Snapshot returns all claimed URLs in ascending order.
func (s *SeenSet) Snapshot() []string {
	urls := make([]string, 0, s.Len())
	for i := range s.shards {
		shard := &s.shards[i]
		shard.mu.Lock()
		for url := range shard.urls {
			urls = append(urls, url)
		}
		shard.mu.Unlock()
	}
	slices.Sort(urls)
	return urls
}

func (s *SeenSet) shard(url string) *seenShard {
	return &s.shards[xxhash.Sum64String(url)%seenShards]
}
