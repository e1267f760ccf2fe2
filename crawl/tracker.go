package crawl

import (
	"context"
	"sync"
)

// Tracker counts outstanding units of work and signals when the count
// returns to zero.
//
// Unlike sync.WaitGroup it exposes the current count, which the crawler
// reports as progress. Once the count has dropped back to zero the tracker is
// idle for good: a crawl cannot restart after quiescence, so a later Add panics.
type Tracker struct {
	mu      sync.Mutex
	n       int
	started bool
	idle    chan struct{}
}

// NewTracker returns a Tracker with no outstanding work.
func NewTracker() *Tracker {
	return &Tracker{idle: make(chan struct{})}
}

// Add records one newly scheduled unit of work.
func (t *Tracker) Add() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started && t.n == 0 {
		panic("crawl: Tracker.Add called after quiescence")
	}
	t.started = true
	t.n++
}

// Done records the completion of one unit of work.
func (t *Tracker) Done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.n == 0 {
		panic("crawl: negative Tracker counter")
	}
	t.n--
	if t.n == 0 {
		close(t.idle)
	}
}

// Count returns the number of outstanding units of work.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

// Idle returns a channel that is closed once every unit of work added so far
// has completed. It never closes if Add is never called.
func (t *Tracker) Idle() <-chan struct{} {
	return t.idle
}

// Wait blocks until the tracker is idle or ctx is done.
func (t *Tracker) Wait(ctx context.Context) error {
	select {
	case <-t.idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
