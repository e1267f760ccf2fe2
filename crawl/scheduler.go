package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/linksfinder"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the default size of the worker pool.
const DefaultWorkers = 10

// Handler performs one unit of work for a URL.
// It may call Submit on the scheduler running it.
type Handler func(ctx context.Context, url string)

// PanicFunc is called with the URL whose unit of work panicked.
type PanicFunc func(url string, err error)

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithWorkers sets the number of worker goroutines.
// Defaults to DefaultWorkers if not specified or not positive.
func WithWorkers(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithPanicHandler sets the function called when a unit of work panics.
func WithPanicHandler(fn PanicFunc) SchedulerOption {
	return func(s *Scheduler) {
		s.onPanic = fn
	}
}

// Scheduler runs units of work on a fixed pool of workers fed by an
// unbounded FIFO queue, so Submit never blocks on capacity.
//
// Every submitted unit is counted on the Tracker before it is queued and
// uncounted after its handler returns. A handler that submits more work does
// so before its own unit is uncounted, so the tracker cannot reach zero while
// work is still being produced.
type Scheduler struct {
	handler Handler
	tracker *Tracker
	workers int
	onPanic PanicFunc

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []string
	closed bool

	g errgroup.Group
}

// NewScheduler returns a Scheduler that runs handler for every submitted URL
// and counts outstanding work on tracker. Call Start to launch the workers.
func NewScheduler(tracker *Tracker, handler Handler, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		handler: handler,
		tracker: tracker,
		workers: DefaultWorkers,
	}
	s.cond = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Workers returns the size of the worker pool.
func (s *Scheduler) Workers() int {
	return s.workers
}

// Start launches the worker pool. ctx is passed to every handler call.
func (s *Scheduler) Start(ctx context.Context) {
	for range s.workers {
		s.g.Go(func() error {
			s.work(ctx)
			return nil
		})
	}
}

// Submit schedules a unit of work for url.
// It returns an error if the scheduler has been closed.
func (s *Scheduler) Submit(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return linksfinder.Errorf(linksfinder.EINVALID, "scheduler closed, cannot submit %s", url)
	}
	s.tracker.Add()
	s.queue = append(s.queue, url)
	s.cond.Signal()
	return nil
}

// Close stops accepting work and waits for the workers to drain the queue
// and exit.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()

	return s.g.Wait()
}

// work runs queued units until the scheduler is closed and the queue is empty.
func (s *Scheduler) work(ctx context.Context) {
	for {
		url, ok := s.next()
		if !ok {
			return
		}
		s.run(ctx, url)
	}
}

// next blocks until a URL is queued or the scheduler is closed.
// The bool result is false once the scheduler is closed and drained.
func (s *Scheduler) next() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) == 0 && !s.closed {
		s.cond.Wait()
	}
	if len(s.queue) == 0 {
		return "", false
	}
	url := s.queue[0]
	s.queue[0] = ""
	s.queue = s.queue[1:]
	return url, true
}

// run executes one unit of work. The tracker is decremented last, whatever
// the handler does.
func (s *Scheduler) run(ctx context.Context, url string) {
	defer s.tracker.Done()
	defer func() {
		if r := recover(); r != nil {
			if s.onPanic != nil {
				s.onPanic(url, linksfinder.Errorf(linksfinder.EINTERNAL, "panic: %v", r))
			}
		}
	}()

	s.handler(ctx, url)
}
