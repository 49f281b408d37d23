package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/crawlboard/internal/crawler"
	"github.com/five82/crawlboard/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultPollTimeout  = 10 * time.Second
	maxBackoff          = 30 * time.Second
)

// PollerOptions tune a Poller. The zero value uses the defaults.
type PollerOptions struct {
	Interval time.Duration
	Timeout  time.Duration // Per-fetch deadline
	Logger   *zap.Logger
}

// Poller refreshes a store from a fetcher on a fixed cadence. Fetches never
// overlap: the next one is scheduled only after the previous one resolved,
// so ticks that would fire during a slow fetch are skipped.
type Poller struct {
	store    *state.Store
	fetcher  crawler.ResultsFetcher
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// NewPoller builds a Poller. It does nothing until Start.
func NewPoller(store *state.Store, fetcher crawler.ResultsFetcher, opts PollerOptions) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		store:    store,
		fetcher:  fetcher,
		interval: interval,
		timeout:  timeout,
		logger:   logger.Named("poller"),
		done:     make(chan struct{}),
	}
}

// Start launches the polling goroutine. The first fetch is issued right
// away and the loop runs until Stop or ctx cancellation. Calling Start more
// than once, or after Stop, has no effect.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil || p.stopped {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	// Any cancellation, Stop or the parent's, turns outstanding tickets stale.
	context.AfterFunc(loopCtx, p.store.Invalidate)
	go p.run(loopCtx)
}

// Stop cancels the loop and any fetch in flight. Once Stop returns the store
// receives no further writes from this poller.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	// Cancel before invalidating: a ticket issued after Invalidate then always
	// observes the cancelled context.
	if p.cancel != nil {
		p.cancel()
	} else {
		close(p.done)
	}
	p.store.Invalidate()
}

// Done is closed once the polling goroutine has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if p.refresh(ctx) {
			failures = 0
		} else {
			failures++
		}
		timer.Reset(calculateBackoff(failures, p.interval))
	}
}

// refresh runs one fetch under a fresh generation. It reports whether the
// fetch succeeded.
func (p *Poller) refresh(ctx context.Context) bool {
	gen := p.store.Issue()
	if ctx.Err() != nil {
		return true
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	results, err := p.fetcher.FetchResults(fetchCtx)
	if ctx.Err() != nil {
		return true
	}
	if err != nil {
		if p.store.Fail(gen, err) {
			p.logger.Warn("poll failed",
				zap.Uint64("generation", gen),
				zap.Error(err),
			)
		}
		return false
	}

	if p.store.Replace(gen, results) {
		p.logger.Debug("poll applied",
			zap.Uint64("generation", gen),
			zap.Int("results", len(results)),
		)
	} else {
		p.logger.Debug("poll discarded", zap.Uint64("generation", gen))
	}
	return true
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
