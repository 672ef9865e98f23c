// Package snapshot keeps the last raw copy of each record source in memory,
// refreshed on a TTL or on demand.
package snapshot

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/metrics"
)

// FetchFunc loads a full snapshot of a record source.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Alerter is told when a source starts failing and when it recovers.
type Alerter interface {
	SourceFailed(ctx context.Context, source string, err error) error
	SourceRecovered(ctx context.Context, source string) error
}

// Result is a snapshot as handed to the reporting layer. Err is set when the
// latest fetch failed; Stale then says Rows come from an earlier successful
// fetch.
type Result[T any] struct {
	Rows      []T
	FetchedAt time.Time
	Err       error
	Cached    bool
	Stale     bool
}

// Unavailable reports whether the source failed and no earlier snapshot exists.
func (r Result[T]) Unavailable() bool {
	return r.Err != nil && !r.Stale
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics
	alerter Alerter
}

// WithTTL sets how long a snapshot is served before the next Get refetches it.
// A TTL <= 0 keeps a snapshot until Invalidate.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithAlerter(a Alerter) Option {
	return func(o *options) { o.alerter = a }
}

// Cache holds one source's snapshot. Fetches are serialized; concurrent
// callers wait for the fetch in flight and share its result.
type Cache[T any] struct {
	name  string
	fetch FetchFunc[T]
	opts  options

	mu        sync.Mutex
	rows      []T
	fetchedAt time.Time
	loaded    bool
	fresh     bool
	failing   bool
}

// New builds a cache for the named source.
func New[T any](name string, fetch FetchFunc[T], opts ...Option) *Cache[T] {
	o := options{ttl: 5 * time.Minute, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	o.logger = o.logger.Named("snapshot." + name)

	return &Cache[T]{name: name, fetch: fetch, opts: o}
}

// Name is the source name used in logs and metrics.
func (c *Cache[T]) Name() string { return c.name }

// Get returns the cached snapshot while it is fresh and fetches otherwise.
// A failed fetch is never cached: the next Get tries again.
func (c *Cache[T]) Get(ctx context.Context) Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fresh && !c.expired() {
		c.opts.metrics.CacheLookup(c.name, true)
		return Result[T]{Rows: c.rows, FetchedAt: c.fetchedAt, Cached: true}
	}
	c.opts.metrics.CacheLookup(c.name, false)
	return c.load(ctx)
}

// Refresh fetches a new snapshot regardless of its age.
func (c *Cache[T]) Refresh(ctx context.Context) Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Invalidate marks the snapshot stale so the next Get refetches it. The rows
// are kept as a fallback should that fetch fail.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.fresh = false
	c.mu.Unlock()
	c.opts.logger.Info("snapshot invalidated")
}

func (c *Cache[T]) expired() bool {
	if c.opts.ttl <= 0 {
		return false
	}
	return c.opts.now().Sub(c.fetchedAt) >= c.opts.ttl
}

// load must be called with c.mu held.
func (c *Cache[T]) load(ctx context.Context) Result[T] {
	started := c.opts.now()
	rows, err := c.fetch(ctx)
	took := c.opts.now().Sub(started)
	c.opts.metrics.ObserveFetch(c.name, took, err)

	if err != nil {
		c.opts.logger.Error("source fetch failed",
			zap.Error(err),
			zap.Duration("took", took),
			zap.Bool("serving_stale", c.loaded),
		)
		if !c.failing {
			c.failing = true
			c.alert(ctx, err)
		}
		c.fresh = false
		if c.loaded {
			return Result[T]{Rows: c.rows, FetchedAt: c.fetchedAt, Err: err, Stale: true}
		}
		return Result[T]{Err: err}
	}

	if c.failing {
		c.failing = false
		c.alert(ctx, nil)
	}

	if rows == nil {
		rows = []T{}
	}
	c.rows = rows
	c.fetchedAt = c.opts.now()
	c.loaded = true
	c.fresh = true

	c.opts.logger.Info("snapshot loaded", zap.Int("rows", len(rows)), zap.Duration("took", took))
	return Result[T]{Rows: rows, FetchedAt: c.fetchedAt}
}

func (c *Cache[T]) alert(ctx context.Context, cause error) {
	if c.opts.alerter == nil {
		return
	}

	var err error
	if cause != nil {
		err = c.opts.alerter.SourceFailed(ctx, c.name, cause)
	} else {
		err = c.opts.alerter.SourceRecovered(ctx, c.name)
	}
	if err != nil {
		c.opts.logger.Warn("alert delivery failed", zap.Error(err))
	}
}
