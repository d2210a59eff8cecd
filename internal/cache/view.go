// Package cache holds the most recently reconciled job view behind an
// atomically swapped reference with a staleness bound.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonesrussell/jobs-dashboard/internal/domain"
	"github.com/jonesrussell/jobs-dashboard/internal/logger"
	"github.com/jonesrussell/jobs-dashboard/internal/metrics"
)

// Builder produces a fresh reconciled record set.
type Builder interface {
	BuildView(ctx context.Context) ([]domain.JobRecord, error)
}

// view is one immutable cached snapshot. Readers see either the whole old
// snapshot or the whole new one, never a partial rebuild.
type view struct {
	records   []domain.JobRecord
	createdAt time.Time
}

// ViewCache is the process-wide singleton for the reconciled job view.
// It is empty at startup, populated on first read, and cleared by Invalidate
// or by exceeding the staleness bound.
type ViewCache struct {
	builder Builder
	maxAge  time.Duration
	now     func() time.Time
	log     logger.Logger

	// rebuildMu serializes rebuilds; current is swapped atomically so readers
	// never block on a rebuild in progress.
	rebuildMu sync.Mutex
	current   atomic.Pointer[view]
}

// New creates a ViewCache over the given builder with the given staleness bound.
func New(builder Builder, maxAge time.Duration, log logger.Logger) *ViewCache {
	return &ViewCache{
		builder: builder,
		maxAge:  maxAge,
		now:     time.Now,
		log:     log,
	}
}

// Get returns the cached record set, rebuilding first when the cache is empty,
// stale, or force is set. The returned slice is shared read-only across
// requests; callers must not mutate it.
func (c *ViewCache) Get(ctx context.Context, force bool) ([]domain.JobRecord, error) {
	if !force {
		if v := c.current.Load(); v != nil && !c.stale(v) {
			metrics.CacheHits.Inc()
			return v.records, nil
		}
	}

	return c.rebuild(ctx, force)
}

// Invalidate clears the cached view. The next read rebuilds unconditionally.
// Must be called after every successful status update.
func (c *ViewCache) Invalidate() {
	c.current.Store(nil)
	c.log.Debug("Job view cache invalidated")
}

// rebuild builds a fresh view and swaps it in. Concurrent cache misses are
// serialized; a waiter that finds a fresh view after acquiring the lock reuses
// it instead of rebuilding again.
func (c *ViewCache) rebuild(ctx context.Context, force bool) ([]domain.JobRecord, error) {
	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	if !force {
		if v := c.current.Load(); v != nil && !c.stale(v) {
			return v.records, nil
		}
	}

	records, err := c.builder.BuildView(ctx)
	if err != nil {
		return nil, err
	}

	c.current.Store(&view{records: records, createdAt: c.now()})
	metrics.ViewRebuilds.Inc()

	return records, nil
}

// stale reports whether the snapshot has exceeded the staleness bound.
func (c *ViewCache) stale(v *view) bool {
	return c.now().Sub(v.createdAt) > c.maxAge
}
