package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/jobs-dashboard/internal/cache"
	"github.com/jonesrussell/jobs-dashboard/internal/domain"
	"github.com/jonesrussell/jobs-dashboard/internal/logger"
)

// fakeBuilder counts rebuilds and returns a canned record set or error.
type fakeBuilder struct {
	builds  int
	records []domain.JobRecord
	err     error
}

func (b *fakeBuilder) BuildView(_ context.Context) ([]domain.JobRecord, error) {
	b.builds++
	if b.err != nil {
		return nil, b.err
	}
	return b.records, nil
}

func newTestCache(builder *fakeBuilder, maxAge time.Duration) *cache.ViewCache {
	return cache.New(builder, maxAge, logger.NewNop())
}

func TestGet_BuildsOnFirstRead(t *testing.T) {
	builder := &fakeBuilder{records: []domain.JobRecord{{Filename: "a.html"}}}
	c := newTestCache(builder, time.Hour)

	records, err := c.Get(context.Background(), false)

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, builder.builds)
}

func TestGet_ServesFromCacheWhileFresh(t *testing.T) {
	builder := &fakeBuilder{records: []domain.JobRecord{{Filename: "a.html"}}}
	c := newTestCache(builder, time.Hour)

	ctx := context.Background()
	_, err := c.Get(ctx, false)
	require.NoError(t, err)
	_, err = c.Get(ctx, false)
	require.NoError(t, err)
	_, err = c.Get(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, 1, builder.builds)
}

func TestGet_ForceRefreshAlwaysRebuilds(t *testing.T) {
	builder := &fakeBuilder{}
	c := newTestCache(builder, time.Hour)

	ctx := context.Background()
	_, err := c.Get(ctx, false)
	require.NoError(t, err)
	_, err = c.Get(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, 2, builder.builds)
}

func TestGet_RebuildAfterInvalidate(t *testing.T) {
	builder := &fakeBuilder{}
	c := newTestCache(builder, time.Hour)

	ctx := context.Background()
	_, err := c.Get(ctx, false)
	require.NoError(t, err)

	c.Invalidate()

	_, err = c.Get(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, 2, builder.builds)
}

func TestGet_RebuildAfterStalenessBound(t *testing.T) {
	builder := &fakeBuilder{}
	c := newTestCache(builder, time.Hour)

	current := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	c.SetNowFunc(func() time.Time { return current })

	ctx := context.Background()
	_, err := c.Get(ctx, false)
	require.NoError(t, err)

	// Within the bound: served from cache
	current = current.Add(59 * time.Minute)
	_, err = c.Get(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, builder.builds)

	// Past the bound: rebuilt without explicit invalidation
	current = current.Add(2 * time.Minute)
	_, err = c.Get(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, builder.builds)
}

func TestGet_BuildErrorPropagates(t *testing.T) {
	buildErr := errors.New("status store unavailable")
	builder := &fakeBuilder{err: buildErr}
	c := newTestCache(builder, time.Hour)

	_, err := c.Get(context.Background(), false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, buildErr))
}

func TestGet_FailedBuildLeavesCacheEmpty(t *testing.T) {
	builder := &fakeBuilder{err: errors.New("boom")}
	c := newTestCache(builder, time.Hour)

	ctx := context.Background()
	_, err := c.Get(ctx, false)
	require.Error(t, err)

	// Recovery: the next read tries again
	builder.err = nil
	builder.records = []domain.JobRecord{{Filename: "a.html"}}

	records, err := c.Get(ctx, false)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 2, builder.builds)
}

func TestGet_ConcurrentReadersShareOneRebuild(t *testing.T) {
	builder := &fakeBuilder{records: []domain.JobRecord{{Filename: "a.html"}}}
	c := newTestCache(builder, time.Hour)

	ctx := context.Background()
	done := make(chan error, 10)

	for i := 0; i < 10; i++ {
		go func() {
			_, err := c.Get(ctx, false)
			done <- err
		}()
	}

	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}

	assert.Equal(t, 1, builder.builds)
}
