package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"lawro-be/internal/pkg/logger"
	"lawro-be/pkg/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRetriever struct {
	calls int
	docs  []store.Document
	err   error
}

func (c *countingRetriever) Retrieve(ctx context.Context, query string, k int) ([]store.Document, error) {
	c.calls++
	return c.docs, c.err
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCachedRetriever_HitAndMiss(t *testing.T) {
	mr, rdb := newRedis(t)
	next := &countingRetriever{docs: []store.Document{{Content: "제56조 연장근로 가산임금", Source: "근로기준법", Score: 0.8}}}
	c := NewCachedRetriever(next, rdb, time.Minute, logger.NewNopLogger())
	ctx := context.Background()

	first, err := c.Retrieve(ctx, "연장수당", 2)
	require.NoError(t, err)
	second, err := c.Retrieve(ctx, "연장수당", 2)
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(cacheKey("연장수당", 2)))

	_, err = c.Retrieve(ctx, "연장수당", 4)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls, "k is part of the key")

	mr.FastForward(2 * time.Minute)
	_, err = c.Retrieve(ctx, "연장수당", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
}

func TestCachedRetriever_ErrorsNotCached(t *testing.T) {
	mr, rdb := newRedis(t)
	next := &countingRetriever{err: errors.New("store down")}
	c := NewCachedRetriever(next, rdb, time.Minute, logger.NewNopLogger())

	_, err := c.Retrieve(context.Background(), "q", 2)
	assert.Error(t, err)
	assert.False(t, mr.Exists(cacheKey("q", 2)))
}

func TestCachedRetriever_RedisDown(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()

	next := &countingRetriever{docs: []store.Document{{Content: "x"}}}
	c := NewCachedRetriever(next, rdb, time.Minute, logger.NewNopLogger())

	docs, err := c.Retrieve(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, 1, next.calls)
}

func TestCachedRetriever_CorruptEntry(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set(cacheKey("q", 2), "{not json"))

	next := &countingRetriever{docs: []store.Document{{Content: "fresh"}}}
	docs, err := NewCachedRetriever(next, rdb, time.Minute, logger.NewNopLogger()).Retrieve(context.Background(), "q", 2)

	require.NoError(t, err)
	assert.Equal(t, "fresh", docs[0].Content)
}
