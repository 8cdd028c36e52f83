package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lawro-be/internal/pkg/logger"
	"lawro-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "lawro:retrieval:"

// CachedRetriever memoizes retrieval results in Redis. Redis failures fall through to the wrapped retriever.
type CachedRetriever struct {
	next   Retriever
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logger.ILogger
}

func NewCachedRetriever(next Retriever, rdb redis.Cmdable, ttl time.Duration, log logger.ILogger) *CachedRetriever {
	return &CachedRetriever{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: log,
	}
}

func (c *CachedRetriever) Retrieve(ctx context.Context, query string, k int) ([]store.Document, error) {
	key := cacheKey(query, k)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var docs []store.Document
		if jsonErr := json.Unmarshal(raw, &docs); jsonErr == nil {
			return docs, nil
		}
		c.logger.Warn("RETRIEVAL_CACHE", "Dropping unreadable cache entry", map[string]interface{}{"key": key})
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("RETRIEVAL_CACHE", "Cache read failed", map[string]interface{}{"error": err.Error()})
	}

	docs, err := c.next.Retrieve(ctx, query, k)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(docs)
	if err != nil {
		return docs, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("RETRIEVAL_CACHE", "Cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return docs, nil
}

func cacheKey(query string, k int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", k, query)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
