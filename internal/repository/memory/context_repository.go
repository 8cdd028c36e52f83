package memory

import (
	"time"

	"lawro-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// ContextRepository keeps the documents retrieved for each session's latest turn.
type ContextRepository struct {
	cache *cache.Cache
}

func NewContextRepository(ttl, cleanupInterval time.Duration) *ContextRepository {
	return &ContextRepository{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (r *ContextRepository) Record(sessionID string, docs []store.Document) {
	cp := make([]store.Document, len(docs))
	copy(cp, docs)
	r.cache.Set(sessionID, cp, cache.DefaultExpiration)
}

func (r *ContextRepository) Get(sessionID string) ([]store.Document, bool) {
	if x, found := r.cache.Get(sessionID); found {
		docs := x.([]store.Document)
		cp := make([]store.Document, len(docs))
		copy(cp, docs)
		return cp, true
	}
	return nil, false
}

func (r *ContextRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
