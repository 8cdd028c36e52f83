// Package search finds legal passages relevant to a query.
package search

import (
	"context"
	"fmt"
	"strings"

	"lawro-be/internal/repository/contract"
	"lawro-be/internal/repository/specification"
	"lawro-be/pkg/embedding"
	"lawro-be/pkg/store"
)

// Retriever returns up to k documents ordered by relevance.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]store.Document, error)
}

// VectorRetriever embeds the query and runs a cosine search over the legal corpus.
type VectorRetriever struct {
	embedder  embedding.EmbeddingProvider
	repo      contract.LegalChunkRepository
	threshold float64
	specs     []specification.Specification
}

func NewVectorRetriever(embedder embedding.EmbeddingProvider, repo contract.LegalChunkRepository, threshold float64, specs ...specification.Specification) *VectorRetriever {
	return &VectorRetriever{
		embedder:  embedder,
		repo:      repo,
		threshold: threshold,
		specs:     specs,
	}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query string, k int) ([]store.Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []store.Document{}, nil
	}

	vec, err := r.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := r.repo.SearchSimilarWithScore(ctx, vec, k, r.threshold, r.specs...)
	if err != nil {
		return nil, fmt.Errorf("search legal chunks: %w", err)
	}

	docs := make([]store.Document, 0, len(scored))
	for _, s := range scored {
		if s == nil || s.Chunk == nil {
			continue
		}
		docs = append(docs, store.Document{
			ID:       s.Chunk.Id.String(),
			Content:  s.Chunk.Content,
			Source:   sourceLabel(s.Chunk.Source, s.Chunk.Article),
			Score:    s.Similarity,
			Metadata: s.Chunk.Metadata,
		})
	}
	return docs, nil
}

func sourceLabel(source, article string) string {
	if article == "" {
		return source
	}
	return source + " " + article
}
