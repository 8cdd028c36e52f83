package contract

import (
	"context"

	"lawro-be/internal/entity"
	"lawro-be/internal/repository/specification"
)

// ScoredLegalChunk wraps LegalChunk with its similarity score
type ScoredLegalChunk struct {
	Chunk      *entity.LegalChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type LegalChunkRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LegalChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns the nearest chunks by cosine similarity, filtered by threshold
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, specs ...specification.Specification) ([]*ScoredLegalChunk, error)
}
