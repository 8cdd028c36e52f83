package implementation

import (
	"context"
	"errors"

	"lawro-be/internal/entity"
	"lawro-be/internal/mapper"
	"lawro-be/internal/model"
	"lawro-be/internal/repository/contract"
	"lawro-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

const defaultSearchLimit = 4

type LegalChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LegalChunkMapper
}

func NewLegalChunkRepository(db *gorm.DB) contract.LegalChunkRepository {
	return &LegalChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewLegalChunkMapper(),
	}
}

func (r *LegalChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LegalChunkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LegalChunk, error) {
	var m model.LegalChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LegalChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.LegalChunk{}).Count(&count).Error
	return count, err
}

func (r *LegalChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, specs ...specification.Specification) ([]*contract.ScoredLegalChunk, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	// pgvector <=> is cosine distance, so similarity = 1 - distance
	type result struct {
		model.LegalChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table(model.LegalChunk{}.TableName()).
		Select("legal_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold)
	query = r.applySpecifications(query, specs...)

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredLegalChunk, len(results))
	for i := range results {
		scored[i] = &contract.ScoredLegalChunk{
			Chunk:      r.mapper.ToEntity(&results[i].LegalChunk),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}
