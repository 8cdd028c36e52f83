package mapper

import (
	"encoding/json"
	"time"

	"lawro-be/internal/entity"
	"lawro-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type LegalChunkMapper struct{}

func NewLegalChunkMapper() *LegalChunkMapper {
	return &LegalChunkMapper{}
}

func (m *LegalChunkMapper) ToEntity(c *model.LegalChunk) *entity.LegalChunk {
	if c == nil {
		return nil
	}

	var metadata map[string]any
	if len(c.Metadata) > 0 {
		// corrupt metadata is dropped rather than failing the whole search
		_ = json.Unmarshal(c.Metadata, &metadata)
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.LegalChunk{
		Id:             c.Id,
		Content:        c.Content,
		Source:         c.Source,
		SourceType:     c.SourceType,
		Article:        c.Article,
		ChunkIndex:     c.ChunkIndex,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		Metadata:       metadata,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *LegalChunkMapper) ToModel(e *entity.LegalChunk) *model.LegalChunk {
	if e == nil {
		return nil
	}

	var metadata datatypes.JSON
	if len(e.Metadata) > 0 {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.LegalChunk{
		Id:             e.Id,
		Content:        e.Content,
		Source:         e.Source,
		SourceType:     e.SourceType,
		Article:        e.Article,
		ChunkIndex:     e.ChunkIndex,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		Metadata:       metadata,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}
