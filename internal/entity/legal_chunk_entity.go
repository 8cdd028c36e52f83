package entity

import (
	"time"

	"github.com/google/uuid"
)

// LegalChunk is one embedded passage of the statute and precedent corpus.
type LegalChunk struct {
	Id             uuid.UUID
	Content        string
	Source         string
	SourceType     string // "statute", "decree", "precedent"
	Article        string
	ChunkIndex     int
	EmbeddingValue []float32
	Metadata       map[string]any
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
