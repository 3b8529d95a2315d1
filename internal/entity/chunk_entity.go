package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chunk is the retrieval unit. (Source, SourceId) is its identity.
type Chunk struct {
	Id        uuid.UUID
	Source    string
	SourceId  string
	Text      string
	Vector    []float32
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Key returns the identity key used by the stores.
func (c *Chunk) Key() string {
	return ChunkKey(c.Source, c.SourceId)
}

func ChunkKey(source, sourceId string) string {
	return source + "\x00" + sourceId
}

// ScoredChunk pairs a chunk with the similarity reported by the active search strategy.
// Scores from different strategies are not comparable.
type ScoredChunk struct {
	Chunk      *Chunk
	Similarity float64
}
