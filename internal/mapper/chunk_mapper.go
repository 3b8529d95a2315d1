package mapper

import (
	"time"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToEntity(c *model.Chunk) *entity.Chunk {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	var vector []float32
	if c.EmbeddingValue != nil {
		vector = c.EmbeddingValue.Slice()
	}

	return &entity.Chunk{
		Id:        c.Id,
		Source:    c.Source,
		SourceId:  c.SourceId,
		Text:      c.Text,
		Vector:    vector,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ChunkMapper) ToModel(c *entity.Chunk) *model.Chunk {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	var vector *pgvector.Vector
	if len(c.Vector) > 0 {
		v := pgvector.NewVector(c.Vector)
		vector = &v
	}

	return &model.Chunk{
		Id:             c.Id,
		Source:         c.Source,
		SourceId:       c.SourceId,
		Text:           c.Text,
		EmbeddingValue: vector,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *ChunkMapper) ToEntities(chunks []*model.Chunk) []*entity.Chunk {
	entities := make([]*entity.Chunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *ChunkMapper) ToModels(chunks []*entity.Chunk) []*model.Chunk {
	models := make([]*model.Chunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
