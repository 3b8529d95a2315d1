package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Chunk struct {
	Id             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Source         string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_chunks_source_key"`
	SourceId       string           `gorm:"type:varchar(255);not null;uniqueIndex:idx_chunks_source_key"`
	Text           string           `gorm:"type:text;not null"`
	EmbeddingValue *pgvector.Vector `gorm:"type:vector(768)"` // nil when no embedder is wired
	CreatedAt      time.Time        `gorm:"autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime"`
}

func (Chunk) TableName() string {
	return "chunks"
}
