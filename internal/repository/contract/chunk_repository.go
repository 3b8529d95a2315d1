package contract

import (
	"context"

	"ai-tutor-be/internal/entity"
)

type ChunkRepository interface {
	// UpsertBulk writes every chunk or none. Existing (source, sourceId) keys are overwritten.
	UpsertBulk(ctx context.Context, chunks []*entity.Chunk) error
	FindByKey(ctx context.Context, source, sourceId string) (*entity.Chunk, error)
	FindBySource(ctx context.Context, source string) ([]*entity.Chunk, error)
	Count(ctx context.Context) (int64, error)
	// DeleteBySourceIdPrefix removes chunks of a source whose id starts with prefix, except the ids in keep.
	DeleteBySourceIdPrefix(ctx context.Context, source, prefix string, keep []string) (int64, error)
	DeleteByKeys(ctx context.Context, source string, sourceIds []string) (int64, error)

	// SearchSimilarWithScore returns chunks by cosine similarity, filtered by threshold, best first.
	SearchSimilarWithScore(ctx context.Context, vector []float32, limit int, threshold float64) ([]*entity.ScoredChunk, error)
	// SearchLexical ranks chunks by how well they match the (already normalized) query terms, best first.
	SearchLexical(ctx context.Context, terms []string, limit int) ([]*entity.ScoredChunk, error)
}
