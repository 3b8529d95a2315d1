package search

import (
	"context"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/embedding"
)

const DefaultVectorThreshold = 0.7

// VectorSearcher ranks by cosine similarity between the query embedding and stored vectors.
type VectorSearcher struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
	logger     logger.ILogger
}

func NewVectorSearcher(uowFactory unitofwork.RepositoryFactory, embedder embedding.EmbeddingProvider, log logger.ILogger) *VectorSearcher {
	return &VectorSearcher{uowFactory: uowFactory, embedder: embedder, logger: log}
}

func (s *VectorSearcher) Name() string { return "vector" }

func (s *VectorSearcher) DefaultThreshold() float64 { return DefaultVectorThreshold }

func (s *VectorSearcher) Search(ctx context.Context, query string, limit int, threshold float64) []*entity.ScoredChunk {
	if limit <= 0 || query == "" {
		return empty()
	}

	vectors, err := s.embedder.Embed(ctx, []string{query}, embedding.TaskRetrievalQuery)
	if err == nil {
		err = embedding.CheckCount(s.embedder.Name(), 1, vectors)
	}
	if err != nil {
		s.logger.Warn("SEARCH", "Query embedding failed, continuing without documents", map[string]interface{}{
			"provider": s.embedder.Name(),
			"error":    err.Error(),
		})
		return empty()
	}

	results, err := s.uowFactory.NewUnitOfWork(ctx).ChunkRepository().SearchSimilarWithScore(ctx, vectors[0], limit, threshold)
	if err != nil {
		s.logger.Warn("SEARCH", "Vector search failed, continuing without documents", map[string]interface{}{
			"error": err.Error(),
		})
		return empty()
	}
	return firstN(results, limit)
}
