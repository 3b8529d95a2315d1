package search

import (
	"context"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/utils"
)

// LexicalSearcher matches query terms against chunk text. Scores are rank metadata,
// not calibrated confidence; a zero score never counts as a match.
type LexicalSearcher struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewLexicalSearcher(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) *LexicalSearcher {
	return &LexicalSearcher{uowFactory: uowFactory, logger: log}
}

func (s *LexicalSearcher) Name() string { return "lexical" }

func (s *LexicalSearcher) DefaultThreshold() float64 { return 0 }

func (s *LexicalSearcher) Search(ctx context.Context, query string, limit int, threshold float64) []*entity.ScoredChunk {
	terms := utils.Terms(query)
	if limit <= 0 || len(terms) == 0 {
		return empty()
	}

	results, err := s.uowFactory.NewUnitOfWork(ctx).ChunkRepository().SearchLexical(ctx, terms, limit)
	if err != nil {
		s.logger.Warn("SEARCH", "Lexical search failed, continuing without documents", map[string]interface{}{
			"terms": terms,
			"error": err.Error(),
		})
		return empty()
	}

	filtered := empty()
	for _, r := range results {
		if r.Similarity > 0 && r.Similarity >= threshold {
			filtered = append(filtered, r)
		}
	}
	return firstN(filtered, limit)
}
