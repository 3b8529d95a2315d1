package search

import (
	"context"

	"ai-tutor-be/internal/entity"
)

// Searcher ranks stored chunks against a query. Implementations never fail: a backend
// error is logged and yields an empty result. Similarity values are only comparable
// within one implementation.
type Searcher interface {
	Search(ctx context.Context, query string, limit int, threshold float64) []*entity.ScoredChunk
	// DefaultThreshold is the cutoff callers use when none is configured.
	DefaultThreshold() float64
	Name() string
}

// firstN keeps the repository's ranking. Both backends order best first and settle ties
// themselves (term density for lexical search, then source and sourceId).
func firstN(results []*entity.ScoredChunk, limit int) []*entity.ScoredChunk {
	if len(results) > limit {
		return results[:limit]
	}
	return results
}

func empty() []*entity.ScoredChunk {
	return []*entity.ScoredChunk{}
}
