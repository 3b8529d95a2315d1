package search

import (
	"context"
	"errors"
	"testing"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/contract"
	"ai-tutor-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, factory unitofwork.RepositoryFactory, chunks ...*entity.Chunk) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, factory.NewUnitOfWork(ctx).ChunkRepository().UpsertBulk(ctx, chunks))
}

func TestLexicalSearcher_StyleQuery(t *testing.T) {
	factory := unitofwork.NewMemoryRepositoryFactory()
	seed(t, factory,
		&entity.Chunk{Source: "docs", SourceId: "1", Text: "HTML is for structure."},
		&entity.Chunk{Source: "docs", SourceId: "2", Text: "CSS is for style."},
	)
	s := NewLexicalSearcher(factory, logger.NewNopLogger())

	results := s.Search(context.Background(), "How do I style a page?", 1, s.DefaultThreshold())
	require.Len(t, results, 1)
	assert.Equal(t, "docs", results[0].Chunk.Source)
	assert.Equal(t, "2", results[0].Chunk.SourceId)
}

func TestLexicalSearcher_Properties(t *testing.T) {
	factory := unitofwork.NewMemoryRepositoryFactory()
	seed(t, factory,
		&entity.Chunk{Source: "b", SourceId: "1", Text: "grid layout"},
		&entity.Chunk{Source: "a", SourceId: "1", Text: "grid layout"},
		&entity.Chunk{Source: "a", SourceId: "2", Text: "grid"},
		&entity.Chunk{Source: "a", SourceId: "3", Text: "nothing relevant"},
	)
	s := NewLexicalSearcher(factory, logger.NewNopLogger())
	ctx := context.Background()

	tests := []struct {
		name      string
		query     string
		limit     int
		threshold float64
		wantKeys  []string
	}{
		{"ordered with tie break", "grid layout", 10, 0, []string{"a/1", "b/1", "a/2"}},
		{"limit", "grid layout", 2, 0, []string{"a/1", "b/1"}},
		{"threshold", "grid layout", 10, 0.75, []string{"a/1", "b/1"}},
		{"stopwords only", "how do I", 10, 0, nil},
		{"zero limit", "grid", 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := s.Search(ctx, tt.query, tt.limit, tt.threshold)
			var keys []string
			for i, r := range results {
				keys = append(keys, r.Chunk.Source+"/"+r.Chunk.SourceId)
				if i > 0 {
					assert.LessOrEqual(t, r.Similarity, results[i-1].Similarity)
				}
			}
			assert.Equal(t, tt.wantKeys, keys)
			assert.NotNil(t, results)
		})
	}
}

func TestLexicalSearcher_DensityBreaksCoverageTies(t *testing.T) {
	factory := unitofwork.NewMemoryRepositoryFactory()
	seed(t, factory,
		&entity.Chunk{Source: "a", SourceId: "1", Text: "Grid layout basics explained for beginners."},
		&entity.Chunk{Source: "b", SourceId: "1", Text: "Grid grid."},
	)
	s := NewLexicalSearcher(factory, logger.NewNopLogger())

	results := s.Search(context.Background(), "grid", 5, 0)
	require.Len(t, results, 2)
	assert.Equal(t, results[0].Similarity, results[1].Similarity)
	assert.Equal(t, "b", results[0].Chunk.Source)
	assert.Equal(t, "a", results[1].Chunk.Source)
}

type failingFactory struct{}

func (failingFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return failingUoW{unitofwork.NewMemoryRepositoryFactory().NewUnitOfWork(ctx)}
}

type failingUoW struct{ unitofwork.UnitOfWork }

func (failingUoW) ChunkRepository() contract.ChunkRepository { return failingRepo{} }

type failingRepo struct{ contract.ChunkRepository }

func (failingRepo) SearchLexical(ctx context.Context, terms []string, limit int) ([]*entity.ScoredChunk, error) {
	return nil, errors.New("connection refused")
}

func (failingRepo) SearchSimilarWithScore(ctx context.Context, vector []float32, limit int, threshold float64) ([]*entity.ScoredChunk, error) {
	return nil, errors.New("connection refused")
}

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s stubEmbedder) Name() string { return "stub" }

func (s stubEmbedder) Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return [][]float32{s.vector}, nil
}

func TestSearchers_DegradeToEmpty(t *testing.T) {
	ctx := context.Background()

	lexical := NewLexicalSearcher(failingFactory{}, logger.NewNopLogger())
	assert.Empty(t, lexical.Search(ctx, "grid", 5, 0))

	vector := NewVectorSearcher(failingFactory{}, stubEmbedder{vector: []float32{1, 0}}, logger.NewNopLogger())
	assert.Empty(t, vector.Search(ctx, "grid", 5, 0.7))

	noEmbed := NewVectorSearcher(unitofwork.NewMemoryRepositoryFactory(), stubEmbedder{err: errors.New("down")}, logger.NewNopLogger())
	assert.Empty(t, noEmbed.Search(ctx, "grid", 5, 0.7))
}

func TestVectorSearcher_Search(t *testing.T) {
	factory := unitofwork.NewMemoryRepositoryFactory()
	seed(t, factory,
		&entity.Chunk{Source: "v", SourceId: "near", Text: "n", Vector: []float32{0.9, 0.1}},
		&entity.Chunk{Source: "v", SourceId: "far", Text: "f", Vector: []float32{0, 1}},
	)
	s := NewVectorSearcher(factory, stubEmbedder{vector: []float32{1, 0}}, logger.NewNopLogger())

	results := s.Search(context.Background(), "anything", 5, s.DefaultThreshold())
	require.Len(t, results, 1)
	assert.Equal(t, "near", results[0].Chunk.SourceId)
	assert.Equal(t, "vector", s.Name())
}
