package ingest

import (
	"context"
	"strings"
	"testing"

	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/apperror"
	"ai-tutor-be/pkg/rag/chunkstore"
	"ai-tutor-be/pkg/rag/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIngestor() (*Ingestor, unitofwork.RepositoryFactory) {
	factory := unitofwork.NewMemoryRepositoryFactory()
	store := chunkstore.NewStore(factory, nil, logger.NewNopLogger())
	return NewIngestor(store, 10, 0, nil, logger.NewNopLogger()), factory
}

func TestIngest_Validation(t *testing.T) {
	in, _ := newIngestor()

	_, err := in.Ingest(context.Background(), nil)
	assert.True(t, apperror.IsValidation(err))

	_, err = in.Ingest(context.Background(), []Record{{Source: "docs", SourceId: "1", Text: "  "}})
	assert.True(t, apperror.IsValidation(err))
}

func TestIngest_ThenSearch(t *testing.T) {
	ctx := context.Background()
	in, factory := newIngestor()

	res, err := in.Ingest(ctx, []Record{
		{Source: "docs", SourceId: "1", Text: "HTML is for structure."},
		{Source: "docs", SourceId: "2", Text: "CSS is for style."},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Chunks)

	s := search.NewLexicalSearcher(factory, logger.NewNopLogger())
	results := s.Search(ctx, "How do I style a page?", 1, s.DefaultThreshold())
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].Chunk.SourceId)
}

func TestIngest_ReingestPrunesStaleChunks(t *testing.T) {
	ctx := context.Background()
	in, factory := newIngestor()
	repo := factory.NewUnitOfWork(ctx).ChunkRepository()

	// threshold is 40 characters, so this splits
	long := strings.Repeat("Flexbox lays items out in one direction. ", 4)
	res, err := in.Ingest(ctx, []Record{{Source: "guide", SourceId: "flex", Text: long}})
	require.NoError(t, err)
	require.Greater(t, res.Chunks, 1)

	first, _ := repo.FindByKey(ctx, "guide", "flex#0")
	require.NotNil(t, first)

	res, err = in.Ingest(ctx, []Record{{Source: "guide", SourceId: "flex", Text: "Short now."}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Chunks)
	assert.Greater(t, res.Pruned, int64(0))

	left, _ := repo.FindBySource(ctx, "guide")
	require.Len(t, left, 1)
	assert.Equal(t, "flex", left[0].SourceId)
	assert.Equal(t, "Short now.", left[0].Text)
}

func TestIngest_DuplicateRecordLastWins(t *testing.T) {
	ctx := context.Background()
	in, factory := newIngestor()

	res, err := in.Ingest(ctx, []Record{
		{Source: "docs", SourceId: "a", Text: "Old."},
		{Source: "docs", SourceId: "a", Text: "New."},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Records)

	got, _ := factory.NewUnitOfWork(ctx).ChunkRepository().FindByKey(ctx, "docs", "a")
	assert.Equal(t, "New.", got.Text)
}

func TestChunkKey(t *testing.T) {
	assert.Equal(t, "page", ChunkKey("page", 0, 1))
	assert.Equal(t, "page#2", ChunkKey("page", 2, 3))
}
