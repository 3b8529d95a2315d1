package memory

import (
	"context"
	"testing"

	"ai-tutor-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkRepository_UpsertOverwritesByKey(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkRepository()

	require.NoError(t, repo.UpsertBulk(ctx, []*entity.Chunk{
		{Source: "mdn", SourceId: "flexbox", Text: "old text"},
		{Source: "mdn", SourceId: "grid", Text: "grid text"},
	}))
	first, err := repo.FindByKey(ctx, "mdn", "flexbox")
	require.NoError(t, err)
	require.NotNil(t, first)

	require.NoError(t, repo.UpsertBulk(ctx, []*entity.Chunk{
		{Source: "mdn", SourceId: "flexbox", Text: "new text"},
	}))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := repo.FindByKey(ctx, "mdn", "flexbox")
	require.NoError(t, err)
	assert.Equal(t, "new text", got.Text)
	assert.Equal(t, first.Id, got.Id)
	assert.NotNil(t, got.UpdatedAt)

	missing, err := repo.FindByKey(ctx, "mdn", "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestChunkRepository_EmptyUpsertIsNoop(t *testing.T) {
	repo := NewChunkRepository()
	require.NoError(t, repo.UpsertBulk(context.Background(), nil))

	count, _ := repo.Count(context.Background())
	assert.Zero(t, count)
}

func TestChunkRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkRepository()
	in := &entity.Chunk{Source: "s", SourceId: "1", Text: "original", Vector: []float32{1, 0}}
	require.NoError(t, repo.UpsertBulk(ctx, []*entity.Chunk{in}))

	in.Text = "mutated"
	in.Vector[0] = 9

	got, _ := repo.FindByKey(ctx, "s", "1")
	assert.Equal(t, "original", got.Text)
	assert.Equal(t, float32(1), got.Vector[0])
}

func TestChunkRepository_SearchLexical(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkRepository()
	require.NoError(t, repo.UpsertBulk(ctx, []*entity.Chunk{
		{Source: "docs", SourceId: "a", Text: "Flexbox aligns items along a main axis."},
		{Source: "docs", SourceId: "b", Text: "Grid places items in rows and columns. Grid areas name regions."},
		{Source: "docs", SourceId: "c", Text: "Closures capture variables in JavaScript."},
		{Source: "docs", SourceId: "d", Text: "Grid and flexbox both align items."},
	}))

	t.Run("ranks by coverage", func(t *testing.T) {
		res, err := repo.SearchLexical(ctx, []string{"grid", "flexbox"}, 10)
		require.NoError(t, err)
		require.Len(t, res, 3)
		assert.Equal(t, "d", res[0].Chunk.SourceId)
		assert.InDelta(t, 1.0, res[0].Similarity, 1e-9)
		for i := 1; i < len(res); i++ {
			assert.LessOrEqual(t, res[i].Similarity, res[i-1].Similarity)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		res, err := repo.SearchLexical(ctx, []string{"items"}, 2)
		require.NoError(t, err)
		assert.Len(t, res, 2)
	})

	t.Run("no match", func(t *testing.T) {
		res, err := repo.SearchLexical(ctx, []string{"kubernetes"}, 5)
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("deterministic", func(t *testing.T) {
		a, _ := repo.SearchLexical(ctx, []string{"items"}, 10)
		b, _ := repo.SearchLexical(ctx, []string{"items"}, 10)
		require.Equal(t, len(a), len(b))
		for i := range a {
			assert.Equal(t, a[i].Chunk.Key(), b[i].Chunk.Key())
		}
	})
}

func TestChunkRepository_SearchSimilarWithScore(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkRepository()
	require.NoError(t, repo.UpsertBulk(ctx, []*entity.Chunk{
		{Source: "v", SourceId: "x", Text: "x", Vector: []float32{1, 0}},
		{Source: "v", SourceId: "y", Text: "y", Vector: []float32{0, 1}},
		{Source: "v", SourceId: "xy", Text: "xy", Vector: []float32{1, 1}},
		{Source: "v", SourceId: "none", Text: "no vector"},
	}))

	res, err := repo.SearchSimilarWithScore(ctx, []float32{1, 0}, 10, 0.5)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "x", res[0].Chunk.SourceId)
	assert.InDelta(t, 1.0, res[0].Similarity, 1e-6)
	assert.Equal(t, "xy", res[1].Chunk.SourceId)

	res, err = repo.SearchSimilarWithScore(ctx, []float32{1, 0}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestChunkRepository_DeleteBySourceIdPrefix(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkRepository()
	require.NoError(t, repo.UpsertBulk(ctx, []*entity.Chunk{
		{Source: "s", SourceId: "page#0", Text: "0"},
		{Source: "s", SourceId: "page#1", Text: "1"},
		{Source: "s", SourceId: "page#2", Text: "2"},
		{Source: "s", SourceId: "other", Text: "o"},
		{Source: "t", SourceId: "page#2", Text: "t2"},
	}))

	deleted, err := repo.DeleteBySourceIdPrefix(ctx, "s", "page#", []string{"page#0"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	left, _ := repo.FindBySource(ctx, "s")
	require.Len(t, left, 2)
	assert.Equal(t, "other", left[0].SourceId)
	assert.Equal(t, "page#0", left[1].SourceId)

	other, _ := repo.FindByKey(ctx, "t", "page#2")
	assert.NotNil(t, other)
}

func TestChunkRepository_DeleteByKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkRepository()
	require.NoError(t, repo.UpsertBulk(ctx, []*entity.Chunk{
		{Source: "s", SourceId: "page", Text: "whole"},
		{Source: "s", SourceId: "page10", Text: "other page"},
	}))

	deleted, err := repo.DeleteByKeys(ctx, "s", []string{"page", "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	left, _ := repo.FindBySource(ctx, "s")
	require.Len(t, left, 1)
	assert.Equal(t, "page10", left[0].SourceId)
}
