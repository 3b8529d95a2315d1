package chunkstore

import (
	"context"
	"errors"
	"testing"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	calls int
	err   error
	short bool
}

func (f *fakeEmbedder) Name() string { return "fake" }

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 1}
	}
	if f.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func newStore(embedder *fakeEmbedder) (*Store, unitofwork.RepositoryFactory) {
	factory := unitofwork.NewMemoryRepositoryFactory()
	if embedder == nil {
		return NewStore(factory, nil, logger.NewNopLogger()), factory
	}
	return NewStore(factory, embedder, logger.NewNopLogger()), factory
}

func TestStore_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, factory := newStore(nil)

	require.NoError(t, store.Upsert(ctx, []entity.Chunk{{Source: "docs", SourceId: "1", Text: "first"}}))
	require.NoError(t, store.Upsert(ctx, []entity.Chunk{{Source: "docs", SourceId: "1", Text: "second"}}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, _ := factory.NewUnitOfWork(ctx).ChunkRepository().FindByKey(ctx, "docs", "1")
	assert.Equal(t, "second", got.Text)
}

func TestStore_EmptyBatchSkipsEmbedder(t *testing.T) {
	embedder := &fakeEmbedder{}
	store, _ := newStore(embedder)

	require.NoError(t, store.Upsert(context.Background(), nil))
	assert.Zero(t, embedder.calls)
}

func TestStore_Validation(t *testing.T) {
	embedder := &fakeEmbedder{}
	store, _ := newStore(embedder)

	err := store.Upsert(context.Background(), []entity.Chunk{
		{Source: "docs", SourceId: "1", Text: "ok"},
		{Source: "docs", SourceId: "", Text: "missing id"},
	})
	assert.True(t, apperror.IsValidation(err))
	assert.Zero(t, embedder.calls, "validation runs before any I/O")
}

func TestStore_EmbedsInOneBatch(t *testing.T) {
	ctx := context.Background()
	embedder := &fakeEmbedder{}
	store, factory := newStore(embedder)

	require.NoError(t, store.Upsert(ctx, []entity.Chunk{
		{Source: "docs", SourceId: "1", Text: "abc"},
		{Source: "docs", SourceId: "2", Text: "abcdef"},
	}))
	assert.Equal(t, 1, embedder.calls)

	got, _ := factory.NewUnitOfWork(ctx).ChunkRepository().FindByKey(ctx, "docs", "2")
	assert.Equal(t, []float32{6, 1}, got.Vector)
}

func TestStore_EmbedderFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("provider error is transient", func(t *testing.T) {
		store, _ := newStore(&fakeEmbedder{err: errors.New("rate limited")})
		err := store.Upsert(ctx, []entity.Chunk{{Source: "d", SourceId: "1", Text: "x"}})
		assert.True(t, apperror.IsTransient(err))

		count, _ := store.Count(ctx)
		assert.Zero(t, count, "nothing is written")
	})

	t.Run("missing vectors are an integrity failure", func(t *testing.T) {
		store, _ := newStore(&fakeEmbedder{short: true})
		err := store.Upsert(ctx, []entity.Chunk{{Source: "d", SourceId: "1", Text: "x"}})
		assert.True(t, apperror.IsDataIntegrity(err))
	})
}

func TestStore_Prune(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(nil)

	require.NoError(t, store.Upsert(ctx, []entity.Chunk{
		{Source: "docs", SourceId: "guide#0", Text: "a"},
		{Source: "docs", SourceId: "guide#1", Text: "b"},
		{Source: "docs", SourceId: "guide#2", Text: "c"},
		{Source: "docs", SourceId: "guide2", Text: "other"},
	}))

	// guide shrank to a single chunk stored under its bare id
	require.NoError(t, store.Upsert(ctx, []entity.Chunk{{Source: "docs", SourceId: "guide", Text: "all"}}))
	pruned, err := store.Prune(ctx, "docs", "guide", []string{"guide"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), pruned)

	count, _ := store.Count(ctx)
	assert.Equal(t, int64(2), count)
}
