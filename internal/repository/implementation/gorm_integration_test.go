package implementation

import (
	"context"
	"os"
	"testing"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/model"
	"ai-tutor-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, true)
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error)
	require.NoError(t, db.AutoMigrate(&model.Chunk{}, &model.ChatSession{}, &model.ChatMessage{}, &model.SessionSummary{}))
	return db
}

func TestChunkRepository_Postgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewChunkRepository(db)
	source := "it-" + uuid.NewString()[:8]
	t.Cleanup(func() { db.Where("source = ?", source).Delete(&model.Chunk{}) })

	require.NoError(t, repo.UpsertBulk(ctx, []*entity.Chunk{
		{Source: source, SourceId: "page#0", Text: "HTML gives a page its structure."},
		{Source: source, SourceId: "page#1", Text: "CSS controls the style of a page."},
		{Source: source, SourceId: "other", Text: "JavaScript adds behaviour."},
	}))

	t.Run("upsert overwrites by key", func(t *testing.T) {
		require.NoError(t, repo.UpsertBulk(ctx, []*entity.Chunk{{Source: source, SourceId: "other", Text: "JavaScript makes pages interactive."}}))
		got, err := repo.FindByKey(ctx, source, "other")
		require.NoError(t, err)
		assert.Equal(t, "JavaScript makes pages interactive.", got.Text)
	})

	t.Run("lexical search", func(t *testing.T) {
		results, err := repo.SearchLexical(ctx, []string{"style"}, 5)
		require.NoError(t, err)
		var ids []string
		for _, r := range results {
			if r.Chunk.Source == source {
				ids = append(ids, r.Chunk.SourceId)
			}
		}
		assert.Equal(t, []string{"page#1"}, ids)
	})

	t.Run("prefix delete keeps listed ids", func(t *testing.T) {
		n, err := repo.DeleteBySourceIdPrefix(ctx, source, "page#", []string{"page#0"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		left, err := repo.FindBySource(ctx, source)
		require.NoError(t, err)
		assert.Len(t, left, 2)
	})
}

func TestChatRepositories_Postgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	sessionId := "it-" + uuid.NewString()

	sessions := NewChatSessionRepository(db)
	messages := NewChatMessageRepository(db)
	summaries := NewSessionSummaryRepository(db)

	require.NoError(t, sessions.Create(ctx, &entity.ChatSession{Id: sessionId}))
	for _, content := range []string{"one", "two", "three"} {
		require.NoError(t, messages.Append(ctx, &entity.ChatMessage{ChatSessionId: sessionId, Role: "user", Content: content}))
	}

	recent, err := messages.Recent(ctx, sessionId, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "two", recent[0].Content)
	assert.Equal(t, "three", recent[1].Content)

	require.NoError(t, summaries.Create(ctx, &entity.SessionSummary{
		ChatSessionId: sessionId,
		Summary:       "Practiced HTML.",
		Topics:        []string{"html"},
		MessageCount:  3,
	}))
	latest, err := summaries.FindLatest(ctx, sessionId)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, []string{"html"}, latest.Topics)

	n, err := messages.DeleteBySession(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	_, err = summaries.DeleteBySession(ctx, sessionId)
	require.NoError(t, err)
	existed, err := sessions.Delete(ctx, sessionId)
	require.NoError(t, err)
	assert.True(t, existed)
}

func TestChatSessionRepository_FindOneForUpdate_Postgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	sessionId := "it-" + uuid.NewString()

	require.NoError(t, NewChatSessionRepository(db).Create(ctx, &entity.ChatSession{Id: sessionId}))
	t.Cleanup(func() { db.Where("id = ?", sessionId).Delete(&model.ChatSession{}) })

	tx := db.Begin()
	require.NoError(t, tx.Error)
	defer tx.Rollback()

	locked, err := NewChatSessionRepository(tx).FindOneForUpdate(ctx, sessionId)
	require.NoError(t, err)
	require.NotNil(t, locked)
	assert.Equal(t, sessionId, locked.Id)

	missing, err := NewChatSessionRepository(tx).FindOneForUpdate(ctx, "it-missing-"+uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
