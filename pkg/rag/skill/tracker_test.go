package skill

import (
	"context"
	"testing"

	"ai-tutor-be/internal/constant"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Signals(t *testing.T) {
	ctx := context.Background()
	factory := unitofwork.NewMemoryRepositoryFactory()
	repo := factory.NewUnitOfWork(ctx).ChatMessageRepository()
	tracker := NewTracker(factory)

	signals, err := tracker.Signals(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, signals)

	require.NoError(t, repo.Append(ctx, &entity.ChatMessage{
		ChatSessionId: "s", Role: constant.ChatMessageRoleUser, Content: "I'm confused by css grid",
	}))

	signals, err = tracker.Signals(ctx, "s")
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, "css", signals[0].Skill)
	assert.Negative(t, signals[0].ScoreDelta)

	// a new message changes the cache key
	require.NoError(t, repo.Append(ctx, &entity.ChatMessage{
		ChatSessionId: "s", Role: constant.ChatMessageRoleUser, Content: "oh, now it makes sense",
	}))

	signals, err = tracker.Signals(ctx, "s")
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, 5, signals[0].ScoreDelta)
}

func TestTracker_SignalsAfterSessionDelete(t *testing.T) {
	ctx := context.Background()
	factory := unitofwork.NewMemoryRepositoryFactory()
	repo := factory.NewUnitOfWork(ctx).ChatMessageRepository()
	tracker := NewTracker(factory)

	require.NoError(t, repo.Append(ctx, &entity.ChatMessage{
		ChatSessionId: "s", Role: constant.ChatMessageRoleUser, Content: "I'm confused by css grid",
	}))
	signals, err := tracker.Signals(ctx, "s")
	require.NoError(t, err)
	require.Len(t, signals, 1)

	_, err = repo.DeleteBySession(ctx, "s")
	require.NoError(t, err)

	// same id, same message count
	require.NoError(t, repo.Append(ctx, &entity.ChatMessage{
		ChatSessionId: "s", Role: constant.ChatMessageRoleUser, Content: "hello there",
	}))
	signals, err = tracker.Signals(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, signals)
}
