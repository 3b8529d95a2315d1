package mapper

import (
	"testing"
	"time"

	"ai-tutor-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSummaryJSONColumns(t *testing.T) {
	m := NewChatMapper()
	in := &entity.SessionSummary{
		Id:            uuid.New(),
		ChatSessionId: "s1",
		Summary:       "Practiced flexbox.",
		Topics:        []string{"css", "responsive"},
		SkillDeltas:   []entity.SkillSignal{{Skill: "css", ScoreDelta: 15, Evidence: "i understand"}},
		LearningStyle: entity.LearningStyle{PreferredFormat: "examples", Pace: "medium", FeedbackStyle: "brief"},
		MessageCount:  6,
		CreatedAt:     time.Now(),
	}

	mdl, err := m.SessionSummaryToModel(in)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"skill":"css","score_delta":15,"evidence":"i understand"}]`, string(mdl.SkillDeltas))

	out := m.SessionSummaryToEntity(mdl)
	assert.Equal(t, in.Topics, out.Topics)
	assert.Equal(t, in.SkillDeltas, out.SkillDeltas)
	assert.Equal(t, in.LearningStyle, out.LearningStyle)
}

func TestChunkVectorOptional(t *testing.T) {
	m := NewChunkMapper()

	noVec := m.ToModel(&entity.Chunk{Source: "docs", SourceId: "1", Text: "HTML is for structure."})
	assert.Nil(t, noVec.EmbeddingValue)
	assert.Nil(t, m.ToEntity(noVec).Vector)

	withVec := m.ToModel(&entity.Chunk{Source: "docs", SourceId: "2", Text: "CSS", Vector: []float32{0.6, 0.8}})
	require.NotNil(t, withVec.EmbeddingValue)
	assert.Equal(t, []float32{0.6, 0.8}, m.ToEntity(withVec).Vector)
}
