package entity

import (
	"time"

	"github.com/google/uuid"
)

type SkillSignal struct {
	Skill      string `json:"skill"`
	ScoreDelta int    `json:"score_delta"`
	Evidence   string `json:"evidence"`
}

type LearningStyle struct {
	PreferredFormat string `json:"preferred_format"` // step-by-step | examples | concepts | mixed
	Pace            string `json:"pace"`             // slow | medium | fast
	FeedbackStyle   string `json:"feedback_style"`   // detailed | brief | mixed
}

type SessionSummary struct {
	Id            uuid.UUID
	ChatSessionId string
	Summary       string
	Topics        []string
	SkillDeltas   []SkillSignal
	LearningStyle LearningStyle
	MessageCount  int
	CreatedAt     time.Time
}
