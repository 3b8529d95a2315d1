package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SessionSummary struct {
	Id            uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId string                      `gorm:"type:varchar(64);not null;index:idx_session_summaries_latest,priority:1"`
	Summary       string                      `gorm:"type:text;not null"`
	Topics        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	SkillDeltas   datatypes.JSON              `gorm:"type:jsonb"`
	LearningStyle datatypes.JSON              `gorm:"type:jsonb"`
	MessageCount  int                         `gorm:"not null;default:0"`
	CreatedAt     time.Time                   `gorm:"not null;index:idx_session_summaries_latest,priority:2,sort:desc"`
}

func (SessionSummary) TableName() string {
	return "session_summaries"
}
