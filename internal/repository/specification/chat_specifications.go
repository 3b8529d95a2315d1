package specification

import (
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID string
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// ChronologicalOrder orders messages by creation time with the insertion sequence as tiebreaker.
type ChronologicalOrder struct {
	Desc bool
}

func (s ChronologicalOrder) Apply(db *gorm.DB) *gorm.DB {
	if s.Desc {
		return db.Order("created_at DESC").Order("seq DESC")
	}
	return db.Order("created_at ASC").Order("seq ASC")
}
