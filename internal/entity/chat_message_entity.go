package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId string
	Role          string
	Content       string
	Seq           int64
	CreatedAt     time.Time
}
