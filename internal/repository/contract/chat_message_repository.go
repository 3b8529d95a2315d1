package contract

import (
	"context"

	"ai-tutor-be/internal/entity"
)

type ChatMessageRepository interface {
	// Append stores a message. Seq and CreatedAt are assigned when zero.
	Append(ctx context.Context, message *entity.ChatMessage) error
	// Recent returns the last limit messages of a session, oldest first.
	Recent(ctx context.Context, sessionId string, limit int) ([]*entity.ChatMessage, error)
	FindAll(ctx context.Context, sessionId string) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, sessionId string) (int64, error)
	DeleteBySession(ctx context.Context, sessionId string) (int64, error)
}
