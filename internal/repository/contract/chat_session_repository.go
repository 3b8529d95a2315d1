package contract

import (
	"context"

	"ai-tutor-be/internal/entity"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	FindOne(ctx context.Context, id string) (*entity.ChatSession, error)
	// FindOneForUpdate also locks the row until the surrounding transaction ends.
	FindOneForUpdate(ctx context.Context, id string) (*entity.ChatSession, error)
	// Delete reports whether a session existed.
	Delete(ctx context.Context, id string) (bool, error)
}
