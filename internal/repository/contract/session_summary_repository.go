package contract

import (
	"context"

	"ai-tutor-be/internal/entity"
)

type SessionSummaryRepository interface {
	Create(ctx context.Context, summary *entity.SessionSummary) error
	// FindLatest returns nil, nil when the session has no summary yet.
	FindLatest(ctx context.Context, sessionId string) (*entity.SessionSummary, error)
	DeleteBySession(ctx context.Context, sessionId string) (int64, error)
}
