package memory

import (
	"context"
	"sync"
	"time"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type SessionSummaryRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewSessionSummaryRepository() contract.SessionSummaryRepository {
	return &SessionSummaryRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *SessionSummaryRepository) Create(ctx context.Context, summary *entity.SessionSummary) error {
	if summary.Id == uuid.Nil {
		summary.Id = uuid.New()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var history []*entity.SessionSummary
	if x, found := r.cache.Get(summary.ChatSessionId); found {
		history = x.([]*entity.SessionSummary)
	}
	stored := *summary
	r.cache.Set(summary.ChatSessionId, append(history, &stored), cache.NoExpiration)
	return nil
}

// FindLatest is O(1): summaries are kept in creation order.
func (r *SessionSummaryRepository) FindLatest(ctx context.Context, sessionId string) (*entity.SessionSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionId)
	if !found {
		return nil, nil
	}
	history := x.([]*entity.SessionSummary)
	if len(history) == 0 {
		return nil, nil
	}
	latest := *history[len(history)-1]
	return &latest, nil
}

func (r *SessionSummaryRepository) DeleteBySession(ctx context.Context, sessionId string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionId)
	if !found {
		return 0, nil
	}
	r.cache.Delete(sessionId)
	return int64(len(x.([]*entity.SessionSummary))), nil
}
