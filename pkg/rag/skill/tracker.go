package skill

import (
	"context"
	"fmt"
	"time"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/rag/summary"

	"github.com/patrickmn/go-cache"
)

const cacheTTL = 5 * time.Minute

// Tracker derives skill signals from the message log. Results are cached per
// (session, message count, last seq). Seq is global, so a deleted and reused
// session id never hits an old entry.
type Tracker struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *cache.Cache
}

func NewTracker(uowFactory unitofwork.RepositoryFactory) *Tracker {
	return &Tracker{
		uowFactory: uowFactory,
		cache:      cache.New(cacheTTL, 10*time.Minute),
	}
}

func (t *Tracker) Signals(ctx context.Context, sessionId string) ([]entity.SkillSignal, error) {
	repo := t.uowFactory.NewUnitOfWork(ctx).ChatMessageRepository()

	count, err := repo.Count(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	last, err := repo.Recent(ctx, sessionId, 1)
	if err != nil {
		return nil, err
	}
	if len(last) == 0 {
		return nil, nil
	}

	key := fmt.Sprintf("%s:%d:%d", sessionId, count, last[0].Seq)
	if x, found := t.cache.Get(key); found {
		return x.([]entity.SkillSignal), nil
	}

	messages, err := repo.FindAll(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	signals := summary.Analyze(messages).SkillDeltas
	t.cache.Set(key, signals, cache.DefaultExpiration)
	return signals, nil
}
