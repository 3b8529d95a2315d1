package memory

import (
	"context"
	"time"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository keeps sessions for the life of the process.
func NewSessionRepository() contract.ChatSessionRepository {
	return &SessionRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *entity.ChatSession) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	stored := *session
	return r.cache.Add(session.Id, &stored, cache.NoExpiration)
}

func (r *SessionRepository) FindOne(ctx context.Context, id string) (*entity.ChatSession, error) {
	if x, found := r.cache.Get(id); found {
		s := *x.(*entity.ChatSession)
		return &s, nil
	}
	return nil, nil
}

// FindOneForUpdate is FindOne; the memory backend has no transactions to hold a lock in.
func (r *SessionRepository) FindOneForUpdate(ctx context.Context, id string) (*entity.ChatSession, error) {
	return r.FindOne(ctx, id)
}

func (r *SessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, found := r.cache.Get(id); !found {
		return false, nil
	}
	r.cache.Delete(id)
	return true, nil
}
