package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type sessionLog struct {
	mu       sync.RWMutex
	messages []*entity.ChatMessage
}

type ChatMessageRepository struct {
	cache *cache.Cache
	seq   atomic.Int64
	mu    sync.Mutex // guards log creation only
}

func NewChatMessageRepository() contract.ChatMessageRepository {
	return &ChatMessageRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *ChatMessageRepository) log(sessionId string, create bool) *sessionLog {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*sessionLog)
	}
	if !create {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, found := r.cache.Get(sessionId); found {
		return x.(*sessionLog)
	}
	l := &sessionLog{}
	r.cache.Set(sessionId, l, cache.NoExpiration)
	return l
}

func (r *ChatMessageRepository) Append(ctx context.Context, message *entity.ChatMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := r.log(message.ChatSessionId, true)

	l.mu.Lock()
	defer l.mu.Unlock()

	// seq is drawn under the session lock, so a session's log is ordered by seq
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	message.Seq = r.seq.Add(1)
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	// wall clock may step backwards; never let it reorder the log
	if n := len(l.messages); n > 0 && message.CreatedAt.Before(l.messages[n-1].CreatedAt) {
		message.CreatedAt = l.messages[n-1].CreatedAt
	}

	stored := *message
	l.messages = append(l.messages, &stored)
	return nil
}

func (r *ChatMessageRepository) Recent(ctx context.Context, sessionId string, limit int) ([]*entity.ChatMessage, error) {
	l := r.log(sessionId, false)
	if l == nil || limit <= 0 {
		return []*entity.ChatMessage{}, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	start := len(l.messages) - limit
	if start < 0 {
		start = 0
	}
	return copyMessages(l.messages[start:]), nil
}

func (r *ChatMessageRepository) FindAll(ctx context.Context, sessionId string) ([]*entity.ChatMessage, error) {
	l := r.log(sessionId, false)
	if l == nil {
		return []*entity.ChatMessage{}, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyMessages(l.messages), nil
}

func (r *ChatMessageRepository) Count(ctx context.Context, sessionId string) (int64, error) {
	l := r.log(sessionId, false)
	if l == nil {
		return 0, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return int64(len(l.messages)), nil
}

func (r *ChatMessageRepository) DeleteBySession(ctx context.Context, sessionId string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionId)
	if !found {
		return 0, nil
	}
	r.cache.Delete(sessionId)

	l := x.(*sessionLog)
	l.mu.RLock()
	defer l.mu.RUnlock()
	return int64(len(l.messages)), nil
}

func copyMessages(in []*entity.ChatMessage) []*entity.ChatMessage {
	out := make([]*entity.ChatMessage, len(in))
	for i, m := range in {
		c := *m
		out[i] = &c
	}
	return out
}
