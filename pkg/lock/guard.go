package lock

import (
	"context"
	"sync"
)

// Guard admits at most one holder per key. TryAcquire never blocks: ok is false when the key is held.
type Guard interface {
	TryAcquire(ctx context.Context, key string) (release func(), ok bool, err error)
}

// LocalGuard serves a single process.
type LocalGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{held: make(map[string]struct{})}
}

func (g *LocalGuard) TryAcquire(ctx context.Context, key string) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.held[key]; busy {
		return nil, false, nil
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, true, nil
}
