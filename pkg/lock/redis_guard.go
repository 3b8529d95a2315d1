package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisGuard shares the guard between replicas. The TTL bounds how long a crashed holder blocks a key.
type RedisGuard struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client, prefix string, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisGuard{client: client, prefix: prefix, ttl: ttl}
}

// NewRedisGuardFromURL parses a redis:// URL.
func NewRedisGuardFromURL(url, prefix string, ttl time.Duration) (*RedisGuard, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisGuard(redis.NewClient(opts), prefix, ttl), nil
}

func (g *RedisGuard) TryAcquire(ctx context.Context, key string) (func(), bool, error) {
	fullKey := g.prefix + key
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, fullKey, token, g.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	return func() {
		// the caller's context may already be done
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		releaseScript.Run(releaseCtx, g.client, []string{fullKey}, token)
	}, true, nil
}

func (g *RedisGuard) Close() error {
	return g.client.Close()
}
