package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	idgen "github.com/riskibarqy/pickup-football/internal/platform/id"
	"github.com/riskibarqy/pickup-football/internal/usecase"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a single-instance redis lease: SET NX PX to acquire and
// a token-checked delete to release.
type RedisLocker struct {
	client redis.UniversalClient
	tokens idgen.Generator
}

func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: client, tokens: idgen.NewPrefixedGenerator("lease")}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("lock ttl must be positive, got %s", ttl)
	}
	token, err := l.tokens.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate lease token: %w", err)
	}

	acquired, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock key=%s: %w", key, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: key=%s", usecase.ErrTransitionBusy, key)
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("release lock key=%s: %w", key, err)
		}
		return nil
	}, nil
}
