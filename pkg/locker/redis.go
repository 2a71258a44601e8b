package locker

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/google/uuid"

	"semaforo-srv/pkg/redis"
)

const (
	lockKeyPrefix = "semaforo:lock:"
	lockTTL       = 30 * time.Second
	retryInterval = 50 * time.Millisecond
)

// releaseScript deletes the lock only if this holder still owns it, so a
// holder whose TTL lapsed cannot release a lock re-acquired by another.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type redisLocker struct {
	client *goredis.Client
}

// NewRedis returns a Locker backed by Redis SET NX, giving mutual exclusion
// across engine instances. The TTL bounds how long a crashed holder can
// block others.
func NewRedis(r redis.IRedis) Locker {
	return &redisLocker{client: r.GetClient()}
}

func (l *redisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	fullKey := lockKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = l.client.Eval(releaseCtx, releaseScript, []string{fullKey}, token).Err()
			}, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
