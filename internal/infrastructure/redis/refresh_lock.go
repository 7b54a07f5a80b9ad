package redisstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cryptorate:lock:"

// releaseScript deletes the lock only if this instance still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RefreshLock is a RefreshGuard kept in Redis. Keys are scoped to Instance:
// every replica keeps its own in-memory store and must refresh it itself, so
// only runs of the same instance exclude each other. TTL bounds how long a
// crashed run keeps the key.
type RefreshLock struct {
	Client   *redis.Client
	TTL      time.Duration
	Instance string

	mu     sync.Mutex
	tokens map[string]string
}

// New returns a lock for a fresh instance id.
func New(client *redis.Client, ttl time.Duration) *RefreshLock {
	return NewForInstance(client, ttl, uuid.NewString())
}

func NewForInstance(client *redis.Client, ttl time.Duration, instance string) *RefreshLock {
	return &RefreshLock{Client: client, TTL: ttl, Instance: instance, tokens: map[string]string{}}
}

// Key returns the Redis key guarding key for this instance.
func (l *RefreshLock) Key(key string) string {
	return keyPrefix + l.Instance + ":" + key
}

func (l *RefreshLock) TryReserve(ctx context.Context, key string) (bool, error) {
	token := uuid.NewString()
	ok, err := l.Client.SetNX(ctx, l.Key(key), token, l.TTL).Result()
	if err != nil {
		return false, err
	}
	if ok {
		l.mu.Lock()
		l.tokens[key] = token
		l.mu.Unlock()
	}
	return ok, nil
}

func (l *RefreshLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}
	return releaseScript.Run(ctx, l.Client, []string{l.Key(key)}, token).Err()
}

// Ping backs the readiness probe.
func (l *RefreshLock) Ping(ctx context.Context) error {
	return l.Client.Ping(ctx).Err()
}
