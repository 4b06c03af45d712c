package service

import (
	"context"
	"fmt"
	"time"

	"quiz_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// SubmissionGuard keeps two answer submissions for the same (user, question)
// from being evaluated at the same time.
type SubmissionGuard interface {
	// Acquire returns ErrDuplicateSubmission when another submission holds the lock.
	Acquire(ctx context.Context, userID, questionID uint) (release func(), err error)
}

type NoopGuard struct{}

func (NoopGuard) Acquire(context.Context, uint, uint) (func(), error) {
	return func() {}, nil
}

type RedisGuard struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &RedisGuard{Client: client, TTL: ttl}
}

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func submitKey(userID, questionID uint) string {
	return fmt.Sprintf("quiz:submit:%d:%d", userID, questionID)
}

func (g *RedisGuard) Acquire(ctx context.Context, userID, questionID uint) (func(), error) {
	key := submitKey(userID, questionID)
	token := uuid.NewString()
	ok, err := g.Client.SetNX(ctx, key, token, g.TTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire submit lock: %w", err)
	}
	if !ok {
		return nil, util.ErrDuplicateSubmission
	}
	return func() {
		// a lock that expired and was taken by a later submission is left alone
		releaseScript.Run(context.Background(), g.Client, []string{key}, token)
	}, nil
}

// NewSubmissionGuard picks the redis guard when a client is configured.
func NewSubmissionGuard(client *redis.Client, ttl time.Duration) SubmissionGuard {
	if client == nil {
		return NoopGuard{}
	}
	return NewRedisGuard(client, ttl)
}
