// Package access guards entry into the agent pipeline: a per-user daily
// usage quota and a per-conversation lock that serializes concurrent
// messages on the same ticket.
package access

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrDailyLimitReached is returned once a user has spent their daily quota.
var ErrDailyLimitReached = fmt.Errorf("daily agent usage limit reached")

// ErrConversationBusy is returned when another message on the same
// conversation is still being processed.
var ErrConversationBusy = fmt.Errorf("conversation is busy processing a previous message")

// UsageLimiter counts agent exchanges per user per calendar day in Redis.
// When Redis is unavailable the limiter fails open: quota enforcement is a
// protection, not a correctness requirement.
type UsageLimiter struct {
	rdb        *redis.Client
	dailyLimit int
}

func NewUsageLimiter(rdb *redis.Client, dailyLimit int) *UsageLimiter {
	return &UsageLimiter{rdb: rdb, dailyLimit: dailyLimit}
}

// Allow consumes one unit of the user's daily quota.
func (l *UsageLimiter) Allow(ctx context.Context, userId uuid.UUID) error {
	if l.rdb == nil || l.dailyLimit <= 0 {
		return nil
	}

	key := fmt.Sprintf("agent:usage:%s:%s", userId, time.Now().Format("2006-01-02"))

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return nil
	}
	if count == 1 {
		l.rdb.Expire(ctx, key, 24*time.Hour)
	}

	if count > int64(l.dailyLimit) {
		return ErrDailyLimitReached
	}
	return nil
}

// Usage reports how many exchanges the user has spent today.
func (l *UsageLimiter) Usage(ctx context.Context, userId uuid.UUID) (int64, error) {
	if l.rdb == nil {
		return 0, nil
	}

	key := fmt.Sprintf("agent:usage:%s:%s", userId, time.Now().Format("2006-01-02"))
	count, err := l.rdb.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}

// ConversationLock serializes message processing per conversation so turn
// order in the stored history matches arrival order.
type ConversationLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewConversationLock(rdb *redis.Client, ttl time.Duration) *ConversationLock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &ConversationLock{rdb: rdb, ttl: ttl}
}

// Acquire takes the lock for a conversation and returns its release
// function. Fails open without Redis.
func (l *ConversationLock) Acquire(ctx context.Context, conversationId string) (func(), error) {
	if l.rdb == nil {
		return func() {}, nil
	}

	key := fmt.Sprintf("agent:lock:%s", conversationId)
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return func() {}, nil
	}
	if !ok {
		return nil, ErrConversationBusy
	}

	release := func() {
		// Only release our own lock; the TTL may have expired and been
		// re-taken by another request.
		current, err := l.rdb.Get(context.Background(), key).Result()
		if err == nil && current == token {
			l.rdb.Del(context.Background(), key)
		}
	}
	return release, nil
}
