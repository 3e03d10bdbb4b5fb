package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one limiter check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// SlidingWindow counts requests per key in a Redis sorted set, one member per request.
type SlidingWindow struct {
	Client redis.UniversalClient
	Prefix string
	now    func() time.Time
}

// Allow records a request for key and reports whether it stays within max per window.
// A nil client or a non-positive limit disables limiting.
func (l SlidingWindow) Allow(ctx context.Context, key string, window time.Duration, max int) (Decision, error) {
	now := time.Now()
	if l.now != nil {
		now = l.now()
	}
	d := Decision{Allowed: true, Limit: max, Remaining: max, ResetAt: now.Add(window)}
	if l.Client == nil || max <= 0 || window <= 0 {
		return d, nil
	}

	redisKey := l.Prefix + key
	cutoff := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+cutoff)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	count := pipe.ZCard(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return d, fmt.Errorf("ratelimit: %w", err)
	}

	current := int(count.Val())
	d.Allowed = current <= max
	d.Remaining = max - current
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	return d, nil
}
