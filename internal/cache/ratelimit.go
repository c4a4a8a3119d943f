package cache

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter enforces the per-user daily processing quota with a Redis
// counter that expires at the end of the UTC day.
type RateLimiter struct {
	cache    *Cache
	maxDaily int
}

func NewRateLimiter(cache *Cache, maxDaily int) *RateLimiter {
	return &RateLimiter{cache: cache, maxDaily: maxDaily}
}

// Allow increments the caller's daily counter and reports whether this
// request is still within quota. A nil limiter (no Redis configured) always
// allows.
func (r *RateLimiter) Allow(ctx context.Context, userID int64) (bool, error) {
	if r == nil || r.cache == nil {
		return true, nil
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("rate:daily:%d:%s", userID, now.Format("2006-01-02"))

	count, err := r.cache.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate counter: %w", err)
	}
	if count == 1 {
		endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
		r.cache.rdb.ExpireAt(ctx, key, endOfDay)
	}

	return count <= int64(r.maxDaily), nil
}
