package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/aniladanir/waitlist-sms-service/internal/cache"
)

// Limiter allows at most limit hits per key within a fixed window.
type Limiter struct {
	cache  cache.Cache
	prefix string
	window time.Duration
	limit  int
}

func NewLimiter(cache cache.Cache, prefix string, window time.Duration, limit int) *Limiter {
	return &Limiter{cache: cache, prefix: prefix, window: window, limit: limit}
}

// Allow counts a hit for key. When the key is over its limit it returns false
// and how long until the window resets.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	countKey := fmt.Sprintf("rate:%s:%s", l.prefix, key)

	cnt, err := l.cache.IncrWithExpire(ctx, countKey, l.window)
	if err != nil {
		return false, 0, err
	}
	if int(cnt) <= l.limit {
		return true, 0, nil
	}

	ttl, err := l.cache.TTL(ctx, countKey)
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}
