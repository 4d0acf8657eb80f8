package cache

import (
	"context"
	"time"
)

type Cache interface {
	Set(ctx context.Context, key, val string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	// IncrWithExpire increments key and sets ttl when the key is created.
	IncrWithExpire(ctx context.Context, key string, ttl time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}
