package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aniladanir/retry"
	"github.com/go-redis/redis/v8"
)

const connectAttempts = 5

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new redis cache that complies with cache interface
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	rClient := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	retrier, err := retry.New(retry.WithMaxAttemps(connectAttempts))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize retrier: %w", err)
	}

	// retry ping
	var pingErr error
	pinged := <-retrier.Retry(ctx, func(attempt int) (terminate bool) {
		pingErr = rClient.Ping(ctx).Err()
		return pingErr == nil
	}, true)
	if !pinged {
		if pingErr == nil {
			pingErr = ctx.Err()
		}
		_ = rClient.Close()
		return nil, fmt.Errorf("failed to ping redis instance: %w", pingErr)
	}

	return &RedisCache{
		client: rClient,
	}, nil
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

// IncrWithExpire increments key, creating it with ttl when it does not exist.
// Both commands run in one MULTI/EXEC so a counter is never left without a ttl.
func (r *RedisCache) IncrWithExpire(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, ttl)
		incr = pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *RedisCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return r.client.TTL(ctx, key).Result()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
