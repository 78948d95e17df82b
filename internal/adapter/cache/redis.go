package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/seu-repo/retention-center/internal/observability/telemetry"
	"github.com/seu-repo/retention-center/internal/ports"
)

// RedisCache shares the response cache across server instances. Keys carry
// the retention: prefix set by the services; expiry is left entirely to the
// per-view TTLs.
type RedisCache struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisCache(url string, log *zap.Logger) (ports.Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Ping to verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Serving response cache from Redis")
	return &RedisCache{
		client: client,
		log:    log,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		telemetry.CacheOperationsTotal.WithLabelValues("redis", "get", "miss").Inc()
	case err != nil:
		telemetry.CacheOperationsTotal.WithLabelValues("redis", "get", "error").Inc()
	default:
		telemetry.CacheOperationsTotal.WithLabelValues("redis", "get", "hit").Inc()
	}
	return val, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	err := c.client.Set(ctx, key, value, expiration).Err()
	telemetry.CacheOperationsTotal.WithLabelValues("redis", "set", outcome(err)).Inc()
	return err
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, key).Err()
	telemetry.CacheOperationsTotal.WithLabelValues("redis", "delete", outcome(err)).Inc()
	return err
}

func (c *RedisCache) Ping() error {
	return c.client.Ping(context.Background()).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
