package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/retention-center/internal/observability/telemetry"
	"github.com/seu-repo/retention-center/internal/ports"
)

type localEntry struct {
	value     string
	expiresAt time.Time
}

// LocalCache backs the response cache with an in-process map when Redis is
// not configured. Dashboard and analytics responses are small and short
// lived, so a single instance loses nothing beyond cross-process sharing.
type LocalCache struct {
	entries map[string]localEntry
	mu      sync.RWMutex
	log     *zap.Logger
	stopCh  chan struct{}
}

// NewLocalCache creates an in-memory cache. Expired responses are swept on
// cleanupInterval; reads never return them regardless.
func NewLocalCache(cleanupInterval time.Duration, log *zap.Logger) ports.Cache {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	c := &LocalCache{
		entries: make(map[string]localEntry),
		log:     log,
		stopCh:  make(chan struct{}),
	}

	go c.sweepLoop(cleanupInterval)

	log.Info("Serving response cache from process memory",
		zap.Duration("cleanup_interval", cleanupInterval),
	)
	return c
}

func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || expired(entry, time.Now()) {
		telemetry.CacheOperationsTotal.WithLabelValues("local", "get", "miss").Inc()
		return "", fmt.Errorf("key not found: %s", key)
	}
	telemetry.CacheOperationsTotal.WithLabelValues("local", "get", "hit").Inc()
	return entry.value, nil
}

func (c *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	strVal, err := encode(value)
	if err != nil {
		telemetry.CacheOperationsTotal.WithLabelValues("local", "set", "error").Inc()
		return err
	}

	entry := localEntry{value: strVal}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	telemetry.CacheOperationsTotal.WithLabelValues("local", "set", "ok").Inc()
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	telemetry.CacheOperationsTotal.WithLabelValues("local", "delete", "ok").Inc()
	return nil
}

func (c *LocalCache) Ping() error {
	return nil
}

func (c *LocalCache) Close() error {
	close(c.stopCh)
	return nil
}

// encode normalizes cached values to strings the way the Redis client does,
// so the two backends stay interchangeable behind ports.Cache.
func encode(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal value: %w", err)
		}
		return string(data), nil
	}
}

func expired(e localEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && e.expiresAt.Before(now)
}

func (c *LocalCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopCh:
			return
		}
	}
}

func (c *LocalCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	swept := 0
	for key, entry := range c.entries {
		if expired(entry, now) {
			delete(c.entries, key)
			swept++
		}
	}

	if swept > 0 {
		c.log.Debug("Swept expired cached responses", zap.Int("expired_entries", swept))
	}
}
