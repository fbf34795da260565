package cache

import (
	"log/slog"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL enables the Redis backend when non-empty.
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration

	// CleanupInterval is the interval for expired entry cleanup (memory backend).
	CleanupInterval time.Duration
}

// New creates a cache from the provided configuration. When Redis is
// configured but unreachable it logs a warning and falls back to memory.
func New(cfg Config) Cacher {
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = 2 * time.Minute
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Minute
	}

	if cfg.RedisURL != "" {
		redisCache, err := NewRedisCache(RedisCacheOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			return redisCache
		}
		slog.Warn("redis cache unavailable, falling back to memory", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		CleanupInterval: cfg.CleanupInterval,
	})
}
