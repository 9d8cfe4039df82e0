// Package cache is the optional solve-result cache: a memoized-solve
// layer keyed by a hash of the request body,
// so repeated identical /planner-generate calls skip re-solving.
// Absence of Redis (empty RedisConfig.Addr) disables the cache; it
// never changes a solve's result, only whether it is recomputed.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusforge/gradplan/pkg/config"
)

// SolveCache wraps a Redis client with get/set helpers for solver
// results. A nil client (Redis disabled) makes every method a no-op
// miss, matching the richest example repo's "disabled cache" shape.
type SolveCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis per cfg. An empty Addr disables the cache and
// returns a usable, always-missing SolveCache rather than an error.
func New(cfg config.RedisConfig, ttl time.Duration) (*SolveCache, error) {
	if cfg.Addr == "" {
		return &SolveCache{ttl: ttl}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &SolveCache{client: client, ttl: ttl}, nil
}

// Close releases the underlying connection, if any.
func (c *SolveCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Key hashes solver kind + an arbitrary JSON-able request body into a
// stable cache key.
func Key(solverKind string, req any) string {
	payload, _ := json.Marshal(req)
	sum := sha256.Sum256(payload)
	return "gradplan:solve:" + solverKind + ":" + hex.EncodeToString(sum[:])
}

// Get unmarshals a cached result into dest, reporting whether it was
// found. A disabled cache or any Redis error is treated as a miss.
func (c *SolveCache) Get(ctx context.Context, key string, dest any) bool {
	if c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores value under key with the cache's configured TTL. Errors
// are swallowed: the cache is purely an optimization and never changes
// results.
func (c *SolveCache) Set(ctx context.Context, key string, value any) {
	if c.client == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, payload, c.ttl).Err()
}
