package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gridstor/curvecast/internal/models"
)

// FreshnessCacheEntry wraps a cached freshness state with metadata.
type FreshnessCacheEntry struct {
	State     models.FreshnessState `json:"state"`
	CachedAt  time.Time             `json:"cached_at"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// FreshnessCacheStats tracks cache performance metrics.
type FreshnessCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	mu     sync.RWMutex
}

func (s *FreshnessCacheStats) hit()  { s.mu.Lock(); s.Hits++; s.mu.Unlock() }
func (s *FreshnessCacheStats) miss() { s.mu.Lock(); s.Misses++; s.mu.Unlock() }
func (s *FreshnessCacheStats) set()  { s.mu.Lock(); s.Sets++; s.mu.Unlock() }

// Snapshot returns a copy of the current counters.
func (s *FreshnessCacheStats) Snapshot() (hits, misses, sets int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Hits, s.Misses, s.Sets
}

// RedisFreshnessCache caches computed freshness states per definition so
// catalog pages don't recompute streaks on every request. Entries are
// invalidated whenever a new instance is uploaded.
type RedisFreshnessCache struct {
	redis  *redis.Client
	ttl    time.Duration
	stats  *FreshnessCacheStats
	prefix string
}

// NewRedisFreshnessCache creates a new Redis-backed freshness cache.
func NewRedisFreshnessCache(redisClient *redis.Client, ttl time.Duration) *RedisFreshnessCache {
	return &RedisFreshnessCache{
		redis:  redisClient,
		ttl:    ttl,
		stats:  &FreshnessCacheStats{},
		prefix: "curvecast:freshness:",
	}
}

func (c *RedisFreshnessCache) key(definitionID string) string {
	return c.prefix + definitionID
}

// Get returns the cached state for a definition, or nil on a miss.
func (c *RedisFreshnessCache) Get(ctx context.Context, definitionID string) (*models.FreshnessState, error) {
	data, err := c.redis.Get(ctx, c.key(definitionID)).Result()
	if err == redis.Nil {
		c.stats.miss()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read freshness cache: %w", err)
	}

	var entry FreshnessCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		// Corrupt entry, treat as a miss and drop it.
		c.stats.miss()
		c.redis.Del(ctx, c.key(definitionID))
		return nil, nil
	}

	c.stats.hit()
	return &entry.State, nil
}

// Set stores a computed state for a definition.
func (c *RedisFreshnessCache) Set(ctx context.Context, definitionID string, state models.FreshnessState) error {
	now := time.Now()
	entry := FreshnessCacheEntry{
		State:     state,
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal freshness entry: %w", err)
	}

	if err := c.redis.Set(ctx, c.key(definitionID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write freshness cache: %w", err)
	}

	c.stats.set()
	return nil
}

// Invalidate drops the cached state for a definition. Called after uploads
// and lifecycle changes.
func (c *RedisFreshnessCache) Invalidate(ctx context.Context, definitionID string) error {
	if err := c.redis.Del(ctx, c.key(definitionID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate freshness cache: %w", err)
	}
	return nil
}

// Stats exposes the cache counters.
func (c *RedisFreshnessCache) Stats() *FreshnessCacheStats {
	return c.stats
}
