package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

const snapshotKey = "stats:dashboard:snapshot"

// StatsCache stores the last successful dashboard aggregation so reads can
// degrade to a slightly stale snapshot when the primary store is down. The
// TTL bounds staleness; an expired snapshot is a miss, not an error.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache wraps the given Redis client. ttl <= 0 defaults to a minute.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) GetSnapshot(ctx context.Context) (*domain.DashboardStats, error) {
	raw, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		return nil, fmt.Errorf("stats snapshot get: %w", err)
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("stats snapshot decode: %w", err)
	}
	return &stats, nil
}

func (c *StatsCache) PutSnapshot(ctx context.Context, stats *domain.DashboardStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats snapshot encode: %w", err)
	}
	return c.client.Set(ctx, snapshotKey, raw, c.ttl).Err()
}
