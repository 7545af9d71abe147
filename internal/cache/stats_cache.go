package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/warefront/catalog_api/internal/models"
)

// StatsCache caches facet statistics and category rollups, the two read
// paths that aggregate the whole table on every call. Entries expire on a
// short TTL, so a stock mutation shows up in cached summaries within one
// TTL window at the latest.
type StatsCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewStatsCache creates a StatsCache with the given TTL.
func NewStatsCache(redis *RedisClient, ttl time.Duration) *StatsCache {
	return &StatsCache{redis: redis, ttl: ttl}
}

// statsKey builds a key from the requested fields, order-insensitively.
func (c *StatsCache) statsKey(fields []string) string {
	sorted := make([]string, len(fields))
	copy(sorted, fields)
	sort.Strings(sorted)
	return fmt.Sprintf("catalog:stats:%s", strings.Join(sorted, ","))
}

const categoriesKey = "catalog:categories"

// GetStats returns cached filter statistics, or nil on a miss.
func (c *StatsCache) GetStats(ctx context.Context, fields []string) (*models.FilterStats, error) {
	raw, err := c.redis.Get(ctx, c.statsKey(fields))
	if err != nil {
		return nil, err
	}
	var stats models.FilterStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached stats: %w", err)
	}
	return &stats, nil
}

// SetStats caches filter statistics for the field set.
func (c *StatsCache) SetStats(ctx context.Context, fields []string, stats *models.FilterStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	return c.redis.Set(ctx, c.statsKey(fields), string(raw), c.ttl)
}

// GetCategories returns the cached category rollup, or nil on a miss.
func (c *StatsCache) GetCategories(ctx context.Context) ([]models.CategoryCount, error) {
	raw, err := c.redis.Get(ctx, categoriesKey)
	if err != nil {
		return nil, err
	}
	var rows []models.CategoryCount
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached categories: %w", err)
	}
	return rows, nil
}

// SetCategories caches the category rollup.
func (c *StatsCache) SetCategories(ctx context.Context, rows []models.CategoryCount) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	return c.redis.Set(ctx, categoriesKey, string(raw), c.ttl)
}
