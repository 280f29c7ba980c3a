package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JonasKlamroth/ctcscraper/internal/links"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

// DefaultPuzzleMetaTTL is how long a resolved puzzle title is trusted (7 days)
const DefaultPuzzleMetaTTL = 7 * 24 * time.Hour

// PuzzleMetaCache caches puzzle name/author lookups so refreshes do not hit
// SudokuPad again for puzzles already seen.
type PuzzleMetaCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewPuzzleMetaCache(client *redis.Client, ttl time.Duration, log logger.Logger) *PuzzleMetaCache {
	if ttl <= 0 {
		ttl = DefaultPuzzleMetaTTL
	}
	return &PuzzleMetaCache{
		client: client,
		ttl:    ttl,
		logger: log.With(logger.Component("cache.redis")),
	}
}

// Get returns the cached metadata for a canonical link
func (c *PuzzleMetaCache) Get(ctx context.Context, link string) (links.Meta, bool) {
	data, err := c.client.Get(ctx, PuzzleMetaKey(link)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("cache read failed", logger.String("link", link), logger.Error(err))
		}
		return links.Meta{}, false
	}

	var m links.Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return links.Meta{}, false
	}
	return m, true
}

// Put stores metadata for a canonical link. Failures are only logged.
func (c *PuzzleMetaCache) Put(ctx context.Context, link string, meta links.Meta) {
	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, PuzzleMetaKey(link), data, c.ttl).Err(); err != nil {
		c.logger.Debug("cache write failed", logger.String("link", link), logger.Error(err))
	}
}

// Flush removes all cached puzzle metadata
func (c *PuzzleMetaCache) Flush(ctx context.Context) (int, error) {
	removed := 0
	iter := c.client.Scan(ctx, 0, KeyPrefixPuzzleMeta+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("failed to delete cache key: %w", err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to flush cache: %w", err)
	}
	return removed, nil
}

var _ links.Cache = (*PuzzleMetaCache)(nil)
