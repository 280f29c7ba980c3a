package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
	"github.com/JonasKlamroth/ctcscraper/internal/store"
)

// Store keeps the snapshot under a single key. A SET replaces the value in
// one step, so readers see either the old or the new document.
type Store struct {
	client *redis.Client
	logger logger.Logger
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client, log logger.Logger) *Store {
	return &Store{
		client: client,
		logger: log.With(logger.Component("store.redis")),
	}
}

// Save stores the whole collection
func (s *Store) Save(ctx context.Context, entries []domain.VideoEntry) error {
	data, err := store.Encode(entries)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, SnapshotKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load retrieves the collection, empty when absent or unreadable
func (s *Store) Load(ctx context.Context) []domain.VideoEntry {
	data, err := s.client.Get(ctx, SnapshotKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.logger.Info("no snapshot yet, starting empty")
		} else {
			s.logger.Warn("snapshot unavailable, starting empty", logger.Error(err))
		}
		return []domain.VideoEntry{}
	}

	entries, err := store.Decode(data)
	if err != nil {
		s.logger.Warn("snapshot corrupt, starting empty", logger.Error(err))
		return []domain.VideoEntry{}
	}
	return entries
}

// Close does nothing; the client belongs to the caller.
func (s *Store) Close() error {
	return nil
}

var _ store.Store = (*Store)(nil)
