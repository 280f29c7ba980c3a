// Package file stores the snapshot as a single JSON document on disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
	"github.com/JonasKlamroth/ctcscraper/internal/store"
)

// DefaultPath matches the document name used by the aggregated feed.
const DefaultPath = "puzzles.json"

type Store struct {
	path   string
	mu     sync.Mutex
	logger logger.Logger
}

func New(path string, log logger.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{
		path:   path,
		logger: log.With(logger.Component("store.file"), logger.String("path", path)),
	}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Save(_ context.Context, entries []domain.VideoEntry) error {
	data, err := store.Encode(entries)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := WriteAtomic(s.path, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Debug("snapshot saved", logger.Int("entries", len(entries)))
	return nil
}

func (s *Store) Load(_ context.Context) []domain.VideoEntry {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("no snapshot yet, starting empty")
		return []domain.VideoEntry{}
	}
	if err != nil {
		s.logger.Warn("snapshot unreadable, starting empty", logger.Error(err))
		return []domain.VideoEntry{}
	}

	entries, err := store.Decode(data)
	if err != nil {
		s.logger.Warn("snapshot corrupt, starting empty", logger.Error(err))
		return []domain.VideoEntry{}
	}
	return entries
}

func (s *Store) Close() error { return nil }

var _ store.Store = (*Store)(nil)
