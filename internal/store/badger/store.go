// Package badger persists the snapshot in an embedded BadgerDB, one key per
// entry.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
	"github.com/JonasKlamroth/ctcscraper/internal/store"
)

var entryPrefix = []byte("entry:")

// entryKey keeps keys in collection order when iterated.
// Format: entry:{position, zero padded}
func entryKey(pos int) []byte {
	return []byte(fmt.Sprintf("entry:%08d", pos))
}

type Store struct {
	db  *badger.DB
	log logger.Logger
}

// Open opens (or creates) the database in dir.
func Open(dir string, log logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{log.With(logger.Component("badgerdb"))}
	return open(opts, log)
}

// OpenInMemory is used by tests and dry runs.
func OpenInMemory(log logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = &badgerLogger{log.With(logger.Component("badgerdb"))}
	return open(opts, log)
}

func open(opts badger.Options, log logger.Logger) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %q: %w", opts.Dir, err)
	}
	return &Store{
		db:  db,
		log: log.With(logger.Component("store.badger")),
	}, nil
}

// Save replaces every entry key inside one transaction.
func (s *Store) Save(_ context.Context, entries []domain.VideoEntry) error {
	values := make([][]byte, 0, len(entries))
	for _, e := range store.Valid(entries) {
		v, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal entry %s: %w", e.VideoURL, err)
		}
		values = append(values, v)
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		var stale [][]byte
		it := txn.NewIterator(badger.IteratorOptions{Prefix: entryPrefix})
		for it.Rewind(); it.Valid(); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		for i, v := range values {
			if err := txn.Set(entryKey(i), v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.log.Debug("snapshot saved", logger.Int("entries", len(values)))
	return nil
}

// Load reads all entries in key order. Any unreadable value makes the whole
// snapshot count as corrupt.
func (s *Store) Load(_ context.Context) []domain.VideoEntry {
	entries := []domain.VideoEntry{}

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(entryPrefix); it.ValidForPrefix(entryPrefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var e domain.VideoEntry
				if err := json.Unmarshal(val, &e); err != nil {
					return fmt.Errorf("key %s: %w", item.Key(), err)
				}
				entries = append(entries, e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn("snapshot corrupt, starting empty", logger.Error(err))
		return []domain.VideoEntry{}
	}

	return store.Valid(entries)
}

// CollectGarbage rewrites value log files until no file is worth
// rewriting. Returns how many files were rewritten.
func (s *Store) CollectGarbage() (int, error) {
	rewritten := 0
	for {
		err := s.db.RunValueLogGC(0.5)
		switch {
		case err == nil:
			rewritten++
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrRejected), errors.Is(err, badger.ErrGCInMemoryMode):
			return rewritten, nil
		default:
			return rewritten, fmt.Errorf("value log gc: %w", err)
		}
	}
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}

var _ store.Store = (*Store)(nil)

// badgerLogger adapts logger.Logger to Badger's logger interface.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(f string, v ...interface{})   { l.logger.Errorf(f, v...) }
func (l *badgerLogger) Warningf(f string, v ...interface{}) { l.logger.Warnf(f, v...) }
func (l *badgerLogger) Infof(f string, v ...interface{})    { l.logger.Debugf(f, v...) }
func (l *badgerLogger) Debugf(f string, v ...interface{})   { l.logger.Debugf(f, v...) }
