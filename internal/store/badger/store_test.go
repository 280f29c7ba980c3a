package badger

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

// setupTestDB opens a store in a temp dir that is closed with the test.
func setupTestDB(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()

	s, err := Open(dir, logger.Nop())
	require.NoError(t, err, "failed to open test badger store")
	return s, dir
}

func entries(n int) []domain.VideoEntry {
	out := make([]domain.VideoEntry, n)
	for i := range out {
		out[i] = domain.VideoEntry{
			Title:     "entry",
			VideoURL:  "https://www.youtube.com/watch?v=" + string(rune('a'+i)),
			Published: "2024",
			Views:     "0",
			Rating:    "0",
			Puzzles:   []domain.Puzzle{{Link: "l", MarkedAsSolved: i%2 == 0}},
		}
	}
	return out
}

func TestStoreSaveAndLoadKeepsOrder(t *testing.T) {
	s, _ := setupTestDB(t)
	defer s.Close()
	ctx := context.Background()

	in := entries(12)
	require.NoError(t, s.Save(ctx, in))

	assert.True(t, domain.EqualAll(in, s.Load(ctx)))
}

func TestStoreSaveShrinksSnapshot(t *testing.T) {
	s, _ := setupTestDB(t)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, entries(5)))
	require.NoError(t, s.Save(ctx, entries(2)))

	got := s.Load(ctx)
	assert.Len(t, got, 2, "stale keys from the larger snapshot must be gone")
}

func TestStoreSurvivesReopen(t *testing.T) {
	s, dir := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, entries(3)))
	require.NoError(t, s.Close())

	reopened, err := Open(dir, logger.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	assert.Len(t, reopened.Load(ctx), 3)
}

func TestStoreLoadEmptyAndCorrupt(t *testing.T) {
	s, err := OpenInMemory(logger.Nop())
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	got := s.Load(ctx)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	require.NoError(t, s.Save(ctx, entries(2)))
	require.NoError(t, s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(1), []byte("{broken"))
	}))

	got = s.Load(ctx)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollectGarbageOnFreshStore(t *testing.T) {
	s, err := Open(t.TempDir(), logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), entries(3)))

	n, err := s.CollectGarbage()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCollectGarbageInMemory(t *testing.T) {
	s, err := OpenInMemory(logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.CollectGarbage()
	assert.NoError(t, err)
}
