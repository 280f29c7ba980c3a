// Package store persists full snapshots of the entry collection.
//
// Backends only ever see whole snapshots. Load never fails: a missing
// document and a corrupt one both mean "start empty".
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
)

type Store interface {
	// Save replaces the persisted snapshot. Readers never see a partial write.
	Save(ctx context.Context, entries []domain.VideoEntry) error
	// Load returns the last saved snapshot, or an empty slice.
	Load(ctx context.Context) []domain.VideoEntry
	Close() error
}

// Encode renders a snapshot as the persisted JSON array document.
func Encode(entries []domain.VideoEntry) ([]byte, error) {
	if entries == nil {
		entries = []domain.VideoEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a persisted JSON array document. Unknown fields are ignored,
// missing ones take their defaults and entries without a video URL are
// dropped.
func Decode(data []byte) ([]domain.VideoEntry, error) {
	var entries []domain.VideoEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return Valid(entries), nil
}

// Valid filters out entries that cannot be identified.
func Valid(entries []domain.VideoEntry) []domain.VideoEntry {
	out := make([]domain.VideoEntry, 0, len(entries))
	for _, e := range entries {
		if e.VideoURL != "" {
			out = append(out, e)
		}
	}
	return out
}

// Memory keeps the snapshot in process. Used by tests and by one-shot CLI
// runs with persistence disabled.
type Memory struct {
	mu      sync.Mutex
	entries []domain.VideoEntry
	saves   int
}

func NewMemory(initial ...domain.VideoEntry) *Memory {
	return &Memory{entries: domain.CloneAll(initial)}
}

func (m *Memory) Save(_ context.Context, entries []domain.VideoEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = domain.CloneAll(Valid(entries))
	m.saves++
	return nil
}

func (m *Memory) Load(context.Context) []domain.VideoEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CloneAll(m.entries)
}

// Saves reports how many times Save was called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Memory) Close() error { return nil }
