package index

import (
	"sync"
	"time"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
)

// MemoryIndex holds the live entry collection in order, with lookup by
// video URL. It is the only mutable copy of the collection in the process.
type MemoryIndex struct {
	mu         sync.RWMutex
	entries    []domain.VideoEntry // collection order
	byURL      map[string]int      // VideoURL -> position
	version    uint64              // bumped on every change
	loaded     bool                // a snapshot was installed at least once
	lastReload time.Time           // Timestamp of last Replace
}

// Stats summarises the collection.
type Stats struct {
	Total      int `json:"total"`
	Deleted    int `json:"deleted"`
	Unresolved int `json:"unresolvedLength"`
	Solved     int `json:"solved"`
	Puzzles    int `json:"puzzles"`
}

// NewMemoryIndex creates an empty index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		entries: []domain.VideoEntry{},
		byURL:   make(map[string]int),
	}
}

// Replace installs a new collection. The index keeps its own copy.
func (idx *MemoryIndex) Replace(entries []domain.VideoEntry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.entries = make([]domain.VideoEntry, 0, len(entries))
	idx.byURL = make(map[string]int, len(entries))
	for _, e := range entries {
		if e.VideoURL == "" {
			continue
		}
		if _, dup := idx.byURL[e.VideoURL]; dup {
			continue
		}
		idx.byURL[e.VideoURL] = len(idx.entries)
		idx.entries = append(idx.entries, e.Clone())
	}
	idx.version++
	idx.loaded = true
	idx.lastReload = time.Now()
}

// All returns a deep copy of the collection in order
func (idx *MemoryIndex) All() []domain.VideoEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return domain.CloneAll(idx.entries)
}

// Get retrieves an entry by video URL
func (idx *MemoryIndex) Get(videoURL string) (domain.VideoEntry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	pos, ok := idx.byURL[videoURL]
	if !ok {
		return domain.VideoEntry{}, false
	}
	return idx.entries[pos].Clone(), true
}

// Update applies fn to the entry under the write lock. fn reports whether it
// changed anything. found is false when no entry has that URL.
func (idx *MemoryIndex) Update(videoURL string, fn func(e *domain.VideoEntry) bool) (found, changed bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pos, ok := idx.byURL[videoURL]
	if !ok {
		return false, false
	}
	if fn(&idx.entries[pos]) {
		idx.version++
		return true, true
	}
	return true, false
}

// Count returns the number of entries, soft-deleted ones included
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.entries)
}

// Stats counts entries by state
func (idx *MemoryIndex) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var s Stats
	s.Total = len(idx.entries)
	for _, e := range idx.entries {
		if e.IsDeleted {
			s.Deleted++
		}
		if e.VideoLength == 0 {
			s.Unresolved++
		}
		if e.IsAllSolved() {
			s.Solved++
		}
		s.Puzzles += len(e.Puzzles)
	}
	return s
}

// Version changes whenever the collection changes
func (idx *MemoryIndex) Version() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.version
}

// Loaded reports whether a collection was installed
func (idx *MemoryIndex) Loaded() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.loaded
}

// GetLastReload returns the timestamp of the last Replace
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
