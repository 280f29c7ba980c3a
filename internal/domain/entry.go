package domain

import (
	"encoding/json"
	"slices"
)

// Puzzle is one SudokuPad link embedded in a video description.
//
// Link is the canonical deep link and identifies the puzzle inside its
// VideoEntry. It is not unique across entries.
type Puzzle struct {
	Link   string `json:"sudokuLink" yaml:"sudokuLink"`
	Name   string `json:"name" yaml:"name"`
	Author string `json:"author" yaml:"author"`

	// User state, only changed through the orchestrator mutation API.
	WasOpened      bool `json:"wasOpened" yaml:"wasOpened"`
	MarkedAsSolved bool `json:"markedAsSolved" yaml:"markedAsSolved"`
}

// HasUserState reports whether the user ever flagged this puzzle.
func (p Puzzle) HasUserState() bool {
	return p.WasOpened || p.MarkedAsSolved
}

// VideoEntry is one upstream video and everything derived from it.
//
// VideoURL is the unique key across the whole collection.
type VideoEntry struct {
	Title   string   `json:"title" yaml:"title"`
	Puzzles []Puzzle `json:"puzzles" yaml:"puzzles"`

	ThumbnailURL string `json:"thumbnailUrl" yaml:"thumbnailUrl"`

	// Published is kept as the upstream ISO-8601 string. Ordering relies on
	// lexical comparison, it is never parsed.
	Published string `json:"published" yaml:"published"`

	VideoURL    string `json:"videoUrl" yaml:"videoUrl"`
	Description string `json:"description" yaml:"description"`

	// Views and Rating are upstream text, "0" when unknown.
	Views  string `json:"views" yaml:"views"`
	Rating string `json:"rating" yaml:"rating"`

	// VideoLength in seconds, 0 means unresolved.
	VideoLength int `json:"videoLength" yaml:"videoLength"`

	// IsDeleted marks the entry as soft-deleted. Entries are never removed.
	IsDeleted bool `json:"isDeleted" yaml:"isDeleted"`
}

// DefaultCount is used for views and rating when upstream omits them.
const DefaultCount = "0"

// UnmarshalJSON fills documented defaults for fields missing from older documents.
func (e *VideoEntry) UnmarshalJSON(data []byte) error {
	type plain VideoEntry
	aux := plain{
		Views:  DefaultCount,
		Rating: DefaultCount,
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Puzzles == nil {
		aux.Puzzles = []Puzzle{}
	}
	*e = VideoEntry(aux)
	return nil
}

func (e VideoEntry) IsAnyOpened() bool {
	for _, p := range e.Puzzles {
		if p.WasOpened {
			return true
		}
	}
	return false
}

func (e VideoEntry) IsAllOpened() bool {
	if len(e.Puzzles) == 0 {
		return false
	}
	for _, p := range e.Puzzles {
		if !p.WasOpened {
			return false
		}
	}
	return true
}

func (e VideoEntry) IsAnySolved() bool {
	for _, p := range e.Puzzles {
		if p.MarkedAsSolved {
			return true
		}
	}
	return false
}

func (e VideoEntry) IsAllSolved() bool {
	if len(e.Puzzles) == 0 {
		return false
	}
	for _, p := range e.Puzzles {
		if !p.MarkedAsSolved {
			return false
		}
	}
	return true
}

// PuzzleIndex returns the position of the puzzle with the given link, or -1.
func (e VideoEntry) PuzzleIndex(link string) int {
	for i, p := range e.Puzzles {
		if p.Link == link {
			return i
		}
	}
	return -1
}

// Equal compares two entries field by field, puzzles in order.
func (e VideoEntry) Equal(o VideoEntry) bool {
	return e.Title == o.Title &&
		e.ThumbnailURL == o.ThumbnailURL &&
		e.Published == o.Published &&
		e.VideoURL == o.VideoURL &&
		e.Description == o.Description &&
		e.Views == o.Views &&
		e.Rating == o.Rating &&
		e.VideoLength == o.VideoLength &&
		e.IsDeleted == o.IsDeleted &&
		slices.Equal(e.Puzzles, o.Puzzles)
}

// EqualAll reports whether two collections hold equal entries in the same order.
func EqualAll(a, b []VideoEntry) bool {
	return slices.EqualFunc(a, b, VideoEntry.Equal)
}

// Clone returns a deep copy so callers never share the puzzle slice.
func (e VideoEntry) Clone() VideoEntry {
	out := e
	out.Puzzles = make([]Puzzle, len(e.Puzzles))
	copy(out.Puzzles, e.Puzzles)
	return out
}

// CloneAll deep-copies a collection.
func CloneAll(entries []VideoEntry) []VideoEntry {
	out := make([]VideoEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
