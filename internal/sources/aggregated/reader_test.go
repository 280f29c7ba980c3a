package aggregated

import (
	"context"
	"errors"
	"testing"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/fetch"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

const sampleDoc = `[
  {
    "title": "Miracle",
    "sudokuPadLinks": ["https://sudokupad.svencodes.com/puzzle/a", "https://sudokupad.svencodes.com/puzzle/b"],
    "thumbnailUrl": "https://i.ytimg.com/vi/m/hqdefault.jpg",
    "published": "2024-01-01T00:00:00+00:00",
    "videoUrl": "https://www.youtube.com/watch?v=m",
    "description": "desc",
    "views": "42",
    "rating": "5.00",
    "futureField": {"nested": true}
  },
  {
    "title": "Old record",
    "sudokuPadLinks": ["https://sudokupad.svencodes.com/puzzle/c"],
    "thumbnailUrl": "",
    "published": "2023-01-01T00:00:00+00:00",
    "videoUrl": "https://www.youtube.com/watch?v=o"
  },
  {
    "title": "No url",
    "sudokuPadLinks": ["https://sudokupad.svencodes.com/puzzle/d"],
    "thumbnailUrl": "",
    "published": "2023-01-01T00:00:00+00:00"
  },
  {
    "title": "No links",
    "sudokuPadLinks": [],
    "thumbnailUrl": "",
    "published": "2023-01-01T00:00:00+00:00",
    "videoUrl": "https://www.youtube.com/watch?v=n"
  }
]`

func reader(body string, err error) *Reader {
	f := fetch.Func(func(context.Context, string) (string, error) { return body, err })
	return NewReader(DefaultURL, f, logger.Nop())
}

func TestReaderFetch(t *testing.T) {
	entries := reader(sampleDoc, nil).Fetch(context.Background())

	if len(entries) != 2 {
		t.Fatalf("Fetch() returned %d entries, want 2", len(entries))
	}

	m := entries[0]
	if m.VideoURL != "https://www.youtube.com/watch?v=m" || m.Views != "42" || m.Rating != "5.00" {
		t.Errorf("unexpected first entry: %+v", m)
	}
	if len(m.Puzzles) != 2 {
		t.Fatalf("Puzzles = %d, want 2", len(m.Puzzles))
	}
	for _, p := range m.Puzzles {
		if p.Name != "" || p.Author != "" {
			t.Errorf("aggregated puzzles carry no name/author, got %+v", p)
		}
	}

	old := entries[1]
	if old.Views != domain.DefaultCount || old.Rating != domain.DefaultCount {
		t.Errorf("missing views/rating must default, got %q/%q", old.Views, old.Rating)
	}
	if old.Description != "" {
		t.Errorf("Description = %q, want empty", old.Description)
	}
}

func TestReaderFetchFailures(t *testing.T) {
	for name, r := range map[string]*Reader{
		"network": reader("", errors.New("timeout")),
		"garbage": reader("<html>", nil),
		"object":  reader(`{"title":"not a list"}`, nil),
	} {
		t.Run(name, func(t *testing.T) {
			entries := r.Fetch(context.Background())
			if entries == nil || len(entries) != 0 {
				t.Errorf("Fetch() = %v, want empty slice", entries)
			}
		})
	}
}

func TestToRecordsSkipsDeleted(t *testing.T) {
	entries := []domain.VideoEntry{
		{Title: "keep", VideoURL: "v1", Puzzles: []domain.Puzzle{{Link: "l1", WasOpened: true}}},
		{Title: "gone", VideoURL: "v2", IsDeleted: true, Puzzles: []domain.Puzzle{{Link: "l2"}}},
	}

	records := ToRecords(entries)
	if len(records) != 1 {
		t.Fatalf("ToRecords() = %d records, want 1", len(records))
	}
	r := records[0]
	if r.VideoURL != "v1" || len(r.SudokuPadLinks) != 1 || r.SudokuPadLinks[0] != "l1" {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.Views != "0" || r.Rating != "0" {
		t.Errorf("Views/Rating = %q/%q, want defaults", r.Views, r.Rating)
	}

	back := MapRecords(records)
	if len(back) != 1 || back[0].Puzzles[0].WasOpened {
		t.Errorf("user state must not leak into the published schema: %+v", back)
	}
}

func TestEncodeDecodes(t *testing.T) {
	empty, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode(nil) error = %v", err)
	}
	if string(empty) != "[]\n" {
		t.Errorf("Encode(nil) = %q, want []", empty)
	}

	records, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	data, err := Encode(records)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	again, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode(Encode()) error = %v", err)
	}
	if len(again) != len(records) || again[0].Title != records[0].Title {
		t.Errorf("Encode() lost data: %+v", again)
	}
}
