package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/fetch"
	"github.com/JonasKlamroth/ctcscraper/internal/links"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
 <title>Cracking The Cryptic</title>
 <entry>
  <id>yt:video:one</id>
  <title>The Miracle Sudoku</title>
  <link rel="alternate" href="https://www.youtube.com/watch?v=one"/>
  <published>2024-03-01T16:00:00+00:00</published>
  <media:group>
   <media:title>The Miracle Sudoku</media:title>
   <media:thumbnail url="https://i.ytimg.com/vi/one/hqdefault.jpg" width="480" height="360"/>
   <media:description>Play it: https://sudokupad.app/miracle
Also https://sudokupad.app/bonus</media:description>
   <media:community>
    <media:starRating count="100" average="4.95" min="1" max="5"/>
    <media:statistics views="123456"/>
   </media:community>
  </media:group>
 </entry>
 <entry>
  <title>Chess talk</title>
  <link rel="alternate" href="https://www.youtube.com/watch?v=two"/>
  <published>2024-03-02T16:00:00+00:00</published>
  <media:group>
   <media:description>No puzzle today.</media:description>
  </media:group>
 </entry>
 <entry>
  <title>Flat layout</title>
  <link href="https://www.youtube.com/watch?v=three"/>
  <published>2024-03-03T16:00:00+00:00</published>
  <media:thumbnail url="https://i.ytimg.com/vi/three/hqdefault.jpg"/>
  <media:description>https://sudokupad.app/flat</media:description>
 </entry>
 <entry>
  <title>No link</title>
  <published>2024-03-04T16:00:00+00:00</published>
  <media:group>
   <media:description>https://sudokupad.app/orphan</media:description>
  </media:group>
 </entry>
</feed>`

func newTestReader(body string, err error) *Reader {
	f := fetch.Func(func(context.Context, string) (string, error) { return body, err })
	return NewReader(DefaultURL, f, links.NewExtractor(nil, false, logger.Nop()), logger.Nop())
}

func TestReaderFetch(t *testing.T) {
	entries := newTestReader(sampleFeed, nil).Fetch(context.Background())

	if len(entries) != 2 {
		t.Fatalf("Fetch() returned %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.Title != "The Miracle Sudoku" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.VideoURL != "https://www.youtube.com/watch?v=one" {
		t.Errorf("VideoURL = %q", first.VideoURL)
	}
	if first.Published != "2024-03-01T16:00:00+00:00" {
		t.Errorf("Published = %q", first.Published)
	}
	if first.ThumbnailURL != "https://i.ytimg.com/vi/one/hqdefault.jpg" {
		t.Errorf("ThumbnailURL = %q", first.ThumbnailURL)
	}
	if first.Views != "123456" || first.Rating != "4.95" {
		t.Errorf("Views/Rating = %q/%q", first.Views, first.Rating)
	}
	if len(first.Puzzles) != 2 {
		t.Fatalf("Puzzles = %d, want 2", len(first.Puzzles))
	}
	if first.Puzzles[0].Link != "https://sudokupad.svencodes.com/puzzle/miracle" {
		t.Errorf("Puzzles[0].Link = %q", first.Puzzles[0].Link)
	}
	if first.Puzzles[1].Link != "https://sudokupad.svencodes.com/puzzle/bonus" {
		t.Errorf("Puzzles[1].Link = %q", first.Puzzles[1].Link)
	}
	if first.VideoLength != 0 || first.IsDeleted {
		t.Errorf("new entries must start unresolved and visible")
	}
}

func TestReaderFetchFlatLayout(t *testing.T) {
	entries := newTestReader(sampleFeed, nil).Fetch(context.Background())

	flat := entries[1]
	if flat.VideoURL != "https://www.youtube.com/watch?v=three" {
		t.Fatalf("VideoURL = %q", flat.VideoURL)
	}
	if flat.ThumbnailURL != "https://i.ytimg.com/vi/three/hqdefault.jpg" {
		t.Errorf("ThumbnailURL = %q", flat.ThumbnailURL)
	}
	if flat.Views != "0" || flat.Rating != "0" {
		t.Errorf("missing community must default to \"0\", got %q/%q", flat.Views, flat.Rating)
	}
	if len(flat.Puzzles) != 1 {
		t.Errorf("Puzzles = %d, want 1", len(flat.Puzzles))
	}
}

func TestReaderFetchFlatMediaTitleKeepsAtomTitle(t *testing.T) {
	body := `<feed xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
 <entry>
  <title>Atom Title</title>
  <link rel="alternate" href="https://www.youtube.com/watch?v=flat"/>
  <published>2024-03-05T16:00:00+00:00</published>
  <media:title>Media Title</media:title>
  <media:description>https://sudokupad.app/flat</media:description>
 </entry>
</feed>`

	entries := newTestReader(body, nil).Fetch(context.Background())
	if len(entries) != 1 {
		t.Fatalf("Fetch() returned %d entries, want 1", len(entries))
	}
	if entries[0].Title != "Atom Title" {
		t.Errorf("Title = %q, want the Atom entry title", entries[0].Title)
	}
	if entries[0].VideoURL != "https://www.youtube.com/watch?v=flat" {
		t.Errorf("VideoURL = %q", entries[0].VideoURL)
	}
}

func TestReaderFetchFailuresYieldEmpty(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{name: "network", err: errors.New("connection refused")},
		{name: "not xml", body: "<html><body>consent"},
		{name: "empty", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := newTestReader(tt.body, tt.err).Fetch(context.Background())
			if entries == nil {
				t.Fatal("Fetch() must return an empty slice, not nil")
			}
			if len(entries) != 0 {
				t.Errorf("Fetch() returned %d entries, want 0", len(entries))
			}
		})
	}
}

type panickingExtractor struct{}

func (panickingExtractor) Extract(_ context.Context, description string) []domain.Puzzle {
	if description == "No puzzle today." {
		panic("bad entry")
	}
	return links.NewExtractor(nil, false, logger.Nop()).Extract(context.Background(), description)
}

func TestReaderFetchDropsPanickingEntry(t *testing.T) {
	f := fetch.Func(func(context.Context, string) (string, error) { return sampleFeed, nil })
	r := NewReader(DefaultURL, f, panickingExtractor{}, logger.Nop())

	entries := r.Fetch(context.Background())
	if len(entries) != 2 {
		t.Fatalf("Fetch() returned %d entries, want 2", len(entries))
	}
}
