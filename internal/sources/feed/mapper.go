package feed

import (
	"strings"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
)

const unknownTitle = "Unknown Title"

// videoURL returns the entry's alternate link, or the first link when no
// rel is given.
func (e atomEntry) videoURL() string {
	for _, l := range e.Links {
		if l.Rel == "alternate" && l.Href != "" {
			return l.Href
		}
	}
	for _, l := range e.Links {
		if l.Href != "" {
			return l.Href
		}
	}
	return ""
}

func (e atomEntry) description() string {
	switch {
	case e.Group.Description != nil:
		return *e.Group.Description
	case e.Description != nil:
		return *e.Description
	}
	return ""
}

func (e atomEntry) thumbnailURL() string {
	switch {
	case e.Group.Thumbnail != nil:
		return e.Group.Thumbnail.URL
	case e.Thumbnail != nil:
		return e.Thumbnail.URL
	}
	return ""
}

func (e atomEntry) community() *atomCommunity {
	if e.Group.Community != nil {
		return e.Group.Community
	}
	return e.Community
}

func (e atomEntry) views() string {
	if c := e.community(); c != nil && c.Statistics != nil {
		return orDefault(c.Statistics.Views)
	}
	return domain.DefaultCount
}

func (e atomEntry) rating() string {
	if c := e.community(); c != nil && c.StarRating != nil {
		return orDefault(c.StarRating.Average)
	}
	return domain.DefaultCount
}

// toEntry maps the raw atom fields. Puzzles are filled by the reader.
func (e atomEntry) toEntry() domain.VideoEntry {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		title = unknownTitle
	}
	return domain.VideoEntry{
		Title:        title,
		Puzzles:      []domain.Puzzle{},
		ThumbnailURL: e.thumbnailURL(),
		Published:    strings.TrimSpace(e.Published),
		VideoURL:     strings.TrimSpace(e.videoURL()),
		Description:  e.description(),
		Views:        e.views(),
		Rating:       e.rating(),
	}
}

func orDefault(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return domain.DefaultCount
	}
	return s
}
