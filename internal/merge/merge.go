// Package merge reconciles freshly fetched entries with the persisted
// collection.
//
// Precedence: fresh batches are concatenated in the order given and the
// first occurrence of a video URL wins. When a fresh entry collides with a
// prior one, the fresh record supplies the content (title, description,
// counters, puzzle list) and the prior record supplies everything the user
// set: the soft-delete flag, the resolved length and per-puzzle flags. Puzzle
// identity is compared on the canonical link so a sudokupad.app link in one
// source and its deep-link form in another are the same puzzle.
package merge

import (
	"sort"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/links"
)

// Merge returns the reconciled collection sorted by publication date, newest
// first. Inputs are not modified. Entries without a video URL are dropped.
func Merge(fresh [][]domain.VideoEntry, prior []domain.VideoEntry) []domain.VideoEntry {
	out := make([]domain.VideoEntry, 0, len(prior))
	pos := make(map[string]int)

	for _, batch := range fresh {
		for _, e := range batch {
			if e.VideoURL == "" {
				continue
			}
			if _, dup := pos[e.VideoURL]; dup {
				continue
			}
			pos[e.VideoURL] = len(out)
			out = append(out, normalize(e))
		}
	}

	merged := make(map[string]bool)
	for _, p := range prior {
		if p.VideoURL == "" || merged[p.VideoURL] {
			continue
		}
		merged[p.VideoURL] = true

		if i, ok := pos[p.VideoURL]; ok {
			out[i] = carryOver(out[i], p)
			continue
		}
		pos[p.VideoURL] = len(out)
		out = append(out, p.Clone())
	}

	SortByPublished(out)
	return out
}

// SortByPublished orders entries newest first. ISO-8601 timestamps compare
// correctly as strings. Ties keep their relative order.
func SortByPublished(entries []domain.VideoEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Published > entries[j].Published
	})
}

// normalize deep-copies a fresh entry, canonicalizes its puzzle links and
// drops repeated links.
func normalize(e domain.VideoEntry) domain.VideoEntry {
	out := e
	out.Puzzles = make([]domain.Puzzle, 0, len(e.Puzzles))
	seen := make(map[string]bool, len(e.Puzzles))
	for _, p := range e.Puzzles {
		p.Link = links.Canonicalize(p.Link)
		if seen[p.Link] {
			continue
		}
		seen[p.Link] = true
		out.Puzzles = append(out.Puzzles, p)
	}
	if out.Views == "" {
		out.Views = domain.DefaultCount
	}
	if out.Rating == "" {
		out.Rating = domain.DefaultCount
	}
	return out
}

// carryOver folds prior state into a fresh entry that is already normalized.
func carryOver(fresh, prior domain.VideoEntry) domain.VideoEntry {
	out := fresh

	out.IsDeleted = fresh.IsDeleted || prior.IsDeleted
	if out.VideoLength == 0 {
		out.VideoLength = prior.VideoLength
	}
	out.Title = firstNonEmpty(fresh.Title, prior.Title)
	out.ThumbnailURL = firstNonEmpty(fresh.ThumbnailURL, prior.ThumbnailURL)
	out.Published = firstNonEmpty(fresh.Published, prior.Published)
	out.Description = firstNonEmpty(fresh.Description, prior.Description)
	out.Views = firstKnown(fresh.Views, prior.Views)
	out.Rating = firstKnown(fresh.Rating, prior.Rating)

	byLink := make(map[string]domain.Puzzle, len(prior.Puzzles))
	for _, p := range prior.Puzzles {
		key := links.Canonicalize(p.Link)
		if _, dup := byLink[key]; !dup {
			byLink[key] = p
		}
	}

	for i, p := range out.Puzzles {
		old, ok := byLink[p.Link]
		if !ok {
			continue
		}
		delete(byLink, p.Link)
		out.Puzzles[i].WasOpened = p.WasOpened || old.WasOpened
		out.Puzzles[i].MarkedAsSolved = p.MarkedAsSolved || old.MarkedAsSolved
		if p.Name == "" && p.Author == "" {
			out.Puzzles[i].Name = old.Name
			out.Puzzles[i].Author = old.Author
		}
	}

	// Puzzles that vanished from the description but were flagged by the
	// user stay, in their prior order.
	for _, p := range prior.Puzzles {
		key := links.Canonicalize(p.Link)
		old, ok := byLink[key]
		if !ok || !old.HasUserState() {
			continue
		}
		delete(byLink, key)
		old.Link = key
		out.Puzzles = append(out.Puzzles, old)
	}

	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstKnown(a, b string) string {
	if a != "" && a != domain.DefaultCount {
		return a
	}
	if b != "" {
		return b
	}
	return domain.DefaultCount
}
