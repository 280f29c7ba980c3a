package aggregated

import (
	"strings"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
)

// MapRecords converts external records into entries. Records without a
// video URL or without any link cannot be represented and are skipped.
func MapRecords(records []Record) []domain.VideoEntry {
	out := make([]domain.VideoEntry, 0, len(records))
	for _, r := range records {
		url := strings.TrimSpace(r.VideoURL)
		if url == "" {
			continue
		}

		puzzles := make([]domain.Puzzle, 0, len(r.SudokuPadLinks))
		for _, link := range r.SudokuPadLinks {
			if link = strings.TrimSpace(link); link != "" {
				puzzles = append(puzzles, domain.Puzzle{Link: link})
			}
		}
		if len(puzzles) == 0 {
			continue
		}

		out = append(out, domain.VideoEntry{
			Title:        r.Title,
			Puzzles:      puzzles,
			ThumbnailURL: r.ThumbnailURL,
			Published:    r.Published,
			VideoURL:     url,
			Description:  r.Description,
			Views:        countOrDefault(r.Views),
			Rating:       countOrDefault(r.Rating),
		})
	}
	return out
}

// ToRecords maps entries back into the published schema. Soft-deleted
// entries are left out.
func ToRecords(entries []domain.VideoEntry) []Record {
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		if e.IsDeleted {
			continue
		}
		linksOut := make([]string, len(e.Puzzles))
		for i, p := range e.Puzzles {
			linksOut[i] = p.Link
		}
		out = append(out, Record{
			Title:          e.Title,
			SudokuPadLinks: linksOut,
			ThumbnailURL:   e.ThumbnailURL,
			Published:      e.Published,
			VideoURL:       e.VideoURL,
			Description:    e.Description,
			Views:          countOrDefault(e.Views),
			Rating:         countOrDefault(e.Rating),
		})
	}
	return out
}

func countOrDefault(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return domain.DefaultCount
	}
	return s
}
