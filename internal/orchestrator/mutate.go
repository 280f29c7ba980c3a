package orchestrator

import (
	"context"
	"errors"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/links"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

var (
	ErrEntryNotFound  = errors.New("no entry with that video url")
	ErrPuzzleNotFound = errors.New("no puzzle with that link in the entry")
)

// Snapshot returns a deep copy of the whole collection, soft-deleted
// entries included.
func (o *Orchestrator) Snapshot() []domain.VideoEntry {
	return o.index.All()
}

func (o *Orchestrator) Entry(videoURL string) (domain.VideoEntry, bool) {
	return o.index.Get(videoURL)
}

// Query filters, searches and sorts the collection.
func (o *Orchestrator) Query(q domain.Query) []domain.VideoEntry {
	return q.Apply(o.index.All())
}

// Puzzle returns the stored puzzle matching link, which may be given in
// either the sudokupad.app or the deep-link form.
func (o *Orchestrator) Puzzle(videoURL, link string) (domain.Puzzle, error) {
	e, ok := o.index.Get(videoURL)
	if !ok {
		return domain.Puzzle{}, ErrEntryNotFound
	}
	i := findPuzzle(e, link)
	if i < 0 {
		return domain.Puzzle{}, ErrPuzzleNotFound
	}
	return e.Puzzles[i], nil
}

func (o *Orchestrator) Version() uint64 {
	return o.index.Version()
}

// ToggleOpened flips the opened flag of one puzzle.
func (o *Orchestrator) ToggleOpened(ctx context.Context, videoURL, link string) (bool, error) {
	return o.mutatePuzzle(ctx, "toggle_opened", videoURL, link, func(p *domain.Puzzle) bool {
		p.WasOpened = !p.WasOpened
		return true
	})
}

// ToggleSolved flips the solved flag of one puzzle.
func (o *Orchestrator) ToggleSolved(ctx context.Context, videoURL, link string) (bool, error) {
	return o.mutatePuzzle(ctx, "toggle_solved", videoURL, link, func(p *domain.Puzzle) bool {
		p.MarkedAsSolved = !p.MarkedAsSolved
		return true
	})
}

// MarkOpened records that a puzzle was launched.
func (o *Orchestrator) MarkOpened(ctx context.Context, videoURL, link string) (bool, error) {
	return o.mutatePuzzle(ctx, "mark_opened", videoURL, link, func(p *domain.Puzzle) bool {
		if p.WasOpened {
			return false
		}
		p.WasOpened = true
		return true
	})
}

// ToggleAllOpened flips the opened flag of every puzzle of the entry, each
// one individually.
func (o *Orchestrator) ToggleAllOpened(ctx context.Context, videoURL string) (bool, error) {
	return o.mutate(ctx, "toggle_all_opened", videoURL, func(e *domain.VideoEntry) (bool, error) {
		for i := range e.Puzzles {
			e.Puzzles[i].WasOpened = !e.Puzzles[i].WasOpened
		}
		return len(e.Puzzles) > 0, nil
	})
}

// ToggleAllSolved flips the solved flag of every puzzle of the entry, each
// one individually.
func (o *Orchestrator) ToggleAllSolved(ctx context.Context, videoURL string) (bool, error) {
	return o.mutate(ctx, "toggle_all_solved", videoURL, func(e *domain.VideoEntry) (bool, error) {
		for i := range e.Puzzles {
			e.Puzzles[i].MarkedAsSolved = !e.Puzzles[i].MarkedAsSolved
		}
		return len(e.Puzzles) > 0, nil
	})
}

// Delete soft-deletes an entry.
func (o *Orchestrator) Delete(ctx context.Context, videoURL string) (bool, error) {
	return o.mutate(ctx, "delete", videoURL, func(e *domain.VideoEntry) (bool, error) {
		if e.IsDeleted {
			return false, nil
		}
		e.IsDeleted = true
		return true, nil
	})
}

// Restore clears the soft-delete flag.
func (o *Orchestrator) Restore(ctx context.Context, videoURL string) (bool, error) {
	return o.mutate(ctx, "restore", videoURL, func(e *domain.VideoEntry) (bool, error) {
		if !e.IsDeleted {
			return false, nil
		}
		e.IsDeleted = false
		return true, nil
	})
}

func (o *Orchestrator) mutatePuzzle(ctx context.Context, op, videoURL, link string, fn func(p *domain.Puzzle) bool) (bool, error) {
	return o.mutate(ctx, op, videoURL, func(e *domain.VideoEntry) (bool, error) {
		i := findPuzzle(*e, link)
		if i < 0 {
			return false, ErrPuzzleNotFound
		}
		return fn(&e.Puzzles[i]), nil
	})
}

func findPuzzle(e domain.VideoEntry, link string) int {
	if i := e.PuzzleIndex(link); i >= 0 {
		return i
	}
	return e.PuzzleIndex(links.Canonicalize(link))
}

// mutate applies fn to one entry and, when something changed, persists and
// publishes the full collection before returning.
func (o *Orchestrator) mutate(ctx context.Context, op, videoURL string, fn func(e *domain.VideoEntry) (bool, error)) (bool, error) {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	var fnErr error
	found, changed := o.index.Update(videoURL, func(e *domain.VideoEntry) bool {
		var c bool
		c, fnErr = fn(e)
		return c && fnErr == nil
	})

	switch {
	case !found:
		o.metrics.Mutations.WithLabelValues(op, "not_found").Inc()
		return false, ErrEntryNotFound
	case fnErr != nil:
		o.metrics.Mutations.WithLabelValues(op, "not_found").Inc()
		return false, fnErr
	case !changed:
		o.metrics.Mutations.WithLabelValues(op, "unchanged").Inc()
		return false, nil
	}

	o.persistLocked(ctx)
	o.publishLocked()
	o.metrics.Mutations.WithLabelValues(op, "changed").Inc()
	o.logger.Debug("entry updated", logger.String("op", op), logger.String("video", videoURL))
	return true, nil
}
