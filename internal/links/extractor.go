// Package links pulls SudokuPad links out of video descriptions, rewrites
// them to the canonical deep-link form and optionally resolves the puzzle's
// name and author from its page title.
package links

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/fetch"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

const (
	sourceHost    = "sudokupad.app/"
	canonicalHost = "sudokupad.svencodes.com/puzzle/"
)

// Links already in deep-link form are accepted too.
var linkPattern = regexp.MustCompile(`https://sudokupad\.(?:app/|svencodes\.com/puzzle/)\S+`)

// Canonicalize rewrites a sudokupad.app link into the deep-link host form.
// It is a plain substitution and leaves canonical links untouched.
func Canonicalize(link string) string {
	return strings.Replace(link, sourceHost, canonicalHost, 1)
}

// Find returns every puzzle link in text in order of appearance, as written.
func Find(text string) []string {
	return linkPattern.FindAllString(text, -1)
}

// Meta is the name and author parsed from a puzzle page.
type Meta struct {
	Name   string `json:"name"`
	Author string `json:"author"`
}

// Cache remembers resolved puzzle metadata between refreshes.
type Cache interface {
	Get(ctx context.Context, link string) (Meta, bool)
	Put(ctx context.Context, link string, meta Meta)
}

type Extractor struct {
	fetcher fetch.Fetcher
	resolve bool
	cache   Cache
	logger  logger.Logger
}

// NewExtractor builds an Extractor. When resolve is false or fetcher is nil
// puzzles are returned without name and author.
func NewExtractor(fetcher fetch.Fetcher, resolve bool, log logger.Logger) *Extractor {
	return &Extractor{
		fetcher: fetcher,
		resolve: resolve && fetcher != nil,
		logger:  log.With(logger.Component("links")),
	}
}

// WithCache makes lookups consult c before fetching the puzzle page.
func (x *Extractor) WithCache(c Cache) *Extractor {
	x.cache = c
	return x
}

// Extract returns one puzzle per link found in description. It never fails:
// a puzzle whose page cannot be read keeps an empty name and author.
func (x *Extractor) Extract(ctx context.Context, description string) []domain.Puzzle {
	found := Find(description)
	puzzles := make([]domain.Puzzle, len(found))
	for i, link := range found {
		puzzles[i] = domain.Puzzle{Link: Canonicalize(link)}
	}

	if !x.resolve || len(found) == 0 {
		return puzzles
	}

	var g errgroup.Group
	for i, link := range found {
		i, link := i, link
		g.Go(func() error {
			puzzles[i].Name, puzzles[i].Author = x.lookup(ctx, link)
			return nil
		})
	}
	_ = g.Wait()

	return puzzles
}

// lookup fetches the original link and parses its page title.
func (x *Extractor) lookup(ctx context.Context, link string) (name, author string) {
	key := Canonicalize(link)
	if x.cache != nil {
		if m, ok := x.cache.Get(ctx, key); ok {
			return m.Name, m.Author
		}
	}

	page, err := x.fetcher.Fetch(ctx, link)
	if err != nil {
		x.logger.Debug("puzzle page unavailable", logger.String("link", link), logger.Error(err))
		return "", ""
	}

	title := PageTitle(page)
	name, author = ParseTitle(title)
	if name == "" {
		x.logger.Debug("puzzle title not recognised",
			logger.String("link", link),
			logger.String("title", title))
		return "", ""
	}

	if x.cache != nil {
		x.cache.Put(ctx, key, Meta{Name: name, Author: author})
	}
	return name, author
}
