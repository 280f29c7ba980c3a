// Package feed reads the channel's Atom video feed into candidate entries.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/fetch"
	"github.com/JonasKlamroth/ctcscraper/internal/links"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

// DefaultURL is the Cracking the Cryptic channel feed.
const DefaultURL = "https://www.youtube.com/feeds/videos.xml?channel_id=UCC-UOdK8-mIjxBQm_ot1T-Q"

// Extractor turns a description into puzzles.
type Extractor interface {
	Extract(ctx context.Context, description string) []domain.Puzzle
}

type Reader struct {
	url       string
	fetcher   fetch.Fetcher
	extractor Extractor
	logger    logger.Logger
}

func NewReader(url string, fetcher fetch.Fetcher, extractor Extractor, log logger.Logger) *Reader {
	return &Reader{
		url:       url,
		fetcher:   fetcher,
		extractor: extractor,
		logger:    log.With(logger.Component("feed"), logger.String("url", url)),
	}
}

func (r *Reader) Name() string { return "feed" }

// Fetch downloads and parses the feed. Entries without a puzzle link are
// skipped. Any document level failure yields an empty result.
func (r *Reader) Fetch(ctx context.Context) []domain.VideoEntry {
	body, err := r.fetcher.Fetch(ctx, r.url)
	if err != nil {
		r.logger.Warn("feed fetch failed", logger.Error(err))
		return []domain.VideoEntry{}
	}

	feed, err := parse(body)
	if err != nil {
		r.logger.Warn("feed parse failed", logger.Error(err))
		return []domain.VideoEntry{}
	}

	results := make([]*domain.VideoEntry, len(feed.Entries))
	var g errgroup.Group
	for i, raw := range feed.Entries {
		i, raw := i, raw
		g.Go(func() error {
			results[i] = r.convert(ctx, raw)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.VideoEntry, 0, len(results))
	for _, e := range results {
		if e != nil {
			out = append(out, *e)
		}
	}

	r.logger.Info("feed read",
		logger.Int("entries", len(feed.Entries)),
		logger.Int("with_puzzles", len(out)))
	return out
}

// convert maps a single entry. A failure here only drops that entry.
func (r *Reader) convert(ctx context.Context, raw atomEntry) (entry *domain.VideoEntry) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("feed entry dropped",
				logger.String("title", raw.Title),
				logger.String("panic", fmt.Sprint(rec)))
			entry = nil
		}
	}()

	e := raw.toEntry()
	if e.VideoURL == "" {
		r.logger.Debug("feed entry without link", logger.String("title", e.Title))
		return nil
	}

	e.Puzzles = r.extractor.Extract(ctx, e.Description)
	if len(e.Puzzles) == 0 {
		r.logger.Debug("no puzzle link found", logger.String("title", e.Title))
		return nil
	}
	return &e
}

func parse(body string) (*atomFeed, error) {
	var feed atomFeed
	if err := xml.NewDecoder(strings.NewReader(body)).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse atom feed: %w", err)
	}
	return &feed, nil
}

var _ Extractor = (*links.Extractor)(nil)
