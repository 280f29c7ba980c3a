// Package aggregated reads the externally published puzzles.json feed.
package aggregated

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/fetch"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

// DefaultURL is the GitHub Pages copy of the aggregated feed.
const DefaultURL = "https://jonasklamroth.github.io/CTCScraper/puzzles.json"

type Reader struct {
	url     string
	fetcher fetch.Fetcher
	logger  logger.Logger
}

func NewReader(url string, fetcher fetch.Fetcher, log logger.Logger) *Reader {
	return &Reader{
		url:     url,
		fetcher: fetcher,
		logger:  log.With(logger.Component("aggregated"), logger.String("url", url)),
	}
}

func (r *Reader) Name() string { return "aggregated" }

// Fetch returns the mapped entries, or an empty slice on any failure.
func (r *Reader) Fetch(ctx context.Context) []domain.VideoEntry {
	body, err := r.fetcher.Fetch(ctx, r.url)
	if err != nil {
		r.logger.Warn("aggregated fetch failed", logger.Error(err))
		return []domain.VideoEntry{}
	}

	records, err := Decode([]byte(body))
	if err != nil {
		r.logger.Warn("aggregated parse failed", logger.Error(err))
		return []domain.VideoEntry{}
	}

	entries := MapRecords(records)
	r.logger.Info("aggregated feed read",
		logger.Int("records", len(records)),
		logger.Int("entries", len(entries)))
	return entries
}

// Decode parses a puzzles.json document.
func Decode(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode aggregated records: %w", err)
	}
	return records, nil
}

// Encode renders records as an indented puzzles.json document.
func Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode aggregated records: %w", err)
	}
	return append(data, '\n'), nil
}
