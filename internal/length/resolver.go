// Package length resolves a video's duration from its watch page.
package length

import (
	"context"
	"regexp"
	"strconv"

	"github.com/JonasKlamroth/ctcscraper/internal/fetch"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

var lengthPattern = regexp.MustCompile(`"lengthSeconds":"(\d+)"`)

type Resolver struct {
	fetcher fetch.Fetcher
	logger  logger.Logger
}

func NewResolver(fetcher fetch.Fetcher, log logger.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		logger:  log.With(logger.Component("length")),
	}
}

// Resolve returns the video length in seconds. ok is false when the URL is
// empty, the page cannot be fetched or carries no length field.
func (r *Resolver) Resolve(ctx context.Context, videoURL string) (seconds int, ok bool) {
	if videoURL == "" {
		return 0, false
	}

	page, err := r.fetcher.Fetch(ctx, videoURL)
	if err != nil {
		r.logger.Debug("video page unavailable", logger.String("url", videoURL), logger.Error(err))
		return 0, false
	}

	return Parse(page)
}

// Parse extracts the first lengthSeconds value from page markup.
func Parse(page string) (int, bool) {
	m := lengthPattern.FindStringSubmatch(page)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
