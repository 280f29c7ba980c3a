package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

// Options configures an HTTPFetcher.
type Options struct {
	Timeout           time.Duration // per request, ex: 15s
	UserAgent         string        // sent with every request
	RequestsPerSecond float64       // shared across all callers, <= 0 disables throttling
	Burst             int           // limiter burst
	MaxRetries        int           // extra attempts for temporary failures
	RetryInterval     time.Duration // initial wait between retries (doubles each time)
	MaxWait           time.Duration // cap for the retry wait
	MaxBodyBytes      int64         // response bodies are truncated to this size
}

func DefaultOptions() Options {
	return Options{
		Timeout:           15 * time.Second,
		UserAgent:         "ctcscraper",
		RequestsPerSecond: 8,
		Burst:             8,
		MaxRetries:        2,
		RetryInterval:     500 * time.Millisecond,
		MaxWait:           5 * time.Second,
		MaxBodyBytes:      8 << 20,
	}
}

// HTTPFetcher performs throttled GET requests with exponential backoff on
// temporary failures (network errors, 429, 5xx).
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	opts    Options
	logger  logger.Logger
}

func NewHTTPFetcher(opts Options, log logger.Logger) *HTTPFetcher {
	return NewHTTPFetcherWithClient(&http.Client{Timeout: opts.Timeout}, opts, log)
}

// NewHTTPFetcherWithClient is used by tests to point at an httptest server.
func NewHTTPFetcherWithClient(client *http.Client, opts Options, log logger.Logger) *HTTPFetcher {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultOptions().MaxBodyBytes
	}
	return &HTTPFetcher{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		opts:    opts,
		logger:  log.With(logger.Component("fetch")),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", ErrEmptyURL
	}

	wait := f.opts.RetryInterval
	attempt := 0
	for {
		attempt++
		body, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		if attempt > f.opts.MaxRetries || !retryable(err) || ctx.Err() != nil {
			return "", err
		}

		f.logger.Debug("fetch failed, retrying",
			logger.String("url", url),
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", wait),
			logger.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("fetch %s: %w", url, ctx.Err())
		case <-timer.C:
		}

		wait *= 2
		if f.opts.MaxWait > 0 && wait > f.opts.MaxWait {
			wait = f.opts.MaxWait
		}
	}
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	// YouTube serves a consent interstitial without this.
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &StatusError{URL: url, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}
	return string(data), nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
