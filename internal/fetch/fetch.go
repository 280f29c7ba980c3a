// Package fetch provides the "fetch text from URL" capability used by every
// upstream reader. Implementations return the raw body as a string.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Fetcher retrieves the text behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Func adapts a plain function to Fetcher.
type Func func(ctx context.Context, url string) (string, error)

func (f Func) Fetch(ctx context.Context, url string) (string, error) { return f(ctx, url) }

// ErrEmptyURL is returned when a fetch is attempted without a URL.
var ErrEmptyURL = errors.New("empty url")

// StatusError reports a non-200 upstream response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// IsStatus reports whether err wraps a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
