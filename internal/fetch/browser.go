package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

// ErrNoBrowser is returned when no Chromium binary can be found.
var ErrNoBrowser = errors.New("no browser executable found for rod")

// BrowserFetcher renders pages in a headless browser and returns the final
// document markup. SudokuPad sets its document title from script, so a plain
// GET only sees the static shell.
//
// The browser is launched on first use and reused until Close.
type BrowserFetcher struct {
	timeout time.Duration
	logger  logger.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func NewBrowserFetcher(timeout time.Duration, log logger.Logger) *BrowserFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BrowserFetcher{
		timeout: timeout,
		logger:  log.With(logger.Component("browser")),
	}
}

func (b *BrowserFetcher) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	path, exists := launcher.LookPath()
	if !exists {
		return nil, ErrNoBrowser
	}

	l := launcher.New().Bin(path).Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	b.logger.Info("headless browser started", logger.String("bin", path))
	b.launcher = l
	b.browser = browser
	return browser, nil
}

func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	if url == "" {
		return "", ErrEmptyURL
	}

	browser, err := b.connect()
	if err != nil {
		return "", err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", fmt.Errorf("open page %s: %w", url, err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			b.logger.Debug("close page", logger.String("url", url), logger.Error(cerr))
		}
	}()

	pageCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	page = page.Context(pageCtx)

	if err := page.WaitLoad(); err != nil {
		if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("render %s: %w", url, pageCtx.Err())
		}
		return "", fmt.Errorf("wait for %s: %w", url, err)
	}

	html, err = page.HTML()
	if err != nil {
		return "", fmt.Errorf("read markup of %s: %w", url, err)
	}
	return html, nil
}

// Close shuts the browser down. Safe to call when it was never started.
func (b *BrowserFetcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.launcher.Kill()
	b.browser = nil
	b.launcher = nil
	return err
}
