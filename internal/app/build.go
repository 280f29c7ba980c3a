package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	goredis "github.com/redis/go-redis/v9"

	"github.com/JonasKlamroth/ctcscraper/internal/config"
	"github.com/JonasKlamroth/ctcscraper/internal/fetch"
	"github.com/JonasKlamroth/ctcscraper/internal/length"
	"github.com/JonasKlamroth/ctcscraper/internal/links"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
	"github.com/JonasKlamroth/ctcscraper/internal/metrics"
	"github.com/JonasKlamroth/ctcscraper/internal/orchestrator"
	"github.com/JonasKlamroth/ctcscraper/internal/redis"
	"github.com/JonasKlamroth/ctcscraper/internal/sources/aggregated"
	"github.com/JonasKlamroth/ctcscraper/internal/sources/feed"
	"github.com/JonasKlamroth/ctcscraper/internal/store"
	badgerstore "github.com/JonasKlamroth/ctcscraper/internal/store/badger"
	filestore "github.com/JonasKlamroth/ctcscraper/internal/store/file"
	redisstore "github.com/JonasKlamroth/ctcscraper/internal/store/redis"
	"github.com/JonasKlamroth/ctcscraper/internal/version"
)

// Components is the wired pipeline shared by the server and the one-shot
// CLI commands.
type Components struct {
	Orchestrator *orchestrator.Orchestrator
	Metrics      *metrics.Metrics
	Store        store.Store
	RedisClient  *goredis.Client             // nil unless a redis backend is used
	PuzzleCache  *redisstore.PuzzleMetaCache // nil without redis
	Badger       *badgerstore.Store          // nil unless the badger backend is used

	closers []io.Closer
}

// Build connects the configured store and wires sources, resolvers and the
// orchestrator. The caller must Close the result.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*Components, error) {
	c := &Components{Metrics: metrics.New()}

	if err := c.openStore(ctx, cfg, log); err != nil {
		c.Close()
		return nil, err
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}
	httpFetcher := fetch.NewHTTPFetcher(fetch.Options{
		Timeout:           cfg.FetchTimeout,
		UserAgent:         userAgent,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		MaxRetries:        cfg.MaxRetries,
		RetryInterval:     cfg.RetryInterval,
		MaxWait:           fetch.DefaultOptions().MaxWait,
		MaxBodyBytes:      fetch.DefaultOptions().MaxBodyBytes,
	}, log)

	var puzzleFetcher fetch.Fetcher = httpFetcher
	if cfg.PuzzleFetcher == "browser" {
		browser := fetch.NewBrowserFetcher(cfg.FetchTimeout*2, log)
		c.closers = append(c.closers, browser)
		puzzleFetcher = browser
	}

	extractor := links.NewExtractor(puzzleFetcher, cfg.ResolvePuzzleNames, log)
	if c.RedisClient != nil {
		c.PuzzleCache = redisstore.NewPuzzleMetaCache(c.RedisClient, cfg.PuzzleCacheTTL, log)
		extractor.WithCache(c.PuzzleCache)
	}

	sources := []orchestrator.Source{feed.NewReader(cfg.FeedURL, httpFetcher, extractor, log)}
	if cfg.AggregatedURL != "" {
		sources = append(sources, aggregated.NewReader(cfg.AggregatedURL, httpFetcher, log))
	} else {
		log.Info("aggregated source disabled")
	}

	c.Orchestrator = orchestrator.New(orchestrator.Options{
		Sources: sources,
		Lengths: length.NewResolver(httpFetcher, log),
		Store:   c.Store,
		Metrics: c.Metrics,
		Logger:  log,
	})
	return c, nil
}

func (c *Components) openStore(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	switch cfg.StoreBackend {
	case "file":
		c.Store = filestore.New(cfg.StorePath, log)

	case "badger":
		db, err := badgerstore.Open(cfg.BadgerDir, log)
		if err != nil {
			return err
		}
		c.Badger = db
		c.Store = db

	case "redis":
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.RedisClient = client
		c.closers = append(c.closers, client)
		c.Store = redisstore.NewStore(client, log)

	default:
		return fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	return nil
}

// Close releases the store, the redis client and the browser.
func (c *Components) Close() error {
	var errs []error
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
