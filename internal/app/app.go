package app

import (
	"context"
	"fmt"
	"time"

	"github.com/JonasKlamroth/ctcscraper/internal/config"
	"github.com/JonasKlamroth/ctcscraper/internal/httpserver"
	"github.com/JonasKlamroth/ctcscraper/internal/httpserver/deps"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
	"github.com/JonasKlamroth/ctcscraper/internal/scheduler"
	"github.com/JonasKlamroth/ctcscraper/internal/version"
)

// App is the long-running server: periodic refreshes plus the HTTP API.
type App struct {
	cfg        *config.Config
	logger     logger.Logger
	components *Components
	server     *httpserver.Server
	refresher  *scheduler.RefreshScheduler
	gc         *scheduler.GarbageCollector
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	components, err := Build(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	refreshTrigger := make(chan struct{}, 1)
	refresher := scheduler.NewRefreshScheduler(components.Orchestrator, log, cfg.RefreshInterval, refreshTrigger)

	var gc *scheduler.GarbageCollector
	if components.Badger != nil {
		gc = scheduler.NewGarbageCollector(components.Badger, log, cfg.GCInterval)
	}

	d := deps.Deps{
		Logger:              log,
		StartTime:           time.Now(),
		Version:             version.Version,
		Commit:              version.Commit,
		BuildDate:           version.BuildDate,
		GoVersion:           version.GoVersion,
		AllowedCIDRS:        cfg.AllowedCIDRS,
		TrustProxy:          cfg.TrustProxy,
		RefreshBurst:        cfg.RefreshBurst,
		RefreshPerIPPerHour: cfg.RefreshPerIPPerHour,
		Orchestrator:        components.Orchestrator,
		Metrics:             components.Metrics,
		RefreshTrigger:      refreshTrigger,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		components: components,
		server:     httpserver.New(cfg.ListenPort, d),
		refresher:  refresher,
		gc:         gc,
	}, nil
}

// Run blocks until ctx is cancelled or the HTTP server fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)

	// Cached state is served before the first refresh completes.
	a.components.Orchestrator.Load(ctx)

	a.refresher.Start(ctx)
	a.logger.Info("refresh scheduler started",
		logger.Duration("interval", a.cfg.RefreshInterval))

	if a.gc != nil {
		a.gc.Start(ctx)
		a.logger.Info("garbage collector started",
			logger.Duration("interval", a.cfg.GCInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.refresher.Stop()
	if a.gc != nil {
		a.gc.Stop()
	}

	if err := a.components.Close(); err != nil {
		a.logger.Warn("failed to release resources", logger.Error(err))
	} else {
		a.logger.Info("✅ Resources closed cleanly")
	}

	if runErr == nil {
		a.logger.Info("✅ ctcscraper stopped cleanly")
	}
	return runErr
}
