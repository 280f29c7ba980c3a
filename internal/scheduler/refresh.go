package scheduler

import (
	"context"
	"time"

	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

// Refresher runs one scrape cycle and reports whether the collection changed.
type Refresher interface {
	Refresh(ctx context.Context) bool
}

// RefreshScheduler runs refreshes on a fixed interval and on demand.
type RefreshScheduler struct {
	refresher     Refresher
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	done          chan struct{}
	manualTrigger chan struct{}
}

// NewRefreshScheduler creates a scheduler. An interval <= 0 disables the
// ticker; refreshes then only happen on manual trigger.
func NewRefreshScheduler(
	refresher Refresher,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *RefreshScheduler {
	return &RefreshScheduler{
		refresher:     refresher,
		logger:        log.With(logger.Component("scheduler.refresh")),
		interval:      interval,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs a first refresh in the background and then keeps serving the
// ticker and manual triggers until Stop or ctx cancellation.
func (rs *RefreshScheduler) Start(ctx context.Context) {
	var tick <-chan time.Time
	var ticker *time.Ticker
	if rs.interval > 0 {
		ticker = time.NewTicker(rs.interval)
		tick = ticker.C
	}

	go func() {
		defer close(rs.done)
		if ticker != nil {
			defer ticker.Stop()
		}

		rs.run(ctx, "startup")
		for {
			select {
			case <-tick:
				rs.run(ctx, "interval")
			case <-rs.manualTrigger:
				rs.logger.Info("manual refresh triggered")
				rs.run(ctx, "manual")
			case <-rs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop and waits for a running refresh to return.
func (rs *RefreshScheduler) Stop() {
	close(rs.stopCh)
	<-rs.done
}

func (rs *RefreshScheduler) run(ctx context.Context, reason string) {
	if ctx.Err() != nil {
		return
	}
	changed := rs.refresher.Refresh(ctx)
	rs.logger.Debug("scheduled refresh done",
		logger.String("reason", reason),
		logger.Bool("changed", changed))
}
