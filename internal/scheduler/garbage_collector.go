package scheduler

import (
	"context"
	"time"

	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

// DefaultGCInterval is how often the store is compacted.
const DefaultGCInterval = 10 * time.Minute

// Collector reclaims space in a store. BadgerDB implements it.
type Collector interface {
	CollectGarbage() (int, error)
}

// GarbageCollector periodically compacts the snapshot store.
type GarbageCollector struct {
	collector Collector
	logger    logger.Logger
	interval  time.Duration
	stopCh    chan struct{}
	done      chan struct{}
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(c Collector, log logger.Logger, interval time.Duration) *GarbageCollector {
	if interval <= 0 {
		interval = DefaultGCInterval
	}

	return &GarbageCollector{
		collector: c,
		logger:    log.With(logger.Component("scheduler.gc")),
		interval:  interval,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) {
	ticker := time.NewTicker(gc.interval)
	go func() {
		defer close(gc.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gc.Collect()
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop and waits for a running pass to finish, so the store
// can be closed right after.
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
	<-gc.done
}

// Collect runs one pass and returns the number of rewritten files.
func (gc *GarbageCollector) Collect() int {
	n, err := gc.collector.CollectGarbage()
	if err != nil {
		gc.logger.Error("garbage collection failed", logger.Error(err))
		return n
	}

	if n > 0 {
		gc.logger.Info("garbage collection completed", logger.Int("rewritten", n))
	} else {
		gc.logger.Debug("nothing to garbage collect")
	}
	return n
}
