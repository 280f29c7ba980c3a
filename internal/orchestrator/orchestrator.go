// Package orchestrator owns the live entry collection. It sequences
// load → fetch → merge → persist → enrich lengths → persist and exposes the
// query and mutation API used by the HTTP layer and the CLI.
package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonasKlamroth/ctcscraper/internal/domain"
	"github.com/JonasKlamroth/ctcscraper/internal/index"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
	"github.com/JonasKlamroth/ctcscraper/internal/merge"
	"github.com/JonasKlamroth/ctcscraper/internal/metrics"
	"github.com/JonasKlamroth/ctcscraper/internal/store"
)

type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateRefreshing State = "refreshing"
	StateEnriching  State = "enriching-lengths"
)

// Source is one upstream reader. Fetch never fails; a broken source
// returns an empty slice.
type Source interface {
	Name() string
	Fetch(ctx context.Context) []domain.VideoEntry
}

// LengthResolver looks up a video's duration in seconds.
type LengthResolver interface {
	Resolve(ctx context.Context, videoURL string) (int, bool)
}

type Options struct {
	// Sources in merge precedence order.
	Sources []Source
	Lengths LengthResolver
	Store   store.Store
	Index   *index.MemoryIndex
	Metrics *metrics.Metrics
	Logger  logger.Logger
}

// Status is a point-in-time view of the orchestrator.
type Status struct {
	State       State       `json:"state"`
	Version     uint64      `json:"version"`
	LastRefresh time.Time   `json:"lastRefresh"`
	LastRunID   string      `json:"lastRunId,omitempty"`
	LastChanged bool        `json:"lastChanged"`
	Entries     index.Stats `json:"entries"`
}

type Orchestrator struct {
	sources []Source
	lengths LengthResolver
	store   store.Store
	index   *index.MemoryIndex
	metrics *metrics.Metrics
	logger  logger.Logger

	running atomic.Bool

	// writeMu serializes every write to the collection together with the
	// save and publish that follow it, so snapshots reach the store in order.
	writeMu sync.Mutex

	statusMu    sync.RWMutex
	state       State
	lastRefresh time.Time
	lastRunID   string
	lastChanged bool

	observersMu sync.RWMutex
	observers   []func([]domain.VideoEntry)
}

func New(opts Options) *Orchestrator {
	if opts.Index == nil {
		opts.Index = index.NewMemoryIndex()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Orchestrator{
		sources: opts.Sources,
		lengths: opts.Lengths,
		store:   opts.Store,
		index:   opts.Index,
		metrics: opts.Metrics,
		logger:  opts.Logger.With(logger.Component("orchestrator")),
		state:   StateIdle,
	}
}

// OnPublish registers fn to receive a snapshot after every change. fn runs
// synchronously while writes are held and must not call mutation methods.
func (o *Orchestrator) OnPublish(fn func([]domain.VideoEntry)) {
	o.observersMu.Lock()
	defer o.observersMu.Unlock()
	o.observers = append(o.observers, fn)
}

// Load installs the persisted snapshot when the collection is still empty.
func (o *Orchestrator) Load(ctx context.Context) {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()
	o.loadLocked(ctx)
}

func (o *Orchestrator) loadLocked(ctx context.Context) {
	if o.index.Count() > 0 {
		return
	}
	prev := o.setState(StateLoading)
	defer o.setState(prev)

	entries := o.store.Load(ctx)
	o.index.Replace(entries)
	o.logger.Info("snapshot loaded", logger.Int("entries", len(entries)))
	o.publishLocked()
}

// Refresh runs one full cycle. It returns false without doing anything when
// another refresh is in progress, otherwise whether the collection changed.
func (o *Orchestrator) Refresh(ctx context.Context) bool {
	if !o.running.CompareAndSwap(false, true) {
		o.metrics.Refreshes.WithLabelValues("skipped").Inc()
		return false
	}
	defer o.running.Store(false)
	defer o.setState(StateIdle)

	runID := uuid.NewString()
	log := o.logger.With(logger.String("run", runID))
	start := time.Now()

	o.Load(ctx)
	before := o.index.All()

	o.setState(StateRefreshing)
	batches := o.fetchAll(ctx, log)

	o.writeMu.Lock()
	merged := merge.Merge(batches, o.index.All())
	o.index.Replace(merged)
	o.persistLocked(ctx)
	o.publishLocked()
	o.writeMu.Unlock()

	o.setState(StateEnriching)
	o.enrichLengths(ctx, log)

	o.writeMu.Lock()
	o.persistLocked(ctx)
	o.writeMu.Unlock()

	changed := !domain.EqualAll(before, o.index.All())
	elapsed := time.Since(start)

	o.statusMu.Lock()
	o.lastRefresh = time.Now()
	o.lastRunID = runID
	o.lastChanged = changed
	o.statusMu.Unlock()

	result := "unchanged"
	if changed {
		result = "changed"
	}
	o.metrics.Refreshes.WithLabelValues(result).Inc()
	o.metrics.RefreshDuration.Observe(elapsed.Seconds())

	log.Info("refresh finished",
		logger.Bool("changed", changed),
		logger.Int("entries", o.index.Count()),
		logger.Duration("elapsed", elapsed))
	return changed
}

// fetchAll runs every source concurrently and waits for all of them.
func (o *Orchestrator) fetchAll(ctx context.Context, log logger.Logger) [][]domain.VideoEntry {
	batches := make([][]domain.VideoEntry, len(o.sources))

	var g errgroup.Group
	for i, src := range o.sources {
		i, src := i, src
		g.Go(func() error {
			batches[i] = src.Fetch(ctx)
			o.metrics.SourceEntries.WithLabelValues(src.Name()).Set(float64(len(batches[i])))
			log.Debug("source done",
				logger.String("source", src.Name()),
				logger.Int("entries", len(batches[i])))
			return nil
		})
	}
	_ = g.Wait()

	return batches
}

// enrichLengths resolves every unresolved entry concurrently. Each result is
// applied as soon as it arrives. Returns after all lookups settled.
func (o *Orchestrator) enrichLengths(ctx context.Context, log logger.Logger) {
	if o.lengths == nil {
		return
	}

	var targets []string
	for _, e := range o.index.All() {
		if e.VideoLength == 0 && e.VideoURL != "" {
			targets = append(targets, e.VideoURL)
		}
	}
	if len(targets) == 0 {
		return
	}

	var resolved atomic.Int32
	var g errgroup.Group
	for _, url := range targets {
		url := url
		g.Go(func() error {
			n, ok := o.lengths.Resolve(ctx, url)
			if !ok || n <= 0 {
				o.metrics.LengthResolutions.WithLabelValues("absent").Inc()
				return nil
			}
			o.metrics.LengthResolutions.WithLabelValues("resolved").Inc()
			resolved.Add(1)

			o.writeMu.Lock()
			defer o.writeMu.Unlock()
			_, changed := o.index.Update(url, func(e *domain.VideoEntry) bool {
				if e.VideoLength != 0 {
					return false
				}
				e.VideoLength = n
				return true
			})
			if changed {
				o.publishLocked()
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Info("lengths enriched",
		logger.Int("requested", len(targets)),
		logger.Int("resolved", int(resolved.Load())))
}

// persistLocked saves the current collection. Caller holds writeMu. The save
// outlives cancellation of ctx so the final snapshot still lands on shutdown.
func (o *Orchestrator) persistLocked(ctx context.Context) {
	entries := o.index.All()
	if err := o.store.Save(context.WithoutCancel(ctx), entries); err != nil {
		o.metrics.StoreErrors.Inc()
		o.logger.Error("snapshot save failed", logger.Error(err))
	}
	o.updateGauges()
}

// publishLocked notifies observers. Caller holds writeMu.
func (o *Orchestrator) publishLocked() {
	o.observersMu.RLock()
	observers := o.observers
	o.observersMu.RUnlock()

	for _, fn := range observers {
		fn(o.index.All())
	}
}

func (o *Orchestrator) updateGauges() {
	s := o.index.Stats()
	o.metrics.Entries.WithLabelValues("total").Set(float64(s.Total))
	o.metrics.Entries.WithLabelValues("deleted").Set(float64(s.Deleted))
	o.metrics.Entries.WithLabelValues("unresolved").Set(float64(s.Unresolved))
}

func (o *Orchestrator) setState(s State) (prev State) {
	o.statusMu.Lock()
	defer o.statusMu.Unlock()
	prev, o.state = o.state, s
	return prev
}

func (o *Orchestrator) State() State {
	o.statusMu.RLock()
	defer o.statusMu.RUnlock()
	return o.state
}

// Refreshing reports whether a refresh is running.
func (o *Orchestrator) Refreshing() bool {
	return o.running.Load()
}

func (o *Orchestrator) LastRefresh() time.Time {
	o.statusMu.RLock()
	defer o.statusMu.RUnlock()
	return o.lastRefresh
}

func (o *Orchestrator) Status() Status {
	o.statusMu.RLock()
	defer o.statusMu.RUnlock()
	return Status{
		State:       o.state,
		Version:     o.index.Version(),
		LastRefresh: o.lastRefresh,
		LastRunID:   o.lastRunID,
		LastChanged: o.lastChanged,
		Entries:     o.index.Stats(),
	}
}

// Ready reports whether a snapshot was loaded.
func (o *Orchestrator) Ready() bool {
	return o.index.Loaded()
}
