// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	batchqueue "github.com/okian/regista/internal/adapters/mq/queue"
	workerpool "github.com/okian/regista/internal/adapters/mq/worker"
	repository "github.com/okian/regista/internal/adapters/repository"
	"github.com/okian/regista/internal/domain/aggregate"
	"github.com/okian/regista/internal/domain/dedupe"
	"github.com/okian/regista/internal/domain/fold"
	"github.com/okian/regista/internal/domain/model"
	"github.com/okian/regista/internal/domain/pitch"
	"github.com/okian/regista/internal/domain/reports"
	"github.com/okian/regista/internal/domain/types"
	"github.com/okian/regista/pkg/logger"
	"github.com/okian/regista/pkg/metrics"
)

// Service implements the API dependencies for the threat analytics system.
// It owns one aggregate store per configured report plus the shared
// exposure ledger, and acts as the worker pool's merge target.
type Service struct {
	mu sync.RWMutex

	// Core components
	stores     map[string]*repository.TreapStore
	exposure   *repository.ExposureStore
	deduper    dedupe.Deduper
	batchQueue batchqueue.Queue
	engine     fold.Folder
	registry   *reports.Registry
	workerPool *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	gridPath      string
	dims          pitch.Dimensions
	carryParams   pitch.CarryParams
	deriveCarries bool
	reportDefs    []reports.Definition

	// State
	started   bool
	startedAt time.Time

	// Counters for /stats
	ingested   atomic.Int64
	duplicates atomic.Int64
	skipped    atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the match batch queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGridPath points the service at a zone value grid on disk. An empty
// path keeps the embedded default surface.
func WithGridPath(path string) Option {
	return func(s *Service) {
		s.gridPath = path
	}
}

// WithDimensions sets the pitch dimensions used by geometry filters.
func WithDimensions(dims pitch.Dimensions) Option {
	return func(s *Service) {
		if dims.LengthM > 0 && dims.WidthM > 0 {
			s.dims = dims
		}
	}
}

// WithCarryParams sets the thresholds used to synthesize carries.
func WithCarryParams(p pitch.CarryParams) Option {
	return func(s *Service) {
		if p.MaxLengthM > p.MinLengthM && p.MaxSeconds > p.MinSeconds {
			s.carryParams = p
		}
	}
}

// WithDerivation toggles carry synthesis between consecutive actions.
func WithDerivation(enabled bool) Option {
	return func(s *Service) {
		s.deriveCarries = enabled
	}
}

// WithReportDefs sets the report definitions to serve. An empty slice
// keeps the built-in defaults.
func WithReportDefs(defs []reports.Definition) Option {
	return func(s *Service) {
		if len(defs) > 0 {
			s.reportDefs = defs
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(), // folds are CPU bound
		queueSize:     4096,             // queue is sized in matches, not actions
		dedupeSize:    10000,            // default dedupe cache size
		dims:          pitch.DefaultDimensions(),
		carryParams:   pitch.DefaultCarryParams(),
		deriveCarries: true,
		logger:        nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components. Grid and report
// compilation failures are the only fatal startup errors.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting threat service...")

	// Load the value surface: configured file or the embedded default.
	surface := pitch.DefaultGrid()
	if s.gridPath != "" {
		loaded, err := pitch.LoadGrid(s.gridPath)
		if err != nil {
			return fmt.Errorf("load zone grid %s: %w", s.gridPath, err)
		}
		surface = loaded
		s.logger.Info(ctx, "loaded zone grid",
			logger.String("path", s.gridPath),
			logger.Int("rows", surface.Rows()),
			logger.Int("cols", surface.Cols()),
		)
	}

	// Compile report definitions against the shared surface.
	defs := s.reportDefs
	if len(defs) == 0 {
		defs = reports.Defaults()
	}
	registry, err := reports.NewRegistry(defs, surface, s.dims)
	if err != nil {
		return fmt.Errorf("compile reports: %w", err)
	}
	s.registry = registry

	// One aggregate store per report, plus the shared exposure ledger.
	s.stores = make(map[string]*repository.TreapStore, len(registry.All()))
	for _, name := range registry.Names() {
		s.stores[name] = repository.NewTreapStore(ctx, repository.WithReportName(name))
	}
	s.exposure = repository.NewExposureStore()

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.batchQueue = batchqueue.NewInMemoryQueue(
		batchqueue.WithCapacity(s.queueSize),
		batchqueue.WithBufferSize(s.queueSize),
	)
	s.engine = fold.NewEngine(registry,
		fold.WithCarryParams(s.carryParams),
		fold.WithDerivation(s.deriveCarries),
	)

	// The service itself is the pool's merge target.
	s.workerPool = workerpool.NewPool(s.workerCount, s.batchQueue, s.engine, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "threat service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Any("reports", registry.Names()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping threat service...")

	// Stop worker pool
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Close aggregate stores
	for _, store := range s.stores {
		_ = store.Close()
	}

	// Close queue
	if q, ok := s.batchQueue.(*batchqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "threat service stopped")
}

// SeenAndRecord atomically checks if a match id was seen and records it if
// not. Returns true if the match was already seen, false if it was newly
// recorded. This is the ONLY method for deduplication - thread-safe and
// atomic.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		s.duplicates.Add(1)
		metrics.RecordMatchDuplicate()
	}
	return seen
}

// Unrecord removes a match ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a match batch for asynchronous processing. It returns
// false when the queue is full or closed; the caller decides whether to
// roll back the dedupe record.
func (s *Service) Enqueue(ctx context.Context, batch model.MatchBatch) bool {
	s.logger.Debug(ctx, "received match batch",
		logger.String("matchID", batch.MatchID),
		logger.Int("actions", len(batch.Actions)),
		logger.Int("appearances", len(batch.Appearances)),
	)

	ok := s.batchQueue.Enqueue(ctx, batch)
	if ok {
		s.ingested.Add(1)
		metrics.RecordMatchIngested()
	}
	return ok
}

// ApplyAggregates merges one batch's per-report deltas into the matching
// stores. Deltas commute with what is already stored, so workers may
// apply batches in any order.
func (s *Service) ApplyAggregates(ctx context.Context, aggs map[string]aggregate.Aggregate) error {
	for name, agg := range aggs {
		store, err := s.store(name)
		if err != nil {
			return err
		}
		for entityID, totals := range agg.Totals {
			if err := store.Apply(ctx, entityID, totals.Value, totals.Count); err != nil {
				return fmt.Errorf("apply %s to report %s: %w", entityID, name, err)
			}
		}
		if agg.Skipped > 0 {
			s.skipped.Add(agg.Skipped)
		}
	}
	return nil
}

// AddExposure credits played minutes from a batch's appearance list.
// Broken appearances are dropped, never fatal.
func (s *Service) AddExposure(ctx context.Context, appearances []model.Appearance) {
	for _, ap := range appearances {
		if err := ap.Validate(); err != nil {
			s.logger.Debug(ctx, "skipping appearance",
				logger.String("playerID", ap.PlayerID),
				logger.Error(err),
			)
			continue
		}
		s.exposure.Add(ap.PlayerID, ap.Minutes)
	}
}

// TopN returns the top N entries for the named report, enriched with
// per-90 figures where exposure is known.
func (s *Service) TopN(ctx context.Context, report string, n int) ([]types.Entry, error) {
	store, err := s.store(report)
	if err != nil {
		return nil, err
	}
	entries, err := store.TopN(ctx, n)
	if err != nil {
		return nil, err
	}
	return s.enrich(entries), nil
}

// Rank returns the rank and totals for a given entity id under the named
// report.
func (s *Service) Rank(ctx context.Context, report, entityID string) (types.Entry, error) {
	store, err := s.store(report)
	if err != nil {
		return types.Entry{}, err
	}
	entry, err := store.Rank(ctx, entityID)
	if err != nil {
		return types.Entry{}, err
	}
	return s.enrichOne(entry), nil
}

// Export returns the ranked entries for the named report. A non-positive
// n exports the full table.
func (s *Service) Export(ctx context.Context, report string, n int) ([]types.Entry, error) {
	store, err := s.store(report)
	if err != nil {
		return nil, err
	}
	var entries []repository.Entry
	if n > 0 {
		entries, err = store.TopN(ctx, n)
	} else {
		entries, err = store.All(ctx)
	}
	if err != nil {
		return nil, err
	}
	return s.enrich(entries), nil
}

// Reports returns the definitions the service was compiled with, in
// configuration order.
func (s *Service) Reports() []reports.Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.registry == nil {
		return nil
	}
	all := s.registry.All()
	defs := make([]reports.Definition, 0, len(all))
	for _, r := range all {
		defs = append(defs, r.Definition())
	}
	return defs
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.batchQueue.Len(ctx)
		storeEntries := make(map[string]int, len(s.stores))
		for name, store := range s.stores {
			storeEntries[name] = store.Count(ctx)
		}

		stats["reports"] = s.registry.Names()
		stats["queueLength"] = queueLen
		stats["storeEntries"] = storeEntries
		stats["trackedPlayers"] = s.exposure.Count()
		stats["matchesIngested"] = s.ingested.Load()
		stats["matchesDuplicate"] = s.duplicates.Load()
		stats["actionsSkipped"] = s.skipped.Load()
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())

		// Update metrics
		metrics.UpdateQueueDepth(queueLen)
		for name, n := range storeEntries {
			metrics.UpdateStoreEntries(name, n)
		}
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// store resolves a report name to its aggregate store.
func (s *Service) store(report string) (*repository.TreapStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	store, ok := s.stores[report]
	if !ok {
		return nil, fmt.Errorf("%w: %q", reports.ErrUnknownReport, report)
	}
	return store, nil
}

// enrich converts store entries to API entries, attaching per-90 figures
// for entities with known exposure.
func (s *Service) enrich(entries []repository.Entry) []types.Entry {
	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = s.enrichOne(e)
	}
	return out
}

func (s *Service) enrichOne(e repository.Entry) types.Entry {
	entry := types.Entry{
		Rank:     e.Rank,
		EntityID: e.EntityID,
		Total:    e.Total,
		Count:    e.Count,
	}
	if minutes := s.exposure.Minutes(e.EntityID); minutes > 0 {
		entry.Minutes = minutes
		entry.Per90 = aggregate.Per90(e.Total, minutes)
	}
	return entry
}
