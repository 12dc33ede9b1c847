// Package repository defines the leaderboard store interface and errors.
package repository

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/regista/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: total DESC, then entityID ASC (deterministic).
// We implement a BST comparator where "less" means ranks earlier
// (i.e., higher total ranks earlier). This makes in-order traversal
// produce the leaderboard from best to worst.
//
// Totals accumulate in fixed point, so applying the same set of deltas
// in any order yields bit-identical state.

// totalScale controls fixed-point scaling from float64.
const totalScale = 1_000_000_000_000 // 12 decimal places for better precision

type totalFP int64

func toFixedPoint(x float64) totalFP {
	// Handle special cases
	if math.IsNaN(x) {
		return 0
	}
	if math.IsInf(x, 1) {
		return totalFP(math.MaxInt64)
	}
	if math.IsInf(x, -1) {
		return totalFP(math.MinInt64)
	}

	scaled := x * totalScale
	if scaled > float64(math.MaxInt64) {
		return totalFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return totalFP(math.MinInt64)
	}
	return totalFP(math.Round(scaled))
}

func toFloat(x totalFP) float64 {
	return float64(x) / totalScale
}

// record stores the fixed-point total plus the contributing-action count
// for one entity.
type record struct {
	total totalFP
	count int64
}

// Snapshot represents an immutable snapshot of the leaderboard state
type Snapshot struct {
	// Rank and total in O(1) for reads
	RankByEntity  map[string]int
	TotalByEntity map[string]float64

	// Fast Top-K cache up to M items
	TopCache []Entry // sorted descending (M ≪ N_total)
}

// treap node
type node struct {
	id    string
	total totalFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aTotal, aID) should appear before (bTotal, bID)
// in the leaderboard (higher ranks first).
func less(aTotal totalFP, aID string, bTotal totalFP, bID string) bool {
	if aTotal != bTotal {
		return aTotal > bTotal // higher total ranks earlier
	}
	return aID < bID // tie-breaker by id asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// totalToPriority converts a total to a priority value.
// Higher totals get higher priorities to keep them higher in the treap.
func totalToPriority(total totalFP) uint64 {
	// Convert totalFP to uint64, ensuring higher totals get higher priorities
	// We need to handle negative totals by adding an offset
	const offset = uint64(1) << 63 // 2^63 to make all values positive
	return uint64(total) + offset
}

func insert(n *node, id string, total totalFP) *node {
	if n == nil {
		return &node{id: id, total: total, prio: totalToPriority(total), size: 1}
	}
	if less(total, id, n.total, n.id) {
		n.left = insert(n.left, id, total)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, total)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, total totalFP) *node {
	if n == nil {
		return nil
	}
	if total == n.total && id == n.id {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, total)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, total)
		}
	} else if less(total, id, n.total, n.id) {
		n.left = deleteNode(n.left, id, total)
	} else {
		n.right = deleteNode(n.right, id, total)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order (highest totals first).
func collectTopN(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	// In-order traversal follows the less() comparator, so entries come out
	// total DESC with the entity-ID tie-break already applied.

	// Traverse left subtree first (higher totals, or same total with lower ID)
	collectTopN(n.left, limit, records, out)

	// Add current node if we haven't reached the limit
	if len(*out) < limit {
		if rec, exists := records[n.id]; exists {
			*out = append(*out, Entry{Rank: 0 /* fix later */, EntityID: n.id, Total: toFloat(rec.total), Count: rec.count})
		}
	}

	// Traverse right subtree (lower totals, or same total with higher ID) if we still need more
	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

type TreapStore struct {
	mu                    sync.RWMutex
	root                  *node
	byID                  map[string]record
	report                string        // report name used as the metrics label
	snapshotInterval      time.Duration // How often to create periodic snapshots of the store
	topCacheSize          int           // Maximum number of top-ranked records to keep in cache
	metricsUpdateInterval time.Duration // How often background metrics are refreshed

	// snapshot is atomic pointer to a Snapshot struct
	snapshot atomic.Pointer[Snapshot]

	// Periodic snapshot management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		report:                "default",
		snapshotInterval:      1 * time.Second, // default snapshot interval
		topCacheSize:          500,             // default top cache size
		metricsUpdateInterval: 5 * time.Second, // default metrics refresh
		byID:                  make(map[string]record),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	// Initialize stop channel and start periodic snapshot goroutine
	s.stopChan = make(chan struct{})
	s.startPeriodicSnapshots(ctx)

	// Initialize metrics
	metrics.UpdateStoreEntries(s.report, 0)
	s.startMetricsUpdater(ctx)

	return s
}

// startPeriodicSnapshots starts a background goroutine that publishes snapshots at the configured interval
func (s *TreapStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

// publishSnapshot rebuilds and publishes a new snapshot
func (s *TreapStore) publishSnapshot() {
	s.mu.RLock()
	s.publishSnapshotInternal()
	s.mu.RUnlock()
}

// Close gracefully shuts down the periodic snapshot goroutine
func (s *TreapStore) Close() error {
	// Signal all goroutines to stop
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Apply implements Store.Apply with O(log n) expected time. Totals
// accumulate in fixed point, so the final state does not depend on the
// order deltas arrive in.
func (s *TreapStore) Apply(ctx context.Context, entityID string, value float64, count int64) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreMergeLatency(float64(time.Since(start).Milliseconds()))
	}()

	delta := toFixedPoint(value)

	// Track if this is a new entity so we can update metrics after releasing locks
	isNewEntity := false

	s.mu.Lock()
	old, ok := s.byID[entityID]
	if ok {
		s.root = deleteNode(s.root, entityID, old.total)
	} else {
		isNewEntity = true
	}
	next := record{total: old.total + delta, count: old.count + count}
	s.byID[entityID] = next
	s.root = insert(s.root, entityID, next.total)
	s.mu.Unlock()

	// Update metrics outside lock
	if isNewEntity {
		metrics.UpdateStoreEntries(s.report, s.Count(ctx))
	}

	// Snapshots are published periodically, not after every update
	return nil
}

// Rank returns the current rank and totals for an entity. Rank assignment
// walks the whole leaderboard so ties share a rank.
func (s *TreapStore) Rank(ctx context.Context, entityID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Check if the entity exists
	if _, ok := s.byID[entityID]; !ok {
		return Entry{}, ErrNotFound
	}

	// Collect all entries in rank order and assign tie-aware ranks
	allEntries := make([]Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &allEntries)
	assignRanksWithTies(allEntries)

	// Find the rank for this specific entity
	for _, entry := range allEntries {
		if entry.EntityID == entityID {
			return entry, nil
		}
	}

	return Entry{}, ErrNotFound
}

// TopN returns the top N entries ordered by total desc.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(s.root, n, s.byID, &out)

	// Assign ranks with proper tie handling
	assignRanksWithTies(out)
	return out, nil
}

// All returns every entry in rank order, for exports.
func (s *TreapStore) All(ctx context.Context) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the total number of entities.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// LatestSnapshot returns the most recently published snapshot, or nil if
// none has been published yet.
func (s *TreapStore) LatestSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// publishSnapshotInternal rebuilds and publishes a new snapshot (assumes lock is held)
func (s *TreapStore) publishSnapshotInternal() {
	// Build Top-M cache for fast dashboard queries
	topCache := make([]Entry, 0, s.topCacheSize)
	collectTopN(s.root, s.topCacheSize, s.byID, &topCache)

	// Build full rank and total maps
	rankByEntity := make(map[string]int, len(s.byID))
	totalByEntity := make(map[string]float64, len(s.byID))

	// Collect all entries to compute global ranks
	allEntries := make([]Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &allEntries)

	// Assign ranks with proper tie handling
	assignRanksWithTies(allEntries)

	// Build maps from all entries
	for _, entry := range allEntries {
		rankByEntity[entry.EntityID] = entry.Rank
		totalByEntity[entry.EntityID] = entry.Total
	}

	// Update TopCache with correct ranks
	for i := range topCache {
		if rank, exists := rankByEntity[topCache[i].EntityID]; exists {
			topCache[i].Rank = rank
		}
	}

	snapshot := &Snapshot{
		RankByEntity:  rankByEntity,
		TotalByEntity: totalByEntity,
		TopCache:      topCache,
	}

	s.snapshot.Store(snapshot)
}

// startMetricsUpdater starts a background goroutine that updates store metrics
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

// updateMetrics refreshes the store gauges
func (s *TreapStore) updateMetrics() {
	s.mu.RLock()
	recordCount := len(s.byID)
	s.mu.RUnlock()

	metrics.UpdateStoreEntries(s.report, recordCount)
}

// collectAll appends all entries in rank order (highest totals first).
func collectAll(n *node, byID map[string]record, out *[]Entry) {
	if n == nil {
		return
	}
	// Traverse left subtree first (higher totals)
	collectAll(n.left, byID, out)
	// Add current node
	if rec, ok := byID[n.id]; ok {
		*out = append(*out, Entry{
			EntityID: n.id,
			Total:    toFloat(rec.total),
			Count:    rec.count,
		})
	}
	// Traverse right subtree (lower totals)
	collectAll(n.right, byID, out)
}

// assignRanksWithTies assigns ranks with proper tie handling.
// Entities with the same total share a rank, and the following distinct
// total takes the next consecutive rank.
func assignRanksWithTies(entries []Entry) {
	if len(entries) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(entries); i++ {
		// Assign current rank to this entry
		entries[i].Rank = currentRank

		// Count how many entries have the same total as this one
		sameTotalCount := 1
		for j := i + 1; j < len(entries) && entries[j].Total == entries[i].Total; j++ {
			entries[j].Rank = currentRank
			sameTotalCount++
		}

		// Move to the next rank (consecutive ranking)
		currentRank++
		i += sameTotalCount - 1 // Skip the entries we just processed
	}
}
