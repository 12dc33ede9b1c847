// Package fold turns accepted match batches into per-report aggregate deltas.
package fold

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/regista/internal/domain/aggregate"
	"github.com/okian/regista/internal/domain/model"
	"github.com/okian/regista/internal/domain/pitch"
	"github.com/okian/regista/internal/domain/reports"
	"github.com/okian/regista/pkg/metrics"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCarryParams overrides the thresholds used to synthesize carries.
func WithCarryParams(p pitch.CarryParams) Option {
	return func(e *Engine) {
		if p.MaxLengthM > p.MinLengthM && p.MaxSeconds > p.MinSeconds {
			e.params = p
		}
	}
}

// WithDerivation toggles carry synthesis. Feeds that already include
// explicit carry actions should disable it to avoid double counting.
func WithDerivation(enabled bool) Option {
	return func(e *Engine) {
		e.derive = enabled
	}
}

// Folder computes per-report aggregates from a match batch, honoring ctx
// for cancellation.
type Folder interface {
	Fold(ctx context.Context, batch model.MatchBatch) (map[string]aggregate.Aggregate, error)
}

// Engine implements Folder over a compiled report registry.
type Engine struct {
	registry *reports.Registry
	params   pitch.CarryParams
	derive   bool
}

// NewEngine creates a fold engine with configuration options.
func NewEngine(registry *reports.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		params:   pitch.DefaultCarryParams(), // default derivation window
		derive:   true,                       // most feeds carry only on-ball actions
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Fold synthesizes carries for the batch and folds the result through
// every registered report. Broken records are tallied per report, never
// fatal; the only error is ctx cancellation.
func (e *Engine) Fold(ctx context.Context, batch model.MatchBatch) (map[string]aggregate.Aggregate, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordFoldLatency(float64(latency))
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fold cancelled: %w", ctx.Err())
	default:
	}

	actions := batch.Actions
	metrics.RecordActionsReceived(len(actions))

	if e.derive {
		derived := pitch.DeriveCarries(actions, e.params)
		if n := len(derived) - len(actions); n > 0 {
			metrics.RecordCarriesDerived(n)
		}
		actions = derived
	}

	out := make(map[string]aggregate.Aggregate, len(e.registry.All()))
	var valued, skipped int64
	for _, r := range e.registry.All() {
		agg := r.Fold(actions)
		for _, t := range agg.Totals {
			valued += t.Count
		}
		skipped += agg.Skipped
		out[r.Name()] = agg
	}
	metrics.RecordActionsValued(valued)
	metrics.RecordActionsSkipped(skipped)

	return out, nil
}
