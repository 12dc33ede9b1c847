// Package repository defines the leaderboard store interface and errors.
package repository

import "context"

// Entry represents a leaderboard row.
type Entry struct {
	Rank     int
	EntityID string
	Total    float64
	Count    int64
}

// Store provides read/write access to one report's ranking state.
type Store interface {
	// Apply merges a value delta and contributing-action count into an
	// entity's running totals. Deltas from different matches may arrive
	// in any order.
	Apply(ctx context.Context, entityID string, value float64, count int64) error

	// Rank returns the current rank and totals for an entity.
	// Returns ErrNotFound if the entity is unknown.
	Rank(ctx context.Context, entityID string) (Entry, error)

	// TopN returns the top-N entries ordered by total desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// All returns every entry in rank order.
	All(ctx context.Context) ([]Entry, error)

	// Count returns the number of entities tracked in the leaderboard.
	Count(ctx context.Context) int
}
