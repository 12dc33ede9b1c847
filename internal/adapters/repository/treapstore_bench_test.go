package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"
)

func BenchmarkTreapStore_MixedLoad(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("failed to close store: %v\n", err)
		}
	}()

	// Pre-populate with a full season of players
	numPlayers := 100_000
	for i := 0; i < numPlayers; i++ {
		entityID := fmt.Sprintf("player_%d", i)
		_ = store.Apply(ctx, entityID, rand.Float64(), 1)
	}

	b.ResetTimer()
	b.ReportAllocs()

	// Distribute operations: 40% writes, 30% reads, 20% TopN, 10% Count
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			opType := i % 10

			switch {
			case opType < 4: // 40% - Apply deltas
				entityID := fmt.Sprintf("player_%d", i%numPlayers)
				_ = store.Apply(ctx, entityID, rand.Float64()-0.25, 1)

			case opType < 7: // 30% - Rank queries
				entityID := fmt.Sprintf("player_%d", i%numPlayers)
				_, _ = store.Rank(ctx, entityID)

			case opType < 9: // 20% - TopN queries (various sizes)
				size := 10 + (i % 100) // 10 to 109
				_, _ = store.TopN(ctx, size)

			default: // 10% - Count operations
				store.Count(ctx)
			}
			i++
		}
	})
}

func BenchmarkTreapStore_WriteHeavy(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("failed to close store: %v\n", err)
		}
	}()

	numPlayers := 100_000
	for i := 0; i < numPlayers; i++ {
		entityID := fmt.Sprintf("player_%d", i)
		_ = store.Apply(ctx, entityID, rand.Float64(), 1)
	}

	b.ResetTimer()
	b.ReportAllocs()

	// 70% writes, 20% reads, 10% TopN, roughly a matchday ingest burst
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			opType := i % 10

			switch {
			case opType < 7: // 70% - Apply deltas
				entityID := fmt.Sprintf("player_%d", i%numPlayers)
				_ = store.Apply(ctx, entityID, rand.Float64()-0.25, 1)

			case opType < 9: // 20% - Rank queries
				entityID := fmt.Sprintf("player_%d", i%numPlayers)
				_, _ = store.Rank(ctx, entityID)

			default: // 10% - TopN queries
				size := 10 + (i % 50) // 10 to 59
				_, _ = store.TopN(ctx, size)
			}
			i++
		}
	})
}

func BenchmarkTreapStore_ReadHeavy(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("failed to close store: %v\n", err)
		}
	}()

	numPlayers := 100_000
	for i := 0; i < numPlayers; i++ {
		entityID := fmt.Sprintf("player_%d", i)
		_ = store.Apply(ctx, entityID, rand.Float64(), 1)
	}

	b.ResetTimer()
	b.ReportAllocs()

	// 20% writes, 50% reads, 30% TopN, roughly a quiet midweek serving load
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			opType := i % 10

			switch {
			case opType < 2: // 20% - Apply deltas
				entityID := fmt.Sprintf("player_%d", i%numPlayers)
				_ = store.Apply(ctx, entityID, rand.Float64()-0.25, 1)

			case opType < 7: // 50% - Rank queries
				entityID := fmt.Sprintf("player_%d", i%numPlayers)
				_, _ = store.Rank(ctx, entityID)

			default: // 30% - TopN queries (various sizes)
				size := 10 + (i % 200) // 10 to 209
				_, _ = store.TopN(ctx, size)
			}
			i++
		}
	})
}

func BenchmarkTreapStore_SnapshotImpact(b *testing.B) {
	ctx := context.Background()
	// Fast snapshots to measure their cost under write pressure
	store := NewTreapStore(ctx, WithSnapshotInterval(50*time.Millisecond))
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("failed to close store: %v\n", err)
		}
	}()

	numPlayers := 50_000
	for i := 0; i < numPlayers; i++ {
		entityID := fmt.Sprintf("player_%d", i)
		_ = store.Apply(ctx, entityID, rand.Float64(), 1)
	}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			entityID := fmt.Sprintf("player_%d", i%numPlayers)
			_ = store.Apply(ctx, entityID, rand.Float64()-0.25, 1)
			i++
		}
	})
}
