package simulation

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/okian/regista/internal/domain/aggregate"
	"github.com/okian/regista/internal/domain/fold"
	"github.com/okian/regista/internal/domain/model"
	"github.com/okian/regista/internal/domain/pitch"
	"github.com/okian/regista/internal/domain/reports"
	"github.com/okian/regista/internal/domain/types"
)

// verifyResults checks the consistency of ranks and leaderboard and,
// when enabled, recomputes expected totals from the generated batches.
func verifyResults(ctx context.Context, config *Config, batches []model.MatchBatch, ranks, leaderboard []types.Entry) error {
	log.Println("🔍 Verifying results...")

	if len(leaderboard) == 0 {
		return fmt.Errorf("empty leaderboard for report %q", config.Report)
	}

	if err := verifyLeaderboardOrdering(leaderboard); err != nil {
		return fmt.Errorf("leaderboard ordering check failed: %w", err)
	}
	log.Println("✅ Leaderboard ordering verified")

	if err := verifyRankConsistency(ranks, leaderboard); err != nil {
		log.Printf("⚠️  Rank consistency warning: %v", err)
	} else {
		log.Println("✅ Rank consistency verified")
	}

	if config.VerifyLocal {
		if err := verifyAgainstLocalFold(ctx, config, batches, leaderboard); err != nil {
			return fmt.Errorf("local recompute check failed: %w", err)
		}
		log.Println("✅ Local recompute verified")
	}

	displayTopEntries(config, leaderboard)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyLeaderboardOrdering checks rank numbering and total monotonicity.
func verifyLeaderboardOrdering(leaderboard []types.Entry) error {
	for i, entry := range leaderboard {
		if entry.Rank != i+1 {
			return fmt.Errorf("entry %d has rank %d, want %d", i, entry.Rank, i+1)
		}
		if i > 0 && entry.Total > leaderboard[i-1].Total {
			return fmt.Errorf("entry %d (%.6f) outranks entry %d (%.6f)",
				i, entry.Total, i-1, leaderboard[i-1].Total)
		}
	}
	return nil
}

// verifyRankConsistency cross-checks /rank responses against the
// leaderboard page for the players that appear on it.
func verifyRankConsistency(ranks, leaderboard []types.Entry) error {
	byID := make(map[string]types.Entry, len(ranks))
	for _, entry := range ranks {
		byID[entry.EntityID] = entry
	}

	for _, lb := range leaderboard {
		rank, ok := byID[lb.EntityID]
		if !ok {
			continue
		}
		if rank.Rank != lb.Rank {
			return fmt.Errorf("player %s: /rank says %d, leaderboard says %d",
				lb.EntityID, rank.Rank, lb.Rank)
		}
		if math.Abs(rank.Total-lb.Total) > totalTolerance {
			return fmt.Errorf("player %s: /rank total %.6f, leaderboard total %.6f",
				lb.EntityID, rank.Total, lb.Total)
		}
	}
	return nil
}

// verifyAgainstLocalFold folds the generated batches through the same
// engine the server runs and compares totals. This only holds when the
// server uses the default grid, dimensions and report set.
func verifyAgainstLocalFold(ctx context.Context, config *Config, batches []model.MatchBatch, leaderboard []types.Entry) error {
	expected, err := recomputeTotals(ctx, batches, config.Report)
	if err != nil {
		return err
	}

	for _, entry := range leaderboard {
		want, ok := expected[entry.EntityID]
		if !ok {
			return fmt.Errorf("entity %s on leaderboard but absent from local fold", entry.EntityID)
		}
		if math.Abs(entry.Total-want.Value) > totalTolerance {
			return fmt.Errorf("entity %s: server total %.6f, local total %.6f",
				entry.EntityID, entry.Total, want.Value)
		}
		if entry.Count != want.Count {
			return fmt.Errorf("entity %s: server count %d, local count %d",
				entry.EntityID, entry.Count, want.Count)
		}
	}

	// The leaderboard head must carry the local maximum total.
	best := leaderboard[0].Total
	for id, totals := range expected {
		if totals.Value-best > totalTolerance {
			return fmt.Errorf("local fold ranks %s (%.6f) above the leaderboard head (%.6f)",
				id, totals.Value, best)
		}
	}

	return nil
}

// recomputeTotals folds every batch with the default registry and sums
// per-entity totals for the requested report.
func recomputeTotals(ctx context.Context, batches []model.MatchBatch, report string) (map[string]aggregate.Totals, error) {
	surface := pitch.DefaultGrid()
	registry, err := reports.NewRegistry(reports.Defaults(), surface, pitch.DefaultDimensions())
	if err != nil {
		return nil, fmt.Errorf("compile default reports: %w", err)
	}
	if _, ok := registry.Get(report); !ok {
		return nil, fmt.Errorf("report %q is not a default report, disable -verify-local", report)
	}

	engine := fold.NewEngine(registry)

	totals := make(map[string]aggregate.Totals)
	for i := range batches {
		aggs, err := engine.Fold(ctx, batches[i])
		if err != nil {
			return nil, fmt.Errorf("fold match %s: %w", batches[i].MatchID, err)
		}
		agg, ok := aggs[report]
		if !ok {
			continue
		}
		for id, t := range agg.Totals {
			cur := totals[id]
			cur.Value += t.Value
			cur.Count += t.Count
			totals[id] = cur
		}
	}
	return totals, nil
}

// displayTopEntries shows the leaderboard head with per-90 figures.
func displayTopEntries(config *Config, leaderboard []types.Entry) {
	topN := 10
	if len(leaderboard) < topN {
		topN = len(leaderboard)
	}

	log.Printf("🏆 Top %d of %q:", topN, config.Report)
	for i := 0; i < topN; i++ {
		entry := leaderboard[i]
		if entry.Minutes > 0 {
			log.Printf("   %d. %s - total: %.3f over %d actions (%.3f per 90)",
				entry.Rank, entry.EntityID, entry.Total, entry.Count, entry.Per90)
		} else {
			log.Printf("   %d. %s - total: %.3f over %d actions",
				entry.Rank, entry.EntityID, entry.Total, entry.Count)
		}
	}

	if config.Verbose && len(leaderboard) > 0 {
		avg := averageTotal(leaderboard)
		log.Printf(`📊 Leaderboard statistics:
   Average: %.3f
   Maximum: %.3f
   Minimum: %.3f
`, avg, leaderboard[0].Total, leaderboard[len(leaderboard)-1].Total)
	}
}

// averageTotal computes the mean total across entries.
func averageTotal(entries []types.Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, entry := range entries {
		sum += entry.Total
	}
	return sum / float64(len(entries))
}
