package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/regista/internal/domain/types"
)

// retrieveRanks fetches the rank entry of every roster player concurrently.
// Players absent from the report (no qualifying actions yet) are skipped.
func retrieveRanks(ctx context.Context, config *Config, roster *Roster, stats *Stats) ([]types.Entry, error) {
	log.Printf("🏆 Retrieving ranks for %d players with %d workers...", len(roster.PlayerIDs), config.Workers)

	client := newHTTPClient(config.Timeout)

	ranks := make([]types.Entry, len(roster.PlayerIDs))
	var (
		retrieved int64
		missing   int64
		failed    int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					playerID := roster.PlayerIDs[index]
					entry, status, err := retrieveSingleRank(ctx, client, config, playerID)

					switch {
					case err != nil:
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get rank for %s: %v", playerID, err)
						}
					case status == StatusOK:
						ranks[index] = entry
						atomic.AddInt64(&retrieved, 1)
					default:
						// 404: the player has no qualifying actions.
						atomic.AddInt64(&missing, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&missing) + atomic.LoadInt64(&failed)
						log.Printf("📊 Rank progress: %d/%d (ranked: %d, unranked: %d, failed: %d)",
							total, len(roster.PlayerIDs), atomic.LoadInt64(&retrieved), atomic.LoadInt64(&missing), atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range roster.PlayerIDs {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	validRanks := make([]types.Entry, 0, len(ranks))
	for _, entry := range ranks {
		if entry.EntityID != "" {
			validRanks = append(validRanks, entry)
		}
	}

	stats.RanksRetrieved = len(validRanks)

	log.Printf(`✅ Rank retrieval completed:
   Ranked: %d
   Unranked: %d
   Failed: %d
`, len(validRanks), int(atomic.LoadInt64(&missing)), int(atomic.LoadInt64(&failed)))

	return validRanks, nil
}

// retrieveSingleRank fetches one player's rank entry. A 404 is reported
// through the status, not as an error.
func retrieveSingleRank(ctx context.Context, client *HTTPClient, config *Config, playerID string) (types.Entry, int, error) {
	target := fmt.Sprintf("%s/rank/%s?report=%s", config.BaseURL, playerID, url.QueryEscape(config.Report))

	resp, err := client.Get(ctx, target)
	if err != nil {
		return types.Entry{}, 0, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return types.Entry{}, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return types.Entry{}, resp.StatusCode, nil
	}

	var entry types.Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return types.Entry{}, resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}

	return entry, resp.StatusCode, nil
}

// getLeaderboard retrieves the top N entries of the configured report.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]types.Entry, error) {
	log.Printf("🥇 Getting top %d entries of %q...", config.TopN, config.Report)

	client := newHTTPClient(config.Timeout)
	target := fmt.Sprintf("%s/leaderboard?report=%s&limit=%d", config.BaseURL, url.QueryEscape(config.Report), config.TopN)

	resp, err := client.Get(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var leaderboard []types.Entry
	if err := json.Unmarshal(body, &leaderboard); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.LeaderboardEntries = len(leaderboard)
	log.Printf("✅ Retrieved %d leaderboard entries", len(leaderboard))

	return leaderboard, nil
}
