package simulation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/regista/internal/domain/model"
)

// HTTPClient wraps http.Client with a per-request timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request bound to ctx.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body bound to ctx.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	return io.ReadAll(resp.Body)
}

// submitMatches submits match batches concurrently using a worker pool.
func submitMatches(ctx context.Context, config *Config, batches []model.MatchBatch, stats *Stats) error {
	log.Printf("📤 Submitting %d matches with %d workers...", len(batches), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/matches"

	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	batchChan := make(chan model.MatchBatch, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for batch := range batchChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleMatch(ctx, client, url, batch)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						acc := atomic.LoadInt64(&accepted)
						dup := atomic.LoadInt64(&duplicate)
						fail := atomic.LoadInt64(&failed)

						log.Printf("📊 Progress: %d/%d submitted (accepted: %d, duplicate: %d, failed: %d)",
							total, len(batches), acc, dup, fail)
					}
				}
			}
		}()
	}

	go func() {
		defer close(batchChan)
		for _, batch := range batches {
			select {
			case <-ctx.Done():
				return
			case batchChan <- batch:
			}
		}
	}()

	wg.Wait()

	stats.MatchesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.MatchesAccepted = int(atomic.LoadInt64(&accepted))
	stats.MatchesDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.MatchesFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Match submission completed:
   Accepted: %d
   Duplicate: %d
   Failed: %d
`, stats.MatchesAccepted, stats.MatchesDuplicate, stats.MatchesFailed)

	if stats.MatchesFailed == len(batches) {
		return fmt.Errorf("all %d submissions failed", len(batches))
	}
	return nil
}

// submitSingleMatch submits one batch and classifies the result.
func submitSingleMatch(ctx context.Context, client *HTTPClient, url string, batch model.MatchBatch) string {
	resp, err := client.Post(ctx, url, batch)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Status == "accepted" {
			return "accepted"
		}
		return "accepted"
	case StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}

// waitForProcessing polls /stats until the ingest queue drains, then
// allows a short settle delay for in-flight folds to merge.
func waitForProcessing(ctx context.Context, config *Config) error {
	log.Println("⏳ Waiting for the ingest queue to drain...")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/stats"

	deadline := time.Now().Add(DrainTimeout)
	for {
		if time.Now().After(deadline) {
			return fmt.Errorf("queue did not drain within %s", DrainTimeout)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled while waiting for drain: %w", ctx.Err())
		case <-time.After(DrainPollInterval):
		}

		resp, err := client.Get(ctx, url)
		if err != nil {
			continue
		}
		body, err := readResponseBody(resp)
		if err != nil || resp.StatusCode != StatusOK {
			continue
		}

		var stats map[string]interface{}
		if err := json.Unmarshal(body, &stats); err != nil {
			continue
		}

		if depth, ok := stats["queueLength"].(float64); ok && depth == 0 {
			time.Sleep(SettleDelay)
			log.Println("✅ Queue drained")
			return nil
		}
	}
}
