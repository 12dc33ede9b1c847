package simulation

import (
	"time"
)

// Config holds configuration for the match simulation run.
type Config struct {
	BaseURL         string        // Base URL of the service
	NumMatches      int           // Number of matches to generate
	ActionsPerMatch int           // Actions generated per match
	Players         int           // Roster size shared across matches
	Teams           int           // Number of teams in the roster
	TopN            int           // Number of top entries to fetch
	Report          string        // Report to query and verify
	Workers         int           // Number of concurrent workers
	Timeout         time.Duration // HTTP request timeout
	OutputFile      string        // Output file for generated matches
	LogFile         string        // Log file for run output
	Verbose         bool          // Enable verbose logging
	VerifyLocal     bool          // Recompute totals locally and compare
}

// AckResponse is the ingest acknowledgement returned by POST /matches.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	MatchID   string `json:"match_id"`
}

// Stats holds simulation run statistics.
type Stats struct {
	MatchesGenerated   int
	MatchesSubmitted   int
	MatchesAccepted    int
	MatchesDuplicate   int
	MatchesFailed      int
	RanksRetrieved     int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
