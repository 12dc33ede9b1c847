package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/regista/internal/simulation"
)

// Default configuration constants.
const (
	defaultNumMatches      = 500
	defaultActionsPerMatch = 200
	defaultPlayers         = 300
	defaultTeams           = 20
	defaultTopN            = 50
	defaultReport          = "threat_creators"
	defaultWorkers         = 2 // multiplier for runtime.NumCPU()
	defaultTimeout         = 30 * time.Second
	defaultRunTimeout      = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numMatches  = flag.Int("matches", defaultNumMatches, "Number of matches to generate and submit")
		actions     = flag.Int("actions", defaultActionsPerMatch, "Actions generated per match")
		players     = flag.Int("players", defaultPlayers, "Roster size shared across matches")
		teams       = flag.Int("teams", defaultTeams, "Number of teams in the roster")
		topN        = flag.Int("top", defaultTopN, "Number of top entries to fetch from the leaderboard")
		report      = flag.String("report", defaultReport, "Report to query and verify")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile  = flag.String("output", "", "Output file for generated matches (default: generated_matches_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for run output (default: simulation_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		verifyLocal = flag.Bool("verify-local", true, "Recompute totals locally and compare (assumes default server config)")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulation.ShowHelp()
		return
	}

	if err := simulation.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulation.Config{
		BaseURL:         *baseURL,
		NumMatches:      *numMatches,
		ActionsPerMatch: *actions,
		Players:         *players,
		Teams:           *teams,
		TopN:            *topN,
		Report:          *report,
		Workers:         *workers,
		Timeout:         *timeout,
		OutputFile:      *outputFile,
		LogFile:         *logFile,
		Verbose:         *verbose,
		VerifyLocal:     *verifyLocal,
	}

	if err := simulation.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
