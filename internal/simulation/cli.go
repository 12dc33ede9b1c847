package simulation

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/regista/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "simulation_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the match simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Regista Match Simulation Tool
=============================

A concurrent tool that generates synthetic match batches, submits them
to a running regista instance and verifies the resulting leaderboards.

Usage:
  go run cmd/test-matches/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -matches int
        Number of matches to generate and submit (default 500)
  -actions int
        Actions generated per match (default 200)
  -players int
        Roster size shared across matches (default 300)
  -teams int
        Number of teams in the roster (default 20)
  -top int
        Number of top entries to fetch from the leaderboard (default 50)
  -report string
        Report to query and verify (default "threat_creators")
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated matches (default: generated_matches_TIMESTAMP.json)
  -log string
        Log file for run output (default: simulation_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -verify-local=false
        Disable the local recompute check (it assumes the server runs
        the default grid, dimensions and reports)
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/test-matches/main.go

  # Heavier run against a remote instance
  go run cmd/test-matches/main.go -matches 5000 -workers 16 -url http://10.0.0.5:9080

  # Verify the carry report instead
  go run cmd/test-matches/main.go -report threat_carriers -verbose
`)
}
