// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Layer file and env overrides on top via Load.
// - External errors must be wrapped via this package's error kinds.
package config

import (
	"runtime"

	"github.com/okian/regista/internal/domain/reports"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory match batch queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of fold workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the match replay cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// GridPath points to a zone-value grid JSON file.
	// Empty means the embedded default grid.
	GridPath string `koanf:"grid_path"`

	// PitchLengthM and PitchWidthM set the real pitch dimensions used to
	// convert normalized coordinates to metres.
	PitchLengthM float64 `koanf:"pitch_length_m"`
	PitchWidthM  float64 `koanf:"pitch_width_m"`

	// DeriveCarries toggles carry synthesis between recorded actions.
	DeriveCarries bool `koanf:"derive_carries"`

	// Carry derivation window.
	CarryMinLengthM float64 `koanf:"carry_min_length_m"`
	CarryMaxLengthM float64 `koanf:"carry_max_length_m"`
	CarryMinSeconds float64 `koanf:"carry_min_seconds"`
	CarryMaxSeconds float64 `koanf:"carry_max_seconds"`

	// Reports declares the report definitions to compile at startup.
	// Empty means the built-in default reports.
	Reports []reports.Definition `koanf:"reports"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		QueueSize:           4096,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          10_000,
		MaxLeaderboardLimit: 100,
		GridPath:            "",
		PitchLengthM:        105,
		PitchWidthM:         68,
		DeriveCarries:       true,
		CarryMinLengthM:     3,
		CarryMaxLengthM:     60,
		CarryMinSeconds:     1,
		CarryMaxSeconds:     50,
	}
	return c
}
