package model

import "time"

// Appearance records a player's participation in a match, used to
// accumulate exposure for per-90 rates.
type Appearance struct {
	PlayerID string  `json:"player_id"`
	TeamID   string  `json:"team_id"`
	Position string  `json:"position,omitempty"` // GK, DEF, MID, FWD, SUB
	Minutes  float64 `json:"minutes"`
}

// Validate classifies the appearance as usable for exposure accounting.
func (ap Appearance) Validate() error {
	if ap.PlayerID == "" {
		return ErrMissingPlayer
	}
	if ap.Minutes < 0 {
		return ErrNegativeMinutes
	}
	return nil
}

// MatchBatch is the ingest unit: one match's ordered actions plus the
// appearances that played them. Batches are immutable once accepted;
// re-ingesting a seen match ID is an idempotent no-op.
type MatchBatch struct {
	MatchID     string       `json:"match_id"` // generated when absent
	Competition string       `json:"competition,omitempty"`
	Kickoff     time.Time    `json:"kickoff,omitzero"`
	Actions     []Action     `json:"actions"`
	Appearances []Appearance `json:"appearances,omitempty"`
}
