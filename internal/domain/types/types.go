// Package types contains common types used across the application
package types

// Entry represents a leaderboard entry. Minutes and Per90 are filled at
// read time when exposure is known for the entity; both are omitted from
// JSON otherwise.
type Entry struct {
	Rank     int     `json:"rank"`
	EntityID string  `json:"entity_id"`
	Total    float64 `json:"total_value"`
	Count    int64   `json:"count"`
	Minutes  float64 `json:"minutes,omitempty"`
	Per90    float64 `json:"per_90,omitempty"`
}
