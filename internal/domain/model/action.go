// Package model contains domain models passed between layers.
package model

// ActionType enumerates the recorded on-ball action kinds.
type ActionType string

// Action type values.
const (
	ActionPass  ActionType = "pass"
	ActionCarry ActionType = "carry"
	ActionShot  ActionType = "shot"
	ActionOther ActionType = "other"
)

// Outcome enumerates action results.
type Outcome string

// Outcome values.
const (
	OutcomeSuccessful   Outcome = "successful"
	OutcomeUnsuccessful Outcome = "unsuccessful"
)

// Action represents one recorded on-ball event.
// Fields mirror the OpenAPI schema for /matches.
// Coordinates are normalized to 0-100 on each axis, (0,0) at the
// bottom-left corner with x growing toward the attacking goal.
type Action struct {
	ActorID   string     `json:"actor_id"`             // player who performed the action
	TeamID    string     `json:"team_id"`              // possessing team
	Type      ActionType `json:"action_type"`          // pass, carry, shot, other
	StartX    float64    `json:"start_x"`              // normalized start coordinate
	StartY    float64    `json:"start_y"`
	EndX      *float64   `json:"end_x,omitempty"` // absent for terminal actions
	EndY      *float64   `json:"end_y,omitempty"`
	Outcome   Outcome    `json:"outcome"` // successful or unsuccessful
	Minute    int        `json:"minute"`  // match clock position
	Second    int        `json:"second"`
	ShotValue float64    `json:"shot_value,omitempty"` // model-estimated score for shots (external xG)
	InPlay    bool       `json:"in_play"`              // false for set-piece/restart bookkeeping
	Derived   bool       `json:"derived,omitempty"`    // true for synthesized carries
}

// RequiresEndpoint reports whether the declared type needs an end coordinate.
func (a Action) RequiresEndpoint() bool {
	return a.Type == ActionPass || a.Type == ActionCarry
}

// End returns the end coordinate when both components are present.
func (a Action) End() (x, y float64, ok bool) {
	if a.EndX == nil || a.EndY == nil {
		return 0, 0, false
	}
	return *a.EndX, *a.EndY, true
}

// Successful reports whether the action came off.
func (a Action) Successful() bool {
	return a.Outcome == OutcomeSuccessful
}

// ClockSeconds returns the match clock position in seconds.
func (a Action) ClockSeconds() float64 {
	return float64(a.Minute*60 + a.Second)
}

// Validate classifies the action as usable for aggregation.
// A non-nil error marks the action as skippable, never fatal.
func (a Action) Validate() error {
	if a.ActorID == "" {
		return ErrMissingActor
	}
	if a.TeamID == "" {
		return ErrMissingTeam
	}
	switch a.Type {
	case ActionPass, ActionCarry, ActionShot, ActionOther:
	default:
		return ErrUnknownActionType
	}
	switch a.Outcome {
	case OutcomeSuccessful, OutcomeUnsuccessful:
	default:
		return ErrUnknownOutcome
	}
	if a.RequiresEndpoint() {
		if _, _, ok := a.End(); !ok {
			return ErrMissingEndpoint
		}
	}
	return nil
}
