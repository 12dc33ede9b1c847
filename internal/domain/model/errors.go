package model

import (
	"errors"
)

// Sentinel kinds for action and appearance validation.
// Each marks a record as skippable during aggregation, never fatal.
var (
	ErrMissingActor      = errors.New("action missing actor id")
	ErrMissingTeam       = errors.New("action missing team id")
	ErrUnknownActionType = errors.New("unknown action type")
	ErrUnknownOutcome    = errors.New("unknown action outcome")
	ErrMissingEndpoint   = errors.New("movement action missing end coordinate")
	ErrMissingPlayer     = errors.New("appearance missing player id")
	ErrNegativeMinutes   = errors.New("appearance minutes negative")
)
