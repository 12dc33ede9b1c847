package pitch

import (
	"github.com/okian/regista/internal/domain/model"
)

// CarryParams bounds the inferred-carry heuristic.
type CarryParams struct {
	MinLengthM float64 // shortest gap worth a carry, metres
	MaxLengthM float64 // longest plausible carry, metres
	MinSeconds float64 // shortest clock advance
	MaxSeconds float64 // longest clock advance
	Dims       Dimensions
}

// DefaultCarryParams returns the standard derivation window.
func DefaultCarryParams() CarryParams {
	return CarryParams{
		MinLengthM: 3,
		MaxLengthM: 60,
		MinSeconds: 1,
		MaxSeconds: 50,
		Dims:       DefaultDimensions(),
	}
}

// DeriveCarries synthesizes carry actions in the gaps between consecutive
// actions of the same team: when a successful movement action delivers the
// ball somewhere and the same team's next action starts a plausible
// distance and clock advance away, the ball was carried between the two.
//
// The input is never modified or reordered; the result is a new slice with
// each synthesized carry inserted immediately before the action it leads
// into. Derivation is pure: the same ordered input yields the same output.
func DeriveCarries(actions []model.Action, p CarryParams) []model.Action {
	if len(actions) == 0 {
		return nil
	}

	out := make([]model.Action, 0, len(actions))
	out = append(out, actions[0])

	for i := 1; i < len(actions); i++ {
		prev := actions[i-1]
		cur := actions[i]

		if carry, ok := carryBetween(prev, cur, p); ok {
			out = append(out, carry)
		}
		out = append(out, cur)
	}

	return out
}

// carryBetween decides whether the gap from prev's end to cur's start
// holds a carry and synthesizes it.
func carryBetween(prev, cur model.Action, p CarryParams) (model.Action, bool) {
	if cur.TeamID != prev.TeamID || !cur.InPlay {
		return model.Action{}, false
	}
	if !prev.Successful() {
		return model.Action{}, false
	}
	endX, endY, ok := prev.End()
	if !ok {
		return model.Action{}, false
	}

	length := p.Dims.metresBetween(endX, endY, cur.StartX, cur.StartY)
	if length < p.MinLengthM || length > p.MaxLengthM {
		return model.Action{}, false
	}

	elapsed := cur.ClockSeconds() - prev.ClockSeconds()
	if elapsed < p.MinSeconds || elapsed > p.MaxSeconds {
		return model.Action{}, false
	}

	carryEndX := cur.StartX
	carryEndY := cur.StartY
	return model.Action{
		ActorID: cur.ActorID, // the player who acts next carried the ball there
		TeamID:  cur.TeamID,
		Type:    model.ActionCarry,
		StartX:  endX,
		StartY:  endY,
		EndX:    &carryEndX,
		EndY:    &carryEndY,
		Outcome: model.OutcomeSuccessful,
		Minute:  prev.Minute,
		Second:  prev.Second,
		InPlay:  true,
		Derived: true,
	}, true
}
