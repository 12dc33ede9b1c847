package aggregate

import (
	"github.com/okian/regista/internal/domain/model"
)

// KeyFn projects an action onto the entity it should be credited to.
type KeyFn func(a model.Action) string

// FilterFn decides whether an action is admitted into a fold.
type FilterFn func(a model.Action) bool

// ByActor credits actions to the player who performed them.
func ByActor(a model.Action) string {
	return a.ActorID
}

// ByTeam credits actions to the possessing team.
func ByTeam(a model.Action) string {
	return a.TeamID
}

// SuccessfulOnly admits only actions that reached a teammate or scored.
func SuccessfulOnly(a model.Action) bool {
	return a.Successful()
}

// InPlayOnly excludes set-piece and restart bookkeeping.
func InPlayOnly(a model.Action) bool {
	return a.InPlay
}

// TypeIs admits actions of any of the given types.
func TypeIs(types ...model.ActionType) FilterFn {
	return func(a model.Action) bool {
		for _, t := range types {
			if a.Type == t {
				return true
			}
		}
		return false
	}
}

// And admits an action only when every filter does.
func And(filters ...FilterFn) FilterFn {
	return func(a model.Action) bool {
		for _, f := range filters {
			if !f(a) {
				return false
			}
		}
		return true
	}
}
