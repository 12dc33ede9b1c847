// Package valuation attributes a scalar threat value to a single action.
//
// Movement actions are worth the surface value gained between their start
// and end zones. Shots are worth their own model-estimated score, supplied
// with the action. How unsuccessful actions contribute is an explicit
// policy parameter, never a hidden default.
package valuation

import (
	"math"

	"github.com/okian/regista/internal/domain/model"
)

// Policy gates how unsuccessful actions contribute to value.
type Policy struct {
	// UnsuccessfulWeight scales the value of unsuccessful actions:
	// 0 excludes them, 1 includes them fully, fractions discount.
	UnsuccessfulWeight float64
	// ClipNegative floors each per-action value at zero, crediting only
	// threat created and ignoring threat surrendered.
	ClipNegative bool
}

// DefaultPolicy excludes unsuccessful actions and keeps negative values.
func DefaultPolicy() Policy {
	return Policy{UnsuccessfulWeight: 0}
}

// Validate rejects weights outside [0, 1].
func (p Policy) Validate() error {
	if math.IsNaN(p.UnsuccessfulWeight) || p.UnsuccessfulWeight < 0 || p.UnsuccessfulWeight > 1 {
		return ErrInvalidWeight
	}
	return nil
}

// Surface abstracts the zone-value lookup the grid valuer composes over.
type Surface interface {
	ValueAt(x, y float64) float64
}

// Valuer computes a per-action value. A non-nil error marks the action as
// skippable for aggregation.
type Valuer interface {
	Value(a model.Action) (float64, error)
}

// Option applies a configuration option to the GridValuer.
type Option func(*GridValuer)

// WithPolicy sets the unsuccessful-action policy.
func WithPolicy(p Policy) Option {
	return func(v *GridValuer) {
		v.policy = p
	}
}

// GridValuer implements Valuer over a read-only value surface.
type GridValuer struct {
	surface Surface
	policy  Policy
}

// NewGridValuer creates a valuer over the given surface.
func NewGridValuer(surface Surface, opts ...Option) *GridValuer {
	v := &GridValuer{
		surface: surface,
		policy:  DefaultPolicy(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Policy returns the active unsuccessful-action policy.
func (v *GridValuer) Policy() Policy {
	return v.policy
}

// Value computes the threat value of one action. Movement actions are
// worth the surface delta between end and start; an action that starts
// and ends in the same zone is worth exactly 0. Shots pass through their
// own model-estimated score. Other actions are worth 0.
func (v *GridValuer) Value(a model.Action) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}

	var value float64
	switch a.Type {
	case model.ActionPass, model.ActionCarry:
		endX, endY, _ := a.End() // presence checked by Validate
		value = v.surface.ValueAt(endX, endY) - v.surface.ValueAt(a.StartX, a.StartY)
	case model.ActionShot:
		value = a.ShotValue
	case model.ActionOther:
		value = 0
	}

	if !a.Successful() {
		value *= v.policy.UnsuccessfulWeight
	}
	if v.policy.ClipNegative && value < 0 {
		value = 0
	}

	return value, nil
}
