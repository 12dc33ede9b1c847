// Package aggregate folds per-action values into per-entity totals.
//
// Folding and merging are commutative over match boundaries: folding one
// combined sequence and merging two partial folds produce the same totals,
// which is what lets batches be processed concurrently. Rate conversions
// such as per-90 stay out of the fold and are applied at read time.
package aggregate

import (
	"github.com/okian/regista/internal/domain/model"
)

// Valuer computes a per-action value. A non-nil error marks the action as
// skippable, never fatal.
type Valuer interface {
	Value(a model.Action) (float64, error)
}

// Totals accumulates the contribution of one entity.
type Totals struct {
	Value float64 `json:"total_value"`
	Count int64   `json:"count"`
}

// Add returns the element-wise sum of two totals.
func (t Totals) Add(other Totals) Totals {
	return Totals{
		Value: t.Value + other.Value,
		Count: t.Count + other.Count,
	}
}

// Aggregate holds per-entity totals plus a tally of actions that could
// not be valued.
type Aggregate struct {
	Totals  map[string]Totals `json:"totals"`
	Skipped int64             `json:"skipped"`
}

// New returns an empty aggregate.
func New() Aggregate {
	return Aggregate{Totals: make(map[string]Totals)}
}

// Fold values each admitted action and accumulates it under its key.
// Actions rejected by the filter are excluded silently; actions the valuer
// cannot value are excluded and tallied in Skipped. A nil filter admits
// every action. An empty input yields a zero-valued aggregate.
func Fold(actions []model.Action, valuer Valuer, key KeyFn, filter FilterFn) Aggregate {
	agg := New()
	for _, a := range actions {
		if filter != nil && !filter(a) {
			continue
		}
		value, err := valuer.Value(a)
		if err != nil {
			agg.Skipped++
			continue
		}
		agg.Totals[key(a)] = agg.Totals[key(a)].Add(Totals{Value: value, Count: 1})
	}
	return agg
}

// Merge combines two aggregates key-wise. It is commutative and
// associative, so partial folds can be merged in any order.
func Merge(a, b Aggregate) Aggregate {
	out := Aggregate{
		Totals:  make(map[string]Totals, len(a.Totals)+len(b.Totals)),
		Skipped: a.Skipped + b.Skipped,
	}
	for k, t := range a.Totals {
		out.Totals[k] = t
	}
	for k, t := range b.Totals {
		out.Totals[k] = out.Totals[k].Add(t)
	}
	return out
}

// PerExposure scales a total to a rate per window units of exposure.
// Unknown or zero exposure yields 0 rather than an infinite rate.
func PerExposure(total, exposure, window float64) float64 {
	if exposure <= 0 {
		return 0
	}
	return total * window / exposure
}

// Per90 converts a total into a per-90-minutes rate, the conventional
// playing-time normalization.
func Per90(total, minutes float64) float64 {
	return PerExposure(total, minutes, 90)
}
