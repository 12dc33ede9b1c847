// Package reports turns declarative report definitions into runnable
// folds. A definition names the metric kind, the entity the metric is
// credited to, and the action filters; compiling binds those choices to
// a value surface and pitch geometry once, at startup, so ingest-time
// folding is a plain function call.
package reports

import (
	"fmt"

	"github.com/okian/regista/internal/domain/aggregate"
	"github.com/okian/regista/internal/domain/model"
	"github.com/okian/regista/internal/domain/pitch"
	"github.com/okian/regista/internal/domain/valuation"
)

// Kind selects how admitted actions are valued.
type Kind string

const (
	// KindThreat values actions by the surface delta they produce.
	KindThreat Kind = "threat"
	// KindCount values every admitted action as one.
	KindCount Kind = "count"
)

// Key selects the entity actions are credited to.
type Key string

const (
	KeyPlayer Key = "player"
	KeyTeam   Key = "team"
)

// Definition declares one leaderboard report.
type Definition struct {
	Name               string   `json:"name"                koanf:"name"`
	Title              string   `json:"title"               koanf:"title"`
	Kind               Kind     `json:"kind"                koanf:"kind"`
	Key                Key      `json:"key"                 koanf:"key"`
	Types              []string `json:"types,omitempty"     koanf:"types"`
	SuccessfulOnly     bool     `json:"successful_only"     koanf:"successful_only"`
	InPlayOnly         bool     `json:"in_play_only"        koanf:"in_play_only"`
	ProgressiveOnly    bool     `json:"progressive_only"    koanf:"progressive_only"`
	IntoBoxOnly        bool     `json:"into_box_only"       koanf:"into_box_only"`
	UnsuccessfulWeight float64  `json:"unsuccessful_weight" koanf:"unsuccessful_weight"`
	ClipNegative       bool     `json:"clip_negative"       koanf:"clip_negative"`
}

// Validate checks the declarative fields of a definition.
func (d Definition) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	switch d.Kind {
	case KindThreat, KindCount:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}
	switch d.Key {
	case KeyPlayer, KeyTeam:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, d.Key)
	}
	for _, t := range d.Types {
		if _, err := parseType(t); err != nil {
			return err
		}
	}
	policy := valuation.Policy{UnsuccessfulWeight: d.UnsuccessfulWeight, ClipNegative: d.ClipNegative}
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("report %s: %w", d.Name, err)
	}
	return nil
}

func parseType(s string) (model.ActionType, error) {
	switch model.ActionType(s) {
	case model.ActionPass, model.ActionCarry, model.ActionShot, model.ActionOther:
		return model.ActionType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// unitValuer counts each valuable action as one. Validation still runs so
// broken records are tallied as skipped rather than counted.
type unitValuer struct{}

func (unitValuer) Value(a model.Action) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	return 1, nil
}

// Report is a compiled definition, ready to fold action sequences.
type Report struct {
	def    Definition
	valuer aggregate.Valuer
	key    aggregate.KeyFn
	filter aggregate.FilterFn
}

// Compile binds a definition to a value surface and pitch geometry.
func Compile(def Definition, surface valuation.Surface, dims pitch.Dimensions) (*Report, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	r := &Report{def: def}

	switch def.Kind {
	case KindThreat:
		r.valuer = valuation.NewGridValuer(surface, valuation.WithPolicy(valuation.Policy{
			UnsuccessfulWeight: def.UnsuccessfulWeight,
			ClipNegative:       def.ClipNegative,
		}))
	case KindCount:
		r.valuer = unitValuer{}
	}

	switch def.Key {
	case KeyPlayer:
		r.key = aggregate.ByActor
	case KeyTeam:
		r.key = aggregate.ByTeam
	}

	var filters []aggregate.FilterFn
	if len(def.Types) > 0 {
		types := make([]model.ActionType, 0, len(def.Types))
		for _, s := range def.Types {
			t, err := parseType(s)
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
		filters = append(filters, aggregate.TypeIs(types...))
	}
	if def.SuccessfulOnly {
		filters = append(filters, aggregate.SuccessfulOnly)
	}
	if def.InPlayOnly {
		filters = append(filters, aggregate.InPlayOnly)
	}
	if def.ProgressiveOnly {
		filters = append(filters, func(a model.Action) bool {
			return pitch.Progressive(a, dims)
		})
	}
	if def.IntoBoxOnly {
		filters = append(filters, pitch.IntoBox)
	}
	if len(filters) > 0 {
		r.filter = aggregate.And(filters...)
	}

	return r, nil
}

// Name returns the report's stable identifier.
func (r *Report) Name() string {
	return r.def.Name
}

// Title returns the report's display title.
func (r *Report) Title() string {
	return r.def.Title
}

// Definition returns the declarative form the report was compiled from.
func (r *Report) Definition() Definition {
	return r.def
}

// Fold values one action sequence under this report's filters and key.
func (r *Report) Fold(actions []model.Action) aggregate.Aggregate {
	return aggregate.Fold(actions, r.valuer, r.key, r.filter)
}

// Registry holds the compiled reports in definition order.
type Registry struct {
	reports []*Report
	byName  map[string]*Report
}

// NewRegistry compiles every definition against one shared surface and
// geometry. Definitions must have unique names.
func NewRegistry(defs []Definition, surface valuation.Surface, dims pitch.Dimensions) (*Registry, error) {
	reg := &Registry{
		reports: make([]*Report, 0, len(defs)),
		byName:  make(map[string]*Report, len(defs)),
	}
	for _, def := range defs {
		if _, exists := reg.byName[def.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateReport, def.Name)
		}
		report, err := Compile(def, surface, dims)
		if err != nil {
			return nil, err
		}
		reg.reports = append(reg.reports, report)
		reg.byName[def.Name] = report
	}
	return reg, nil
}

// Get returns the report with the given name.
func (r *Registry) Get(name string) (*Report, bool) {
	report, ok := r.byName[name]
	return report, ok
}

// All returns the reports in definition order.
func (r *Registry) All() []*Report {
	return r.reports
}

// Names returns the report names in definition order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.reports))
	for _, report := range r.reports {
		names = append(names, report.Name())
	}
	return names
}
