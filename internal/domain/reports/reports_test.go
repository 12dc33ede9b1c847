package reports_test

import (
	"errors"
	"testing"

	"github.com/okian/regista/internal/domain/model"
	"github.com/okian/regista/internal/domain/pitch"
	reports "github.com/okian/regista/internal/domain/reports"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

func movement(actor, team string, kind model.ActionType, startX, startY, endX, endY float64) model.Action {
	return model.Action{
		ActorID: actor,
		TeamID:  team,
		Type:    kind,
		StartX:  startX,
		StartY:  startY,
		EndX:    ptr(endX),
		EndY:    ptr(endY),
		Outcome: model.OutcomeSuccessful,
		Minute:  20,
		InPlay:  true,
	}
}

func TestDefinitionValidate(t *testing.T) {
	Convey("Given report definitions", t, func() {
		valid := reports.Definition{Name: "r", Kind: reports.KindThreat, Key: reports.KeyPlayer}

		Convey("When the definition is well formed", func() {
			So(valid.Validate(), ShouldBeNil)
		})

		Convey("When the name is missing", func() {
			def := valid
			def.Name = ""
			So(errors.Is(def.Validate(), reports.ErrMissingName), ShouldBeTrue)
		})

		Convey("When the kind is unknown", func() {
			def := valid
			def.Kind = "ratio"
			So(errors.Is(def.Validate(), reports.ErrUnknownKind), ShouldBeTrue)
		})

		Convey("When the key is unknown", func() {
			def := valid
			def.Key = "referee"
			So(errors.Is(def.Validate(), reports.ErrUnknownKey), ShouldBeTrue)
		})

		Convey("When a type is unknown", func() {
			def := valid
			def.Types = []string{"pass", "tackle"}
			So(errors.Is(def.Validate(), reports.ErrUnknownType), ShouldBeTrue)
		})

		Convey("When the unsuccessful weight is out of range", func() {
			def := valid
			def.UnsuccessfulWeight = 1.2
			So(def.Validate(), ShouldNotBeNil)
		})
	})
}

func TestCompile(t *testing.T) {
	Convey("Given the default surface and pitch geometry", t, func() {
		surface := pitch.DefaultGrid()
		dims := pitch.DefaultDimensions()

		Convey("When compiling a threat report over passes", func() {
			report, err := reports.Compile(reports.Definition{
				Name:           "threat_creators",
				Kind:           reports.KindThreat,
				Key:            reports.KeyPlayer,
				Types:          []string{"pass"},
				SuccessfulOnly: true,
				InPlayOnly:     true,
			}, surface, dims)
			So(err, ShouldBeNil)

			Convey("Then forward passes gain value and carries are ignored", func() {
				forward := movement("player-1", "team-a", model.ActionPass, 10, 50, 80, 50)
				carried := movement("player-1", "team-a", model.ActionCarry, 10, 50, 80, 50)

				agg := report.Fold([]model.Action{forward, carried})
				So(agg.Totals["player-1"].Count, ShouldEqual, 1)
				So(agg.Totals["player-1"].Value, ShouldBeGreaterThan, 0)
			})

			Convey("And unsuccessful passes are filtered out", func() {
				miss := movement("player-1", "team-a", model.ActionPass, 10, 50, 80, 50)
				miss.Outcome = model.OutcomeUnsuccessful

				agg := report.Fold([]model.Action{miss})
				So(len(agg.Totals), ShouldEqual, 0)
				So(agg.Skipped, ShouldEqual, 0)
			})
		})

		Convey("When compiling a progressive pass count", func() {
			report, err := reports.Compile(reports.Definition{
				Name:            "progressive_passes",
				Kind:            reports.KindCount,
				Key:             reports.KeyPlayer,
				Types:           []string{"pass"},
				SuccessfulOnly:  true,
				InPlayOnly:      true,
				ProgressiveOnly: true,
			}, surface, dims)
			So(err, ShouldBeNil)

			Convey("Then a long forward pass counts one and a short pass none", func() {
				long := movement("player-1", "team-a", model.ActionPass, 10, 50, 50, 50)
				short := movement("player-1", "team-a", model.ActionPass, 10, 50, 30, 50)

				agg := report.Fold([]model.Action{long, short})
				So(agg.Totals["player-1"].Value, ShouldEqual, 1)
				So(agg.Totals["player-1"].Count, ShouldEqual, 1)
			})
		})

		Convey("When compiling a box entry count", func() {
			report, err := reports.Compile(reports.Definition{
				Name:           "box_entries",
				Kind:           reports.KindCount,
				Key:            reports.KeyPlayer,
				Types:          []string{"pass", "carry"},
				SuccessfulOnly: true,
				InPlayOnly:     true,
				IntoBoxOnly:    true,
			}, surface, dims)
			So(err, ShouldBeNil)

			Convey("Then passes and carries ending in the box count", func() {
				passIn := movement("player-1", "team-a", model.ActionPass, 70, 50, 90, 50)
				carryIn := movement("player-1", "team-a", model.ActionCarry, 75, 40, 88, 45)
				wide := movement("player-1", "team-a", model.ActionPass, 70, 50, 90, 10)

				agg := report.Fold([]model.Action{passIn, carryIn, wide})
				So(agg.Totals["player-1"].Value, ShouldEqual, 2)
				So(agg.Totals["player-1"].Count, ShouldEqual, 2)
			})
		})

		Convey("When compiling a team threat report", func() {
			report, err := reports.Compile(reports.Definition{
				Name:           "team_threat",
				Kind:           reports.KindThreat,
				Key:            reports.KeyTeam,
				Types:          []string{"pass", "carry"},
				SuccessfulOnly: true,
				InPlayOnly:     true,
			}, surface, dims)
			So(err, ShouldBeNil)

			Convey("Then teammates accumulate under their team", func() {
				agg := report.Fold([]model.Action{
					movement("player-1", "team-a", model.ActionPass, 10, 50, 60, 50),
					movement("player-2", "team-a", model.ActionCarry, 60, 50, 80, 50),
				})
				So(len(agg.Totals), ShouldEqual, 1)
				So(agg.Totals["team-a"].Count, ShouldEqual, 2)
			})
		})

		Convey("When a count report meets a broken record", func() {
			report, err := reports.Compile(reports.Definition{
				Name: "all_actions",
				Kind: reports.KindCount,
				Key:  reports.KeyPlayer,
			}, surface, dims)
			So(err, ShouldBeNil)

			broken := movement("player-1", "team-a", model.ActionPass, 10, 50, 60, 50)
			broken.EndX = nil
			broken.EndY = nil

			Convey("Then it is tallied as skipped, not counted", func() {
				agg := report.Fold([]model.Action{broken})
				So(agg.Skipped, ShouldEqual, 1)
				So(len(agg.Totals), ShouldEqual, 0)
			})
		})

		Convey("When the definition is invalid", func() {
			_, err := reports.Compile(reports.Definition{Name: "bad", Kind: "ratio", Key: reports.KeyPlayer}, surface, dims)
			So(errors.Is(err, reports.ErrUnknownKind), ShouldBeTrue)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given the default report set", t, func() {
		reg, err := reports.NewRegistry(reports.Defaults(), pitch.DefaultGrid(), pitch.DefaultDimensions())
		So(err, ShouldBeNil)

		Convey("When listing reports", func() {
			names := reg.Names()

			Convey("Then definition order is preserved", func() {
				So(names, ShouldResemble, []string{
					"threat_creators",
					"threat_carriers",
					"progressive_passes",
					"box_entries",
					"team_threat",
				})
				So(len(reg.All()), ShouldEqual, 5)
			})
		})

		Convey("When looking up a report by name", func() {
			report, ok := reg.Get("threat_creators")
			So(ok, ShouldBeTrue)
			So(report.Name(), ShouldEqual, "threat_creators")
			So(report.Title(), ShouldNotBeEmpty)
		})

		Convey("When looking up an unknown report", func() {
			_, ok := reg.Get("assists")
			So(ok, ShouldBeFalse)
		})

		Convey("When definitions share a name", func() {
			defs := []reports.Definition{
				{Name: "dup", Kind: reports.KindThreat, Key: reports.KeyPlayer},
				{Name: "dup", Kind: reports.KindCount, Key: reports.KeyTeam},
			}
			_, err := reports.NewRegistry(defs, pitch.DefaultGrid(), pitch.DefaultDimensions())

			Convey("Then the registry rejects the set", func() {
				So(errors.Is(err, reports.ErrDuplicateReport), ShouldBeTrue)
			})
		})
	})
}
