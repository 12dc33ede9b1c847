package fold_test

import (
	"context"
	"testing"

	fold "github.com/okian/regista/internal/domain/fold"
	model "github.com/okian/regista/internal/domain/model"
	pitch "github.com/okian/regista/internal/domain/pitch"
	reports "github.com/okian/regista/internal/domain/reports"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

func fourZoneRegistry(defs ...reports.Definition) *reports.Registry {
	grid, err := pitch.NewGrid([][]float64{
		{0.0, 0.1},
		{0.2, 0.5},
	})
	if err != nil {
		panic(err)
	}
	registry, err := reports.NewRegistry(defs, grid, pitch.DefaultDimensions())
	if err != nil {
		panic(err)
	}
	return registry
}

func pass(actor, team string, startX, startY, endX, endY float64, minute, second int) model.Action {
	return model.Action{
		ActorID: actor,
		TeamID:  team,
		Type:    model.ActionPass,
		StartX:  startX,
		StartY:  startY,
		EndX:    ptr(endX),
		EndY:    ptr(endY),
		Outcome: model.OutcomeSuccessful,
		Minute:  minute,
		Second:  second,
		InPlay:  true,
	}
}

func TestEngine_Fold(t *testing.T) {
	Convey("Given a fold engine over threat and count reports", t, func() {
		registry := fourZoneRegistry(
			reports.Definition{
				Name:           "threat_all",
				Title:          "Threat from passes and carries",
				Kind:           reports.KindThreat,
				Key:            reports.KeyPlayer,
				Types:          []string{"pass", "carry"},
				SuccessfulOnly: true,
				InPlayOnly:     true,
			},
			reports.Definition{
				Name:  "pass_volume",
				Title: "Pass volume",
				Kind:  reports.KindCount,
				Key:   reports.KeyPlayer,
				Types: []string{"pass"},
			},
		)
		engine := fold.NewEngine(registry)
		ctx := context.Background()

		Convey("When folding a batch with a carryable gap", func() {
			// p1 passes to (40,25); p2's next action starts at (60,25)
			// twenty seconds later, so a carry is synthesized for p2.
			batch := model.MatchBatch{
				MatchID: "match-1",
				Actions: []model.Action{
					pass("p1", "home", 10, 25, 40, 25, 0, 10),
					pass("p2", "home", 60, 25, 75, 75, 0, 30),
				},
			}

			out, err := engine.Fold(ctx, batch)

			Convey("Then every report is folded", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainKey, "threat_all")
				So(out, ShouldContainKey, "pass_volume")
			})

			Convey("Then the synthesized carry contributes to p2's threat", func() {
				So(err, ShouldBeNil)
				threat := out["threat_all"]
				// p2: carry (40,25)->(60,25) worth 0.1, pass into the
				// top-right zone worth 0.4.
				So(threat.Totals["p2"].Value, ShouldAlmostEqual, 0.5)
				So(threat.Totals["p2"].Count, ShouldEqual, 2)
				// p1's pass never leaves the bottom-left zone.
				So(threat.Totals["p1"].Value, ShouldAlmostEqual, 0.0)
				So(threat.Totals["p1"].Count, ShouldEqual, 1)
			})

			Convey("Then the count report ignores the carry", func() {
				So(err, ShouldBeNil)
				volume := out["pass_volume"]
				So(volume.Totals["p1"].Count, ShouldEqual, 1)
				So(volume.Totals["p2"].Count, ShouldEqual, 1)
			})
		})

		Convey("When derivation is disabled", func() {
			engine := fold.NewEngine(registry, fold.WithDerivation(false))
			batch := model.MatchBatch{
				MatchID: "match-2",
				Actions: []model.Action{
					pass("p1", "home", 10, 25, 40, 25, 0, 10),
					pass("p2", "home", 60, 25, 75, 75, 0, 30),
				},
			}

			out, err := engine.Fold(ctx, batch)

			Convey("Then only the recorded actions are folded", func() {
				So(err, ShouldBeNil)
				threat := out["threat_all"]
				So(threat.Totals["p2"].Value, ShouldAlmostEqual, 0.4)
				So(threat.Totals["p2"].Count, ShouldEqual, 1)
			})
		})

		Convey("When a batch holds a broken record", func() {
			broken := pass("p3", "home", 20, 20, 0, 0, 5, 0)
			broken.EndX = nil
			batch := model.MatchBatch{
				MatchID: "match-3",
				Actions: []model.Action{
					pass("p1", "home", 10, 25, 40, 25, 0, 10),
					broken,
				},
			}

			out, err := engine.Fold(ctx, batch)

			Convey("Then the record is tallied as skipped, not fatal", func() {
				So(err, ShouldBeNil)
				So(out["pass_volume"].Skipped, ShouldEqual, 1)
				So(out["pass_volume"].Totals["p1"].Count, ShouldEqual, 1)
				So(out["threat_all"].Skipped, ShouldEqual, 1)
			})
		})

		Convey("When the batch is empty", func() {
			out, err := engine.Fold(ctx, model.MatchBatch{MatchID: "match-4"})

			Convey("Then every report folds to a zero aggregate", func() {
				So(err, ShouldBeNil)
				So(out["threat_all"].Totals, ShouldBeEmpty)
				So(out["threat_all"].Skipped, ShouldEqual, 0)
				So(out["pass_volume"].Totals, ShouldBeEmpty)
			})
		})

		Convey("When the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(context.Background())
			cancel()

			out, err := engine.Fold(cancelled, model.MatchBatch{MatchID: "match-5"})

			Convey("Then the fold is abandoned", func() {
				So(err, ShouldNotBeNil)
				So(out, ShouldBeNil)
			})
		})
	})
}

func TestEngine_CarryParams(t *testing.T) {
	Convey("Given an engine with a narrow derivation window", t, func() {
		registry := fourZoneRegistry(reports.Definition{
			Name:  "carry_volume",
			Title: "Carry volume",
			Kind:  reports.KindCount,
			Key:   reports.KeyPlayer,
			Types: []string{"carry"},
		})
		params := pitch.DefaultCarryParams()
		params.MaxLengthM = 10
		engine := fold.NewEngine(registry, fold.WithCarryParams(params))
		ctx := context.Background()

		Convey("When the gap is longer than the window allows", func() {
			batch := model.MatchBatch{
				MatchID: "match-6",
				Actions: []model.Action{
					pass("p1", "home", 10, 25, 40, 25, 0, 10),
					pass("p2", "home", 60, 25, 75, 25, 0, 30),
				},
			}

			out, err := engine.Fold(ctx, batch)

			Convey("Then no carry is synthesized", func() {
				So(err, ShouldBeNil)
				So(out["carry_volume"].Totals, ShouldBeEmpty)
			})
		})

		Convey("When the params are invalid they are ignored", func() {
			bad := pitch.CarryParams{MinLengthM: 10, MaxLengthM: 5}
			engine := fold.NewEngine(registry, fold.WithCarryParams(bad))
			batch := model.MatchBatch{
				MatchID: "match-7",
				Actions: []model.Action{
					pass("p1", "home", 10, 25, 40, 25, 0, 10),
					pass("p2", "home", 60, 25, 75, 25, 0, 30),
				},
			}

			out, err := engine.Fold(ctx, batch)

			Convey("Then the default window still applies", func() {
				So(err, ShouldBeNil)
				So(out["carry_volume"].Totals["p2"].Count, ShouldEqual, 1)
			})
		})
	})
}
