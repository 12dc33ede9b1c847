package valuation_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/regista/internal/domain/model"
	"github.com/okian/regista/internal/domain/pitch"
	valuation "github.com/okian/regista/internal/domain/valuation"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

// fourZoneSurface builds the 2x2 grid used throughout: zone values
//
//	row 1 (top):    0.2  0.5
//	row 0 (bottom): 0.0  0.1
func fourZoneSurface() *pitch.ZoneGrid {
	grid, err := pitch.NewGrid([][]float64{
		{0.0, 0.1},
		{0.2, 0.5},
	})
	if err != nil {
		panic(err)
	}
	return grid
}

func pass(startX, startY, endX, endY float64, outcome model.Outcome) model.Action {
	return model.Action{
		ActorID: "player-1",
		TeamID:  "team-a",
		Type:    model.ActionPass,
		StartX:  startX,
		StartY:  startY,
		EndX:    ptr(endX),
		EndY:    ptr(endY),
		Outcome: outcome,
		Minute:  12,
		InPlay:  true,
	}
}

func TestGridValuer_Value(t *testing.T) {
	Convey("Given a valuer over a four-zone surface", t, func() {
		valuer := valuation.NewGridValuer(fourZoneSurface())

		Convey("When valuing a pass from the bottom-left to the top-right zone", func() {
			a := pass(10, 10, 60, 60, model.OutcomeSuccessful)

			Convey("Then it is worth the full surface delta", func() {
				value, err := valuer.Value(a)
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 0.5) // 0.5 - 0.0
			})
		})

		Convey("When valuing the reverse pass", func() {
			a := pass(60, 60, 10, 10, model.OutcomeSuccessful)

			Convey("Then it is worth the negated delta", func() {
				value, err := valuer.Value(a)
				So(err, ShouldBeNil)
				So(value, ShouldEqual, -0.5) // 0.0 - 0.5
			})
		})

		Convey("When a pass starts and ends in the same zone", func() {
			a := pass(10, 10, 40, 30, model.OutcomeSuccessful)

			Convey("Then it is worth exactly zero", func() {
				value, err := valuer.Value(a)
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 0.0)
			})
		})

		Convey("When valuing a carry", func() {
			a := pass(10, 10, 60, 10, model.OutcomeSuccessful)
			a.Type = model.ActionCarry

			Convey("Then it uses the same surface delta as a pass", func() {
				value, err := valuer.Value(a)
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 0.1) // 0.1 - 0.0
			})
		})

		Convey("When valuing a shot", func() {
			a := model.Action{
				ActorID:   "player-9",
				TeamID:    "team-a",
				Type:      model.ActionShot,
				StartX:    88,
				StartY:    52,
				Outcome:   model.OutcomeSuccessful,
				ShotValue: 0.76,
				InPlay:    true,
			}

			Convey("Then its own model-estimated score passes through", func() {
				value, err := valuer.Value(a)
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 0.76)
			})
		})

		Convey("When valuing a bookkeeping action", func() {
			a := model.Action{
				ActorID: "player-4",
				TeamID:  "team-a",
				Type:    model.ActionOther,
				StartX:  50,
				StartY:  50,
				Outcome: model.OutcomeSuccessful,
				InPlay:  true,
			}

			Convey("Then it is worth zero", func() {
				value, err := valuer.Value(a)
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 0.0)
			})
		})

		Convey("When an endpoint lands beyond the field", func() {
			overshoot := pass(10, 10, 150, 50, model.OutcomeSuccessful)
			inRange := pass(10, 10, 100, 50, model.OutcomeSuccessful)

			Convey("Then it values the same as the clamped endpoint", func() {
				got, err := valuer.Value(overshoot)
				So(err, ShouldBeNil)
				want, err := valuer.Value(inRange)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			})
		})
	})
}

func TestGridValuer_Policy(t *testing.T) {
	Convey("Given the four-zone surface", t, func() {
		surface := fourZoneSurface()

		Convey("When the default policy is active", func() {
			valuer := valuation.NewGridValuer(surface)

			Convey("Then unsuccessful actions are worth zero", func() {
				value, err := valuer.Value(pass(10, 10, 60, 60, model.OutcomeUnsuccessful))
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 0.0) // 0.5 * 0
			})

			Convey("And the policy reports full exclusion", func() {
				So(valuer.Policy().UnsuccessfulWeight, ShouldEqual, 0.0)
				So(valuer.Policy().ClipNegative, ShouldBeFalse)
			})
		})

		Convey("When unsuccessful actions carry full weight", func() {
			valuer := valuation.NewGridValuer(surface,
				valuation.WithPolicy(valuation.Policy{UnsuccessfulWeight: 1}),
			)

			Convey("Then they are worth the full delta", func() {
				value, err := valuer.Value(pass(10, 10, 60, 60, model.OutcomeUnsuccessful))
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 0.5)
			})

			Convey("And a losing action keeps its negative value", func() {
				value, err := valuer.Value(pass(60, 60, 10, 10, model.OutcomeUnsuccessful))
				So(err, ShouldBeNil)
				So(value, ShouldEqual, -0.5)
			})
		})

		Convey("When unsuccessful actions are discounted by half", func() {
			valuer := valuation.NewGridValuer(surface,
				valuation.WithPolicy(valuation.Policy{UnsuccessfulWeight: 0.5}),
			)

			Convey("Then they are worth half the delta", func() {
				value, err := valuer.Value(pass(10, 10, 60, 60, model.OutcomeUnsuccessful))
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 0.25) // 0.5 * 0.5
			})

			Convey("And successful actions are unaffected", func() {
				value, err := valuer.Value(pass(10, 10, 60, 60, model.OutcomeSuccessful))
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 0.5)
			})
		})

		Convey("When negative values are clipped", func() {
			valuer := valuation.NewGridValuer(surface,
				valuation.WithPolicy(valuation.Policy{UnsuccessfulWeight: 1, ClipNegative: true}),
			)

			Convey("Then a backward pass floors at zero", func() {
				value, err := valuer.Value(pass(60, 60, 10, 10, model.OutcomeSuccessful))
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 0.0)
			})

			Convey("And a forward pass keeps its value", func() {
				value, err := valuer.Value(pass(10, 10, 60, 60, model.OutcomeSuccessful))
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 0.5)
			})
		})

		Convey("When an unsuccessful shot is weighted", func() {
			valuer := valuation.NewGridValuer(surface,
				valuation.WithPolicy(valuation.Policy{UnsuccessfulWeight: 0.5}),
			)
			a := model.Action{
				ActorID:   "player-9",
				TeamID:    "team-a",
				Type:      model.ActionShot,
				StartX:    88,
				StartY:    52,
				Outcome:   model.OutcomeUnsuccessful,
				ShotValue: 0.2,
				InPlay:    true,
			}

			Convey("Then the weight applies to its estimated score", func() {
				value, err := valuer.Value(a)
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 0.1) // 0.2 * 0.5
			})
		})
	})
}

func TestGridValuer_Errors(t *testing.T) {
	Convey("Given a valuer over a four-zone surface", t, func() {
		valuer := valuation.NewGridValuer(fourZoneSurface())

		Convey("When a pass has no recorded endpoint", func() {
			a := pass(10, 10, 0, 0, model.OutcomeSuccessful)
			a.EndX = nil
			a.EndY = nil

			Convey("Then it reports the missing endpoint", func() {
				value, err := valuer.Value(a)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, model.ErrMissingEndpoint), ShouldBeTrue)
				So(value, ShouldEqual, 0.0)
			})
		})

		Convey("When the actor is unknown", func() {
			a := pass(10, 10, 60, 60, model.OutcomeSuccessful)
			a.ActorID = ""

			Convey("Then it reports the missing actor", func() {
				_, err := valuer.Value(a)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, model.ErrMissingActor), ShouldBeTrue)
			})
		})
	})
}

func TestPolicy_Validate(t *testing.T) {
	Convey("Given unsuccessful-action policies", t, func() {
		Convey("When the weight lies inside the unit interval", func() {
			for _, w := range []float64{0, 0.5, 1} {
				So(valuation.Policy{UnsuccessfulWeight: w}.Validate(), ShouldBeNil)
			}
		})

		Convey("When the weight lies outside the unit interval", func() {
			for _, w := range []float64{-0.1, 1.5, math.NaN()} {
				err := valuation.Policy{UnsuccessfulWeight: w}.Validate()
				So(err, ShouldNotBeNil)
			}
		})
	})
}
