package pitch

import (
	"math"

	"github.com/okian/regista/internal/domain/model"
)

// Dimensions is the physical pitch size in metres, used to scale
// normalized coordinates for distance calculations.
type Dimensions struct {
	LengthM float64 // x axis, toward the attacking goal
	WidthM  float64 // y axis
}

// DefaultDimensions returns the standard 105x68 pitch.
func DefaultDimensions() Dimensions {
	return Dimensions{LengthM: 105, WidthM: 68}
}

// Progressive distance thresholds in metres, by where the action starts
// and ends relative to halfway.
const (
	progressiveOwnHalfM   = 30.0
	progressiveCrossingM  = 15.0
	progressiveFinalHalfM = 10.0
	halfwayX              = MaxCoord / 2
)

// Penalty area bounds in normalized coordinates.
const (
	boxEdgeX = 83.0
	boxLowY  = 21.1
	boxHighY = 78.9
)

// Progressive reports whether a movement action moves the ball materially
// closer to the opposing goal. The required gain depends on the halves the
// action spans: 30 m when it starts and ends in the possessing team's own
// half, 15 m when it crosses halfway, 10 m inside the opposing half.
// Terminal and endpoint-less actions are never progressive.
func Progressive(a model.Action, d Dimensions) bool {
	endX, endY, ok := a.End()
	if !ok {
		return false
	}

	startX := clampCoord(a.StartX)
	startY := clampCoord(a.StartY)
	endX = clampCoord(endX)
	endY = clampCoord(endY)

	gain := d.distanceToGoal(startX, startY) - d.distanceToGoal(endX, endY)

	switch {
	case startX < halfwayX && endX < halfwayX:
		return gain >= progressiveOwnHalfM
	case startX >= halfwayX && endX >= halfwayX:
		return gain >= progressiveFinalHalfM
	default:
		return gain >= progressiveCrossingM
	}
}

// IntoBox reports whether a movement action ends inside the opposing
// penalty area.
func IntoBox(a model.Action) bool {
	endX, endY, ok := a.End()
	if !ok {
		return false
	}
	endX = clampCoord(endX)
	endY = clampCoord(endY)
	return endX >= boxEdgeX && endY >= boxLowY && endY <= boxHighY
}

// distanceToGoal measures metres from a normalized coordinate to the
// centre of the opposing goal mouth.
func (d Dimensions) distanceToGoal(x, y float64) float64 {
	mx := x / MaxCoord * d.LengthM
	my := y / MaxCoord * d.WidthM
	return math.Hypot(d.LengthM-mx, d.WidthM/2-my)
}

// metresBetween measures the metre distance between two normalized
// coordinates, clamping both first.
func (d Dimensions) metresBetween(x1, y1, x2, y2 float64) float64 {
	dx := (clampCoord(x2) - clampCoord(x1)) / MaxCoord * d.LengthM
	dy := (clampCoord(y2) - clampCoord(y1)) / MaxCoord * d.WidthM
	return math.Hypot(dx, dy)
}
