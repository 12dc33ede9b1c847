package pitch

import (
	"errors"
)

// Sentinel kinds for grid resource failures. All of them are load-time
// errors; nothing in this package fails after a grid is built.
var (
	ErrMalformedGrid     = errors.New("malformed grid resource")
	ErrEmptyGrid         = errors.New("grid has no cells")
	ErrRaggedGrid        = errors.New("grid rows have unequal lengths")
	ErrNonFiniteValue    = errors.New("grid cell value is not finite")
	ErrDimensionMismatch = errors.New("grid dimensions do not match values")
)
