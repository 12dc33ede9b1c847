// Package pitch models the discretized pitch surface: the zone value grid
// and the geometry predicates built on top of it.
//
// Coordinates are normalized to 0-100 on each axis with (0,0) at the
// bottom-left corner and x growing toward the attacking goal. Every lookup
// clamps its inputs to that range first, so callers never fail on
// out-of-range data.
package pitch

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// MaxCoord is the upper bound of the normalized coordinate space.
const MaxCoord = 100.0

// ZoneGrid is a read-only value surface over the pitch at a fixed
// resolution. Row 0 is the bottom of the pitch (low y), column 0 the left
// edge (low x); values are stored row-major. A grid is never mutated after
// construction and is safe for unsynchronized concurrent readers.
type ZoneGrid struct {
	rows   int
	cols   int
	values [][]float64
}

// gridResource is the on-disk JSON shape of a value surface.
type gridResource struct {
	Rows   int         `json:"rows"`
	Cols   int         `json:"cols"`
	Values [][]float64 `json:"values"`
}

// NewGrid builds a grid from row-major values. The input is copied, so the
// caller keeps no handle into the grid's state.
func NewGrid(values [][]float64) (*ZoneGrid, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmptyGrid
	}

	rows := len(values)
	cols := len(values[0])
	copied := make([][]float64, rows)
	for r, rowVals := range values {
		if len(rowVals) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedGrid, r, len(rowVals), cols)
		}
		copied[r] = make([]float64, cols)
		for c, v := range rowVals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: cell (%d,%d)", ErrNonFiniteValue, r, c)
			}
			copied[r][c] = v
		}
	}

	return &ZoneGrid{rows: rows, cols: cols, values: copied}, nil
}

// ParseGrid decodes a JSON grid resource. Declared dimensions, when
// present, must match the value table.
func ParseGrid(data []byte) (*ZoneGrid, error) {
	var res gridResource
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGrid, err)
	}

	grid, err := NewGrid(res.Values)
	if err != nil {
		return nil, err
	}

	if res.Rows != 0 && res.Rows != grid.rows {
		return nil, fmt.Errorf("%w: declared %d rows, found %d", ErrDimensionMismatch, res.Rows, grid.rows)
	}
	if res.Cols != 0 && res.Cols != grid.cols {
		return nil, fmt.Errorf("%w: declared %d cols, found %d", ErrDimensionMismatch, res.Cols, grid.cols)
	}

	return grid, nil
}

// LoadGrid reads and parses a grid resource from disk. This is the only
// fatal failure class in the system and it surfaces here, before any
// aggregation starts.
func LoadGrid(path string) (*ZoneGrid, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("reading grid resource %q: %w", path, err)
	}
	grid, err := ParseGrid(data)
	if err != nil {
		return nil, fmt.Errorf("grid resource %q: %w", path, err)
	}
	return grid, nil
}

// Rows returns the vertical resolution.
func (g *ZoneGrid) Rows() int { return g.rows }

// Cols returns the horizontal resolution.
func (g *ZoneGrid) Cols() int { return g.cols }

// ZoneOf maps a pitch coordinate to its cell index. Out-of-range inputs
// are clamped to the nearest boundary, so the result is always a valid
// cell; the function is total over all float inputs.
func (g *ZoneGrid) ZoneOf(x, y float64) (row, col int) {
	row = bucket(clampCoord(y), g.rows)
	col = bucket(clampCoord(x), g.cols)
	return row, col
}

// ValueAt composes ZoneOf with the cell lookup.
func (g *ZoneGrid) ValueAt(x, y float64) float64 {
	row, col := g.ZoneOf(x, y)
	return g.values[row][col]
}

// clampCoord pulls a coordinate into [0, MaxCoord]. NaN maps to 0.
func clampCoord(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > MaxCoord {
		return MaxCoord
	}
	return v
}

// bucket maps a clamped coordinate onto one of n cells. The upper boundary
// belongs to the last cell.
func bucket(v float64, n int) int {
	idx := int(v / MaxCoord * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}
