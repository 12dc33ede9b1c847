package pitch

import _ "embed"

// defaultGridJSON contains the embedded 12x8 expected-threat surface.
//
//go:embed xt_grid_12x8.json
var defaultGridJSON []byte

// DefaultGrid returns the compiled-in 12x8 expected-threat surface, used
// when no grid resource path is configured.
func DefaultGrid() *ZoneGrid {
	grid, err := ParseGrid(defaultGridJSON)
	if err != nil {
		panic("embedded grid resource is malformed: " + err.Error())
	}
	return grid
}
