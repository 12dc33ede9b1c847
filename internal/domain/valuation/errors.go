package valuation

import "errors"

// ErrInvalidWeight indicates an unsuccessful-action weight outside [0, 1].
var ErrInvalidWeight = errors.New("unsuccessful weight must be between 0 and 1")
