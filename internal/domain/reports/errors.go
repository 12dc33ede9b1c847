package reports

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingName     = errors.New("report definition has no name")
	ErrUnknownKind     = errors.New("unknown report kind")
	ErrUnknownKey      = errors.New("unknown report key")
	ErrUnknownType     = errors.New("unknown action type")
	ErrDuplicateReport = errors.New("duplicate report name")
	ErrUnknownReport   = errors.New("unknown report")
)
