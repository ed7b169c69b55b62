package difficulty

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownCategory = errors.New("unknown category")
)
