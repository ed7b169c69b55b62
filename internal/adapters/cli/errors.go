package cli

import "errors"

// ErrInputClosed is returned when the input ends before the game does.
var ErrInputClosed = errors.New("input closed")
