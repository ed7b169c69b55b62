package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrCorruptRecord = errors.New("corrupt record")
	ErrClosed        = errors.New("store closed")
	ErrInvalidLimit  = errors.New("invalid leaderboard limit")
	ErrUnknownDriver = errors.New("unknown store driver")
)
