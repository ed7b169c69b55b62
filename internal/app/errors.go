package service

import "errors"

var (
	// ErrInvalidInput is returned when a round is started with a non-positive
	// range size or attempt budget, or without a player name.
	ErrInvalidInput = errors.New("invalid round input")
	// ErrOutOfRange is returned for a guess outside [1, range size]. The
	// guess does not consume an attempt.
	ErrOutOfRange = errors.New("guess out of range")
	// ErrRoundOver is returned when guessing in, or finishing, a round that
	// has already ended or been finished.
	ErrRoundOver = errors.New("round is over")
	// ErrRoundInProgress is returned when finishing a round that still has
	// attempts left and no correct guess.
	ErrRoundInProgress = errors.New("round still in progress")
	// ErrNoStore is returned when persisting without a configured store.
	ErrNoStore = errors.New("no record store configured")
)
