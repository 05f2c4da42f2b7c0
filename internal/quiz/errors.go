package quiz

import "errors"

var (
	// ErrInvalidInput is returned when a submitted answer is not an integer.
	// It does not consume an attempt.
	ErrInvalidInput = errors.New("answer is not a number")
	ErrNotAsking    = errors.New("no question is waiting for an answer")
	ErrNotResolved  = errors.New("current question is not resolved yet")
	ErrFinished     = errors.New("quiz is finished")
)
