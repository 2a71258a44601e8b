package alert

import "errors"

var (
	// ErrAlertNotFound means no alert exists with the given id.
	ErrAlertNotFound = errors.New("alert not found")
	// ErrInvalidTransition means the requested state change is not allowed
	// by the delivery state machine.
	ErrInvalidTransition = errors.New("invalid delivery state transition")
	// ErrRetriesExhausted means the alert failed maxRetries times and stays
	// in error state until an operator intervenes.
	ErrRetriesExhausted = errors.New("alert retries exhausted")
)
