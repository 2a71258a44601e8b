package repository

import "errors"

var (
	// ErrNotFound means no alert exists with the given id.
	ErrNotFound = errors.New("alert not found")
	// ErrStaleState means the alert was not in the state the transition
	// requires; a concurrent worker got there first.
	ErrStaleState = errors.New("alert not in expected state")
)
