package repository

import "errors"

var (
	// ErrNotFound means no status record exists for the campaign.
	ErrNotFound = errors.New("status record not found")
)
