package status

import "errors"

var (
	// ErrInvalidConfig means the threshold config violates its own invariants.
	ErrInvalidConfig = errors.New("invalid threshold config")
	// ErrSnapshotNotFound means the record-management system knows no such campaign.
	ErrSnapshotNotFound = errors.New("campaign snapshot not found")
	// ErrRecordNotFound means no status record exists for the campaign yet.
	ErrRecordNotFound = errors.New("status record not found")
	// ErrNoActiveConfig means no threshold config is marked active.
	ErrNoActiveConfig = errors.New("no active threshold config")
	// ErrPersistence wraps storage failures surfaced to RecalculateOne callers.
	ErrPersistence = errors.New("status persistence failed")
)
