package repository

import (
	"context"
	"time"

	"semaforo-srv/internal/model"
	"semaforo-srv/pkg/paginator"
)

// Repository persists alerts through their delivery lifecycle. State
// transition guards are enforced in SQL so concurrent dispatch workers
// cannot race an alert through an illegal transition.
type Repository interface {
	// Detail returns the alert with the given id, or ErrNotFound.
	Detail(ctx context.Context, id string) (model.Alert, error)

	// Create inserts the draft unless a live alert with the same dedup key
	// already exists inside the window; the bool reports a real insert.
	// The existence check and the insert run atomically.
	Create(ctx context.Context, opts CreateOptions) (model.Alert, bool, error)

	// FindLive returns the newest non-terminal alert with the dedup key
	// created at or after since, or ErrNotFound.
	FindLive(ctx context.Context, dedupKey string, since time.Time) (model.Alert, error)

	// ClaimDue atomically claims up to limit due pending alerts for the
	// duration of the lease and returns them, severity first.
	ClaimDue(ctx context.Context, opts ClaimOptions) ([]model.Alert, error)

	// MarkSent transitions pending -> sent. ErrStaleState if not pending.
	MarkSent(ctx context.Context, id string, at time.Time) (model.Alert, error)

	// MarkFailed transitions pending -> error, increments the retry count
	// and records the error text.
	MarkFailed(ctx context.Context, id string, errMsg string) (model.Alert, error)

	// MarkIgnored transitions pending|error -> ignored.
	MarkIgnored(ctx context.Context, id string) (model.Alert, error)

	// Reschedule transitions error -> pending with a new scheduled_for,
	// only while retries remain and the alert has not expired. The bool
	// reports whether the transition happened.
	Reschedule(ctx context.Context, id string, at time.Time) (model.Alert, bool, error)

	// Get lists alerts with pagination, newest first.
	Get(ctx context.Context, opts GetOptions) ([]model.Alert, paginator.Paginator, error)

	// CountByState counts alerts currently in the given delivery state.
	CountByState(ctx context.Context, state model.DeliveryState) (int, error)

	// CountCreatedSince counts alerts created at or after t.
	CountCreatedSince(ctx context.Context, t time.Time) (int, error)
}
