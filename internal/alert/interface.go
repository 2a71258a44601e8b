package alert

import (
	"context"
	"time"

	"semaforo-srv/internal/model"
)

// UseCase is the alert scheduler: it owns pending/in-flight/retry state for
// alerts and exposes due-alert retrieval and outcome recording.
type UseCase interface {
	// Enqueue inserts a draft, idempotent on its dedup key within the live
	// window. The bool reports whether a new alert was actually created;
	// on a dedup hit the existing live alert is returned instead.
	Enqueue(ctx context.Context, draft Draft) (model.Alert, bool, error)

	// DueAlerts claims and returns up to limit pending alerts whose
	// scheduled_for has passed, ordered by severity descending then
	// scheduled_for ascending. Claimed alerts are invisible to other
	// dispatch workers until their claim lease expires.
	DueAlerts(ctx context.Context, limit int) ([]model.Alert, error)

	// RecordOutcome finishes one dispatch attempt: success moves the alert
	// to sent, failure to error with the retry count incremented.
	RecordOutcome(ctx context.Context, alertID string, success bool, errMsg string) (model.Alert, error)

	// Reschedule moves an alert from error back to pending after delay.
	// Reports false without error when retries are exhausted, the alert is
	// expired, or it is not in error state.
	Reschedule(ctx context.Context, alertID string, delay time.Duration) (bool, error)

	// Ignore is the manual operator override: pending|error -> ignored.
	Ignore(ctx context.Context, alertID string) (model.Alert, error)

	// HasLiveAlert reports whether a non-terminal alert with the dedup key
	// exists within the rolling window. Used by the alert policy.
	HasLiveAlert(ctx context.Context, dedupKey string, window time.Duration) (bool, error)

	// Get lists alerts for operator views.
	Get(ctx context.Context, ip GetInput) (GetOutput, error)

	// CountPending returns the number of alerts waiting for dispatch.
	CountPending(ctx context.Context) (int, error)

	// CountCreatedSince counts alerts created at or after t.
	CountCreatedSince(ctx context.Context, t time.Time) (int, error)
}

// RecipientResolver resolves who should receive an alert for a campaign.
// The user/role directory owns the mapping; the engine never resolves
// contact addresses itself.
type RecipientResolver interface {
	ResolveRecipients(ctx context.Context, campaignID string) (model.Recipients, error)
}

// RecentAlertLookup checks for a live alert under a dedup key. Satisfied by
// UseCase.HasLiveAlert; a func type so the pure policy stays storage-free.
type RecentAlertLookup func(ctx context.Context, dedupKey string, window time.Duration) (bool, error)
