package repository

import (
	"context"
	"time"

	"semaforo-srv/internal/model"
	"semaforo-srv/pkg/paginator"
)

// Repository is the status store: latest computed status per campaign plus
// the append-only transition history and the aggregate rollups.
type Repository interface {
	// Detail returns the status record for a campaign, or ErrNotFound.
	Detail(ctx context.Context, campaignID string) (model.StatusRecord, error)

	// Upsert writes the computed status. On first insert it creates the
	// record (created=true, transitioned=false). On update it detects a
	// color change, copies the old color into previous_color, appends a
	// history entry and resets alert_sent, all inside one transaction.
	Upsert(ctx context.Context, opts UpsertOptions) (UpsertResult, error)

	// MarkAlertSent flags the record after the scheduler accepted a draft.
	MarkAlertSent(ctx context.Context, campaignID string) error

	// Delete removes the record and its history (campaign cascade).
	Delete(ctx context.Context, campaignID string) error

	// ListHistory returns one page of transition history, oldest first.
	ListHistory(ctx context.Context, opts HistoryOptions) ([]model.HistoryEntry, paginator.Paginator, error)

	// CountByColor returns current record counts grouped by color.
	CountByColor(ctx context.Context) (map[model.Color]int, error)

	// CountByPriority returns current record counts grouped by priority.
	CountByPriority(ctx context.Context) (map[model.Priority]int, error)

	// CountTransitionsSince counts history entries created at or after t.
	CountTransitionsSince(ctx context.Context, t time.Time) (int, error)

	// SaveSummary upserts the aggregate rollup keyed on (period, date).
	SaveSummary(ctx context.Context, summary model.AggregateSummary) (model.AggregateSummary, error)
}
