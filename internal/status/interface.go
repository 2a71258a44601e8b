package status

import (
	"context"
	"time"

	"semaforo-srv/internal/model"
)

// UseCase is the recalculation engine: it derives traffic-light statuses,
// records transitions and hands alert drafts to the scheduler.
type UseCase interface {
	// OnCampaignChanged is the event entrypoint called by the
	// record-management system whenever a campaign is created or edited.
	OnCampaignChanged(ctx context.Context, campaignID string) (Outcome, error)

	// RecalculateOne recomputes a single campaign under its per-id lock.
	RecalculateOne(ctx context.Context, campaignID string) (Outcome, error)

	// RecalculateBatch recomputes every campaign matching the filter.
	// Per-item failures are counted, not propagated; ctx cancellation stops
	// scheduling new items but lets in-flight ones finish.
	RecalculateBatch(ctx context.Context, filter BatchFilter) (BatchStats, error)

	// OnCampaignDeleted cascades a campaign deletion to its status record.
	OnCampaignDeleted(ctx context.Context, campaignID string) error

	// GetStatusSummary returns the dashboard counts and percentages.
	GetStatusSummary(ctx context.Context) (SummaryOutput, error)

	// ListHistory returns one page of a campaign's transition history.
	ListHistory(ctx context.Context, ip HistoryInput) (HistoryOutput, error)

	// RecomputeSummary rebuilds the aggregate rollup for (period, date)
	// from scratch.
	RecomputeSummary(ctx context.Context, period model.SummaryPeriod, date time.Time) (model.AggregateSummary, error)
}

// SnapshotProvider supplies read-only campaign snapshots from the
// record-management system.
type SnapshotProvider interface {
	GetCampaignSnapshot(ctx context.Context, id string) (model.CampaignSnapshot, error)
	ListCampaignSnapshots(ctx context.Context) ([]model.CampaignSnapshot, error)
}

// ConfigProvider supplies the single active threshold config.
// Implementations return ErrNoActiveConfig when none is active; callers
// fall back to model.DefaultThresholdConfig.
type ConfigProvider interface {
	GetActiveConfig(ctx context.Context) (model.ThresholdConfig, error)
}
