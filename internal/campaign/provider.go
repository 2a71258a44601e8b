// Package campaign reads campaign snapshots, the active threshold config
// and recipient mappings from the record-management schema. Everything here
// is read-only: campaigns and configs are owned by the surrounding system.
package campaign

import (
	"context"
	"database/sql"

	"semaforo-srv/internal/model"
	"semaforo-srv/internal/status"
	pkgLog "semaforo-srv/pkg/log"

	"github.com/aarondl/null/v8"
	"github.com/friendsofgo/errors"
	"github.com/lib/pq"
)

type implProvider struct {
	l  pkgLog.Logger
	db *sql.DB

	// defaultRoles receive alerts for campaigns with no responsible users.
	defaultRoles []string
}

// New creates a provider serving status.SnapshotProvider,
// status.ConfigProvider and alert.RecipientResolver from postgres.
func New(l pkgLog.Logger, db *sql.DB, defaultRoles []string) *implProvider {
	return &implProvider{
		l:            l,
		db:           db,
		defaultRoles: defaultRoles,
	}
}

const snapshotColumns = `id, name, lifecycle_state, start_date, end_date`

func scanSnapshot(row interface{ Scan(...any) error }) (model.CampaignSnapshot, error) {
	var (
		snap  model.CampaignSnapshot
		state string
		start null.Time
		end   null.Time
	)
	if err := row.Scan(&snap.ID, &snap.Name, &state, &start, &end); err != nil {
		return model.CampaignSnapshot{}, err
	}
	snap.State = model.LifecycleState(state)
	if start.Valid {
		snap.StartDate = &start.Time
	}
	if end.Valid {
		snap.EndDate = &end.Time
	}
	return snap, nil
}

func (p *implProvider) GetCampaignSnapshot(ctx context.Context, id string) (model.CampaignSnapshot, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM campaigns WHERE id = $1`, id,
	)
	snap, err := scanSnapshot(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.CampaignSnapshot{}, status.ErrSnapshotNotFound
		}
		p.l.Errorf(ctx, "internal.campaign.GetCampaignSnapshot: %v", err)
		return model.CampaignSnapshot{}, errors.Wrap(err, "select campaign")
	}
	return snap, nil
}

func (p *implProvider) ListCampaignSnapshots(ctx context.Context) ([]model.CampaignSnapshot, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM campaigns ORDER BY id`,
	)
	if err != nil {
		p.l.Errorf(ctx, "internal.campaign.ListCampaignSnapshots: %v", err)
		return nil, errors.Wrap(err, "select campaigns")
	}
	defer rows.Close()

	var snaps []model.CampaignSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			p.l.Errorf(ctx, "internal.campaign.ListCampaignSnapshots.Scan: %v", err)
			return nil, errors.Wrap(err, "scan campaign")
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (p *implProvider) GetActiveConfig(ctx context.Context) (model.ThresholdConfig, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT id, name, method, min_days_green, min_days_yellow, max_percent_green,
			max_percent_yellow, green_states, yellow_states, red_states, gray_states,
			alerts_enabled, alert_only_on_worsening, created_at
		 FROM threshold_configs WHERE active = TRUE
		 ORDER BY created_at DESC LIMIT 1`,
	)

	var (
		cfg    model.ThresholdConfig
		method string
		green  pq.StringArray
		yellow pq.StringArray
		red    pq.StringArray
		gray   pq.StringArray
	)
	err := row.Scan(&cfg.ID, &cfg.Name, &method, &cfg.MinDaysGreen, &cfg.MinDaysYellow,
		&cfg.MaxPercentGreen, &cfg.MaxPercentYellow, &green, &yellow, &red, &gray,
		&cfg.AlertsEnabled, &cfg.AlertOnlyOnWorsening, &cfg.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ThresholdConfig{}, status.ErrNoActiveConfig
		}
		p.l.Errorf(ctx, "internal.campaign.GetActiveConfig: %v", err)
		return model.ThresholdConfig{}, errors.Wrap(err, "select active config")
	}

	cfg.Method = model.CalculationMethod(method)
	cfg.GreenStates = toStates(green)
	cfg.YellowStates = toStates(yellow)
	cfg.RedStates = toStates(red)
	cfg.GrayStates = toStates(gray)
	cfg.Active = true

	if err := cfg.Validate(); err != nil {
		p.l.Errorf(ctx, "internal.campaign.GetActiveConfig.Validate: %v", err)
		return model.ThresholdConfig{}, status.ErrNoActiveConfig
	}
	return cfg, nil
}

func toStates(labels []string) []model.LifecycleState {
	states := make([]model.LifecycleState, 0, len(labels))
	for _, l := range labels {
		states = append(states, model.LifecycleState(l))
	}
	return states
}

// ResolveRecipients returns the campaign's responsible users plus the
// configured fallback roles.
func (p *implProvider) ResolveRecipients(ctx context.Context, campaignID string) (model.Recipients, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT user_id FROM campaign_responsibles WHERE campaign_id = $1`, campaignID,
	)
	if err != nil {
		p.l.Errorf(ctx, "internal.campaign.ResolveRecipients: %v", err)
		return model.Recipients{}, errors.Wrap(err, "select responsibles")
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			p.l.Errorf(ctx, "internal.campaign.ResolveRecipients.Scan: %v", err)
			return model.Recipients{}, errors.Wrap(err, "scan responsible")
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return model.Recipients{}, errors.Wrap(err, "iterate responsibles")
	}

	return model.Recipients{Users: users, Roles: p.defaultRoles}, nil
}
