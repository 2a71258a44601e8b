package postgres

import (
	"context"
	"time"

	"semaforo-srv/internal/model"
	"semaforo-srv/internal/status/repository"
	"semaforo-srv/pkg/paginator"

	"github.com/aarondl/null/v8"
	"github.com/friendsofgo/errors"
)

func (r *implRepository) ListHistory(ctx context.Context, opts repository.HistoryOptions) ([]model.HistoryEntry, paginator.Paginator, error) {
	opts.PaginateQuery.Adjust()

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM status_history WHERE campaign_id = $1`, opts.CampaignID,
	).Scan(&total); err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.ListHistory.Count: %v", err)
		return nil, paginator.Paginator{}, errors.Wrap(err, "count history")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, campaign_id, color_before, color_after, priority_before, priority_after,
			reason, days_remaining, elapsed_percent, config_id, alert_generated, triggered_by, created_at
		 FROM status_history
		 WHERE campaign_id = $1
		 ORDER BY created_at ASC, id ASC
		 LIMIT $2 OFFSET $3`,
		opts.CampaignID, opts.PaginateQuery.Limit, opts.PaginateQuery.Offset(),
	)
	if err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.ListHistory.Query: %v", err)
		return nil, paginator.Paginator{}, errors.Wrap(err, "select history")
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var (
			e           model.HistoryEntry
			before      null.String
			prioBefore  null.String
			colorAfter  string
			prioAfter   string
			triggeredBy null.String
		)
		if err := rows.Scan(
			&e.ID, &e.CampaignID, &before, &colorAfter, &prioBefore, &prioAfter,
			&e.Reason, &e.DaysRemaining, &e.ElapsedPercent, &e.ConfigID,
			&e.AlertGenerated, &triggeredBy, &e.CreatedAt,
		); err != nil {
			r.l.Errorf(ctx, "internal.status.repository.postgres.ListHistory.Scan: %v", err)
			return nil, paginator.Paginator{}, errors.Wrap(err, "scan history entry")
		}
		e.ColorAfter = model.Color(colorAfter)
		e.PriorityAfter = model.Priority(prioAfter)
		if before.Valid {
			c := model.Color(before.String)
			e.ColorBefore = &c
		}
		if prioBefore.Valid {
			p := model.Priority(prioBefore.String)
			e.PriorityBefore = &p
		}
		e.TriggeredBy = triggeredBy.Ptr()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.ListHistory.Rows: %v", err)
		return nil, paginator.Paginator{}, errors.Wrap(err, "iterate history")
	}

	return entries, paginator.New(opts.PaginateQuery, total, len(entries)), nil
}

func (r *implRepository) CountTransitionsSince(ctx context.Context, t time.Time) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM status_history WHERE created_at >= $1`, t,
	).Scan(&count); err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.CountTransitionsSince: %v", err)
		return 0, errors.Wrap(err, "count transitions")
	}
	return count, nil
}
