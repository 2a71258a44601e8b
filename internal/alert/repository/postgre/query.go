package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"semaforo-srv/internal/alert/repository"
	"semaforo-srv/internal/model"
	"semaforo-srv/pkg/paginator"

	"github.com/friendsofgo/errors"
)

func buildFilter(f repository.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.CampaignID != "" {
		args = append(args, f.CampaignID)
		conds = append(conds, fmt.Sprintf("campaign_id = $%d", len(args)))
	}
	if f.State != "" {
		args = append(args, f.State.String())
		conds = append(conds, fmt.Sprintf("delivery_state = $%d", len(args)))
	}
	if f.ExhaustedOnly {
		conds = append(conds, "delivery_state = 'error'", "retry_count >= max_retries")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *implRepository) Get(ctx context.Context, opts repository.GetOptions) ([]model.Alert, paginator.Paginator, error) {
	opts.PaginateQuery.Adjust()
	where, args := buildFilter(opts.Filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts`+where, args...).Scan(&total); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Get.Count: %v", err)
		return nil, paginator.Paginator{}, errors.Wrap(err, "count alerts")
	}

	args = append(args, opts.PaginateQuery.Limit, opts.PaginateQuery.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM alerts%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
			alertColumns, where, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Get.Query: %v", err)
		return nil, paginator.Paginator{}, errors.Wrap(err, "select alerts")
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			r.l.Errorf(ctx, "internal.alert.repository.postgres.Get.Scan: %v", err)
			return nil, paginator.Paginator{}, errors.Wrap(err, "scan alert")
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, paginator.Paginator{}, errors.Wrap(err, "iterate alerts")
	}

	return alerts, paginator.New(opts.PaginateQuery, total, len(alerts)), nil
}

func (r *implRepository) CountByState(ctx context.Context, state model.DeliveryState) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alerts WHERE delivery_state = $1`, state.String(),
	).Scan(&count); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.CountByState: %v", err)
		return 0, errors.Wrap(err, "count alerts by state")
	}
	return count, nil
}

func (r *implRepository) CountCreatedSince(ctx context.Context, t time.Time) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alerts WHERE created_at >= $1`, t,
	).Scan(&count); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.CountCreatedSince: %v", err)
		return 0, errors.Wrap(err, "count alerts created since")
	}
	return count, nil
}
