package postgres

import (
	"context"
	"time"

	"semaforo-srv/internal/model"
	postgresPkg "semaforo-srv/pkg/postgre"

	"github.com/friendsofgo/errors"
)

func (r *implRepository) CountByColor(ctx context.Context) (map[model.Color]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT current_color, COUNT(*) FROM status_records GROUP BY current_color`,
	)
	if err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.CountByColor: %v", err)
		return nil, errors.Wrap(err, "count by color")
	}
	defer rows.Close()

	counts := map[model.Color]int{
		model.ColorGreen: 0, model.ColorYellow: 0, model.ColorRed: 0, model.ColorGray: 0,
	}
	for rows.Next() {
		var (
			color string
			n     int
		)
		if err := rows.Scan(&color, &n); err != nil {
			r.l.Errorf(ctx, "internal.status.repository.postgres.CountByColor.Scan: %v", err)
			return nil, errors.Wrap(err, "scan color count")
		}
		counts[model.Color(color)] = n
	}
	return counts, rows.Err()
}

func (r *implRepository) CountByPriority(ctx context.Context) (map[model.Priority]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT priority, COUNT(*) FROM status_records GROUP BY priority`,
	)
	if err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.CountByPriority: %v", err)
		return nil, errors.Wrap(err, "count by priority")
	}
	defer rows.Close()

	counts := map[model.Priority]int{
		model.PriorityLow: 0, model.PriorityMedium: 0, model.PriorityHigh: 0, model.PriorityCritical: 0,
	}
	for rows.Next() {
		var (
			prio string
			n    int
		)
		if err := rows.Scan(&prio, &n); err != nil {
			r.l.Errorf(ctx, "internal.status.repository.postgres.CountByPriority.Scan: %v", err)
			return nil, errors.Wrap(err, "scan priority count")
		}
		counts[model.Priority(prio)] = n
	}
	return counts, rows.Err()
}

// SaveSummary recomputes are keyed on (period, summary_date): a rerun for
// the same pair replaces the previous rollup instead of accumulating.
func (r *implRepository) SaveSummary(ctx context.Context, s model.AggregateSummary) (model.AggregateSummary, error) {
	if s.ID == "" {
		s.ID = postgresPkg.NewUUID()
	}
	now := time.Now().UTC()

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO aggregate_summaries (id, period, summary_date, count_green, count_yellow,
			count_red, count_gray, count_low, count_medium, count_high, count_critical,
			alert_count, transition_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (period, summary_date) DO UPDATE SET
			count_green = EXCLUDED.count_green, count_yellow = EXCLUDED.count_yellow,
			count_red = EXCLUDED.count_red, count_gray = EXCLUDED.count_gray,
			count_low = EXCLUDED.count_low, count_medium = EXCLUDED.count_medium,
			count_high = EXCLUDED.count_high, count_critical = EXCLUDED.count_critical,
			alert_count = EXCLUDED.alert_count, transition_count = EXCLUDED.transition_count,
			created_at = EXCLUDED.created_at
		 RETURNING id, created_at`,
		s.ID, s.Period.String(), s.SummaryDate, s.CountGreen, s.CountYellow,
		s.CountRed, s.CountGray, s.CountLow, s.CountMedium, s.CountHigh, s.CountCritical,
		s.AlertCount, s.TransitionCount, now,
	)
	if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.SaveSummary: %v", err)
		return model.AggregateSummary{}, errors.Wrap(err, "upsert summary")
	}
	return s, nil
}
