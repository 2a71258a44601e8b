package postgres

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"semaforo-srv/internal/alert/repository"
	"semaforo-srv/internal/model"
	postgresPkg "semaforo-srv/pkg/postgre"

	"github.com/aarondl/null/v8"
	"github.com/friendsofgo/errors"
	"github.com/lib/pq"
)

const alertColumns = `id, campaign_id, dedup_key, type, severity, title, body, delivery_state,
	scheduled_for, sent_at, retry_count, max_retries, last_error, recipients_users,
	recipients_roles, expires_at, created_at, updated_at`

// severityOrder ranks severities in SQL for dispatch ordering.
const severityOrder = `CASE severity
	WHEN 'critical' THEN 3 WHEN 'error' THEN 2 WHEN 'warning' THEN 1 ELSE 0 END`

func scanAlert(row interface{ Scan(...any) error }) (model.Alert, error) {
	var (
		a          model.Alert
		campaignID null.String
		alertType  string
		severity   string
		state      string
		sentAt     null.Time
		lastError  null.String
		expiresAt  null.Time
		users      pq.StringArray
		roles      pq.StringArray
	)
	err := row.Scan(
		&a.ID, &campaignID, &a.DedupKey, &alertType, &severity, &a.Title, &a.Body, &state,
		&a.ScheduledFor, &sentAt, &a.RetryCount, &a.MaxRetries, &lastError, &users,
		&roles, &expiresAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return model.Alert{}, err
	}
	a.CampaignID = campaignID.Ptr()
	a.Type = model.AlertType(alertType)
	a.Severity = model.AlertSeverity(severity)
	a.State = model.DeliveryState(state)
	if sentAt.Valid {
		a.SentAt = &sentAt.Time
	}
	a.LastError = lastError.Ptr()
	if expiresAt.Valid {
		a.ExpiresAt = &expiresAt.Time
	}
	a.Recipients = model.Recipients{Users: users, Roles: roles}
	return a, nil
}

func (r *implRepository) Detail(ctx context.Context, id string) (model.Alert, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id,
	)
	a, err := scanAlert(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Alert{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Detail: %v", err)
		return model.Alert{}, errors.Wrap(err, "select alert")
	}
	return a, nil
}

// Create closes the check-then-act race with a transaction-scoped advisory
// lock on the dedup key: concurrent enqueues for the same key serialize
// here, so at most one passes the liveness check.
func (r *implRepository) Create(ctx context.Context, opts repository.CreateOptions) (model.Alert, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Create.BeginTx: %v", err)
		return model.Alert{}, false, errors.Wrap(err, "begin create tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, opts.DedupKey); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Create.AdvisoryLock: %v", err)
		return model.Alert{}, false, errors.Wrap(err, "advisory lock")
	}

	row := tx.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM alerts
		 WHERE dedup_key = $1 AND delivery_state IN ('pending', 'sent') AND created_at >= $2
		 ORDER BY created_at DESC LIMIT 1`,
		opts.DedupKey, opts.DedupSince,
	)
	existing, err := scanAlert(row)
	switch {
	case err == nil:
		if err := tx.Commit(); err != nil {
			return model.Alert{}, false, errors.Wrap(err, "commit create tx")
		}
		return existing, false, nil
	case err != sql.ErrNoRows:
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Create.FindLive: %v", err)
		return model.Alert{}, false, errors.Wrap(err, "check live alert")
	}

	now := time.Now().UTC()
	var expires null.Time
	if opts.ExpiresAt != nil {
		expires = null.TimeFrom(*opts.ExpiresAt)
	}

	row = tx.QueryRowContext(ctx,
		`INSERT INTO alerts (`+alertColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', $8, NULL, 0, $9, NULL, $10, $11, $12, $13, $13)
		 RETURNING `+alertColumns,
		postgresPkg.NewUUID(), null.StringFromPtr(opts.CampaignID), opts.DedupKey,
		opts.Type.String(), opts.Severity.String(), opts.Title, opts.Body,
		opts.ScheduledFor, opts.MaxRetries,
		pq.Array(opts.Recipients.Users), pq.Array(opts.Recipients.Roles),
		expires, now,
	)
	created, err := scanAlert(row)
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Create.Insert: %v", err)
		return model.Alert{}, false, errors.Wrap(err, "insert alert")
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Create.Commit: %v", err)
		return model.Alert{}, false, errors.Wrap(err, "commit create tx")
	}
	return created, true, nil
}

func (r *implRepository) FindLive(ctx context.Context, dedupKey string, since time.Time) (model.Alert, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM alerts
		 WHERE dedup_key = $1 AND delivery_state IN ('pending', 'sent') AND created_at >= $2
		 ORDER BY created_at DESC LIMIT 1`,
		dedupKey, since,
	)
	a, err := scanAlert(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Alert{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.alert.repository.postgres.FindLive: %v", err)
		return model.Alert{}, errors.Wrap(err, "find live alert")
	}
	return a, nil
}

// ClaimDue marks the selected rows with a claim lease so a second worker
// polling concurrently skips them; SKIP LOCKED keeps the pollers from
// blocking each other on the row locks.
func (r *implRepository) ClaimDue(ctx context.Context, opts repository.ClaimOptions) ([]model.Alert, error) {
	rows, err := r.db.QueryContext(ctx,
		`UPDATE alerts SET claimed_until = $3, updated_at = $2
		 WHERE id IN (
			SELECT id FROM alerts
			WHERE delivery_state = 'pending'
			  AND scheduled_for <= $2
			  AND (claimed_until IS NULL OR claimed_until <= $2)
			ORDER BY `+severityOrder+` DESC, scheduled_for ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING `+alertColumns,
		opts.Limit, opts.Now, opts.Now.Add(opts.Lease),
	)
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.ClaimDue: %v", err)
		return nil, errors.Wrap(err, "claim due alerts")
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			r.l.Errorf(ctx, "internal.alert.repository.postgres.ClaimDue.Scan: %v", err)
			return nil, errors.Wrap(err, "scan claimed alert")
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate claimed alerts")
	}

	// UPDATE ... RETURNING does not preserve the subquery order.
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity.Rank() != alerts[j].Severity.Rank() {
			return alerts[i].Severity.Rank() > alerts[j].Severity.Rank()
		}
		return alerts[i].ScheduledFor.Before(alerts[j].ScheduledFor)
	})
	return alerts, nil
}

func (r *implRepository) MarkSent(ctx context.Context, id string, at time.Time) (model.Alert, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE alerts SET delivery_state = 'sent', sent_at = $2, claimed_until = NULL, updated_at = $2
		 WHERE id = $1 AND delivery_state = 'pending'
		 RETURNING `+alertColumns,
		id, at,
	)
	return r.scanTransition(ctx, row, id, "MarkSent")
}

func (r *implRepository) MarkFailed(ctx context.Context, id string, errMsg string) (model.Alert, error) {
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx,
		`UPDATE alerts SET delivery_state = 'error', retry_count = retry_count + 1,
			last_error = $2, claimed_until = NULL, updated_at = $3
		 WHERE id = $1 AND delivery_state = 'pending'
		 RETURNING `+alertColumns,
		id, errMsg, now,
	)
	return r.scanTransition(ctx, row, id, "MarkFailed")
}

func (r *implRepository) MarkIgnored(ctx context.Context, id string) (model.Alert, error) {
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx,
		`UPDATE alerts SET delivery_state = 'ignored', claimed_until = NULL, updated_at = $2
		 WHERE id = $1 AND delivery_state IN ('pending', 'error')
		 RETURNING `+alertColumns,
		id, now,
	)
	return r.scanTransition(ctx, row, id, "MarkIgnored")
}

// Reschedule only succeeds from error state while retries remain and the
// alert is not past its expiry; the guards live in the WHERE clause so the
// check and the transition are one atomic statement.
func (r *implRepository) Reschedule(ctx context.Context, id string, at time.Time) (model.Alert, bool, error) {
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx,
		`UPDATE alerts SET delivery_state = 'pending', scheduled_for = $2,
			claimed_until = NULL, updated_at = $3
		 WHERE id = $1 AND delivery_state = 'error'
		   AND retry_count < max_retries
		   AND (expires_at IS NULL OR expires_at > $3)
		 RETURNING `+alertColumns,
		id, at, now,
	)
	a, err := scanAlert(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Alert{}, false, nil
		}
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Reschedule: %v", err)
		return model.Alert{}, false, errors.Wrap(err, "reschedule alert")
	}
	return a, true, nil
}

func (r *implRepository) scanTransition(ctx context.Context, row *sql.Row, id, op string) (model.Alert, error) {
	a, err := scanAlert(row)
	if err == nil {
		return a, nil
	}
	if err != sql.ErrNoRows {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.%s: %v", op, err)
		return model.Alert{}, errors.Wrap(err, "transition alert")
	}

	// No row matched: either the alert is gone or it is in another state.
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM alerts WHERE id = $1)`, id).Scan(&exists); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.%s.Exists: %v", op, err)
		return model.Alert{}, errors.Wrap(err, "check alert existence")
	}
	if !exists {
		return model.Alert{}, repository.ErrNotFound
	}
	return model.Alert{}, repository.ErrStaleState
}
