package postgres

import (
	"context"
	"database/sql"
	"time"

	"semaforo-srv/internal/model"
	"semaforo-srv/internal/status/repository"
	postgresPkg "semaforo-srv/pkg/postgre"

	"github.com/aarondl/null/v8"
	"github.com/friendsofgo/errors"
)

const statusRecordColumns = `campaign_id, current_color, previous_color, priority, days_remaining,
	elapsed_percent, reason, alert_required, alert_sent, config_id, computed_at, created_at, updated_at`

func scanStatusRecord(row interface{ Scan(...any) error }) (model.StatusRecord, error) {
	var (
		rec      model.StatusRecord
		prev     null.String
		color    string
		priority string
	)
	err := row.Scan(
		&rec.CampaignID, &color, &prev, &priority, &rec.DaysRemaining,
		&rec.ElapsedPercent, &rec.Reason, &rec.AlertRequired, &rec.AlertSent,
		&rec.ConfigID, &rec.ComputedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return model.StatusRecord{}, err
	}
	rec.CurrentColor = model.Color(color)
	rec.Priority = model.Priority(priority)
	if prev.Valid {
		c := model.Color(prev.String)
		rec.PreviousColor = &c
	}
	return rec, nil
}

func (r *implRepository) Detail(ctx context.Context, campaignID string) (model.StatusRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+statusRecordColumns+` FROM status_records WHERE campaign_id = $1`,
		campaignID,
	)

	rec, err := scanStatusRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.StatusRecord{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.status.repository.postgres.Detail.Scan: %v", err)
		return model.StatusRecord{}, errors.Wrap(err, "select status record")
	}
	return rec, nil
}

// Upsert performs the read-compare-write inside one transaction so a sweep
// and an event trigger racing on the same campaign cannot interleave and
// lose a transition or duplicate a history entry. The row lock taken by
// FOR UPDATE serializes concurrent upserts per campaign id.
func (r *implRepository) Upsert(ctx context.Context, opts repository.UpsertOptions) (repository.UpsertResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.Upsert.BeginTx: %v", err)
		return repository.UpsertResult{}, errors.Wrap(err, "begin upsert tx")
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT `+statusRecordColumns+` FROM status_records WHERE campaign_id = $1 FOR UPDATE`,
		opts.CampaignID,
	)

	existing, err := scanStatusRecord(row)
	switch {
	case err == sql.ErrNoRows:
		res, err := r.insertRecord(ctx, tx, opts)
		if err != nil {
			return repository.UpsertResult{}, err
		}
		if err := tx.Commit(); err != nil {
			r.l.Errorf(ctx, "internal.status.repository.postgres.Upsert.Commit: %v", err)
			return repository.UpsertResult{}, errors.Wrap(err, "commit upsert tx")
		}
		return res, nil
	case err != nil:
		r.l.Errorf(ctx, "internal.status.repository.postgres.Upsert.Select: %v", err)
		return repository.UpsertResult{}, errors.Wrap(err, "select for update")
	}

	res, err := r.updateRecord(ctx, tx, existing, opts)
	if err != nil {
		return repository.UpsertResult{}, err
	}
	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.Upsert.Commit: %v", err)
		return repository.UpsertResult{}, errors.Wrap(err, "commit upsert tx")
	}
	return res, nil
}

func (r *implRepository) insertRecord(ctx context.Context, tx *sql.Tx, opts repository.UpsertOptions) (repository.UpsertResult, error) {
	now := time.Now().UTC()

	row := tx.QueryRowContext(ctx,
		`INSERT INTO status_records (`+statusRecordColumns+`)
		 VALUES ($1, $2, NULL, $3, $4, $5, $6, $7, FALSE, $8, $9, $10, $10)
		 RETURNING `+statusRecordColumns,
		opts.CampaignID, opts.Color.String(), opts.Priority.String(), opts.DaysRemaining,
		opts.ElapsedPercent, opts.Reason, opts.AlertRequired, opts.ConfigID, opts.ComputedAt, now,
	)
	rec, err := scanStatusRecord(row)
	if err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.insertRecord: %v", err)
		return repository.UpsertResult{}, errors.Wrap(err, "insert status record")
	}

	// First history entry has a null color_before.
	if err := r.appendHistory(ctx, tx, nil, nil, opts, now); err != nil {
		return repository.UpsertResult{}, err
	}

	return repository.UpsertResult{Record: rec, Created: true}, nil
}

func (r *implRepository) updateRecord(ctx context.Context, tx *sql.Tx, existing model.StatusRecord, opts repository.UpsertOptions) (repository.UpsertResult, error) {
	now := time.Now().UTC()
	transitioned := existing.CurrentColor != opts.Color

	var row *sql.Row
	if transitioned {
		// The old current color becomes previous_color and the alert
		// evaluation window restarts.
		row = tx.QueryRowContext(ctx,
			`UPDATE status_records SET
				previous_color = current_color, current_color = $2, priority = $3,
				days_remaining = $4, elapsed_percent = $5, reason = $6,
				alert_required = $7, alert_sent = FALSE, config_id = $8,
				computed_at = $9, updated_at = $10
			 WHERE campaign_id = $1
			 RETURNING `+statusRecordColumns,
			opts.CampaignID, opts.Color.String(), opts.Priority.String(), opts.DaysRemaining,
			opts.ElapsedPercent, opts.Reason, opts.AlertRequired, opts.ConfigID, opts.ComputedAt, now,
		)
	} else {
		// Unchanged color: refresh the numbers, leave previous_color and
		// alert_sent untouched so a polling sweep cannot re-alert forever.
		row = tx.QueryRowContext(ctx,
			`UPDATE status_records SET
				priority = $2, days_remaining = $3, elapsed_percent = $4, reason = $5,
				alert_required = $6, config_id = $7, computed_at = $8, updated_at = $9
			 WHERE campaign_id = $1
			 RETURNING `+statusRecordColumns,
			opts.CampaignID, opts.Priority.String(), opts.DaysRemaining,
			opts.ElapsedPercent, opts.Reason, opts.AlertRequired, opts.ConfigID, opts.ComputedAt, now,
		)
	}

	rec, err := scanStatusRecord(row)
	if err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.updateRecord: %v", err)
		return repository.UpsertResult{}, errors.Wrap(err, "update status record")
	}

	if transitioned {
		before := existing.CurrentColor
		prioBefore := existing.Priority
		if err := r.appendHistory(ctx, tx, &before, &prioBefore, opts, now); err != nil {
			return repository.UpsertResult{}, err
		}
	}

	return repository.UpsertResult{Record: rec, Transitioned: transitioned}, nil
}

func (r *implRepository) appendHistory(ctx context.Context, tx *sql.Tx, colorBefore *model.Color, priorityBefore *model.Priority, opts repository.UpsertOptions, now time.Time) error {
	var before, prioBefore null.String
	if colorBefore != nil {
		before = null.StringFrom(colorBefore.String())
	}
	if priorityBefore != nil {
		prioBefore = null.StringFrom(priorityBefore.String())
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO status_history (id, campaign_id, color_before, color_after, priority_before,
			priority_after, reason, days_remaining, elapsed_percent, config_id, alert_generated,
			triggered_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		postgresPkg.NewUUID(), opts.CampaignID, before, opts.Color.String(), prioBefore,
		opts.Priority.String(), opts.Reason, opts.DaysRemaining, opts.ElapsedPercent,
		opts.ConfigID, opts.AlertRequired, null.StringFromPtr(opts.TriggeredBy), now,
	)
	if err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.appendHistory: %v", err)
		return errors.Wrap(err, "insert history entry")
	}
	return nil
}

func (r *implRepository) MarkAlertSent(ctx context.Context, campaignID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE status_records SET alert_sent = TRUE, updated_at = $2 WHERE campaign_id = $1`,
		campaignID, time.Now().UTC(),
	)
	if err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.MarkAlertSent: %v", err)
		return errors.Wrap(err, "mark alert sent")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *implRepository) Delete(ctx context.Context, campaignID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.Delete.BeginTx: %v", err)
		return errors.Wrap(err, "begin delete tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM status_history WHERE campaign_id = $1`, campaignID); err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.Delete.History: %v", err)
		return errors.Wrap(err, "delete history")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM status_records WHERE campaign_id = $1`, campaignID); err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.Delete.Record: %v", err)
		return errors.Wrap(err, "delete status record")
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "internal.status.repository.postgres.Delete.Commit: %v", err)
		return errors.Wrap(err, "commit delete tx")
	}
	return nil
}
