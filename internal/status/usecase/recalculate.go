package usecase

import (
	"context"

	"semaforo-srv/internal/alert"
	"semaforo-srv/internal/model"
	"semaforo-srv/internal/status"
	"semaforo-srv/internal/status/repository"
)

func (uc *usecase) OnCampaignChanged(ctx context.Context, campaignID string) (status.Outcome, error) {
	trigger := "campaign_event"
	return uc.recalculate(ctx, campaignID, &trigger)
}

func (uc *usecase) RecalculateOne(ctx context.Context, campaignID string) (status.Outcome, error) {
	return uc.recalculate(ctx, campaignID, nil)
}

func (uc *usecase) OnCampaignDeleted(ctx context.Context, campaignID string) error {
	release, err := uc.locks.Acquire(ctx, campaignID)
	if err != nil {
		return err
	}
	defer release()

	if err := uc.repo.Delete(ctx, campaignID); err != nil {
		if err == repository.ErrNotFound {
			// Nothing computed yet for this campaign; the cascade is a no-op.
			return nil
		}
		uc.l.Errorf(ctx, "internal.status.usecase.OnCampaignDeleted: %v", err)
		return status.ErrPersistence
	}

	return nil
}

// recalculate is the single write path: compute, upsert, evaluate the alert
// policy and hand any draft to the scheduler, all under the campaign lock.
func (uc *usecase) recalculate(ctx context.Context, campaignID string, triggeredBy *string) (status.Outcome, error) {
	release, err := uc.locks.Acquire(ctx, campaignID)
	if err != nil {
		return status.Outcome{}, err
	}
	defer release()

	snap, err := uc.snapshots.GetCampaignSnapshot(ctx, campaignID)
	if err != nil {
		if err == status.ErrSnapshotNotFound {
			return status.Outcome{}, status.ErrSnapshotNotFound
		}
		uc.l.Errorf(ctx, "internal.status.usecase.recalculate.GetCampaignSnapshot: %v", err)
		return status.Outcome{}, err
	}

	cfg, err := uc.activeConfig(ctx)
	if err != nil {
		return status.Outcome{}, err
	}

	now := uc.now()
	computed, err := status.Compute(snap, cfg, now)
	if err != nil {
		uc.l.Errorf(ctx, "internal.status.usecase.recalculate.Compute: %v", err)
		return status.Outcome{}, err
	}

	res, err := uc.repo.Upsert(ctx, repository.UpsertOptions{
		CampaignID:     campaignID,
		Color:          computed.Color,
		Priority:       computed.Priority,
		DaysRemaining:  computed.DaysRemaining,
		ElapsedPercent: computed.ElapsedPercent,
		Reason:         computed.Reason,
		AlertRequired:  computed.AlertRequired,
		ConfigID:       computed.ConfigID,
		ComputedAt:     now,
		TriggeredBy:    triggeredBy,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.status.usecase.recalculate.Upsert: %v", err)
		return status.Outcome{}, status.ErrPersistence
	}

	outcome := status.Outcome{
		Record:       res.Record,
		Created:      res.Created,
		Transitioned: res.Transitioned,
	}

	generated, err := uc.maybeAlert(ctx, res, snap, cfg)
	if err != nil {
		// The status itself is persisted; alert_sent stays false so the next
		// recalculation retries the enqueue.
		uc.l.Errorf(ctx, "internal.status.usecase.recalculate.maybeAlert: %v", err)
		return outcome, nil
	}
	if generated {
		outcome.AlertGenerated = true
		outcome.Record.AlertSent = true
	}

	return outcome, nil
}

func (uc *usecase) activeConfig(ctx context.Context) (model.ThresholdConfig, error) {
	cfg, err := uc.configs.GetActiveConfig(ctx)
	if err != nil {
		if err == status.ErrNoActiveConfig {
			return model.DefaultThresholdConfig(), nil
		}
		uc.l.Errorf(ctx, "internal.status.usecase.activeConfig: %v", err)
		return model.ThresholdConfig{}, err
	}
	return cfg, nil
}

func (uc *usecase) maybeAlert(ctx context.Context, res repository.UpsertResult, snap model.CampaignSnapshot, cfg model.ThresholdConfig) (bool, error) {
	recipients, err := uc.recipients.ResolveRecipients(ctx, snap.ID)
	if err != nil {
		// Recipients come from the user directory; an outage there must not
		// block the alert itself.
		uc.l.Warnf(ctx, "internal.status.usecase.maybeAlert.ResolveRecipients: %v", err)
		recipients = model.Recipients{}
	}

	ok, draft, err := alert.Evaluate(ctx, alert.EvaluateInput{
		Record:       res.Record,
		Snapshot:     snap,
		Config:       cfg,
		Transitioned: res.Transitioned,
		Recipients:   recipients,
		Now:          uc.now(),
	}, uc.alertUC.HasLiveAlert)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	_, created, err := uc.alertUC.Enqueue(ctx, draft)
	if err != nil {
		return false, err
	}

	if err := uc.repo.MarkAlertSent(ctx, res.Record.CampaignID); err != nil {
		// The dedup window absorbs the re-enqueue on the next run.
		uc.l.Errorf(ctx, "internal.status.usecase.maybeAlert.MarkAlertSent: %v", err)
	}

	return created, nil
}
