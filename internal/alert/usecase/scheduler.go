package usecase

import (
	"context"
	"time"

	"semaforo-srv/internal/alert"
	"semaforo-srv/internal/alert/repository"
	"semaforo-srv/internal/model"
)

func (uc *usecase) Enqueue(ctx context.Context, draft alert.Draft) (model.Alert, bool, error) {
	maxRetries := draft.MaxRetries
	if maxRetries <= 0 {
		maxRetries = model.DefaultMaxRetries
	}

	scheduledFor := draft.ScheduledFor
	if scheduledFor.IsZero() {
		scheduledFor = uc.now()
	}

	created, isNew, err := uc.repo.Create(ctx, repository.CreateOptions{
		CampaignID:   draft.CampaignID,
		DedupKey:     draft.DedupKey,
		Type:         draft.Type,
		Severity:     draft.Severity,
		Title:        draft.Title,
		Body:         draft.Body,
		ScheduledFor: scheduledFor,
		MaxRetries:   maxRetries,
		ExpiresAt:    draft.ExpiresAt,
		Recipients:   draft.Recipients,
		DedupSince:   uc.now().Add(-alert.DedupWindow),
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.Enqueue: %v", err)
		return model.Alert{}, false, err
	}

	return created, isNew, nil
}

func (uc *usecase) DueAlerts(ctx context.Context, limit int) ([]model.Alert, error) {
	if limit <= 0 {
		limit = 50
	}

	alerts, err := uc.repo.ClaimDue(ctx, repository.ClaimOptions{
		Limit: limit,
		Now:   uc.now(),
		Lease: claimLease,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.DueAlerts: %v", err)
		return nil, err
	}

	return alerts, nil
}

func (uc *usecase) RecordOutcome(ctx context.Context, alertID string, success bool, errMsg string) (model.Alert, error) {
	var (
		a   model.Alert
		err error
	)
	if success {
		a, err = uc.repo.MarkSent(ctx, alertID, uc.now())
	} else {
		a, err = uc.repo.MarkFailed(ctx, alertID, errMsg)
	}
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return model.Alert{}, alert.ErrAlertNotFound
		case repository.ErrStaleState:
			return model.Alert{}, alert.ErrInvalidTransition
		}
		uc.l.Errorf(ctx, "internal.alert.usecase.RecordOutcome: %v", err)
		return model.Alert{}, err
	}

	return a, nil
}

func (uc *usecase) Reschedule(ctx context.Context, alertID string, delay time.Duration) (bool, error) {
	_, ok, err := uc.repo.Reschedule(ctx, alertID, uc.now().Add(delay))
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.Reschedule: %v", err)
		return false, err
	}
	if !ok {
		// The guard clause rejected the transition. Distinguish a missing
		// alert from one that simply cannot be retried anymore.
		if _, derr := uc.repo.Detail(ctx, alertID); derr == repository.ErrNotFound {
			return false, alert.ErrAlertNotFound
		}
		return false, nil
	}

	return true, nil
}

func (uc *usecase) Ignore(ctx context.Context, alertID string) (model.Alert, error) {
	a, err := uc.repo.MarkIgnored(ctx, alertID)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return model.Alert{}, alert.ErrAlertNotFound
		case repository.ErrStaleState:
			return model.Alert{}, alert.ErrInvalidTransition
		}
		uc.l.Errorf(ctx, "internal.alert.usecase.Ignore: %v", err)
		return model.Alert{}, err
	}

	return a, nil
}

func (uc *usecase) HasLiveAlert(ctx context.Context, dedupKey string, window time.Duration) (bool, error) {
	_, err := uc.repo.FindLive(ctx, dedupKey, uc.now().Add(-window))
	if err != nil {
		if err == repository.ErrNotFound {
			return false, nil
		}
		uc.l.Errorf(ctx, "internal.alert.usecase.HasLiveAlert: %v", err)
		return false, err
	}

	return true, nil
}

func (uc *usecase) Get(ctx context.Context, ip alert.GetInput) (alert.GetOutput, error) {
	alerts, pag, err := uc.repo.Get(ctx, repository.GetOptions{
		Filter: repository.Filter{
			CampaignID:    ip.Filter.CampaignID,
			State:         ip.Filter.State,
			ExhaustedOnly: ip.Filter.ExhaustedOnly,
		},
		PaginateQuery: ip.PaginateQuery,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.Get: %v", err)
		return alert.GetOutput{}, err
	}

	return alert.GetOutput{
		Alerts:    alerts,
		Paginator: pag,
	}, nil
}

func (uc *usecase) CountPending(ctx context.Context) (int, error) {
	count, err := uc.repo.CountByState(ctx, model.DeliveryStatePending)
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.CountPending: %v", err)
		return 0, err
	}

	return count, nil
}

func (uc *usecase) CountCreatedSince(ctx context.Context, t time.Time) (int, error) {
	count, err := uc.repo.CountCreatedSince(ctx, t)
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.CountCreatedSince: %v", err)
		return 0, err
	}

	return count, nil
}
