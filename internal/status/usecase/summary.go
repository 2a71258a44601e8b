package usecase

import (
	"context"
	"time"

	"semaforo-srv/internal/model"
	"semaforo-srv/internal/status"
	"semaforo-srv/internal/status/repository"
)

func (uc *usecase) GetStatusSummary(ctx context.Context) (status.SummaryOutput, error) {
	counts, err := uc.repo.CountByColor(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.status.usecase.GetStatusSummary.CountByColor: %v", err)
		return status.SummaryOutput{}, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	percentages := make(map[model.Color]float64, len(counts))
	for color, n := range counts {
		if total == 0 {
			percentages[color] = 0
			continue
		}
		percentages[color] = float64(n) / float64(total) * 100
	}

	pending, err := uc.alertUC.CountPending(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.status.usecase.GetStatusSummary.CountPending: %v", err)
		return status.SummaryOutput{}, err
	}

	return status.SummaryOutput{
		Counts:        counts,
		Percentages:   percentages,
		AlertsPending: pending,
	}, nil
}

func (uc *usecase) ListHistory(ctx context.Context, ip status.HistoryInput) (status.HistoryOutput, error) {
	entries, pag, err := uc.repo.ListHistory(ctx, repository.HistoryOptions{
		CampaignID:    ip.CampaignID,
		PaginateQuery: ip.PaginateQuery,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.status.usecase.ListHistory: %v", err)
		return status.HistoryOutput{}, err
	}

	return status.HistoryOutput{
		Entries:   entries,
		Paginator: pag,
	}, nil
}

func (uc *usecase) RecomputeSummary(ctx context.Context, period model.SummaryPeriod, date time.Time) (model.AggregateSummary, error) {
	if !period.IsValid() {
		return model.AggregateSummary{}, status.ErrInvalidConfig
	}

	periodStart := periodStart(period, date)

	colorCounts, err := uc.repo.CountByColor(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.status.usecase.RecomputeSummary.CountByColor: %v", err)
		return model.AggregateSummary{}, err
	}
	prioCounts, err := uc.repo.CountByPriority(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.status.usecase.RecomputeSummary.CountByPriority: %v", err)
		return model.AggregateSummary{}, err
	}
	transitions, err := uc.repo.CountTransitionsSince(ctx, periodStart)
	if err != nil {
		uc.l.Errorf(ctx, "internal.status.usecase.RecomputeSummary.CountTransitionsSince: %v", err)
		return model.AggregateSummary{}, err
	}
	alerts, err := uc.alertUC.CountCreatedSince(ctx, periodStart)
	if err != nil {
		uc.l.Errorf(ctx, "internal.status.usecase.RecomputeSummary.CountCreatedSince: %v", err)
		return model.AggregateSummary{}, err
	}

	summary, err := uc.repo.SaveSummary(ctx, model.AggregateSummary{
		Period:          period,
		SummaryDate:     periodStart,
		CountGreen:      colorCounts[model.ColorGreen],
		CountYellow:     colorCounts[model.ColorYellow],
		CountRed:        colorCounts[model.ColorRed],
		CountGray:       colorCounts[model.ColorGray],
		CountLow:        prioCounts[model.PriorityLow],
		CountMedium:     prioCounts[model.PriorityMedium],
		CountHigh:       prioCounts[model.PriorityHigh],
		CountCritical:   prioCounts[model.PriorityCritical],
		AlertCount:      alerts,
		TransitionCount: transitions,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.status.usecase.RecomputeSummary.SaveSummary: %v", err)
		return model.AggregateSummary{}, status.ErrPersistence
	}

	return summary, nil
}

// periodStart normalizes the requested date to the canonical start of its
// period: midnight, Monday midnight, or the first of the month, all UTC.
func periodStart(period model.SummaryPeriod, date time.Time) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case model.PeriodWeekly:
		weekday := int(d.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return d.AddDate(0, 0, -(weekday - 1))
	case model.PeriodMonthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}
