package http

import (
	"time"

	"semaforo-srv/internal/model"
	"semaforo-srv/internal/status"
	"semaforo-srv/pkg/paginator"
)

// --- Request DTOs ---

type bulkRecalculateReq struct {
	States       []string   `json:"states"`
	EndingBefore *time.Time `json:"ending_before"`
	IDs          []string   `json:"ids"`
}

func (r bulkRecalculateReq) toFilter() status.BatchFilter {
	f := status.BatchFilter{
		EndingBefore: r.EndingBefore,
		IDs:          r.IDs,
	}
	for _, s := range r.States {
		f.States = append(f.States, model.LifecycleState(s))
	}
	return f
}

type recomputeSummaryReq struct {
	Period string    `json:"period" binding:"required"`
	Date   time.Time `json:"date" binding:"required"`
}

type historyReq struct {
	Page  int   `form:"page"`
	Limit int64 `form:"limit"`
}

func (r historyReq) toInput(campaignID string) status.HistoryInput {
	return status.HistoryInput{
		CampaignID: campaignID,
		PaginateQuery: paginator.PaginateQuery{
			Page:  r.Page,
			Limit: r.Limit,
		},
	}
}
