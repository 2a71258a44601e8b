package http

import (
	"time"

	"semaforo-srv/internal/alert"
	"semaforo-srv/internal/model"
	"semaforo-srv/pkg/paginator"
)

// --- Request DTOs ---

type listReq struct {
	CampaignID string `form:"campaign_id"`
	State      string `form:"state"`
	Exhausted  bool   `form:"exhausted"`
	Page       int    `form:"page"`
	Limit      int64  `form:"limit"`
}

func (r listReq) toInput() alert.GetInput {
	return alert.GetInput{
		Filter: alert.Filter{
			CampaignID:    r.CampaignID,
			State:         model.DeliveryState(r.State),
			ExhaustedOnly: r.Exhausted,
		},
		PaginateQuery: paginator.PaginateQuery{
			Page:  r.Page,
			Limit: r.Limit,
		},
	}
}

type rescheduleReq struct {
	DelaySeconds int `json:"delay_seconds"`
}

func (r rescheduleReq) delay() time.Duration {
	return time.Duration(r.DelaySeconds) * time.Second
}

// --- Response DTOs ---

type rescheduleResp struct {
	Rescheduled bool `json:"rescheduled"`
}
