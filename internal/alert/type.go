package alert

import (
	"time"

	"semaforo-srv/internal/model"
	"semaforo-srv/pkg/paginator"
)

// Draft is a fully described alert the policy wants enqueued.
type Draft struct {
	CampaignID   *string             `json:"campaign_id,omitempty"`
	DedupKey     string              `json:"dedup_key"`
	Type         model.AlertType     `json:"type"`
	Severity     model.AlertSeverity `json:"severity"`
	Title        string              `json:"title"`
	Body         string              `json:"body"`
	ScheduledFor time.Time           `json:"scheduled_for"`
	MaxRetries   int                 `json:"max_retries"`
	ExpiresAt    *time.Time          `json:"expires_at,omitempty"`
	Recipients   model.Recipients    `json:"recipients"`
}

// Filter restricts alert listings.
type Filter struct {
	CampaignID    string
	State         model.DeliveryState
	ExhaustedOnly bool // only alerts in error state past their retry budget
}

// GetInput selects a page of alerts.
type GetInput struct {
	Filter        Filter
	PaginateQuery paginator.PaginateQuery
}

// GetOutput is one page of alerts.
type GetOutput struct {
	Alerts    []model.Alert       `json:"alerts"`
	Paginator paginator.Paginator `json:"paginator"`
}
