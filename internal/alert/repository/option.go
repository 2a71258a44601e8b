package repository

import (
	"time"

	"semaforo-srv/internal/model"
	"semaforo-srv/pkg/paginator"
)

// CreateOptions carries a draft into storage.
type CreateOptions struct {
	CampaignID   *string
	DedupKey     string
	Type         model.AlertType
	Severity     model.AlertSeverity
	Title        string
	Body         string
	ScheduledFor time.Time
	MaxRetries   int
	ExpiresAt    *time.Time
	Recipients   model.Recipients

	// DedupSince bounds the live-window existence check.
	DedupSince time.Time
}

// ClaimOptions bounds one due-alert claim.
type ClaimOptions struct {
	Limit int
	Now   time.Time
	Lease time.Duration
}

// Filter restricts alert queries.
type Filter struct {
	CampaignID    string
	State         model.DeliveryState
	ExhaustedOnly bool
}

// GetOptions contains options for paginated alert listing.
type GetOptions struct {
	Filter        Filter
	PaginateQuery paginator.PaginateQuery
}
