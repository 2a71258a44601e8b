package repository

import (
	"time"

	"semaforo-srv/internal/model"
	"semaforo-srv/pkg/paginator"
)

// UpsertOptions carries one computed status into the store.
type UpsertOptions struct {
	CampaignID     string
	Color          model.Color
	Priority       model.Priority
	DaysRemaining  int
	ElapsedPercent float64
	Reason         string
	AlertRequired  bool
	ConfigID       string
	ComputedAt     time.Time
	TriggeredBy    *string // optional actor reference for the history entry
}

// UpsertResult reports what the upsert did.
type UpsertResult struct {
	Record       model.StatusRecord
	Created      bool
	Transitioned bool
}

// HistoryOptions selects a page of a campaign's history.
type HistoryOptions struct {
	CampaignID    string
	PaginateQuery paginator.PaginateQuery
}
