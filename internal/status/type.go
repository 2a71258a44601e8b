package status

import (
	"time"

	"semaforo-srv/internal/model"
	"semaforo-srv/pkg/paginator"
)

// Computed is the outcome of one pure status calculation.
type Computed struct {
	Color          model.Color
	Priority       model.Priority
	DaysRemaining  int
	ElapsedPercent float64
	Reason         string
	AlertRequired  bool
	ConfigID       string
}

// Outcome is the result of recalculating one campaign.
type Outcome struct {
	Record         model.StatusRecord `json:"record"`
	Created        bool               `json:"created"`
	Transitioned   bool               `json:"transitioned"`
	AlertGenerated bool               `json:"alert_generated"`
}

// BatchFilter restricts which campaigns a bulk recalculation covers.
// Zero value means every campaign the collaborator lists.
type BatchFilter struct {
	States       []model.LifecycleState `json:"states,omitempty"`
	EndingBefore *time.Time             `json:"ending_before,omitempty"`
	IDs          []string               `json:"ids,omitempty"`
}

// Matches reports whether the snapshot passes the filter.
func (f BatchFilter) Matches(snap model.CampaignSnapshot) bool {
	if len(f.IDs) > 0 {
		found := false
		for _, id := range f.IDs {
			if id == snap.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.States) > 0 {
		found := false
		for _, s := range f.States {
			if s == snap.State {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.EndingBefore != nil {
		if snap.EndDate == nil || !snap.EndDate.Before(*f.EndingBefore) {
			return false
		}
	}
	return true
}

// BatchStats aggregates the result of one bulk recalculation run.
type BatchStats struct {
	Processed       int `json:"processed"`
	Created         int `json:"created"`
	Updated         int `json:"updated"`
	ColorChanged    int `json:"color_changed"`
	AlertsGenerated int `json:"alerts_generated"`
	Errors          int `json:"errors"`
}

// SummaryOutput is the dashboard view of current statuses.
type SummaryOutput struct {
	Counts        map[model.Color]int     `json:"counts"`
	Percentages   map[model.Color]float64 `json:"percentages"`
	AlertsPending int                     `json:"alerts_pending"`
}

// HistoryInput selects a page of a campaign's transition history.
type HistoryInput struct {
	CampaignID    string
	PaginateQuery paginator.PaginateQuery
}

// HistoryOutput is one page of transition history.
type HistoryOutput struct {
	Entries   []model.HistoryEntry `json:"entries"`
	Paginator paginator.Paginator  `json:"paginator"`
}
