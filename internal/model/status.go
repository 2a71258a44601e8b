package model

import "time"

// StatusRecord is the engine-owned latest computed status for a campaign.
// Exactly one record exists per campaign id; it is mutated in place on
// every recomputation. PreviousColor holds the color that was current
// before the last transition, enabling change detection.
type StatusRecord struct {
	CampaignID     string     `json:"campaign_id"`
	CurrentColor   Color      `json:"current_color"`
	PreviousColor  *Color     `json:"previous_color,omitempty"`
	Priority       Priority   `json:"priority"`
	DaysRemaining  int        `json:"days_remaining"`
	ElapsedPercent float64    `json:"elapsed_percent"`
	Reason         string     `json:"reason"`
	AlertRequired  bool       `json:"alert_required"`
	AlertSent      bool       `json:"alert_sent"`
	ConfigID       string     `json:"config_id"`
	ComputedAt     time.Time  `json:"computed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ElapsedPercentDisplay clamps the elapsed percent at 100 for display.
// The unclamped value stays available for diagnostics.
func (r StatusRecord) ElapsedPercentDisplay() float64 {
	if r.ElapsedPercent > 100 {
		return 100
	}
	return r.ElapsedPercent
}

// Worsened reports whether the last recorded transition moved the color
// up the green < yellow < red ordering. Gray never counts as worsening.
func (r StatusRecord) Worsened() bool {
	if r.PreviousColor == nil {
		return false
	}
	return r.CurrentColor.WorseThan(*r.PreviousColor)
}

// HistoryEntry is one append-only record of a detected color transition.
// Entries are never updated; retention sweeps are an external policy.
type HistoryEntry struct {
	ID             string    `json:"id"`
	CampaignID     string    `json:"campaign_id"`
	ColorBefore    *Color    `json:"color_before,omitempty"` // nil for the first entry
	ColorAfter     Color     `json:"color_after"`
	PriorityBefore *Priority `json:"priority_before,omitempty"`
	PriorityAfter  Priority  `json:"priority_after"`
	Reason         string    `json:"reason"`
	DaysRemaining  int       `json:"days_remaining"`
	ElapsedPercent float64   `json:"elapsed_percent"`
	ConfigID       string    `json:"config_id"`
	AlertGenerated bool      `json:"alert_generated"`
	TriggeredBy    *string   `json:"triggered_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
