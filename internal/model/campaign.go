package model

import "time"

// LifecycleState is a campaign's own workflow state, as reported by the
// record-management system. New labels may appear before this enum learns
// about them; callers must treat unknown labels as unclassified rather
// than reject them.
type LifecycleState string

const (
	LifecycleStateDraft         LifecycleState = "draft"
	LifecycleStateScheduled     LifecycleState = "scheduled"
	LifecycleStateActive        LifecycleState = "active"
	LifecycleStatePaused        LifecycleState = "paused"
	LifecycleStatePendingReview LifecycleState = "pending_review"
	LifecycleStateFinalized     LifecycleState = "finalized"
	LifecycleStateCancelled     LifecycleState = "cancelled"
	LifecycleStateExpired       LifecycleState = "expired"
)

// IsValid checks if the lifecycle state is a known label.
func (s LifecycleState) IsValid() bool {
	switch s {
	case LifecycleStateDraft,
		LifecycleStateScheduled,
		LifecycleStateActive,
		LifecycleStatePaused,
		LifecycleStatePendingReview,
		LifecycleStateFinalized,
		LifecycleStateCancelled,
		LifecycleStateExpired:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state.
func (s LifecycleState) String() string {
	return string(s)
}

// NeedsReview reports whether the raw state signals that a human must
// look at the campaign regardless of its window.
func (s LifecycleState) NeedsReview() bool {
	return s == LifecycleStatePendingReview
}

// CampaignSnapshot is a read-only view of a campaign supplied by the
// record-management system per call. The engine never owns or mutates it.
type CampaignSnapshot struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	State     LifecycleState `json:"state"`
	StartDate *time.Time     `json:"start_date,omitempty"`
	EndDate   *time.Time     `json:"end_date,omitempty"`
}

// HasWindow reports whether both validity-window dates are present.
func (c CampaignSnapshot) HasWindow() bool {
	return c.StartDate != nil && c.EndDate != nil
}
