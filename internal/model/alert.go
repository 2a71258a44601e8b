package model

import (
	"fmt"
	"time"
)

// AlertType classifies the condition that warranted an alert.
type AlertType string

const (
	AlertTypeChangeOfState  AlertType = "changeOfState"
	AlertTypeUpcomingExpiry AlertType = "upcomingExpiry"
	AlertTypeCriticalState  AlertType = "criticalState"
	AlertTypeReviewNeeded   AlertType = "reviewNeeded"
)

// IsValid checks if the alert type is valid.
func (t AlertType) IsValid() bool {
	switch t {
	case AlertTypeChangeOfState, AlertTypeUpcomingExpiry, AlertTypeCriticalState, AlertTypeReviewNeeded:
		return true
	default:
		return false
	}
}

// String returns the string representation of the type.
func (t AlertType) String() string {
	return string(t)
}

// AlertSeverity ranks how urgently an alert needs human attention.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityError    AlertSeverity = "error"
	SeverityCritical AlertSeverity = "critical"
)

var severityRank = map[AlertSeverity]int{
	SeverityInfo:     0,
	SeverityWarning:  1,
	SeverityError:    2,
	SeverityCritical: 3,
}

// IsValid checks if the severity is valid.
func (s AlertSeverity) IsValid() bool {
	_, ok := severityRank[s]
	return ok
}

// Rank returns the numeric rank used for dispatch ordering (higher first).
func (s AlertSeverity) Rank() int {
	return severityRank[s]
}

// String returns the string representation of the severity.
func (s AlertSeverity) String() string {
	return string(s)
}

// DeliveryState is the lifecycle state of an alert in the scheduler.
//
//	pending -> sent            (dispatch succeeded, terminal)
//	pending -> error           (dispatch failed, retry count incremented)
//	error   -> pending         (reschedule, while retries remain)
//	pending|error -> ignored   (manual override, terminal)
type DeliveryState string

const (
	DeliveryStatePending DeliveryState = "pending"
	DeliveryStateSent    DeliveryState = "sent"
	DeliveryStateError   DeliveryState = "error"
	DeliveryStateIgnored DeliveryState = "ignored"
)

// IsValid checks if the delivery state is valid.
func (s DeliveryState) IsValid() bool {
	switch s {
	case DeliveryStatePending, DeliveryStateSent, DeliveryStateError, DeliveryStateIgnored:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are allowed.
func (s DeliveryState) IsTerminal() bool {
	return s == DeliveryStateSent || s == DeliveryStateIgnored
}

// IsLive reports whether the state counts against the dedup window.
func (s DeliveryState) IsLive() bool {
	return s == DeliveryStatePending || s == DeliveryStateSent
}

// String returns the string representation of the state.
func (s DeliveryState) String() string {
	return string(s)
}

// DefaultMaxRetries is applied to alerts enqueued without an explicit limit.
const DefaultMaxRetries = 3

// Recipients holds who should receive an alert. Contact addresses are
// resolved by the user/role directory, never by the engine.
type Recipients struct {
	Users []string `json:"users"`
	Roles []string `json:"roles"`
}

// Alert is an engine-owned deliverable notification. Created by the alert
// policy, mutated by the scheduler through its lifecycle, never deleted
// automatically.
type Alert struct {
	ID           string        `json:"id"`
	CampaignID   *string       `json:"campaign_id,omitempty"` // some alerts are not campaign-specific
	DedupKey     string        `json:"dedup_key"`
	Type         AlertType     `json:"type"`
	Severity     AlertSeverity `json:"severity"`
	Title        string        `json:"title"`
	Body         string        `json:"body"`
	State        DeliveryState `json:"state"`
	ScheduledFor time.Time     `json:"scheduled_for"`
	SentAt       *time.Time    `json:"sent_at,omitempty"`
	RetryCount   int           `json:"retry_count"`
	MaxRetries   int           `json:"max_retries"`
	LastError    *string       `json:"last_error,omitempty"`
	Recipients   Recipients    `json:"recipients"`
	ExpiresAt    *time.Time    `json:"expires_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// RetriesExhausted reports whether the alert may no longer be rescheduled.
func (a Alert) RetriesExhausted() bool {
	return a.RetryCount >= a.MaxRetries
}

// Expired reports whether the alert is past its expiry, if it has one.
func (a Alert) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}

// DedupKeyFor derives the dedup key suppressing duplicate live alerts for
// the same campaign and condition.
func DedupKeyFor(campaignID string, alertType AlertType) string {
	return fmt.Sprintf("%s:%s", campaignID, alertType)
}
