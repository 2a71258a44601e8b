package model

import "time"

// SummaryPeriod is the rollup granularity of an aggregate summary.
type SummaryPeriod string

const (
	PeriodDaily   SummaryPeriod = "daily"
	PeriodWeekly  SummaryPeriod = "weekly"
	PeriodMonthly SummaryPeriod = "monthly"
)

// IsValid checks if the period is valid.
func (p SummaryPeriod) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	default:
		return false
	}
}

// String returns the string representation of the period.
func (p SummaryPeriod) String() string {
	return string(p)
}

// AggregateSummary is a periodic rollup of statuses and alerts, one row per
// (period, date) pair. It is recomputed from scratch, never incrementally
// updated, to avoid drift.
type AggregateSummary struct {
	ID          string        `json:"id"`
	Period      SummaryPeriod `json:"period"`
	SummaryDate time.Time     `json:"summary_date"`

	CountGreen  int `json:"count_green"`
	CountYellow int `json:"count_yellow"`
	CountRed    int `json:"count_red"`
	CountGray   int `json:"count_gray"`

	CountLow      int `json:"count_low"`
	CountMedium   int `json:"count_medium"`
	CountHigh     int `json:"count_high"`
	CountCritical int `json:"count_critical"`

	AlertCount      int `json:"alert_count"`
	TransitionCount int `json:"transition_count"`

	CreatedAt time.Time `json:"created_at"`
}

// Total returns the number of campaigns covered by the summary.
func (s AggregateSummary) Total() int {
	return s.CountGreen + s.CountYellow + s.CountRed + s.CountGray
}

// Percentages returns the per-color shares over the total, in [0,100].
// A zero total yields all zeros.
func (s AggregateSummary) Percentages() map[Color]float64 {
	total := s.Total()
	if total == 0 {
		return map[Color]float64{ColorGreen: 0, ColorYellow: 0, ColorRed: 0, ColorGray: 0}
	}
	f := func(n int) float64 { return float64(n) / float64(total) * 100 }
	return map[Color]float64{
		ColorGreen:  f(s.CountGreen),
		ColorYellow: f(s.CountYellow),
		ColorRed:    f(s.CountRed),
		ColorGray:   f(s.CountGray),
	}
}
