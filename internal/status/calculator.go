package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"semaforo-srv/internal/model"
)

// Reasons attached to computed statuses. These are diagnostic strings shown
// on dashboards next to the color; alert bodies are built separately.
const (
	reasonMissingDates      = "missing dates"
	reasonUnclassifiedState = "unclassified state"
	reasonEndBeforeStart    = "end date before start date"
	reasonNotYetStarted     = "not yet started"
	reasonAlreadyEnded      = "already ended"
)

// Compute derives the traffic-light status for one campaign snapshot.
// It is a pure function: no I/O, no clock access beyond the given today.
// Malformed input degrades to gray with a diagnostic reason; the only
// error returned is an invalid config, which is a caller bug.
func Compute(snap model.CampaignSnapshot, cfg model.ThresholdConfig, today time.Time) (Computed, error) {
	if err := cfg.Validate(); err != nil {
		return Computed{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	today = startOfDay(today)

	c := Computed{ConfigID: cfg.ID}

	if !snap.HasWindow() {
		c.Color = model.ColorGray
		c.Priority = model.PriorityLow
		c.Reason = reasonMissingDates
		return c, nil
	}

	start := startOfDay(*snap.StartDate)
	end := startOfDay(*snap.EndDate)

	c.DaysRemaining = daysBetween(today, end)
	c.ElapsedPercent = elapsedPercent(start, end, today)

	switch cfg.Method {
	case model.MethodByLifecycleState:
		c.Color, c.Reason = stateColor(snap, cfg, start, end, today)
	case model.MethodByDaysRemaining:
		c.Color, c.Reason = daysColor(c.DaysRemaining, cfg)
	case model.MethodByElapsedPercent:
		c.Color, c.Reason = percentColor(c.ElapsedPercent, cfg)
	case model.MethodCombined:
		c.Color, c.Reason = combinedColor(snap, cfg, start, end, today, c.DaysRemaining, c.ElapsedPercent)
	}

	c.Priority = priorityFor(c.Color, c.DaysRemaining)
	c.AlertRequired = alertRequired(snap, cfg, c.Color, c.DaysRemaining)

	return c, nil
}

// startOfDay normalizes a timestamp to midnight UTC so day arithmetic is
// insensitive to the time-of-day the snapshot carries.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns to - from in whole days. Both must be midnight UTC.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// elapsedPercent returns how much of the validity window has passed,
// rounded to 2 decimals. Degenerate windows count as fully elapsed.
func elapsedPercent(start, end, today time.Time) float64 {
	switch {
	case !end.After(start):
		return 100
	case today.Before(start):
		return 0
	case today.After(end):
		return 100
	default:
		elapsed := today.Sub(start).Hours()
		window := end.Sub(start).Hours()
		return math.Round(elapsed/window*10000) / 100
	}
}

// stateColor maps the snapshot's lifecycle state through the config buckets.
// Labels in the green ("active") bucket are refined by the window: a raw
// active state outside [start, end] degrades to yellow or red.
func stateColor(snap model.CampaignSnapshot, cfg model.ThresholdConfig, start, end, today time.Time) (model.Color, string) {
	if end.Before(start) {
		return model.ColorGray, reasonEndBeforeStart
	}

	color, ok := cfg.BucketFor(snap.State)
	if !ok {
		return model.ColorYellow, reasonUnclassifiedState
	}

	if color == model.ColorGreen {
		if today.Before(start) {
			return model.ColorYellow, reasonNotYetStarted
		}
		if today.After(end) {
			return model.ColorRed, reasonAlreadyEnded
		}
	}

	reason := ""
	if color != model.ColorGreen {
		reason = fmt.Sprintf("state %s", snap.State)
	}
	return color, reason
}

func daysColor(daysRemaining int, cfg model.ThresholdConfig) (model.Color, string) {
	switch {
	case daysRemaining < 0:
		return model.ColorRed, fmt.Sprintf("overdue by %dd", -daysRemaining)
	case daysRemaining < cfg.MinDaysYellow:
		return model.ColorRed, fmt.Sprintf("ends in %dd (< %dd)", daysRemaining, cfg.MinDaysYellow)
	case daysRemaining < cfg.MinDaysGreen:
		return model.ColorYellow, fmt.Sprintf("ends in %dd (< %dd)", daysRemaining, cfg.MinDaysGreen)
	default:
		return model.ColorGreen, ""
	}
}

func percentColor(elapsed float64, cfg model.ThresholdConfig) (model.Color, string) {
	switch {
	case elapsed >= 100:
		return model.ColorRed, "window fully elapsed"
	case elapsed > cfg.MaxPercentYellow:
		return model.ColorRed, fmt.Sprintf("%.2f%% elapsed (> %.0f%%)", elapsed, cfg.MaxPercentYellow)
	case elapsed > cfg.MaxPercentGreen:
		return model.ColorYellow, fmt.Sprintf("%.2f%% elapsed (> %.0f%%)", elapsed, cfg.MaxPercentGreen)
	default:
		return model.ColorGreen, ""
	}
}

// combinedColor evaluates the state-based result first. Gray and red at the
// state level are authoritative and returned unchanged; otherwise the worst
// of the state, days and percent results wins, with non-green reasons joined.
func combinedColor(snap model.CampaignSnapshot, cfg model.ThresholdConfig, start, end, today time.Time, daysRemaining int, elapsed float64) (model.Color, string) {
	sc, sReason := stateColor(snap, cfg, start, end, today)
	if sc == model.ColorGray || sc == model.ColorRed {
		return sc, sReason
	}

	dc, dReason := daysColor(daysRemaining, cfg)
	pc, pReason := percentColor(elapsed, cfg)

	worst := model.WorstOf(sc, dc, pc)

	var reasons []string
	for _, r := range []struct {
		color  model.Color
		reason string
	}{{sc, sReason}, {dc, dReason}, {pc, pReason}} {
		if r.color != model.ColorGreen && r.reason != "" {
			reasons = append(reasons, r.reason)
		}
	}
	return worst, strings.Join(reasons, " | ")
}

// priorityFor applies the priority ladder to the final color.
func priorityFor(color model.Color, daysRemaining int) model.Priority {
	switch color {
	case model.ColorRed:
		if daysRemaining <= 3 {
			return model.PriorityCritical
		}
		return model.PriorityHigh
	case model.ColorYellow:
		if daysRemaining <= 7 {
			return model.PriorityHigh
		}
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// alertRequired applies the alert ladder: red always, yellow only when the
// end is imminent, and any yellow/red when the raw state asks for review.
func alertRequired(snap model.CampaignSnapshot, cfg model.ThresholdConfig, color model.Color, daysRemaining int) bool {
	if !cfg.AlertsEnabled {
		return false
	}
	switch color {
	case model.ColorRed:
		return true
	case model.ColorYellow:
		if daysRemaining <= 3 {
			return true
		}
	}
	if snap.State.NeedsReview() && (color == model.ColorYellow || color == model.ColorRed) {
		return true
	}
	return false
}
