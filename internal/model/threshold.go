package model

import (
	"fmt"
	"time"
)

// CalculationMethod selects how the traffic-light color is derived.
type CalculationMethod string

const (
	MethodByLifecycleState CalculationMethod = "byLifecycleState"
	MethodByDaysRemaining  CalculationMethod = "byDaysRemaining"
	MethodByElapsedPercent CalculationMethod = "byElapsedPercent"
	MethodCombined         CalculationMethod = "combined"
)

// IsValid checks if the calculation method is valid.
func (m CalculationMethod) IsValid() bool {
	switch m {
	case MethodByLifecycleState, MethodByDaysRemaining, MethodByElapsedPercent, MethodCombined:
		return true
	default:
		return false
	}
}

// String returns the string representation of the method.
func (m CalculationMethod) String() string {
	return string(m)
}

// ThresholdConfig describes how to compute a color. It is an immutable
// value object: the engine only ever reads the active instance.
// Exactly one instance is active system-wide; activation bookkeeping is
// owned by the record-management system.
type ThresholdConfig struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Method           CalculationMethod `json:"method"`
	MinDaysGreen     int               `json:"min_days_green"`
	MinDaysYellow    int               `json:"min_days_yellow"`
	MaxPercentGreen  float64           `json:"max_percent_green"`
	MaxPercentYellow float64           `json:"max_percent_yellow"`

	// State buckets: a given label appears in at most one set.
	GreenStates  []LifecycleState `json:"green_states"`
	YellowStates []LifecycleState `json:"yellow_states"`
	RedStates    []LifecycleState `json:"red_states"`
	GrayStates   []LifecycleState `json:"gray_states"`

	AlertsEnabled        bool `json:"alerts_enabled"`
	AlertOnlyOnWorsening bool `json:"alert_only_on_worsening"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the threshold ordering and bucket-disjointness invariants.
func (c ThresholdConfig) Validate() error {
	if !c.Method.IsValid() {
		return fmt.Errorf("unknown calculation method %q", c.Method)
	}
	if c.MinDaysYellow >= c.MinDaysGreen {
		return fmt.Errorf("min_days_yellow (%d) must be less than min_days_green (%d)", c.MinDaysYellow, c.MinDaysGreen)
	}
	if c.MaxPercentGreen < 0 || c.MaxPercentGreen > 100 {
		return fmt.Errorf("max_percent_green (%.2f) must be in [0,100]", c.MaxPercentGreen)
	}
	if c.MaxPercentYellow < 0 || c.MaxPercentYellow > 100 {
		return fmt.Errorf("max_percent_yellow (%.2f) must be in [0,100]", c.MaxPercentYellow)
	}
	if c.MaxPercentGreen >= c.MaxPercentYellow {
		return fmt.Errorf("max_percent_green (%.2f) must be less than max_percent_yellow (%.2f)", c.MaxPercentGreen, c.MaxPercentYellow)
	}

	seen := make(map[LifecycleState]Color)
	buckets := []struct {
		color  Color
		states []LifecycleState
	}{
		{ColorGreen, c.GreenStates},
		{ColorYellow, c.YellowStates},
		{ColorRed, c.RedStates},
		{ColorGray, c.GrayStates},
	}
	for _, b := range buckets {
		for _, s := range b.states {
			if prev, dup := seen[s]; dup {
				return fmt.Errorf("state %q mapped to both %s and %s buckets", s, prev, b.color)
			}
			seen[s] = b.color
		}
	}

	return nil
}

// BucketFor maps a lifecycle state through the config's buckets.
// Returns false when the label is in no bucket (unclassified).
func (c ThresholdConfig) BucketFor(state LifecycleState) (Color, bool) {
	for _, s := range c.GreenStates {
		if s == state {
			return ColorGreen, true
		}
	}
	for _, s := range c.YellowStates {
		if s == state {
			return ColorYellow, true
		}
	}
	for _, s := range c.RedStates {
		if s == state {
			return ColorRed, true
		}
	}
	for _, s := range c.GrayStates {
		if s == state {
			return ColorGray, true
		}
	}
	return "", false
}

// DefaultThresholdConfig is used when no active config exists in storage.
// The engine logs a warning and carries on with it instead of failing.
func DefaultThresholdConfig() ThresholdConfig {
	return ThresholdConfig{
		ID:               "default",
		Name:             "Configuración por defecto",
		Method:           MethodCombined,
		MinDaysGreen:     15,
		MinDaysYellow:    7,
		MaxPercentGreen:  75,
		MaxPercentYellow: 90,
		GreenStates:      []LifecycleState{LifecycleStateActive},
		YellowStates:     []LifecycleState{LifecycleStateDraft, LifecycleStateScheduled, LifecycleStatePaused, LifecycleStatePendingReview},
		RedStates:        []LifecycleState{LifecycleStateExpired},
		GrayStates:       []LifecycleState{LifecycleStateFinalized, LifecycleStateCancelled},
		AlertsEnabled:    true,
		Active:           true,
	}
}
