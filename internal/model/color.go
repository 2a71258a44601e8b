package model

// Color is the traffic-light classification computed for a campaign.
// It is distinct from the campaign's own lifecycle state.
type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
	ColorGray   Color = "gray"
)

// colorRank orders colors by badness for worsening checks.
// Gray is deliberately absent: it is a terminal classification, not a rank.
var colorRank = map[Color]int{
	ColorGreen:  0,
	ColorYellow: 1,
	ColorRed:    2,
}

// IsValid checks if the color is one of the known classifications.
func (c Color) IsValid() bool {
	switch c {
	case ColorGreen, ColorYellow, ColorRed, ColorGray:
		return true
	default:
		return false
	}
}

// String returns the string representation of the color.
func (c Color) String() string {
	return string(c)
}

// WorseThan reports whether c ranks strictly worse than other in the
// green < yellow < red ordering. Gray never counts as worse or better.
func (c Color) WorseThan(other Color) bool {
	cr, ok1 := colorRank[c]
	or, ok2 := colorRank[other]
	if !ok1 || !ok2 {
		return false
	}
	return cr > or
}

// WorstOf returns the worst of the given colors in the green < yellow < red
// ordering. Gray values are skipped; if every value is gray, gray is returned.
func WorstOf(colors ...Color) Color {
	worst := ColorGray
	worstRank := -1
	for _, c := range colors {
		if r, ok := colorRank[c]; ok && r > worstRank {
			worst = c
			worstRank = r
		}
	}
	return worst
}

// Priority is the attention priority derived from a computed status.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid checks if the priority is valid.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}
