package scorecard

import (
	"fmt"
	"math"
)

// Flag is the three-valued quality tier of a score.
type Flag string

const (
	FlagRed    Flag = "red"
	FlagYellow Flag = "yellow"
	FlagGreen  Flag = "green"
)

// Rank orders tiers red < yellow < green. Unknown values rank below red.
func (f Flag) Rank() int {
	switch f {
	case FlagGreen:
		return 2
	case FlagYellow:
		return 1
	case FlagRed:
		return 0
	}
	return -1
}

func (f Flag) Valid() bool {
	return f.Rank() >= 0
}

// Label is the investor-facing description of the tier.
func (f Flag) Label() string {
	switch f {
	case FlagGreen:
		return "Strong & Investable"
	case FlagYellow:
		return "Moderate; needs traction"
	default:
		return "High risk / weak readiness"
	}
}

// ParseFlag accepts a tier name; anything else reports false.
func ParseFlag(s string) (Flag, bool) {
	f := Flag(s)
	return f, f.Valid()
}

// Thresholds are the lower bounds of the green and yellow tiers. Ranges are
// [low, high) with green unbounded above; anything below Yellow is red.
type Thresholds struct {
	Green  float64 `json:"green"`
	Yellow float64 `json:"yellow"`
}

// DefaultThresholds is the TCA composite/category table.
var DefaultThresholds = Thresholds{Green: 8.0, Yellow: 6.5}

// Classify maps score to its tier. NaN is treated as 0.
func (t Thresholds) Classify(score float64) Flag {
	if math.IsNaN(score) {
		score = 0
	}
	switch {
	case score >= t.Green:
		return FlagGreen
	case score >= t.Yellow:
		return FlagYellow
	default:
		return FlagRed
	}
}

// Ranges renders the tiers the way the configuration export shows them.
func (t Thresholds) Ranges() map[Flag]string {
	return map[Flag]string{
		FlagGreen:  fmt.Sprintf("%.1f – 10.0", t.Green),
		FlagYellow: fmt.Sprintf("%.1f – %.1f", t.Yellow, Round1(t.Green-0.1)),
		FlagRed:    fmt.Sprintf("< %.1f", t.Yellow),
	}
}

// CountFlags tallies flags by tier. Invalid entries are ignored.
func CountFlags(flags []Flag) map[Flag]int {
	counts := map[Flag]int{FlagGreen: 0, FlagYellow: 0, FlagRed: 0}
	for _, f := range flags {
		if f.Valid() {
			counts[f]++
		}
	}
	return counts
}

// ReadinessBand buckets a 0–10 composite into the investment readiness scale.
func ReadinessBand(score float64) string {
	switch {
	case score >= 8.5:
		return "excellent"
	case score >= 7.0:
		return "good"
	case score >= 5.5:
		return "acceptable"
	default:
		return "needs_improvement"
	}
}
