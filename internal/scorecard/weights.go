// Package scorecard holds the TCA weighting math: weight tables, normalization,
// weighted aggregation and flag classification. Everything here is pure and
// never fails on malformed numbers; bad input is coerced to a safe value.
package scorecard

import "math"

// WeightTolerance is how far a weight table may drift from 100 and still be
// considered balanced.
const WeightTolerance = 0.1

// WeightEntry is one row of a framework's weight table. Weight is in
// percentage points.
type WeightEntry struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Weight     float64 `json:"weight"`
	Applicable bool    `json:"applicable"`
}

// WeightTable is an ordered weight table. Order matters: normalization
// credits the rounding residual to the first applicable entry.
type WeightTable []WeightEntry

// ApplicableTotal sums the sanitized weights of applicable entries.
func (t WeightTable) ApplicableTotal() float64 {
	total := 0.0
	for _, e := range t {
		if e.Applicable {
			total += SanitizeWeight(e.Weight)
		}
	}
	return total
}

// IsBalanced reports whether applicable weights sum to 100 within tolerance.
// A table without applicable entries is never balanced.
func (t WeightTable) IsBalanced() bool {
	if t.ApplicableCount() == 0 {
		return false
	}
	return math.Abs(t.ApplicableTotal()-100) <= WeightTolerance+1e-9
}

func (t WeightTable) ApplicableCount() int {
	n := 0
	for _, e := range t {
		if e.Applicable {
			n++
		}
	}
	return n
}

// Find returns the entry with id and whether it exists.
func (t WeightTable) Find(id string) (WeightEntry, bool) {
	for _, e := range t {
		if e.ID == id {
			return e, true
		}
	}
	return WeightEntry{}, false
}

// Clone returns an independent copy.
func (t WeightTable) Clone() WeightTable {
	if t == nil {
		return nil
	}
	out := make(WeightTable, len(t))
	copy(out, t)
	return out
}

// SanitizeWeight coerces negative, NaN and infinite weights to 0.
func SanitizeWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

// ClampScore coerces a raw score into [0, 10]; NaN becomes 0.
func ClampScore(s float64) float64 {
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	if s > 10 {
		return 10
	}
	return s
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FromHundredScale converts an external 0–100 score onto the 0–10 scale.
func FromHundredScale(v float64) float64 {
	return ClampScore(v / 10)
}

// ToHundredScale converts a 0–10 score to the 0–100 scale used by some
// external consumers.
func ToHundredScale(v float64) float64 {
	return ClampScore(v) * 10
}

// FractionToPercent converts a fractional weight (0.2) into percentage points
// (20). Values above 1 are assumed to already be percentages.
func FractionToPercent(w float64) float64 {
	w = SanitizeWeight(w)
	if w <= 1 {
		return w * 100
	}
	return w
}
