package whatif

import (
	"math"

	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"
)

// Summary is the cross-module view of the edited rows.
type Summary struct {
	Average     float64 `json:"average"`
	StdDev      float64 `json:"stdDev"`
	ModuleCount int     `json:"moduleCount"`
	RowCount    int     `json:"rowCount"`
}

// Summarize computes the mean and population standard deviation over every
// row of every module. Modules are visited in report order so the result is
// identical across calls.
func Summarize(rows report.AdjustedScores) Summary {
	var scores []float64
	modules := 0
	for _, m := range report.Modules {
		r := rows[m]
		if len(r) == 0 {
			continue
		}
		modules++
		scores = append(scores, scoresOf(r)...)
	}

	return Summary{
		Average:     mean(scores),
		StdDev:      stdDev(scores),
		ModuleCount: modules,
		RowCount:    len(scores),
	}
}

func scoresOf(rows []report.ScoreRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = scorecard.ClampScore(r.Score)
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	avg := mean(xs)
	sq := 0.0
	for _, x := range xs {
		sq += (x - avg) * (x - avg)
	}
	return math.Sqrt(sq / float64(len(xs)))
}

// Scenario is a composite projected under a fixed multiplier.
type Scenario struct {
	Name       string         `json:"name"`
	Multiplier float64        `json:"multiplier"`
	Score      float64        `json:"score"`
	Flag       scorecard.Flag `json:"flag"`
}

var scenarioMultipliers = []struct {
	name string
	mult float64
}{
	{"optimistic", 1.2},
	{"realistic", 1.0},
	{"conservative", 0.8},
}

// Scenarios projects composite under the optimistic, realistic and
// conservative multipliers, clamped to the 0–10 scale.
func Scenarios(composite float64, t scorecard.Thresholds) []Scenario {
	out := make([]Scenario, 0, len(scenarioMultipliers))
	for _, s := range scenarioMultipliers {
		score := scorecard.ClampScore(composite * s.mult)
		out = append(out, Scenario{
			Name:       s.name,
			Multiplier: s.mult,
			Score:      score,
			Flag:       t.Classify(score),
		})
	}
	return out
}
