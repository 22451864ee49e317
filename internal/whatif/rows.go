// Package whatif implements the What-If session: projecting a report into
// editable score rows, recomputing every derived field from edited values and
// locking the result into a terminal snapshot.
package whatif

import (
	"fmt"

	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"
)

// Risk rows without an explicit score are seeded from their flag.
const (
	riskScoreGreen  = 8.0
	riskScoreYellow = 6.0
	riskScoreRed    = 4.0
)

// macroFallbackFactors seed PESTEL rows from the TCA composite when the macro
// module did not run.
var macroFallbackFactors = map[string]float64{
	"political":     0.9,
	"economic":      0.85,
	"social":        1.1,
	"technological": 1.15,
	"environmental": 1.0,
	"legal":         0.95,
}

// BuildRows projects r into editable rows keyed by module. Modules that did
// not run produce no rows, except risk and macro which are seeded from the
// TCA scores when TCA data exists.
func BuildRows(r *report.AnalysisReport) report.AdjustedScores {
	rows := report.AdjustedScores{}
	if r == nil {
		return rows
	}

	if r.HasTcaData() {
		ids := tcaIDs(r.TcaData.Categories)
		tca := make([]report.ScoreRow, 0, len(r.TcaData.Categories))
		for i, c := range r.TcaData.Categories {
			tca = append(tca, report.ScoreRow{
				ID:       ids[i],
				Category: c.Category,
				Score:    scorecard.ClampScore(c.RawScore),
			})
		}
		rows[report.ModuleTCA] = tca
	}

	if risk := riskRows(r, rows[report.ModuleTCA]); len(risk) > 0 {
		rows[report.ModuleRisk] = risk
	}
	if macro := macroRows(r); len(macro) > 0 {
		rows[report.ModuleMacro] = macro
	}

	if r.BenchmarkData != nil && len(r.BenchmarkData.BenchmarkOverlay) > 0 {
		ids := benchmarkIDs(r.BenchmarkData.BenchmarkOverlay)
		bench := make([]report.ScoreRow, 0, len(r.BenchmarkData.BenchmarkOverlay))
		for i, m := range r.BenchmarkData.BenchmarkOverlay {
			bench = append(bench, report.ScoreRow{
				ID:       ids[i],
				Category: scorecard.Humanize(m.Category),
				Score:    scorecard.FromHundredScale(m.Score),
			})
		}
		rows[report.ModuleBenchmark] = bench
	}

	if r.GrowthData != nil {
		rows[report.ModuleGrowth] = []report.ScoreRow{{
			ID:       "growth-tier",
			Category: "Growth Classification",
			Score:    scorecard.ClampScore(r.GrowthData.GrowthTier),
		}}
	}

	if r.GapData != nil && len(r.GapData.Heatmap) > 0 {
		ids := gapIDs(r.GapData.Heatmap)
		gap := make([]report.ScoreRow, 0, len(r.GapData.Heatmap))
		for i, g := range r.GapData.Heatmap {
			gap = append(gap, report.ScoreRow{
				ID:       ids[i],
				Category: g.Category,
				Score:    GapToScore(g.Gap),
			})
		}
		rows[report.ModuleGap] = gap
	}

	if r.FounderFitData != nil {
		rows[report.ModuleFounderFit] = []report.ScoreRow{{
			ID:       "funding-readiness",
			Category: "Funding Readiness",
			Score:    scorecard.FromHundredScale(r.FounderFitData.ReadinessScore),
		}}
	}

	if r.TeamData != nil {
		rows[report.ModuleTeam] = []report.ScoreRow{{
			ID:       "team-effectiveness",
			Category: "Team Assessment",
			Score:    scorecard.ClampScore(r.TeamData.TeamScore),
		}}
	}

	if r.StrategicFitData != nil && len(r.StrategicFitData.Pathways) > 0 {
		ids := pathwayIDs(r.StrategicFitData.Pathways)
		fit := make([]report.ScoreRow, 0, len(r.StrategicFitData.Pathways))
		for i, p := range r.StrategicFitData.Pathways {
			fit = append(fit, report.ScoreRow{
				ID:       ids[i],
				Category: p.Pathway,
				Score:    scorecard.ClampScore(p.Score),
			})
		}
		rows[report.ModuleStrategicFit] = fit
	}

	return rows
}

func riskRows(r *report.AnalysisReport, tca []report.ScoreRow) []report.ScoreRow {
	if r.RiskData != nil && len(r.RiskData.RiskFlags) > 0 {
		ids := riskIDs(r.RiskData.RiskFlags)
		out := make([]report.ScoreRow, 0, len(r.RiskData.RiskFlags))
		for i, f := range r.RiskData.RiskFlags {
			label := f.Domain
			if label == "" {
				label = fmt.Sprintf("Risk %d", i+1)
			}
			out = append(out, report.ScoreRow{
				ID:       ids[i],
				Category: label,
				Score:    riskScore(f),
			})
		}
		return out
	}

	if len(tca) == 0 {
		return nil
	}
	avg := mean(scoresOf(tca))
	score := riskScoreRed
	switch {
	case avg >= 8:
		score = riskScoreGreen
	case avg >= 6.5:
		score = riskScoreYellow
	}
	return []report.ScoreRow{{ID: "calculated-risk", Category: "Calculated Risk Level", Score: score}}
}

func macroRows(r *report.AnalysisReport) []report.ScoreRow {
	out := make([]report.ScoreRow, 0, len(report.PestelFactors))
	if r.MacroData != nil {
		for _, f := range report.PestelFactors {
			v, _ := r.MacroData.PestelDashboard.Get(f)
			out = append(out, report.ScoreRow{ID: f, Category: scorecard.Humanize(f), Score: scorecard.ClampScore(v)})
		}
		return out
	}

	if !r.HasTcaData() {
		return nil
	}
	base := scorecard.ClampScore(r.TcaData.CompositeScore)
	for _, f := range report.PestelFactors {
		out = append(out, report.ScoreRow{
			ID:       f,
			Category: scorecard.Humanize(f),
			Score:    scorecard.ClampScore(base * macroFallbackFactors[f]),
		})
	}
	return out
}

func riskScore(f report.RiskFlag) float64 {
	if f.Score != nil {
		return scorecard.ClampScore(*f.Score)
	}
	switch scorecard.Flag(f.Flag) {
	case scorecard.FlagGreen:
		return riskScoreGreen
	case scorecard.FlagYellow:
		return riskScoreYellow
	default:
		return riskScoreRed
	}
}

// GapToScore maps a gap size onto the 0–10 row scale; every 5 points of gap
// costs one score point.
func GapToScore(gap float64) float64 {
	return scorecard.ClampScore(10 - scorecard.SanitizeWeight(gap)/5)
}

// ScoreToGap inverts GapToScore.
func ScoreToGap(score float64) float64 {
	return (10 - scorecard.ClampScore(score)) * 5
}

func tcaIDs(categories []report.TcaCategory) []string {
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
		if ids[i] == "" {
			ids[i] = c.Category
		}
	}
	return uniqueIDs(ids)
}

func riskIDs(flags []report.RiskFlag) []string {
	ids := make([]string, len(flags))
	for i, f := range flags {
		ids[i] = f.Domain
		if ids[i] == "" {
			ids[i] = fmt.Sprintf("risk_%d", i)
		}
	}
	return uniqueIDs(ids)
}

func benchmarkIDs(metrics []report.BenchmarkMetric) []string {
	ids := make([]string, len(metrics))
	for i, m := range metrics {
		ids[i] = m.Category
	}
	return uniqueIDs(ids)
}

func gapIDs(items []report.GapItem) []string {
	ids := make([]string, len(items))
	for i, g := range items {
		ids[i] = g.Category
	}
	return uniqueIDs(ids)
}

func pathwayIDs(pathways []report.StrategicPathway) []string {
	ids := make([]string, len(pathways))
	for i, p := range pathways {
		ids[i] = p.ID
		if ids[i] == "" {
			ids[i] = p.Pathway
		}
	}
	return uniqueIDs(ids)
}

// Row ids are the entry ids made unique within their module: a repeated id
// gets the entry position as a suffix, so rows and entries pair up by index.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		candidate := id
		for n := i; seen[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", id, n)
		}
		seen[candidate] = true
		ids[i] = candidate
	}
	return ids
}
