package whatif

import (
	"errors"
	"fmt"

	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"
)

// ErrUnknownModule is returned for row tables keyed by an unsupported module.
var ErrUnknownModule = errors.New("unknown what-if module")

// Config carries the classification tables used when flags are re-derived.
type Config struct {
	TCA          scorecard.Thresholds
	Risk         scorecard.Thresholds
	StrategicFit scorecard.Thresholds
}

// DefaultConfig uses the TCA table for categories and the 7/5 table for
// risk and strategic fit re-derivation.
func DefaultConfig() Config {
	riskTable := scorecard.Thresholds{Green: 7, Yellow: 5}
	return Config{
		TCA:          scorecard.DefaultThresholds,
		Risk:         riskTable,
		StrategicFit: riskTable,
	}
}

// ConfigFor resolves the tables for a report of framework from set. The
// strategic fit table is looked up under its lowercased key as well.
func ConfigFor(framework string, set scorecard.ThresholdSet) Config {
	cfg := DefaultConfig()
	if t, ok := set[framework]; ok {
		cfg.TCA = t
	}
	if t, ok := set[string(report.ModuleRisk)]; ok {
		cfg.Risk = t
	}
	for _, key := range []string{string(report.ModuleStrategicFit), "strategicfit"} {
		if t, ok := set[key]; ok {
			cfg.StrategicFit = t
		}
	}
	return cfg
}

// Apply returns a copy of r with every row value written back into its module
// and all derived fields recomputed. Rows whose id matches nothing are
// ignored. r is never modified.
func Apply(r *report.AnalysisReport, rows report.AdjustedScores, cfg Config) (*report.AnalysisReport, error) {
	for m := range rows {
		if _, ok := report.ParseModule(string(m)); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModule, m)
		}
	}

	out, err := r.DeepCopy()
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}

	applyTCA(out.TcaData, rows[report.ModuleTCA], cfg.TCA)
	applyRisk(out.RiskData, rows[report.ModuleRisk], cfg.Risk)
	applyMacro(out.MacroData, rows[report.ModuleMacro])
	applyBenchmark(out.BenchmarkData, rows[report.ModuleBenchmark])
	applyGrowth(out.GrowthData, rows[report.ModuleGrowth])
	applyGap(out.GapData, rows[report.ModuleGap])
	applyFounderFit(out.FounderFitData, rows[report.ModuleFounderFit])
	applyTeam(out.TeamData, rows[report.ModuleTeam])
	applyStrategicFit(out.StrategicFitData, rows[report.ModuleStrategicFit], cfg.StrategicFit)

	return out, nil
}

func index(rows []report.ScoreRow) map[string]float64 {
	m := make(map[string]float64, len(rows))
	for _, r := range rows {
		m[r.ID] = scorecard.ClampScore(r.Score)
	}
	return m
}

// applyTCA always re-aggregates so stale weighted scores and flags in the
// stored report are corrected even when no row changed.
func applyTCA(d *report.TcaData, rows []report.ScoreRow, t scorecard.Thresholds) {
	if d == nil {
		return
	}
	edits := index(rows)
	ids := tcaIDs(d.Categories)

	categories := make([]scorecard.ScoredCategory, len(d.Categories))
	for i, c := range d.Categories {
		raw := c.RawScore
		if v, ok := edits[ids[i]]; ok {
			raw = v
		}
		categories[i] = scorecard.ScoredCategory{
			ID:         ids[i],
			Name:       c.Category,
			RawScore:   raw,
			Weight:     c.Weight,
			Applicable: true,
		}
	}

	result := scorecard.Aggregate(categories, t)
	for i, c := range result.Categories {
		d.Categories[i].RawScore = c.RawScore
		d.Categories[i].Weight = c.Weight
		d.Categories[i].WeightedScore = c.WeightedScore
		d.Categories[i].Flag = string(c.Flag)
	}
	d.CompositeScore = result.CompositeScore
	d.Flag = string(result.Flag)
}

func applyRisk(d *report.RiskData, rows []report.ScoreRow, t scorecard.Thresholds) {
	if d == nil || len(rows) == 0 {
		return
	}
	edits := index(rows)
	ids := riskIDs(d.RiskFlags)
	for i := range d.RiskFlags {
		v, ok := edits[ids[i]]
		if !ok {
			continue
		}
		score := v
		d.RiskFlags[i].Score = &score
		d.RiskFlags[i].Flag = string(t.Classify(v))
	}
}

func applyMacro(d *report.MacroData, rows []report.ScoreRow) {
	if d == nil || len(rows) == 0 {
		return
	}
	for id, v := range index(rows) {
		d.PestelDashboard.Set(id, v)
	}
	sum := 0.0
	for _, f := range report.PestelFactors {
		v, _ := d.PestelDashboard.Get(f)
		sum += v
	}
	d.CompositeScore = sum / float64(len(report.PestelFactors))
}

func applyBenchmark(d *report.BenchmarkData, rows []report.ScoreRow) {
	if d == nil || len(rows) == 0 {
		return
	}
	edits := index(rows)
	ids := benchmarkIDs(d.BenchmarkOverlay)
	for i := range d.BenchmarkOverlay {
		if v, ok := edits[ids[i]]; ok {
			d.BenchmarkOverlay[i].Score = scorecard.ToHundredScale(v)
		}
	}
}

func applyGrowth(d *report.GrowthData, rows []report.ScoreRow) {
	if d == nil {
		return
	}
	if v, ok := index(rows)["growth-tier"]; ok {
		d.GrowthTier = v
	}
}

func applyGap(d *report.GapData, rows []report.ScoreRow) {
	if d == nil || len(rows) == 0 {
		return
	}
	edits := index(rows)
	ids := gapIDs(d.Heatmap)
	for i := range d.Heatmap {
		if v, ok := edits[ids[i]]; ok {
			d.Heatmap[i].Gap = ScoreToGap(v)
		}
	}
}

func applyFounderFit(d *report.FounderFitData, rows []report.ScoreRow) {
	if d == nil {
		return
	}
	if v, ok := index(rows)["funding-readiness"]; ok {
		d.ReadinessScore = scorecard.ToHundredScale(v)
	}
}

func applyTeam(d *report.TeamData, rows []report.ScoreRow) {
	if d == nil {
		return
	}
	if v, ok := index(rows)["team-effectiveness"]; ok {
		d.TeamScore = v
	}
}

func applyStrategicFit(d *report.StrategicFitData, rows []report.ScoreRow, t scorecard.Thresholds) {
	if d == nil || len(rows) == 0 {
		return
	}
	edits := index(rows)
	ids := pathwayIDs(d.Pathways)
	for i := range d.Pathways {
		if v, ok := edits[ids[i]]; ok {
			d.Pathways[i].Score = v
			d.Pathways[i].Flag = string(t.Classify(v))
		}
	}
}
