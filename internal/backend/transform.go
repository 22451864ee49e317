package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"
)

// Fallbacks applied when the backend omits a category number.
const (
	DefaultRawScore = 7.5
	DefaultWeight   = 0.1 // fraction; 10 percentage points
	DefaultPestel   = 7.0
)

// IngestFlag is the fixed classification applied to backend scores on
// ingest: >= 8 green, >= 6 yellow, else red. It is deliberately separate from
// the configurable scorecard thresholds.
func IngestFlag(score float64) scorecard.Flag {
	switch {
	case score >= 8:
		return scorecard.FlagGreen
	case score >= 6:
		return scorecard.FlagYellow
	default:
		return scorecard.FlagRed
	}
}

// ==========================
// Backend Shapes
// ==========================

type backendResponse struct {
	FinalTCAScore            *float64        `json:"final_tca_score"`
	InvestmentRecommendation string          `json:"investment_recommendation"`
	Scorecard                json.RawMessage `json:"scorecard"`
	RiskAssessment           json.RawMessage `json:"risk_assessment"`
	PestelAnalysis           json.RawMessage `json:"pestel_analysis"`
	BenchmarkAnalysis        json.RawMessage `json:"benchmark_analysis"`
	GrowthAnalysis           json.RawMessage `json:"growth_analysis"`
	GapAnalysis              json.RawMessage `json:"gap_analysis"`
	FunderAnalysis           json.RawMessage `json:"funder_analysis"`
	TeamAnalysis             json.RawMessage `json:"team_analysis"`
	StrategicFitAnalysis     json.RawMessage `json:"strategic_fit_analysis"`
	ProcessingMetadata       struct {
		AnalysisTimestamp string `json:"analysis_timestamp"`
		Framework         string `json:"framework"`
	} `json:"processing_metadata"`
}

type backendCategory struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	RawScore         *float64 `json:"raw_score"`
	Score            *float64 `json:"score"`
	Weight           *float64 `json:"weight"`
	Notes            string   `json:"notes"`
	Interpretation   string   `json:"interpretation"`
	Description      string   `json:"description"`
	Strengths        string   `json:"strengths"`
	Concerns         string   `json:"concerns"`
	Pestel           string   `json:"pestel"`
	AIRecommendation string   `json:"ai_recommendation"`
}

// flagLevel accepts "yellow" or {"value": "yellow"}.
type flagLevel string

func (l *flagLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = flagLevel(s)
		return nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*l = flagLevel(obj.Value)
	return nil
}

type backendRiskFlag struct {
	Domain           string    `json:"domain"`
	Level            flagLevel `json:"level"`
	Flag             flagLevel `json:"flag"`
	Trigger          string    `json:"trigger"`
	Description      string    `json:"description"`
	Impact           string    `json:"impact"`
	SeverityScore    *float64  `json:"severity_score"`
	Likelihood       *float64  `json:"likelihood"`
	Mitigation       string    `json:"mitigation"`
	AIRecommendation string    `json:"ai_recommendation"`
	Thresholds       string    `json:"thresholds"`
}

// ==========================
// Transform
// ==========================

// Transform maps a backend analysis document onto AnalysisReport. Absent or
// null sections become nil modules; missing text fields get deterministic
// fallback text. Only a document that is not a JSON object, or a section of
// the wrong shape, is an error.
func Transform(body []byte) (*report.AnalysisReport, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("backend response is not a JSON object")
	}

	var resp backendResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, fmt.Errorf("decode backend response: %w", err)
	}

	out := &report.AnalysisReport{
		Framework:                resp.ProcessingMetadata.Framework,
		GeneratedAt:              resp.ProcessingMetadata.AnalysisTimestamp,
		InvestmentRecommendation: resp.InvestmentRecommendation,
	}

	var err error
	if out.TcaData, err = transformScorecard(resp.Scorecard, resp.FinalTCAScore, resp.InvestmentRecommendation); err != nil {
		return nil, fmt.Errorf("scorecard: %w", err)
	}
	if out.RiskData, err = transformRisk(resp.RiskAssessment); err != nil {
		return nil, fmt.Errorf("risk_assessment: %w", err)
	}
	if out.MacroData, err = transformPestel(resp.PestelAnalysis); err != nil {
		return nil, fmt.Errorf("pestel_analysis: %w", err)
	}
	if out.BenchmarkData, err = transformBenchmark(resp.BenchmarkAnalysis); err != nil {
		return nil, fmt.Errorf("benchmark_analysis: %w", err)
	}
	if out.GrowthData, err = transformGrowth(resp.GrowthAnalysis); err != nil {
		return nil, fmt.Errorf("growth_analysis: %w", err)
	}
	if out.GapData, err = transformGap(resp.GapAnalysis); err != nil {
		return nil, fmt.Errorf("gap_analysis: %w", err)
	}
	if out.FounderFitData, err = transformFunder(resp.FunderAnalysis); err != nil {
		return nil, fmt.Errorf("funder_analysis: %w", err)
	}
	if out.TeamData, err = transformTeam(resp.TeamAnalysis); err != nil {
		return nil, fmt.Errorf("team_analysis: %w", err)
	}
	if out.StrategicFitData, err = transformStrategicFit(resp.StrategicFitAnalysis); err != nil {
		return nil, fmt.Errorf("strategic_fit_analysis: %w", err)
	}

	return out, nil
}

func absent(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func transformScorecard(raw json.RawMessage, finalScore *float64, recommendation string) (*report.TcaData, error) {
	if absent(raw) {
		return nil, nil
	}
	var sc struct {
		Categories json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, err
	}
	entries, err := orderedEntries(sc.Categories)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	if entries == nil {
		return nil, nil
	}

	data := &report.TcaData{Categories: make([]report.TcaCategory, 0, len(entries))}
	computed := 0.0
	for _, e := range entries {
		var c backendCategory
		if err := json.Unmarshal(e.value, &c); err != nil {
			return nil, fmt.Errorf("category %q: %w", e.key, err)
		}
		cat := transformCategory(e.key, c)
		computed += cat.WeightedScore
		data.Categories = append(data.Categories, cat)
	}

	data.CompositeScore = computed
	if finalScore != nil {
		data.CompositeScore = scorecard.FromHundredScale(*finalScore)
	}
	flag := IngestFlag(data.CompositeScore)
	data.Flag = string(flag)
	data.Summary = firstNonEmpty(recommendation,
		fmt.Sprintf("Composite TCA score of %.1f/10 across %d categories: %s.", data.CompositeScore, len(data.Categories), flag.Label()))
	return data, nil
}

func transformCategory(key string, c backendCategory) report.TcaCategory {
	name := firstNonEmpty(c.Name, c.Category, scorecard.Humanize(key))
	id := firstNonEmpty(key, c.ID, scorecard.ToSnakeCase(name))

	raw := DefaultRawScore
	switch {
	case c.RawScore != nil:
		raw = *c.RawScore
	case c.Score != nil:
		raw = *c.Score
	}
	raw = scorecard.ClampScore(raw)

	weight := DefaultWeight
	if c.Weight != nil {
		weight = *c.Weight
	}
	weight = scorecard.FractionToPercent(weight)

	flag := IngestFlag(raw)
	return report.TcaCategory{
		ID:               id,
		Category:         name,
		RawScore:         raw,
		Weight:           weight,
		WeightedScore:    scorecard.WeightedScore(raw, weight),
		Flag:             string(flag),
		Interpretation:   firstNonEmpty(c.Interpretation, c.Notes, fmt.Sprintf("%s scored %.1f/10 (%s).", name, raw, flag.Label())),
		Description:      firstNonEmpty(c.Description, fmt.Sprintf("Assessment of %s.", name)),
		Strengths:        firstNonEmpty(c.Strengths, "No specific strengths reported."),
		Concerns:         firstNonEmpty(c.Concerns, "No specific concerns reported."),
		Pestel:           firstNonEmpty(c.Pestel, "No PESTEL factors reported."),
		AIRecommendation: firstNonEmpty(c.AIRecommendation, recommendationFor(name, flag)),
	}
}

func recommendationFor(name string, flag scorecard.Flag) string {
	switch flag {
	case scorecard.FlagGreen:
		return fmt.Sprintf("Maintain current strength in %s.", name)
	case scorecard.FlagYellow:
		return fmt.Sprintf("Strengthen %s to move it into the green tier.", name)
	default:
		return fmt.Sprintf("Prioritize remediation of %s before proceeding.", name)
	}
}

func transformRisk(raw json.RawMessage) (*report.RiskData, error) {
	if absent(raw) {
		return nil, nil
	}
	var ra struct {
		OverallRiskScore *float64       `json:"overall_risk_score"`
		Summary          string          `json:"summary"`
		Flags            json.RawMessage `json:"flags"`
	}
	if err := json.Unmarshal(raw, &ra); err != nil {
		return nil, err
	}
	entries, err := orderedEntries(ra.Flags)
	if err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}

	data := &report.RiskData{RiskFlags: make([]report.RiskFlag, 0, len(entries))}
	if ra.OverallRiskScore != nil {
		data.OverallRiskScore = toTenScale(*ra.OverallRiskScore)
	}

	var flags []scorecard.Flag
	for i, e := range entries {
		var f backendRiskFlag
		if err := json.Unmarshal(e.value, &f); err != nil {
			return nil, fmt.Errorf("flag %q: %w", e.key, err)
		}
		domain := firstNonEmpty(e.key, f.Domain, fmt.Sprintf("risk_%d", i))
		flag, ok := scorecard.ParseFlag(strings.ToLower(firstNonEmpty(string(f.Level), string(f.Flag))))
		if !ok {
			flag = scorecard.FlagYellow
		}
		flags = append(flags, flag)

		rf := report.RiskFlag{
			Domain:           domain,
			Flag:             string(flag),
			Trigger:          firstNonEmpty(f.Trigger, fmt.Sprintf("%s assessment", scorecard.Humanize(domain))),
			Description:      firstNonEmpty(f.Description, f.Impact, fmt.Sprintf("%s flagged %s.", scorecard.Humanize(domain), flag)),
			Impact:           firstNonEmpty(f.Impact, "Not quantified."),
			Mitigation:       firstNonEmpty(f.Mitigation, fmt.Sprintf("Monitor %s and define a mitigation plan.", scorecard.Humanize(domain))),
			AIRecommendation: firstNonEmpty(f.AIRecommendation, "Review this risk with the founding team."),
			Thresholds:       firstNonEmpty(f.Thresholds, "Flag assigned by the analysis backend."),
		}
		if f.SeverityScore != nil {
			v := unitInterval(*f.SeverityScore / 10)
			rf.ImpactScore = &v
		}
		if f.Likelihood != nil {
			v := unitInterval(*f.Likelihood)
			rf.Likelihood = &v
		}
		data.RiskFlags = append(data.RiskFlags, rf)
	}

	counts := scorecard.CountFlags(flags)
	data.RiskSummary = firstNonEmpty(ra.Summary, fmt.Sprintf("%d risk flags: %d red, %d yellow, %d green.",
		len(flags), counts[scorecard.FlagRed], counts[scorecard.FlagYellow], counts[scorecard.FlagGreen]))
	return data, nil
}

func transformPestel(raw json.RawMessage) (*report.MacroData, error) {
	if absent(raw) {
		return nil, nil
	}
	var p struct {
		Political         *float64        `json:"political"`
		Economic          *float64        `json:"economic"`
		Social            *float64        `json:"social"`
		Technological     *float64        `json:"technological"`
		Environmental     *float64        `json:"environmental"`
		Legal             *float64        `json:"legal"`
		CompositeScore    *float64        `json:"composite_score"`
		TrendOverlayScore float64         `json:"trend_overlay_score"`
		Summary           string          `json:"summary"`
		SectorOutlook     string          `json:"sector_outlook"`
		TrendAlignment    json.RawMessage `json:"trend_alignment"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}

	pick := func(v *float64) float64 {
		if v == nil {
			return DefaultPestel
		}
		return toTenScale(*v)
	}
	data := &report.MacroData{
		PestelDashboard: report.Pestel{
			Political:     pick(p.Political),
			Economic:      pick(p.Economic),
			Social:        pick(p.Social),
			Technological: pick(p.Technological),
			Environmental: pick(p.Environmental),
			Legal:         pick(p.Legal),
		},
		TrendOverlayScore: p.TrendOverlayScore,
		TrendSignals:      []string{},
	}

	if p.CompositeScore != nil {
		data.CompositeScore = toTenScale(*p.CompositeScore)
	} else {
		sum := 0.0
		for _, f := range report.PestelFactors {
			v, _ := data.PestelDashboard.Get(f)
			sum += v
		}
		data.CompositeScore = sum / float64(len(report.PestelFactors))
	}

	entries, err := orderedEntries(p.TrendAlignment)
	if err != nil {
		return nil, fmt.Errorf("trend_alignment: %w", err)
	}
	for _, e := range entries {
		var s string
		if err := json.Unmarshal(e.value, &s); err != nil {
			continue
		}
		data.TrendSignals = append(data.TrendSignals, s)
	}

	data.Summary = firstNonEmpty(p.Summary, fmt.Sprintf("Macro alignment score of %.1f/10 across PESTEL factors.", data.CompositeScore))
	data.SectorOutlook = firstNonEmpty(p.SectorOutlook, "No sector outlook reported.")
	return data, nil
}

func transformBenchmark(raw json.RawMessage) (*report.BenchmarkData, error) {
	if absent(raw) {
		return nil, nil
	}
	var b struct {
		OverallPercentile  float64         `json:"overall_percentile"`
		OverlayScore       float64         `json:"overlay_score"`
		PerformanceSummary string          `json:"performance_summary"`
		CategoryBenchmarks json.RawMessage `json:"category_benchmarks"`
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	entries, err := orderedEntries(b.CategoryBenchmarks)
	if err != nil {
		return nil, fmt.Errorf("category_benchmarks: %w", err)
	}

	data := &report.BenchmarkData{
		BenchmarkOverlay:   make([]report.BenchmarkMetric, 0, len(entries)),
		CompetitorAnalysis: []report.CompetitorMetric{},
		OverallPercentile:  b.OverallPercentile,
		OverlayScore:       b.OverlayScore,
	}
	for i, e := range entries {
		var m struct {
			Category       string  `json:"category"`
			PercentileRank float64 `json:"percentile_rank"`
			SectorAverage  float64 `json:"sector_average"`
			ZScore         float64 `json:"z_score"`
		}
		if err := json.Unmarshal(e.value, &m); err != nil {
			return nil, fmt.Errorf("benchmark %q: %w", e.key, err)
		}
		data.BenchmarkOverlay = append(data.BenchmarkOverlay, report.BenchmarkMetric{
			Category:   firstNonEmpty(e.key, m.Category, fmt.Sprintf("benchmark_%d", i)),
			Score:      m.PercentileRank,
			Avg:        m.SectorAverage,
			Percentile: m.PercentileRank,
			Deviation:  m.ZScore,
		})
	}
	data.PerformanceSummary = firstNonEmpty(b.PerformanceSummary,
		fmt.Sprintf("Overall percentile %.0f across %d benchmark categories.", data.OverallPercentile, len(data.BenchmarkOverlay)))
	return data, nil
}

func transformGrowth(raw json.RawMessage) (*report.GrowthData, error) {
	if absent(raw) {
		return nil, nil
	}
	var g struct {
		GrowthTier     *float64 `json:"growth_tier"`
		Classification string   `json:"classification"`
		Interpretation string   `json:"interpretation"`
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	tier := DefaultRawScore
	if g.GrowthTier != nil {
		tier = scorecard.ClampScore(*g.GrowthTier)
	}
	classification := firstNonEmpty(g.Classification, scorecard.ReadinessBand(tier))
	return &report.GrowthData{
		GrowthTier:     tier,
		Classification: classification,
		Interpretation: firstNonEmpty(g.Interpretation, fmt.Sprintf("Growth tier %.1f (%s).", tier, classification)),
	}, nil
}

func transformGap(raw json.RawMessage) (*report.GapData, error) {
	if absent(raw) {
		return nil, nil
	}
	var g struct {
		TotalGaps     *int     `json:"total_gaps"`
		PriorityAreas []string `json:"priority_areas"`
		QuickWins     []string `json:"quick_wins"`
		Gaps          []struct {
			Category      string  `json:"category"`
			GapSize       float64 `json:"gap_size"`
			Priority      string  `json:"priority"`
			GapPercentage float64 `json:"gap_percentage"`
			Direction     string  `json:"direction"`
		} `json:"gaps"`
		Interpretation string `json:"interpretation"`
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}

	data := &report.GapData{
		Heatmap: make([]report.GapItem, 0, len(g.Gaps)),
		Roadmap: make([]report.RoadmapItem, 0, len(g.PriorityAreas)+len(g.QuickWins)),
	}
	for i, item := range g.Gaps {
		data.Heatmap = append(data.Heatmap, report.GapItem{
			Category:  firstNonEmpty(item.Category, fmt.Sprintf("Gap %d", i+1)),
			Gap:       scorecard.SanitizeWeight(item.GapSize),
			Priority:  firstNonEmpty(item.Priority, "Medium"),
			Trend:     item.GapPercentage,
			Direction: firstNonEmpty(item.Direction, "stable"),
		})
	}
	for _, area := range g.PriorityAreas {
		data.Roadmap = append(data.Roadmap, report.RoadmapItem{Area: area, Action: "Address " + area, Type: "Priority Area"})
	}
	for _, win := range g.QuickWins {
		data.Roadmap = append(data.Roadmap, report.RoadmapItem{Area: win, Action: win, Type: "Quick Win"})
	}

	data.TotalGaps = len(g.Gaps)
	if g.TotalGaps != nil {
		data.TotalGaps = *g.TotalGaps
	}
	data.Interpretation = firstNonEmpty(g.Interpretation,
		fmt.Sprintf("%d gaps identified, %d priority areas and %d quick wins.", data.TotalGaps, len(g.PriorityAreas), len(g.QuickWins)))
	return data, nil
}

func transformFunder(raw json.RawMessage) (*report.FounderFitData, error) {
	if absent(raw) {
		return nil, nil
	}
	var f struct {
		FundingReadinessScore float64 `json:"funding_readiness_score"`
		RecommendedRoundSize  float64 `json:"recommended_round_size"`
		InvestorMatches       []struct {
			InvestorName string  `json:"investor_name"`
			SectorFocus  string  `json:"sector_focus"`
			FitScore     float64 `json:"fit_score"`
			StageMatch   string  `json:"stage_match"`
		} `json:"investor_matches"`
		Interpretation string `json:"interpretation"`
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}

	data := &report.FounderFitData{
		ReadinessScore:       f.FundingReadinessScore,
		RecommendedRoundSize: f.RecommendedRoundSize,
		InvestorList:         make([]report.Investor, 0, len(f.InvestorMatches)),
	}
	for _, m := range f.InvestorMatches {
		data.InvestorList = append(data.InvestorList, report.Investor{
			Name:   m.InvestorName,
			Thesis: firstNonEmpty(m.SectorFocus, "Not specified."),
			Match:  m.FitScore,
			Stage:  firstNonEmpty(m.StageMatch, "Not specified."),
		})
	}
	data.Interpretation = firstNonEmpty(f.Interpretation,
		fmt.Sprintf("Funding readiness %.0f/100 with %d matched investors.", data.ReadinessScore, len(data.InvestorList)))
	return data, nil
}

func transformTeam(raw json.RawMessage) (*report.TeamData, error) {
	if absent(raw) {
		return nil, nil
	}
	var t struct {
		TeamScore        *float64 `json:"team_score"`
		TeamCompleteness float64  `json:"team_completeness"`
		DiversityScore   float64  `json:"diversity_score"`
		Founders         []struct {
			Name            string  `json:"name"`
			Role            string  `json:"role"`
			ExperienceScore float64 `json:"experience_score"`
			TrackRecord     string  `json:"track_record"`
			Skills          string  `json:"skills"`
		} `json:"founders"`
		Interpretation string `json:"interpretation"`
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, err
	}

	data := &report.TeamData{
		Members:          make([]report.TeamMember, 0, len(t.Founders)),
		TeamCompleteness: t.TeamCompleteness,
		DiversityScore:   t.DiversityScore,
		TeamScore:        scorecard.FromHundredScale(t.TeamCompleteness),
	}
	if t.TeamScore != nil {
		data.TeamScore = toTenScale(*t.TeamScore)
	}
	for i, f := range t.Founders {
		data.Members = append(data.Members, report.TeamMember{
			ID:         fmt.Sprintf("member-%d", i+1),
			Name:       f.Name,
			Role:       firstNonEmpty(f.Role, f.Name),
			Experience: firstNonEmpty(f.TrackRecord, fmt.Sprintf("Experience score %.0f/100.", f.ExperienceScore)),
			Skills:     firstNonEmpty(f.Skills, "Not specified."),
			AvatarID:   fmt.Sprintf("avatar-%d", i+1),
		})
	}
	data.Interpretation = firstNonEmpty(t.Interpretation,
		fmt.Sprintf("Team score %.1f/10 with %d members assessed.", data.TeamScore, len(data.Members)))
	return data, nil
}

func transformStrategicFit(raw json.RawMessage) (*report.StrategicFitData, error) {
	if absent(raw) {
		return nil, nil
	}
	var s struct {
		Pathways       json.RawMessage `json:"pathways"`
		Interpretation string          `json:"interpretation"`
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	entries, err := orderedEntries(s.Pathways)
	if err != nil {
		return nil, fmt.Errorf("pathways: %w", err)
	}

	data := &report.StrategicFitData{Pathways: make([]report.StrategicPathway, 0, len(entries))}
	for i, e := range entries {
		var p struct {
			Name      string   `json:"name"`
			FitScore  *float64 `json:"fit_score"`
			Rationale string   `json:"rationale"`
		}
		if err := json.Unmarshal(e.value, &p); err != nil {
			return nil, fmt.Errorf("pathway %q: %w", e.key, err)
		}
		name := firstNonEmpty(p.Name, scorecard.Humanize(e.key), fmt.Sprintf("Pathway %d", i+1))
		score := DefaultRawScore
		if p.FitScore != nil {
			score = toTenScale(*p.FitScore)
		}
		flag := IngestFlag(score)
		data.Pathways = append(data.Pathways, report.StrategicPathway{
			ID:        firstNonEmpty(e.key, scorecard.ToSnakeCase(name)),
			Pathway:   name,
			Score:     score,
			Flag:      string(flag),
			Rationale: firstNonEmpty(p.Rationale, fmt.Sprintf("%s fit rated %s.", name, flag)),
		})
	}
	data.Interpretation = firstNonEmpty(s.Interpretation, fmt.Sprintf("%d strategic pathways assessed.", len(data.Pathways)))
	return data, nil
}

// ==========================
// Helpers
// ==========================

type entry struct {
	key   string
	value json.RawMessage
}

// orderedEntries decodes an object into its members in document order, or an
// array into its elements with empty keys. Absent or null yields nil.
func orderedEntries(raw json.RawMessage) ([]entry, error) {
	t := bytes.TrimSpace(raw)
	if absent(t) {
		return nil, nil
	}

	switch t[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(t, &items); err != nil {
			return nil, err
		}
		out := make([]entry, len(items))
		for i, item := range items {
			out[i] = entry{value: item}
		}
		return out, nil
	case '{':
		dec := json.NewDecoder(bytes.NewReader(t))
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		out := []entry{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected token %v", tok)
			}
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return nil, err
			}
			out = append(out, entry{key: key, value: value})
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected object or array")
}

// toTenScale reads values above 10 as 0–100 and clamps to [0, 10].
func toTenScale(v float64) float64 {
	if v > 10 {
		return scorecard.FromHundredScale(v)
	}
	return scorecard.ClampScore(v)
}

func unitInterval(v float64) float64 {
	return scorecard.ClampScore(v*10) / 10
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
