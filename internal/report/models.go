// Package report holds the AnalysisReport schema and its storage: the
// single-slot session cache and the archive/index of locked What-If snapshots.
package report

import (
	"encoding/json"
	"fmt"
)

// Module identifies an analysis module. The string values are the keys used
// by the What-If score tables and the persisted adjustedScores envelope.
type Module string

const (
	ModuleTCA          Module = "tca"
	ModuleRisk         Module = "risk"
	ModuleMacro        Module = "macro"
	ModuleBenchmark    Module = "benchmark"
	ModuleGrowth       Module = "growth"
	ModuleGap          Module = "gap"
	ModuleFounderFit   Module = "founderFit"
	ModuleTeam         Module = "team"
	ModuleStrategicFit Module = "strategicFit"
)

// Modules lists every module in report order.
var Modules = []Module{
	ModuleTCA, ModuleRisk, ModuleMacro, ModuleBenchmark, ModuleGrowth,
	ModuleGap, ModuleFounderFit, ModuleTeam, ModuleStrategicFit,
}

// ParseModule accepts one of the module ids above.
func ParseModule(s string) (Module, bool) {
	for _, m := range Modules {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// ReportType distinguishes the abbreviated triage report from due diligence.
type ReportType string

const (
	ReportTypeTriage ReportType = "triage"
	ReportTypeDD     ReportType = "dd"
)

// AnalysisReport is the aggregate root produced by one backend analysis.
// A nil module means the module was not run.
type AnalysisReport struct {
	ID                       string            `json:"id,omitempty"`
	Framework                string            `json:"framework,omitempty"`
	ReportType               ReportType        `json:"reportType,omitempty"`
	GeneratedAt              string            `json:"generatedAt,omitempty"`
	InvestmentRecommendation string            `json:"investmentRecommendation,omitempty"`
	TcaData                  *TcaData          `json:"tcaData"`
	RiskData                 *RiskData         `json:"riskData"`
	MacroData                *MacroData        `json:"macroData"`
	BenchmarkData            *BenchmarkData    `json:"benchmarkData"`
	GrowthData               *GrowthData       `json:"growthData"`
	GapData                  *GapData          `json:"gapData"`
	FounderFitData           *FounderFitData   `json:"founderFitData"`
	TeamData                 *TeamData         `json:"teamData"`
	StrategicFitData         *StrategicFitData `json:"strategicFitData"`
	WhatIfAnalysis           *WhatIfAnalysis   `json:"whatIfAnalysis,omitempty"`
}

type TcaData struct {
	Categories     []TcaCategory `json:"categories"`
	CompositeScore float64       `json:"compositeScore"`
	Flag           string        `json:"flag"`
	Summary        string        `json:"summary"`
}

// TcaCategory is one scored category. WeightedScore and Flag are derived.
type TcaCategory struct {
	ID               string  `json:"id"`
	Category         string  `json:"category"`
	RawScore         float64 `json:"rawScore"`
	Weight           float64 `json:"weight"`
	WeightedScore    float64 `json:"weightedScore"`
	Flag             string  `json:"flag"`
	Interpretation   string  `json:"interpretation"`
	Description      string  `json:"description"`
	Strengths        string  `json:"strengths"`
	Concerns         string  `json:"concerns"`
	Pestel           string  `json:"pestel"`
	AIRecommendation string  `json:"aiRecommendation"`
}

type RiskData struct {
	RiskSummary      string     `json:"riskSummary"`
	OverallRiskScore float64    `json:"overallRiskScore"`
	RiskFlags        []RiskFlag `json:"riskFlags"`
}

// RiskFlag is a domain-level risk entry. Score is only set once a What-If
// edit has re-derived the flag.
type RiskFlag struct {
	Domain           string   `json:"domain"`
	Flag             string   `json:"flag"`
	Trigger          string   `json:"trigger"`
	Description      string   `json:"description"`
	Impact           string   `json:"impact"`
	Mitigation       string   `json:"mitigation"`
	AIRecommendation string   `json:"aiRecommendation"`
	Thresholds       string   `json:"thresholds"`
	Likelihood       *float64 `json:"likelihood,omitempty"`
	ImpactScore      *float64 `json:"impactScore,omitempty"`
	Score            *float64 `json:"score,omitempty"`
}

type MacroData struct {
	PestelDashboard   Pestel   `json:"pestelDashboard"`
	CompositeScore    float64  `json:"compositeScore"`
	TrendOverlayScore float64  `json:"trendOverlayScore"`
	Summary           string   `json:"summary"`
	SectorOutlook     string   `json:"sectorOutlook"`
	TrendSignals      []string `json:"trendSignals"`
}

// Pestel holds the six alignment scores on the 0–10 scale.
type Pestel struct {
	Political     float64 `json:"political"`
	Economic      float64 `json:"economic"`
	Social        float64 `json:"social"`
	Technological float64 `json:"technological"`
	Environmental float64 `json:"environmental"`
	Legal         float64 `json:"legal"`
}

// PestelFactors lists the factor ids in dashboard order.
var PestelFactors = []string{"political", "economic", "social", "technological", "environmental", "legal"}

// Get returns the factor score by id.
func (p Pestel) Get(factor string) (float64, bool) {
	switch factor {
	case "political":
		return p.Political, true
	case "economic":
		return p.Economic, true
	case "social":
		return p.Social, true
	case "technological":
		return p.Technological, true
	case "environmental":
		return p.Environmental, true
	case "legal":
		return p.Legal, true
	}
	return 0, false
}

// Set assigns the factor score by id and reports whether the id is known.
func (p *Pestel) Set(factor string, v float64) bool {
	switch factor {
	case "political":
		p.Political = v
	case "economic":
		p.Economic = v
	case "social":
		p.Social = v
	case "technological":
		p.Technological = v
	case "environmental":
		p.Environmental = v
	case "legal":
		p.Legal = v
	default:
		return false
	}
	return true
}

type BenchmarkData struct {
	BenchmarkOverlay   []BenchmarkMetric  `json:"benchmarkOverlay"`
	CompetitorAnalysis []CompetitorMetric `json:"competitorAnalysis"`
	OverallPercentile  float64            `json:"overallPercentile"`
	PerformanceSummary string             `json:"performanceSummary"`
	OverlayScore       float64            `json:"overlayScore"`
}

// BenchmarkMetric scores are on the 0–100 percentile scale.
type BenchmarkMetric struct {
	Category   string  `json:"category"`
	Score      float64 `json:"score"`
	Avg        float64 `json:"avg"`
	Percentile float64 `json:"percentile"`
	Deviation  float64 `json:"deviation"`
}

type CompetitorMetric struct {
	Metric      string  `json:"metric"`
	Startup     float64 `json:"startup"`
	CompetitorA float64 `json:"competitorA"`
	CompetitorB float64 `json:"competitorB"`
}

type GrowthData struct {
	GrowthTier     float64 `json:"growthTier"`
	Classification string  `json:"classification"`
	Interpretation string  `json:"interpretation"`
}

type GapData struct {
	Heatmap        []GapItem     `json:"heatmap"`
	Roadmap        []RoadmapItem `json:"roadmap"`
	TotalGaps      int           `json:"totalGaps"`
	Interpretation string        `json:"interpretation"`
}

type GapItem struct {
	Category  string  `json:"category"`
	Gap       float64 `json:"gap"`
	Priority  string  `json:"priority"`
	Trend     float64 `json:"trend"`
	Direction string  `json:"direction"`
}

type RoadmapItem struct {
	Area   string `json:"area"`
	Action string `json:"action"`
	Type   string `json:"type"`
}

type FounderFitData struct {
	ReadinessScore       float64    `json:"readinessScore"` // 0–100
	RecommendedRoundSize float64    `json:"recommendedRoundSize"`
	InvestorList         []Investor `json:"investorList"`
	Interpretation       string     `json:"interpretation"`
}

type Investor struct {
	Name   string  `json:"name"`
	Thesis string  `json:"thesis"`
	Match  float64 `json:"match"`
	Stage  string  `json:"stage"`
}

type TeamData struct {
	Members          []TeamMember `json:"members"`
	TeamScore        float64      `json:"teamScore"` // 0–10
	TeamCompleteness float64      `json:"teamCompleteness"`
	DiversityScore   float64      `json:"diversityScore"`
	Interpretation   string       `json:"interpretation"`
}

type TeamMember struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Experience string `json:"experience"`
	Skills     string `json:"skills"`
	AvatarID   string `json:"avatarId"`
}

type StrategicFitData struct {
	Pathways       []StrategicPathway `json:"pathways"`
	Interpretation string             `json:"interpretation"`
}

// StrategicPathway scores are on the 0–10 scale.
type StrategicPathway struct {
	ID        string  `json:"id"`
	Pathway   string  `json:"pathway"`
	Score     float64 `json:"score"`
	Flag      string  `json:"flag"`
	Rationale string  `json:"rationale"`
}

// ScoreRow is one editable What-If value.
type ScoreRow struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// AdjustedScores groups What-If rows by module.
type AdjustedScores map[Module][]ScoreRow

// Clone returns an independent copy.
func (a AdjustedScores) Clone() AdjustedScores {
	if a == nil {
		return nil
	}
	out := make(AdjustedScores, len(a))
	for m, rows := range a {
		out[m] = append([]ScoreRow(nil), rows...)
	}
	return out
}

// WhatIfAnalysis is the envelope written when a What-If session locks.
type WhatIfAnalysis struct {
	AdjustedScores        AdjustedScores `json:"adjustedScores"`
	OverallCompositeScore float64        `json:"overallCompositeScore"`
	StdDev                float64        `json:"stdDev"`
	TcaCompositeScore     float64        `json:"tcaCompositeScore"`
	Timestamp             string         `json:"timestamp"`
	ModulesAnalyzed       int            `json:"modulesAnalyzed"`
	Locked                bool           `json:"locked"`
}

// IsLocked reports whether the report carries a locked What-If snapshot.
func (r *AnalysisReport) IsLocked() bool {
	return r != nil && r.WhatIfAnalysis != nil && r.WhatIfAnalysis.Locked
}

// HasTcaData reports whether the TCA module ran and produced categories.
func (r *AnalysisReport) HasTcaData() bool {
	return r != nil && r.TcaData != nil && len(r.TcaData.Categories) > 0
}

// DeepCopy returns a copy sharing no memory with r.
func (r *AnalysisReport) DeepCopy() (*AnalysisReport, error) {
	if r == nil {
		return nil, nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("copy report: %w", err)
	}
	var out AnalysisReport
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("copy report: %w", err)
	}
	return &out, nil
}

// Decode parses a persisted snapshot.
func Decode(data []byte) (*AnalysisReport, error) {
	var r AnalysisReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}
