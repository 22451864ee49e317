package backend

import (
	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"
)

// Sector pairs the current and legacy sector keys the backend expects.
type Sector struct {
	Key    string
	Legacy string
}

var sectors = map[scorecard.Framework]Sector{
	scorecard.FrameworkGeneral: {Key: "technology_others", Legacy: "tech"},
	scorecard.FrameworkMedtech: {Key: "life_sciences_medical", Legacy: "med_life"},
}

// SectorFor maps a framework onto its backend sector.
func SectorFor(f scorecard.Framework) Sector {
	if s, ok := sectors[f]; ok {
		return s
	}
	return sectors[scorecard.FrameworkGeneral]
}

// AnalysisRequest is the body of POST /api/analysis/comprehensive.
type AnalysisRequest struct {
	Framework         string                 `json:"framework"`
	Sector            string                 `json:"sector"`
	LegacySector      string                 `json:"legacySector"`
	ReportType        report.ReportType      `json:"reportType"`
	CompanyData       map[string]interface{} `json:"company_data"`
	TcaInput          TcaInput               `json:"tcaInput"`
	RiskInput         RiskInput              `json:"riskInput"`
	MacroInput        MacroInput             `json:"macroInput"`
	BenchmarkInput    BenchmarkInput         `json:"benchmarkInput"`
	GrowthInput       map[string]interface{} `json:"growthInput"`
	GapInput          map[string]interface{} `json:"gapInput"`
	FounderFitInput   map[string]interface{} `json:"founderFitInput"`
	TeamInput         map[string]interface{} `json:"teamInput"`
	StrategicFitInput map[string]interface{} `json:"strategicFitInput"`
}

type TcaInput struct {
	FounderQuestionnaire string `json:"founderQuestionnaire"`
	UploadedPitchDecks   string `json:"uploadedPitchDecks"`
	Financials           string `json:"financials"`
	Framework            string `json:"framework"`
}

type RiskInput struct {
	UploadedDocuments    string `json:"uploadedDocuments"`
	ComplianceChecklists string `json:"complianceChecklists"`
	Framework            string `json:"framework"`
}

type MacroInput struct {
	CompanyDescription string `json:"companyDescription"`
	NewsFeedData       string `json:"newsFeedData"`
	TrendDatabaseData  string `json:"trendDatabaseData"`
	Sector             string `json:"sector"`
}

type BenchmarkInput struct {
	Sector        string           `json:"sector"`
	Stage         string           `json:"stage"`
	BusinessModel string           `json:"businessModel"`
	Metrics       BenchmarkMetrics `json:"metrics"`
}

type BenchmarkMetrics struct {
	RevenueGrowthRate  float64 `json:"revenueGrowthRate"`
	CustomerGrowthRate float64 `json:"customerGrowthRate"`
	LtvCacRatio        float64 `json:"ltvCacRatio"`
	NetRetention       float64 `json:"netRetention"`
	BurnMultiple       float64 `json:"burnMultiple"`
	RunwayMonths       float64 `json:"runwayMonths"`
}

// NewAnalysisRequest builds a request for framework with the standard
// per-module input stubs. companyData is passed through untouched; a
// "companyDescription" entry, when present, replaces the macro stub text.
func NewAnalysisRequest(framework scorecard.Framework, reportType report.ReportType, companyData map[string]interface{}) AnalysisRequest {
	sector := SectorFor(framework)
	if reportType == "" {
		reportType = report.ReportTypeTriage
	}
	if companyData == nil {
		companyData = map[string]interface{}{}
	}

	description := "A B2B SaaS company using AI to optimize supply chains."
	if d, ok := companyData["companyDescription"].(string); ok && d != "" {
		description = d
	}

	return AnalysisRequest{
		Framework:    string(framework),
		Sector:       sector.Key,
		LegacySector: sector.Legacy,
		ReportType:   reportType,
		CompanyData:  companyData,
		TcaInput: TcaInput{
			FounderQuestionnaire: "Our team has extensive experience in AI and SaaS. We are solving a major pain point in the market.",
			UploadedPitchDecks:   "Pitch deck contains market analysis, product roadmap, and financial projections.",
			Financials:           "We have secured $500k in pre-seed funding and have a 12-month runway.",
			Framework:            string(framework),
		},
		RiskInput: RiskInput{
			UploadedDocuments:    "Business plan, financial statements, and IP registrations.",
			ComplianceChecklists: "GDPR, CCPA, and industry-specific regulations checklist reviewed.",
			Framework:            string(framework),
		},
		MacroInput: MacroInput{
			CompanyDescription: description,
			NewsFeedData:       "Recent articles on supply chain disruptions and the rise of AI in logistics.",
			TrendDatabaseData:  "Data from World Bank and IMF on global trade and technology adoption.",
			Sector:             string(framework),
		},
		BenchmarkInput: BenchmarkInput{
			Sector:        sector.Legacy,
			Stage:         "seed",
			BusinessModel: "saas",
			Metrics: BenchmarkMetrics{
				RevenueGrowthRate:  1.2,
				CustomerGrowthRate: 0.15,
				LtvCacRatio:        3.5,
				NetRetention:       1.1,
				BurnMultiple:       1.2,
				RunwayMonths:       18,
			},
		},
		GrowthInput:       map[string]interface{}{},
		GapInput:          map[string]interface{}{},
		FounderFitInput:   map[string]interface{}{},
		TeamInput:         map[string]interface{}{},
		StrategicFitInput: map[string]interface{}{},
	}
}
