// internal/workers/analysis/run-comprehensive-analysis/models.go
package runanalysis

type Input struct {
	Framework   string                 `json:"framework"`
	ReportType  string                 `json:"reportType,omitempty"`
	SessionKey  string                 `json:"sessionKey,omitempty"`
	CompanyData map[string]interface{} `json:"companyData,omitempty"`
}

type Output struct {
	AnalysisID               string   `json:"analysisId"`
	SessionKey               string   `json:"sessionKey"`
	Framework                string   `json:"framework"`
	ReportType               string   `json:"reportType"`
	TcaCompositeScore        float64  `json:"tcaCompositeScore"`
	TcaFlag                  string   `json:"tcaFlag"`
	InvestmentRecommendation string   `json:"investmentRecommendation,omitempty"`
	ModulesAvailable         []string `json:"modulesAvailable"`
	GeneratedAt              string   `json:"generatedAt"`
}

var inputSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"framework"},
	"properties": map[string]interface{}{
		"framework": map[string]interface{}{"type": "string"},
		"reportType": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"triage", "dd"},
		},
		"sessionKey":  map[string]interface{}{"type": "string", "minLength": 1},
		"companyData": map[string]interface{}{"type": "object"},
	},
}
