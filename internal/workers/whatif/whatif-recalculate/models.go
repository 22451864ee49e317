// internal/workers/whatif/whatif-recalculate/models.go
package whatifrecalculate

import (
	"tca-workers/internal/report"
	"tca-workers/internal/whatif"
)

// Input carries the edits to apply on top of the stored report. Omitted rows
// keep their stored values.
type Input struct {
	SessionKey     string                `json:"sessionKey,omitempty"`
	AdjustedScores report.AdjustedScores `json:"adjustedScores,omitempty"`
}

type Output struct {
	SessionKey        string                `json:"sessionKey"`
	State             whatif.State          `json:"state"`
	AdjustedScores    report.AdjustedScores `json:"adjustedScores"`
	Summary           whatif.Summary        `json:"summary"`
	TcaCompositeScore float64               `json:"tcaCompositeScore"`
	TcaFlag           string                `json:"tcaFlag"`
	ReadinessBand     string                `json:"readinessBand"`
	Scenarios         []whatif.Scenario     `json:"scenarios"`
	SkippedRows       []string              `json:"skippedRows"`
}

var scoreRowSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"id", "score"},
	"properties": map[string]interface{}{
		"id":       map[string]interface{}{"type": "string", "minLength": 1},
		"category": map[string]interface{}{"type": "string"},
		"score":    map[string]interface{}{"type": "number"},
	},
}

var inputSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"sessionKey": map[string]interface{}{"type": "string", "minLength": 1},
		"adjustedScores": map[string]interface{}{
			"type": "object",
			"additionalProperties": map[string]interface{}{
				"type":  "array",
				"items": scoreRowSchema,
			},
		},
	},
}
