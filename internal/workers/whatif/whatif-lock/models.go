// internal/workers/whatif/whatif-lock/models.go
package whatiflock

import (
	"tca-workers/internal/report"
)

// Input carries the final edits. An empty set locks the stored values as-is.
type Input struct {
	SessionKey     string                `json:"sessionKey,omitempty"`
	AdjustedScores report.AdjustedScores `json:"adjustedScores,omitempty"`
}

type Output struct {
	SessionKey            string   `json:"sessionKey"`
	SnapshotID            string   `json:"snapshotId"`
	LockedAt              string   `json:"lockedAt"`
	TcaCompositeScore     float64  `json:"tcaCompositeScore"`
	TcaFlag               string   `json:"tcaFlag"`
	ReadinessBand         string   `json:"readinessBand"`
	OverallCompositeScore float64  `json:"overallCompositeScore"`
	StdDev                float64  `json:"stdDev"`
	ModulesAnalyzed       int      `json:"modulesAnalyzed"`
	Archived              bool     `json:"archived"`
	Indexed               bool     `json:"indexed"`
	SkippedRows           []string `json:"skippedRows"`
}

var inputSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"sessionKey": map[string]interface{}{"type": "string", "minLength": 1},
		"adjustedScores": map[string]interface{}{
			"type": "object",
			"additionalProperties": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"id", "score"},
					"properties": map[string]interface{}{
						"id":    map[string]interface{}{"type": "string", "minLength": 1},
						"score": map[string]interface{}{"type": "number"},
					},
				},
			},
		},
	},
}
