// internal/workers/scorecard/normalize-weights/models.go
package normalizeweights

import "tca-workers/internal/scorecard"

// Input carries either an explicit weight table or a framework whose default
// table is used. ToggleID, when set, flips that category before normalizing.
type Input struct {
	Framework string                `json:"framework"`
	Weights   scorecard.WeightTable `json:"weights,omitempty"`
	ToggleID  string                `json:"toggleId,omitempty"`
}

type Output struct {
	Framework       string                `json:"framework"`
	Weights         scorecard.WeightTable `json:"weights"`
	TotalWeight     float64               `json:"totalWeight"`
	Balanced        bool                  `json:"balanced"`
	ApplicableCount int                   `json:"applicableCount"`
}

var inputSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"framework"},
	"properties": map[string]interface{}{
		"framework": map[string]interface{}{"type": "string"},
		"toggleId": map[string]interface{}{"type": "string"},
		"weights": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"id", "weight"},
				"properties": map[string]interface{}{
					"id":         map[string]interface{}{"type": "string", "minLength": 1},
					"name":       map[string]interface{}{"type": "string"},
					"weight":     map[string]interface{}{"type": "number"},
					"applicable": map[string]interface{}{"type": "boolean"},
				},
			},
		},
	},
}
