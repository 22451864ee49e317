// internal/workers/scorecard/calculate-score/models.go
package calculatescore

import (
	"tca-workers/internal/scorecard"
	"tca-workers/internal/whatif"
)

// Input lists scored categories. With Normalize set the weights are first
// rescaled so applicable weights sum to 100.
type Input struct {
	Framework  string          `json:"framework"`
	Categories []CategoryInput `json:"categories"`
	Normalize  bool            `json:"normalize,omitempty"`
}

// CategoryInput is applicable unless Applicable is explicitly false.
type CategoryInput struct {
	ID         string  `json:"id"`
	Name       string  `json:"name,omitempty"`
	RawScore   float64 `json:"rawScore"`
	Weight     float64 `json:"weight"`
	Applicable *bool   `json:"applicable,omitempty"`
}

func (c CategoryInput) scored() scorecard.ScoredCategory {
	return scorecard.ScoredCategory{
		ID:         c.ID,
		Name:       c.Name,
		RawScore:   c.RawScore,
		Weight:     c.Weight,
		Applicable: c.Applicable == nil || *c.Applicable,
	}
}

type Output struct {
	Framework      string                     `json:"framework"`
	Categories     []scorecard.ScoredCategory `json:"categories"`
	CompositeScore float64                    `json:"compositeScore"`
	Flag           scorecard.Flag             `json:"flag"`
	FlagLabel      string                     `json:"flagLabel"`
	Band           string                     `json:"band"`
	FlagCounts     map[scorecard.Flag]int     `json:"flagCounts"`
	Scenarios      []whatif.Scenario          `json:"scenarios"`
	WeightBalanced bool                       `json:"weightBalanced"`
}

var inputSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"framework", "categories"},
	"properties": map[string]interface{}{
		"framework": map[string]interface{}{"type": "string"},
		"normalize": map[string]interface{}{"type": "boolean"},
		"categories": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"id", "rawScore", "weight"},
				"properties": map[string]interface{}{
					"id":         map[string]interface{}{"type": "string", "minLength": 1},
					"name":       map[string]interface{}{"type": "string"},
					"rawScore":   map[string]interface{}{"type": "number"},
					"weight":     map[string]interface{}{"type": "number"},
					"applicable": map[string]interface{}{"type": "boolean"},
				},
			},
		},
	},
}
