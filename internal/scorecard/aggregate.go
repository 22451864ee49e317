package scorecard

// ScoredCategory is a category with its raw score and the fields derived from it.
type ScoredCategory struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	RawScore      float64 `json:"rawScore"`
	Weight        float64 `json:"weight"`
	Applicable    bool    `json:"applicable"`
	WeightedScore float64 `json:"weightedScore"`
	Flag          Flag    `json:"flag"`
}

// Result is the outcome of one aggregation pass.
type Result struct {
	Categories     []ScoredCategory `json:"categories"`
	CompositeScore float64          `json:"compositeScore"`
	Flag           Flag             `json:"flag"`
	Band           string           `json:"band"`
}

// WeightedScore is rawScore * weight / 100 on sanitized inputs.
func WeightedScore(rawScore, weight float64) float64 {
	return ClampScore(rawScore) * SanitizeWeight(weight) / 100
}

// Aggregate recomputes every category's weighted score and flag and sums the
// applicable weighted scores into a 0–10 composite. Inapplicable categories
// contribute nothing and carry weight 0. No applicable categories yields 0.
func Aggregate(categories []ScoredCategory, thresholds Thresholds) Result {
	out := make([]ScoredCategory, len(categories))
	composite := 0.0
	for i, c := range categories {
		c.RawScore = ClampScore(c.RawScore)
		if !c.Applicable {
			c.Weight = 0
		}
		c.Weight = SanitizeWeight(c.Weight)
		c.WeightedScore = WeightedScore(c.RawScore, c.Weight)
		c.Flag = thresholds.Classify(c.RawScore)
		if c.Applicable {
			composite += c.WeightedScore
		}
		out[i] = c
	}

	return Result{
		Categories:     out,
		CompositeScore: composite,
		Flag:           thresholds.Classify(composite),
		Band:           ReadinessBand(composite),
	}
}
