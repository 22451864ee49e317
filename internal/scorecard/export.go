package scorecard

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	ExportVersion = "3.2"
	ScoreScale    = "1-10"
	Formula       = "∑ (Category Weight * Category Score)"
)

// ConfigExport is the human-diffable dump of the weight and threshold tables.
type ConfigExport struct {
	TCAScorecard ScorecardExport `json:"tca_scorecard"`
}

type ScorecardExport struct {
	Version    string                        `json:"version"`
	ScoreScale string                        `json:"score_scale"`
	Formula    string                        `json:"formula"`
	ColorLogic ColorLogic                    `json:"color_logic"`
	Weights    map[string]map[string]float64 `json:"weights"`
}

type ColorLogic struct {
	Green  string `json:"green"`
	Yellow string `json:"yellow"`
	Red    string `json:"red"`
}

var (
	snakeSeparators = regexp.MustCompile(`[\s/&]+`)
	snakeInvalid    = regexp.MustCompile(`[^a-z0-9_]`)
)

// ToSnakeCase lowercases name, collapses whitespace, '/' and '&' runs into
// '_' and drops every other non [a-z0-9_] character.
// "Product-Market Fit / Product Quality" becomes "productmarket_fit_product_quality".
func ToSnakeCase(name string) string {
	s := strings.ToLower(name)
	s = snakeSeparators.ReplaceAllString(s, "_")
	return snakeInvalid.ReplaceAllString(s, "")
}

// Humanize turns an identifier such as "growth_metrics" into "Growth Metrics",
// upper-casing the first rune of each word.
func Humanize(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// BuildExport renders tables keyed by framework. Entries whose names collide
// after snake-casing keep the last weight.
func BuildExport(tables map[Framework]WeightTable, thresholds Thresholds) ConfigExport {
	ranges := thresholds.Ranges()
	weights := make(map[string]map[string]float64, len(tables))
	for framework, table := range tables {
		entries := make(map[string]float64, len(table))
		for _, e := range table {
			w := SanitizeWeight(e.Weight)
			if !e.Applicable {
				w = 0
			}
			entries[ToSnakeCase(e.Name)] = w
		}
		weights[string(framework)] = entries
	}

	return ConfigExport{
		TCAScorecard: ScorecardExport{
			Version:    ExportVersion,
			ScoreScale: ScoreScale,
			Formula:    Formula,
			ColorLogic: ColorLogic{
				Green:  ranges[FlagGreen],
				Yellow: ranges[FlagYellow],
				Red:    ranges[FlagRed],
			},
			Weights: weights,
		},
	}
}

// DefaultExport exports the shipped tables for every framework.
func DefaultExport() ConfigExport {
	tables := make(map[Framework]WeightTable, len(Frameworks))
	for _, f := range Frameworks {
		tables[f] = DefaultWeights(f)
	}
	return BuildExport(tables, DefaultThresholds)
}

// MarshalIndent encodes the export with two-space indentation.
func (c ConfigExport) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
