package scorecard

// Framework selects a weight/threshold configuration.
type Framework string

const (
	FrameworkGeneral Framework = "general"
	FrameworkMedtech Framework = "medtech"
)

// Frameworks lists the supported frameworks in export order.
var Frameworks = []Framework{FrameworkGeneral, FrameworkMedtech}

// ParseFramework accepts "general" or "medtech".
func ParseFramework(s string) (Framework, bool) {
	switch Framework(s) {
	case FrameworkGeneral, FrameworkMedtech:
		return Framework(s), true
	}
	return "", false
}

type categoryDefault struct {
	id, name         string
	general, medtech float64
	generalNA, medNA bool
}

// Medtech defaults sum to 95 until normalized; that is how the table ships.
var categoryDefaults = []categoryDefault{
	{"leadership", "Leadership", 20, 15, false, false},
	{"pmf", "Product-Market Fit / Product Quality", 20, 15, false, false},
	{"team", "Team Strength", 10, 10, false, false},
	{"tech", "Technology & IP", 10, 10, false, false},
	{"financials", "Business Model & Financials", 10, 10, false, false},
	{"gtm", "Go-to-Market Strategy", 10, 5, false, false},
	{"competition", "Competition & Moat", 5, 5, false, false},
	{"market", "Market Potential", 5, 5, false, false},
	{"traction", "Traction", 5, 5, false, false},
	{"scalability", "Scalability", 2.5, 0, false, true},
	{"risk", "Risk Assessment", 2.5, 0, false, true},
	{"exit", "Exit Potential", 0, 0, true, true},
	{"regulatory", "Regulatory", 0, 15, true, false},
}

// DefaultWeights returns a fresh copy of the framework's shipped weight table.
// Unknown frameworks get the general table.
func DefaultWeights(f Framework) WeightTable {
	out := make(WeightTable, 0, len(categoryDefaults))
	for _, d := range categoryDefaults {
		e := WeightEntry{ID: d.id, Name: d.name}
		if f == FrameworkMedtech {
			e.Weight, e.Applicable = d.medtech, !d.medNA
		} else {
			e.Weight, e.Applicable = d.general, !d.generalNA
		}
		out = append(out, e)
	}
	return out
}

// ThresholdSet resolves classification tables by framework or module key.
type ThresholdSet map[string]Thresholds

// For returns the table for key, falling back to DefaultThresholds.
func (s ThresholdSet) For(key string) Thresholds {
	if t, ok := s[key]; ok {
		return t
	}
	return DefaultThresholds
}
