package scorecard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholds_Classify(t *testing.T) {
	tests := []struct {
		name       string
		thresholds Thresholds
		score      float64
		expected   Flag
	}{
		{"green boundary belongs to green", DefaultThresholds, 8.0, FlagGreen},
		{"top of scale", DefaultThresholds, 10, FlagGreen},
		{"above scale stays green", DefaultThresholds, 42, FlagGreen},
		{"just below green", DefaultThresholds, 7.99, FlagYellow},
		{"yellow boundary belongs to yellow", DefaultThresholds, 6.5, FlagYellow},
		{"just below yellow", DefaultThresholds, 6.49, FlagRed},
		{"zero", DefaultThresholds, 0, FlagRed},
		{"negative", DefaultThresholds, -4, FlagRed},
		{"NaN", DefaultThresholds, math.NaN(), FlagRed},
		{"risk table green", Thresholds{Green: 7, Yellow: 5}, 7, FlagGreen},
		{"risk table yellow", Thresholds{Green: 7, Yellow: 5}, 5, FlagYellow},
		{"risk table red", Thresholds{Green: 7, Yellow: 5}, 4.9, FlagRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.thresholds.Classify(tt.score))
		})
	}
}

func TestThresholds_Monotonic(t *testing.T) {
	tables := []Thresholds{DefaultThresholds, {Green: 7, Yellow: 5}, {Green: 9.5, Yellow: 2}}
	for _, table := range tables {
		prev := table.Classify(0).Rank()
		for s := 0.0; s <= 10.0; s += 0.01 {
			rank := table.Classify(s).Rank()
			assert.GreaterOrEqual(t, rank, prev, "score %.2f with %+v", s, table)
			prev = rank
		}
	}
}

func TestThresholds_Ranges(t *testing.T) {
	ranges := DefaultThresholds.Ranges()
	assert.Equal(t, "8.0 – 10.0", ranges[FlagGreen])
	assert.Equal(t, "6.5 – 7.9", ranges[FlagYellow])
	assert.Equal(t, "< 6.5", ranges[FlagRed])
}

func TestFlag_Helpers(t *testing.T) {
	assert.Equal(t, "Strong & Investable", FlagGreen.Label())
	assert.Equal(t, "Moderate; needs traction", FlagYellow.Label())
	assert.Equal(t, "High risk / weak readiness", FlagRed.Label())

	f, ok := ParseFlag("yellow")
	assert.True(t, ok)
	assert.Equal(t, FlagYellow, f)
	_, ok = ParseFlag("amber")
	assert.False(t, ok)

	counts := CountFlags([]Flag{FlagRed, FlagGreen, FlagRed, "amber"})
	assert.Equal(t, map[Flag]int{FlagGreen: 1, FlagYellow: 0, FlagRed: 2}, counts)
}

func TestReadinessBand(t *testing.T) {
	assert.Equal(t, "excellent", ReadinessBand(8.5))
	assert.Equal(t, "good", ReadinessBand(7.0))
	assert.Equal(t, "acceptable", ReadinessBand(5.5))
	assert.Equal(t, "needs_improvement", ReadinessBand(5.49))
}
