// internal/workers/scorecard/calculate-score/handler_test.go
package calculatescore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tca-workers/internal/common/errors"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/scorecard"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	cfg := LoadConfig()
	cfg.Timeout = 5 * time.Second
	return cfg
}

func boolPtr(b bool) *bool { return &b }

func createTestInput() *Input {
	return &Input{
		Framework: "general",
		Categories: []CategoryInput{
			{ID: "leadership", Name: "Leadership", RawScore: 8, Weight: 50},
			{ID: "pmf", Name: "Product-Market Fit", RawScore: 6, Weight: 50},
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		config         func() *Config
		input          func() *Input
		validateOutput func(t *testing.T, out *Output)
	}{
		{
			name:   "two halves",
			config: createTestConfig,
			input:  createTestInput,
			validateOutput: func(t *testing.T, out *Output) {
				assert.InDelta(t, 7.0, out.CompositeScore, 1e-9)
				assert.Equal(t, scorecard.FlagYellow, out.Flag)
				assert.Equal(t, "Moderate; needs traction", out.FlagLabel)
				assert.Equal(t, "good", out.Band)
				assert.InDelta(t, 4.0, out.Categories[0].WeightedScore, 1e-9)
				assert.Equal(t, scorecard.FlagGreen, out.Categories[0].Flag)
				assert.Equal(t, scorecard.FlagRed, out.Categories[1].Flag)
				assert.Equal(t, 1, out.FlagCounts[scorecard.FlagGreen])
				assert.Equal(t, 0, out.FlagCounts[scorecard.FlagYellow])
				assert.Equal(t, 1, out.FlagCounts[scorecard.FlagRed])
				assert.True(t, out.WeightBalanced)

				require.Len(t, out.Scenarios, 3)
				assert.Equal(t, "optimistic", out.Scenarios[0].Name)
				assert.InDelta(t, 8.4, out.Scenarios[0].Score, 1e-9)
				assert.Equal(t, scorecard.FlagGreen, out.Scenarios[0].Flag)
				assert.InDelta(t, 5.6, out.Scenarios[2].Score, 1e-9)
				assert.Equal(t, scorecard.FlagRed, out.Scenarios[2].Flag)
			},
		},
		{
			name:   "normalize unbalanced weights",
			config: createTestConfig,
			input: func() *Input {
				return &Input{
					Framework: "general",
					Normalize: true,
					Categories: []CategoryInput{
						{ID: "a", RawScore: 9, Weight: 1},
						{ID: "b", RawScore: 9, Weight: 1},
					},
				}
			},
			validateOutput: func(t *testing.T, out *Output) {
				assert.InDelta(t, 50.0, out.Categories[0].Weight, 1e-9)
				assert.InDelta(t, 9.0, out.CompositeScore, 1e-9)
				assert.Equal(t, scorecard.FlagGreen, out.Flag)
				assert.Equal(t, "excellent", out.Band)
				assert.True(t, out.WeightBalanced)
			},
		},
		{
			name:   "inapplicable category ignored",
			config: createTestConfig,
			input: func() *Input {
				in := createTestInput()
				in.Categories = append(in.Categories, CategoryInput{ID: "exit", RawScore: 1, Weight: 10, Applicable: boolPtr(false)})
				return in
			},
			validateOutput: func(t *testing.T, out *Output) {
				assert.InDelta(t, 7.0, out.CompositeScore, 1e-9)
				assert.Equal(t, 0.0, out.Categories[2].Weight)
				assert.Equal(t, 0.0, out.Categories[2].WeightedScore)
				assert.Equal(t, 1, out.FlagCounts[scorecard.FlagRed])
			},
		},
		{
			name:   "scores clamped",
			config: createTestConfig,
			input: func() *Input {
				return &Input{Framework: "general", Categories: []CategoryInput{{ID: "a", RawScore: 15, Weight: 100}}}
			},
			validateOutput: func(t *testing.T, out *Output) {
				assert.Equal(t, 10.0, out.Categories[0].RawScore)
				assert.InDelta(t, 10.0, out.CompositeScore, 1e-9)
			},
		},
		{
			name: "framework thresholds from config",
			config: func() *Config {
				cfg := createTestConfig()
				cfg.Thresholds["medtech"] = scorecard.Thresholds{Green: 9, Yellow: 7}
				return cfg
			},
			input: func() *Input {
				return &Input{Framework: "medtech", Categories: []CategoryInput{{ID: "a", RawScore: 8, Weight: 100}}}
			},
			validateOutput: func(t *testing.T, out *Output) {
				assert.Equal(t, "medtech", out.Framework)
				assert.Equal(t, scorecard.FlagYellow, out.Flag)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.config(), logger.NewTestLogger(t))
			out, err := h.Execute(context.Background(), tt.input())
			require.NoError(t, err)
			tt.validateOutput(t, out)
		})
	}
}

func TestHandler_Execute_UnbalancedWithoutNormalize(t *testing.T) {
	h := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{
		Framework:  "general",
		Categories: []CategoryInput{{ID: "a", RawScore: 8, Weight: 40}},
	})
	require.NoError(t, err)
	assert.False(t, out.WeightBalanced)
	assert.InDelta(t, 3.2, out.CompositeScore, 1e-9)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_InvalidFramework(t *testing.T) {
	h := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	in := createTestInput()
	in.Framework = "biotech"

	_, err := h.Execute(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidFramework))
}

func TestInputSchema(t *testing.T) {
	assert.True(t, schema.ValidateJSON(`{"framework": "general", "categories": [{"id": "a", "rawScore": 7, "weight": 100}]}`).Valid)
	assert.False(t, schema.ValidateJSON(`{"framework": "general", "categories": []}`).Valid)
	assert.False(t, schema.ValidateJSON(`{"framework": "general", "categories": [{"id": "a"}]}`).Valid)
}
