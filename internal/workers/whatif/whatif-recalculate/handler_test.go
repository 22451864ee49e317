// internal/workers/whatif/whatif-recalculate/handler_test.go
package whatifrecalculate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tca-workers/internal/common/errors"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"
	"tca-workers/internal/whatif"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	cfg := LoadConfig()
	cfg.Timeout = 5 * time.Second
	return cfg
}

func createTestReport() *report.AnalysisReport {
	return &report.AnalysisReport{
		ID:        "analysis-1",
		Framework: "general",
		TcaData: &report.TcaData{
			Categories: []report.TcaCategory{
				{ID: "leadership", Category: "Leadership", RawScore: 8, Weight: 50, WeightedScore: 4, Flag: "green"},
				{ID: "pmf", Category: "Product-Market Fit", RawScore: 6, Weight: 50, WeightedScore: 3, Flag: "yellow"},
			},
			CompositeScore: 7,
			Flag:           "yellow",
		},
	}
}

func seed(t *testing.T, p report.Provider, key string, r *report.AnalysisReport) {
	t.Helper()
	require.NoError(t, p.ForSession(key).Set(context.Background(), r))
}

func tcaRow(t *testing.T, rows report.AdjustedScores, id string) report.ScoreRow {
	t.Helper()
	for _, r := range rows[report.ModuleTCA] {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("tca row %s missing", id)
	return report.ScoreRow{}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_AppliesEdits(t *testing.T) {
	provider := report.NewMemoryProvider()
	seed(t, provider, "analysisResult", createTestReport())

	h := NewHandler(createTestConfig(), provider, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{
		AdjustedScores: report.AdjustedScores{
			report.ModuleTCA: {{ID: "pmf", Score: 9}, {ID: "ghost", Score: 1}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "analysisResult", out.SessionKey)
	assert.Equal(t, whatif.StateEditing, out.State)
	assert.Equal(t, 9.0, tcaRow(t, out.AdjustedScores, "pmf").Score)
	assert.Equal(t, 8.0, tcaRow(t, out.AdjustedScores, "leadership").Score)
	assert.InDelta(t, 8.5, out.TcaCompositeScore, 1e-9)
	assert.Equal(t, "green", out.TcaFlag)
	assert.Equal(t, "excellent", out.ReadinessBand)
	assert.Equal(t, []string{"tca/ghost"}, out.SkippedRows)
	assert.Equal(t, whatif.Summarize(out.AdjustedScores), out.Summary)

	require.Len(t, out.Scenarios, 3)
	assert.InDelta(t, 10.0, out.Scenarios[0].Score, 1e-9) // 8.5 * 1.2 clamped
	assert.InDelta(t, 6.8, out.Scenarios[2].Score, 1e-9)
}

func TestHandler_Execute_DoesNotPersist(t *testing.T) {
	provider := report.NewMemoryProvider()
	seed(t, provider, "s-1", createTestReport())

	h := NewHandler(createTestConfig(), provider, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{
		SessionKey:     "s-1",
		AdjustedScores: report.AdjustedScores{report.ModuleTCA: {{ID: "pmf", Score: 1}}},
	})
	require.NoError(t, err)

	stored, err := provider.ForSession("s-1").Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6.0, stored.TcaData.Categories[1].RawScore)
	assert.Equal(t, 7.0, stored.TcaData.CompositeScore)
	assert.Nil(t, stored.WhatIfAnalysis)
}

func TestHandler_Execute_NoEditsIsIdempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	provider := report.NewRedisProvider(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "tca:report:", time.Hour)
	seed(t, provider, "analysisResult", createTestReport())

	h := NewHandler(createTestConfig(), provider, logger.NewTestLogger(t))
	first, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.InDelta(t, 7.0, first.TcaCompositeScore, 1e-9)
	assert.Empty(t, first.SkippedRows)
}

func TestHandler_Execute_FrameworkThresholds(t *testing.T) {
	provider := report.NewMemoryProvider()
	seed(t, provider, "analysisResult", createTestReport())

	cfg := createTestConfig()
	cfg.Thresholds = scorecard.ThresholdSet{"general": {Green: 6.5, Yellow: 5}}

	h := NewHandler(cfg, provider, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Equal(t, "green", out.TcaFlag)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	locked := createTestReport()
	locked.WhatIfAnalysis = &report.WhatIfAnalysis{Locked: true, Timestamp: "2026-02-01T10:00:00Z"}

	noTca := createTestReport()
	noTca.TcaData = nil

	tests := []struct {
		name     string
		stored   *report.AnalysisReport
		input    *Input
		wantCode errors.ErrorCode
	}{
		{"nothing stored", nil, &Input{}, errors.ErrCodeAnalysisRequired},
		{"report without tca data", noTca, &Input{}, errors.ErrCodeAnalysisRequired},
		{"locked snapshot", locked, &Input{}, errors.ErrCodeWhatIfLocked},
		{
			"unknown module",
			createTestReport(),
			&Input{AdjustedScores: report.AdjustedScores{"esg": {{ID: "x", Score: 5}}}},
			errors.ErrCodeUnknownModule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := report.NewMemoryProvider()
			if tt.stored != nil {
				seed(t, provider, "analysisResult", tt.stored)
			}

			h := NewHandler(createTestConfig(), provider, logger.NewTestLogger(t))
			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.wantCode), err.Error())
		})
	}
}

func TestHandler_Execute_StoreUnavailable(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("tca:report:analysisResult").SetErr(assert.AnError)

	h := NewHandler(createTestConfig(), report.NewRedisProvider(db, "tca:report:", 0), logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeReportStoreUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInputSchema(t *testing.T) {
	assert.True(t, schema.ValidateJSON(`{}`).Valid)
	assert.True(t, schema.ValidateJSON(`{"adjustedScores": {"tca": [{"id": "pmf", "score": 7.5}]}}`).Valid)
	assert.False(t, schema.ValidateJSON(`{"adjustedScores": {"tca": [{"id": "pmf"}]}}`).Valid)
	assert.False(t, schema.ValidateJSON(`{"adjustedScores": {"tca": {"id": "pmf", "score": 1}}}`).Valid)
}
