package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tca-workers/internal/common/config"
	"tca-workers/internal/common/errors"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"
)

func newTestBackend(t *testing.T, health, analysis http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(DefaultHealthPath, health)
	mux.HandleFunc(AnalysisPath, analysis)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := Config{
		BaseURL:       srv.URL,
		Timeout:       2 * time.Second,
		HealthTimeout: 500 * time.Millisecond,
		HealthPath:    DefaultHealthPath,
	}
	return NewClient(cfg, logger.NewTestLogger(t)), srv
}

func healthy(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func newRequest(framework string) AnalysisRequest {
	req := NewAnalysisRequest(scorecard.FrameworkGeneral, report.ReportTypeTriage, nil)
	req.Framework = framework
	return req
}

// ==========================
// Success
// ==========================

func TestClient_Analyze_Success(t *testing.T) {
	var got AnalysisRequest
	client, _ := newTestBackend(t, healthy, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fullResponse))
	})

	r, err := client.Analyze(context.Background(), newRequest("general"))
	require.NoError(t, err)

	assert.Equal(t, "general", got.Framework)
	assert.Equal(t, "technology_others", got.Sector)
	assert.Equal(t, "tech", got.LegacySector)

	assert.Equal(t, "general", r.Framework)
	assert.Equal(t, report.ReportTypeTriage, r.ReportType)
	require.NotNil(t, r.TcaData)
	assert.InDelta(t, 7.85, r.TcaData.CompositeScore, 1e-9)
}

func TestClient_Analyze_HealthFailureDoesNotBlock(t *testing.T) {
	client, _ := newTestBackend(t,
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
		func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(fullResponse)) },
	)

	r, err := client.Analyze(context.Background(), newRequest("medtech"))
	require.NoError(t, err)
	assert.Equal(t, "medtech", r.Framework)
}

// ==========================
// Failures
// ==========================

func TestClient_Analyze_InvalidFrameworkMakesNoCall(t *testing.T) {
	var calls int32
	client, _ := newTestBackend(t,
		func(w http.ResponseWriter, _ *http.Request) { atomic.AddInt32(&calls, 1) },
		func(w http.ResponseWriter, _ *http.Request) { atomic.AddInt32(&calls, 1) },
	)

	_, err := client.Analyze(context.Background(), newRequest("fintech"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidFramework))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestClient_Analyze_StatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		code        errors.ErrorCode
		wantMessage string
	}{
		{"rate limited", http.StatusTooManyRequests, "slow down", errors.ErrCodeBackendRateLimited, errors.RateLimitMessage},
		{"server error", http.StatusInternalServerError, "boom", errors.ErrCodeBackendErrorResponse, "Analysis failed: backend returned 500: boom"},
		{"bad request", http.StatusBadRequest, `{"detail":"missing sector"}`, errors.ErrCodeBackendErrorResponse, `Analysis failed: backend returned 400: {"detail":"missing sector"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestBackend(t, healthy, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Analyze(context.Background(), newRequest("general"))
			require.Error(t, err)

			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.wantMessage, stdErr.Message)
			assert.Equal(t, tt.body, stdErr.Details)
		})
	}
}

func TestClient_Analyze_InvalidBody(t *testing.T) {
	client, _ := newTestBackend(t, healthy, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.Analyze(context.Background(), newRequest("general"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBackendInvalidResponse))
}

func TestClient_Analyze_Timeout(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestBackend(t, healthy, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client.config.Timeout = 100 * time.Millisecond

	_, err := client.Analyze(context.Background(), newRequest("general"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBackendTimeout))
}

func TestClient_Analyze_Unavailable(t *testing.T) {
	client, srv := newTestBackend(t, healthy, healthy)
	srv.Close()

	_, err := client.Analyze(context.Background(), newRequest("general"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBackendUnavailable))
}

func TestClient_CheckHealth(t *testing.T) {
	client, _ := newTestBackend(t, healthy, healthy)
	assert.True(t, client.CheckHealth(context.Background()))
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.BackendConfig{BaseURL: "http://backend:8000/"})
	assert.Equal(t, "http://backend:8000", cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultHealthTimeout, cfg.HealthTimeout)
	assert.Equal(t, DefaultHealthPath, cfg.HealthPath)

	cfg = ConfigFrom(config.BackendConfig{BaseURL: "http://x", Timeout: 1500, HealthTimeout: 250, HealthPath: "/ready"})
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.HealthTimeout)
	assert.Equal(t, "/ready", cfg.HealthPath)
}

// ==========================
// Request
// ==========================

func TestNewAnalysisRequest(t *testing.T) {
	req := NewAnalysisRequest(scorecard.FrameworkMedtech, "", map[string]interface{}{"companyDescription": "Surgical robotics"})

	assert.Equal(t, "medtech", req.Framework)
	assert.Equal(t, "life_sciences_medical", req.Sector)
	assert.Equal(t, "med_life", req.LegacySector)
	assert.Equal(t, report.ReportTypeTriage, req.ReportType)
	assert.Equal(t, "Surgical robotics", req.MacroInput.CompanyDescription)
	assert.Equal(t, "med_life", req.BenchmarkInput.Sector)
	assert.NotNil(t, req.GapInput)
}
