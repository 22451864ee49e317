package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tca-workers/internal/common/config"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/scorecard"
)

type fakeZeebe struct{ err error }

func (f fakeZeebe) HealthCheck(context.Context) error { return f.err }

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	calls := 0
	err := retryWithBackoff(func() error {
		calls++
		if calls < 3 {
			return stderrors.New("connection refused")
		}
		return nil
	}, 5, time.Millisecond, log, "op")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retryWithBackoff(func() error {
		calls++
		return stderrors.New("down")
	}, 2, time.Millisecond, log, "op")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "op failed after 2 attempts")
}

func TestThresholdSet(t *testing.T) {
	set := thresholdSet(config.ScorecardConfig{Thresholds: map[string]config.ThresholdConfig{
		"medtech":      {Green: 8.5, Yellow: 7},
		"strategicfit": {Green: 7, Yellow: 5},
		"empty":        {},
	}})

	assert.Equal(t, scorecard.DefaultThresholds, set["general"])
	assert.Equal(t, scorecard.Thresholds{Green: 8.5, Yellow: 7}, set["medtech"])
	assert.Equal(t, scorecard.Thresholds{Green: 7, Yellow: 5}, set["strategicfit"])
	_, ok := set["empty"]
	assert.False(t, ok)
}

func TestHandlerTimeout(t *testing.T) {
	cfg := &config.Config{Workers: map[string]config.WorkerConfig{
		"whatif-lock": {Enabled: true, Timeout: 2500},
		"disabled":    {Enabled: false},
	}}
	assert.Equal(t, 2500*time.Millisecond, handlerTimeout(cfg, "whatif-lock", time.Second))
	assert.Equal(t, time.Second, handlerTimeout(cfg, "disabled", time.Second))
	assert.Equal(t, 30*time.Second, handlerTimeout(cfg, "unknown", time.Second))
}

func TestServer(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		zeebe  fakeZeebe
		status int
	}{
		{"health", "/health", fakeZeebe{err: stderrors.New("down")}, http.StatusOK},
		{"ready", "/ready", fakeZeebe{}, http.StatusOK},
		{"not ready", "/ready", fakeZeebe{err: stderrors.New("down")}, http.StatusServiceUnavailable},
		{"metrics", "/metrics", fakeZeebe{}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(":0", tt.zeebe)
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
