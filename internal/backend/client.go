// Package backend talks to the analysis backend and maps its response onto
// the report model.
package backend

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"tca-workers/internal/common/config"
	"tca-workers/internal/common/errors"
	httpclient "tca-workers/internal/common/http"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/common/metrics"
	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"
)

const (
	AnalysisPath = "/api/analysis/comprehensive"

	DefaultTimeout       = 30 * time.Second
	DefaultHealthTimeout = 5 * time.Second
	DefaultHealthPath    = "/health"
)

type Config struct {
	BaseURL       string
	Timeout       time.Duration
	HealthTimeout time.Duration
	HealthPath    string
}

// ConfigFrom converts the millisecond settings of the loaded config, filling
// defaults for anything unset.
func ConfigFrom(c config.BackendConfig) Config {
	cfg := Config{
		BaseURL:       strings.TrimRight(c.BaseURL, "/"),
		Timeout:       time.Duration(c.Timeout) * time.Millisecond,
		HealthTimeout: time.Duration(c.HealthTimeout) * time.Millisecond,
		HealthPath:    c.HealthPath,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = DefaultHealthTimeout
	}
	if cfg.HealthPath == "" {
		cfg.HealthPath = DefaultHealthPath
	}
	return cfg
}

// Analyzer runs one comprehensive analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*report.AnalysisReport, error)
}

type Client struct {
	config Config
	http   *httpclient.Client
	logger logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	return NewClientWithHTTP(cfg, httpclient.NewClient(cfg.Timeout), log)
}

func NewClientWithHTTP(cfg Config, hc *httpclient.Client, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		http:   hc,
		logger: log.WithFields(map[string]interface{}{"component": "backend"}),
	}
}

// Analyze validates the framework, probes backend health (best effort), posts
// the request and transforms the response. There are no retries; every failure
// comes back as a *errors.StandardError.
func (c *Client) Analyze(ctx context.Context, req AnalysisRequest) (*report.AnalysisReport, error) {
	framework, ok := scorecard.ParseFramework(req.Framework)
	if !ok {
		return nil, errors.NewInvalidFrameworkError(req.Framework)
	}

	ctx, span := otel.Tracer("tca-workers/backend").Start(ctx, "backend.Analyze")
	defer span.End()
	span.SetAttributes(
		attribute.String("framework", string(framework)),
		attribute.String("report_type", string(req.ReportType)),
	)

	c.CheckHealth(ctx)

	r, err := c.analyze(ctx, framework, req)
	metrics.AnalysisRuns.WithLabelValues(string(framework), metrics.Outcome(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if r.TcaData != nil {
		metrics.CompositeScore.WithLabelValues(string(framework), "backend").Observe(r.TcaData.CompositeScore)
	}
	return r, nil
}

func (c *Client) analyze(ctx context.Context, framework scorecard.Framework, req AnalysisRequest) (*report.AnalysisReport, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.http.PostJSON(ctx, c.config.BaseURL+AnalysisPath, req)
	elapsed := time.Since(start)

	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues("analysis", "error").Observe(elapsed.Seconds())
		if isTimeout(ctx, err) {
			c.logger.Error("analysis request timed out", map[string]interface{}{"timeout": c.config.Timeout.String()})
			return nil, errors.NewBackendTimeoutError(c.config.Timeout)
		}
		c.logger.Error("analysis backend unreachable", map[string]interface{}{"error": err.Error()})
		return nil, errors.NewBackendUnavailableError(err)
	}

	metrics.BackendRequestDuration.WithLabelValues("analysis", fmt.Sprintf("%dxx", resp.StatusCode/100)).Observe(elapsed.Seconds())

	c.logger.Info("analysis backend responded", map[string]interface{}{
		"status":    resp.StatusCode,
		"framework": string(framework),
		"bytes":     len(resp.Body),
		"duration":  elapsed.String(),
	})

	switch {
	case resp.StatusCode == 429:
		return nil, errors.NewBackendRateLimitedError(strings.TrimSpace(string(resp.Body)))
	case !resp.OK():
		return nil, errors.NewBackendErrorResponse(resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}

	r, err := Transform(resp.Body)
	if err != nil {
		return nil, errors.NewBackendInvalidResponseError(err)
	}
	r.Framework = string(framework)
	r.ReportType = req.ReportType
	return r, nil
}

// CheckHealth probes the health endpoint and logs the outcome. It never fails
// the caller.
func (c *Client) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.config.HealthTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.http.Get(ctx, c.config.BaseURL+c.config.HealthPath)
	elapsed := time.Since(start)

	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues("health", "error").Observe(elapsed.Seconds())
		c.logger.Warn("backend health check failed", map[string]interface{}{"error": err.Error()})
		return false
	}
	metrics.BackendRequestDuration.WithLabelValues("health", fmt.Sprintf("%dxx", resp.StatusCode/100)).Observe(elapsed.Seconds())
	if !resp.OK() {
		c.logger.Warn("backend health check returned non-2xx", map[string]interface{}{"status": resp.StatusCode})
		return false
	}
	c.logger.Debug("backend healthy", map[string]interface{}{"duration": elapsed.String()})
	return true
}

func isTimeout(ctx context.Context, err error) bool {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) || stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stderrors.As(err, &ne) && ne.Timeout()
}
