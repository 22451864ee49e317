// internal/workers/analysis/run-comprehensive-analysis/handler.go
package runanalysis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"tca-workers/internal/backend"
	"tca-workers/internal/common/camunda"
	"tca-workers/internal/common/errors"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/common/metrics"
	"tca-workers/internal/common/validation"
	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"
)

const (
	TaskType = "run-comprehensive-analysis"
)

var schema = validation.MustCompile(inputSchema)

type Handler struct {
	config       *Config
	analyzer     backend.Analyzer
	reports      report.Provider
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, analyzer backend.Analyzer, reports report.Provider, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		analyzer:     analyzer,
		reports:      reports,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
		now:          time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if result := schema.ValidateJSON(job.Variables); !result.Valid {
		h.errorHandler.HandleJobError(ctx, client, job, errors.NewValidationError(result.Error()))
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, errors.NewValidationError(err.Error()))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	framework, ok := scorecard.ParseFramework(input.Framework)
	if !ok {
		return nil, errors.NewInvalidFrameworkError(input.Framework)
	}

	sessionKey := input.SessionKey
	if sessionKey == "" {
		sessionKey = h.config.DefaultSessionKey
	}

	req := backend.NewAnalysisRequest(framework, report.ReportType(input.ReportType), input.CompanyData)
	r, err := h.analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	r.ID = uuid.New().String()
	if r.ReportType == "" {
		r.ReportType = req.ReportType
	}
	if r.GeneratedAt == "" {
		r.GeneratedAt = h.now().UTC().Format(time.RFC3339)
	}

	// A fresh analysis always replaces the slot, locked or not.
	err = h.reports.ForSession(sessionKey).Set(ctx, r)
	metrics.ReportStoreOps.WithLabelValues("set", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, errors.NewReportStoreError("set", err)
	}

	out := &Output{
		AnalysisID:               r.ID,
		SessionKey:               sessionKey,
		Framework:                string(framework),
		ReportType:               string(r.ReportType),
		InvestmentRecommendation: r.InvestmentRecommendation,
		ModulesAvailable:         availableModules(r),
		GeneratedAt:              r.GeneratedAt,
	}
	if r.TcaData != nil {
		out.TcaCompositeScore = r.TcaData.CompositeScore
		out.TcaFlag = r.TcaData.Flag
	}

	h.logger.Info("analysis stored", map[string]interface{}{
		"analysisId": r.ID,
		"sessionKey": sessionKey,
		"modules":    len(out.ModulesAvailable),
		"composite":  out.TcaCompositeScore,
	})
	return out, nil
}

func availableModules(r *report.AnalysisReport) []string {
	present := map[report.Module]bool{
		report.ModuleTCA:          r.TcaData != nil,
		report.ModuleRisk:         r.RiskData != nil,
		report.ModuleMacro:        r.MacroData != nil,
		report.ModuleBenchmark:    r.BenchmarkData != nil,
		report.ModuleGrowth:       r.GrowthData != nil,
		report.ModuleGap:          r.GapData != nil,
		report.ModuleFounderFit:   r.FounderFitData != nil,
		report.ModuleTeam:         r.TeamData != nil,
		report.ModuleStrategicFit: r.StrategicFitData != nil,
	}
	out := []string{}
	for _, m := range report.Modules {
		if present[m] {
			out = append(out, string(m))
		}
	}
	return out
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
