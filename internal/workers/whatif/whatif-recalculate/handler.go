// internal/workers/whatif/whatif-recalculate/handler.go
package whatifrecalculate

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"tca-workers/internal/common/camunda"
	"tca-workers/internal/common/errors"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/common/metrics"
	"tca-workers/internal/common/validation"
	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"
	"tca-workers/internal/whatif"
)

const (
	TaskType = "whatif-recalculate"
)

var schema = validation.MustCompile(inputSchema)

type Handler struct {
	config       *Config
	reports      report.Provider
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, reports report.Provider, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		reports:      reports,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
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

// execute previews the edits without persisting anything; the stored report
// stays as the analysis left it.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	sessionKey := input.SessionKey
	if sessionKey == "" {
		sessionKey = h.config.DefaultSessionKey
	}

	r, err := h.reports.ForSession(sessionKey).Get(ctx)
	metrics.ReportStoreOps.WithLabelValues("get", metrics.Outcome(ignoreNotFound(err))).Inc()
	if err != nil {
		if stderrors.Is(err, report.ErrNotFound) {
			return nil, whatif.JobError(err, sessionKey)
		}
		return nil, errors.NewReportStoreError("get", err)
	}

	cfg := whatif.ConfigFor(r.Framework, h.config.Thresholds)
	session := whatif.NewSession(cfg)
	if err := session.Load(r); err != nil {
		return nil, whatif.JobError(err, sessionKey)
	}

	skipped, err := session.ApplyEdits(input.AdjustedScores)
	if err != nil {
		return nil, whatif.JobError(err, sessionKey)
	}
	if len(skipped) > 0 {
		h.logger.Warn("edits matched no row", map[string]interface{}{"rows": skipped})
	}

	preview, err := session.Preview()
	if err != nil {
		return nil, whatif.JobError(err, sessionKey)
	}

	composite := preview.TcaData.CompositeScore
	if skipped == nil {
		skipped = []string{}
	}
	return &Output{
		SessionKey:        sessionKey,
		State:             session.State(),
		AdjustedScores:    session.Rows(),
		Summary:           session.Summary(),
		TcaCompositeScore: composite,
		TcaFlag:           preview.TcaData.Flag,
		ReadinessBand:     scorecard.ReadinessBand(composite),
		Scenarios:         whatif.Scenarios(composite, cfg.TCA),
		SkippedRows:       skipped,
	}, nil
}

func ignoreNotFound(err error) error {
	if stderrors.Is(err, report.ErrNotFound) {
		return nil
	}
	return err
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
