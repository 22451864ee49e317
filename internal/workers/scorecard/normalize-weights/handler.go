// internal/workers/scorecard/normalize-weights/handler.go
package normalizeweights

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"tca-workers/internal/common/camunda"
	"tca-workers/internal/common/errors"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/common/validation"
	"tca-workers/internal/scorecard"
)

const (
	TaskType = "tca-normalize-weights"
)

var schema = validation.MustCompile(inputSchema)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	framework, ok := scorecard.ParseFramework(input.Framework)
	if !ok {
		return nil, errors.NewInvalidFrameworkError(input.Framework)
	}

	table := input.Weights
	if len(table) == 0 {
		table = scorecard.DefaultWeights(framework)
	}

	start := time.Now()
	var normalized scorecard.WeightTable
	if input.ToggleID != "" {
		if _, found := table.Find(input.ToggleID); !found {
			h.logger.Warn("toggle id not in table", map[string]interface{}{"toggleId": input.ToggleID})
		}
		normalized = scorecard.ToggleApplicability(table, input.ToggleID)
	} else {
		normalized = scorecard.Normalize(table)
	}

	h.logger.Debug("weights normalized", map[string]interface{}{
		"framework":  string(framework),
		"categories": len(normalized),
		"duration":   time.Since(start).String(),
	})

	return &Output{
		Framework:       string(framework),
		Weights:         normalized,
		TotalWeight:     scorecard.Round1(normalized.ApplicableTotal()),
		Balanced:        normalized.IsBalanced(),
		ApplicableCount: normalized.ApplicableCount(),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
