// internal/workers/scorecard/calculate-score/handler.go
package calculatescore

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"tca-workers/internal/common/camunda"
	"tca-workers/internal/common/errors"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/common/metrics"
	"tca-workers/internal/common/validation"
	"tca-workers/internal/scorecard"
	"tca-workers/internal/whatif"
)

const (
	TaskType = "tca-calculate-score"
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
	thresholds := h.config.Thresholds.For(string(framework))

	categories := make([]scorecard.ScoredCategory, len(input.Categories))
	for i, c := range input.Categories {
		categories[i] = c.scored()
	}
	if input.Normalize {
		categories = normalizeCategories(categories)
	}

	table := make(scorecard.WeightTable, len(categories))
	for i, c := range categories {
		table[i] = scorecard.WeightEntry{ID: c.ID, Name: c.Name, Weight: c.Weight, Applicable: c.Applicable}
	}
	if !table.IsBalanced() {
		h.logger.Warn("weights do not sum to 100", map[string]interface{}{
			"total": scorecard.Round1(table.ApplicableTotal()),
		})
	}

	result := scorecard.Aggregate(categories, thresholds)

	flags := make([]scorecard.Flag, 0, len(result.Categories))
	for _, c := range result.Categories {
		if c.Applicable {
			flags = append(flags, c.Flag)
		}
	}

	metrics.CompositeScore.WithLabelValues(string(framework), "calculated").Observe(result.CompositeScore)

	return &Output{
		Framework:      string(framework),
		Categories:     result.Categories,
		CompositeScore: result.CompositeScore,
		Flag:           result.Flag,
		FlagLabel:      result.Flag.Label(),
		Band:           result.Band,
		FlagCounts:     scorecard.CountFlags(flags),
		Scenarios:      whatif.Scenarios(result.CompositeScore, thresholds),
		WeightBalanced: table.IsBalanced(),
	}, nil
}

// normalizeCategories rescales category weights through the weight table so
// the residual rule matches tca-normalize-weights.
func normalizeCategories(categories []scorecard.ScoredCategory) []scorecard.ScoredCategory {
	table := make(scorecard.WeightTable, len(categories))
	for i, c := range categories {
		table[i] = scorecard.WeightEntry{ID: c.ID, Name: c.Name, Weight: c.Weight, Applicable: c.Applicable}
	}
	normalized := scorecard.Normalize(table)

	out := make([]scorecard.ScoredCategory, len(categories))
	for i, c := range categories {
		c.Weight = normalized[i].Weight
		out[i] = c
	}
	return out
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
