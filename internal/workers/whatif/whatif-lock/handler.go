// internal/workers/whatif/whatif-lock/handler.go
package whatiflock

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

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
	TaskType = "whatif-lock"
)

var schema = validation.MustCompile(inputSchema)

type Handler struct {
	config       *Config
	reports      report.Provider
	archiver     report.Archiver
	indexer      report.Indexer
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

// NewHandler builds the lock worker. archiver and indexer are optional.
func NewHandler(
	config *Config,
	reports report.Provider,
	archiver report.Archiver,
	indexer report.Indexer,
	log logger.Logger,
) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		reports:      reports,
		archiver:     archiver,
		indexer:      indexer,
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

// execute archives and indexes before overwriting the stored report, so a
// failed archive leaves the session editable for the job retry.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	sessionKey := input.SessionKey
	if sessionKey == "" {
		sessionKey = h.config.DefaultSessionKey
	}
	store := h.reports.ForSession(sessionKey)

	r, err := store.Get(ctx)
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

	locked, err := session.Lock(h.now())
	if err != nil {
		return nil, whatif.JobError(err, sessionKey)
	}

	snapshot, err := report.NewSnapshot(snapshotID(r, sessionKey), sessionKey, locked)
	if err != nil {
		return nil, errors.NewSnapshotArchiveError(err)
	}

	archived, indexed := false, false
	if h.archiver != nil {
		if err := h.archiver.Archive(ctx, snapshot); err != nil {
			h.logger.Error("snapshot archive failed", map[string]interface{}{
				"snapshotId": snapshot.ID,
				"error":      err.Error(),
			})
			return nil, errors.NewSnapshotArchiveError(err)
		}
		archived = true
	}
	if h.indexer != nil {
		if err := h.indexer.Index(ctx, snapshot); err != nil {
			h.logger.Error("snapshot index failed", map[string]interface{}{
				"snapshotId": snapshot.ID,
				"error":      err.Error(),
			})
			return nil, errors.NewSnapshotIndexError(err)
		}
		indexed = true
	}

	err = store.Set(ctx, locked)
	metrics.ReportStoreOps.WithLabelValues("set", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, errors.NewReportStoreError("set", err)
	}
	metrics.WhatIfLocks.WithLabelValues(r.Framework).Inc()

	w := locked.WhatIfAnalysis
	h.logger.Info("what-if session locked", map[string]interface{}{
		"sessionKey":        sessionKey,
		"snapshotId":        snapshot.ID,
		"tcaCompositeScore": w.TcaCompositeScore,
		"modulesAnalyzed":   w.ModulesAnalyzed,
	})

	if skipped == nil {
		skipped = []string{}
	}
	return &Output{
		SessionKey:            sessionKey,
		SnapshotID:            snapshot.ID,
		LockedAt:              w.Timestamp,
		TcaCompositeScore:     w.TcaCompositeScore,
		TcaFlag:               locked.TcaData.Flag,
		ReadinessBand:         scorecard.ReadinessBand(w.TcaCompositeScore),
		OverallCompositeScore: w.OverallCompositeScore,
		StdDev:                w.StdDev,
		ModulesAnalyzed:       w.ModulesAnalyzed,
		Archived:              archived,
		Indexed:               indexed,
		SkippedRows:           skipped,
	}, nil
}

// snapshotID is stable for a given analysis so retried archive inserts hit
// the same row.
func snapshotID(r *report.AnalysisReport, sessionKey string) string {
	if r.ID == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(sessionKey+"/"+r.ID)).String()
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
