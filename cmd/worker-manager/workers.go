// cmd/worker-manager/workers.go
package main

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"tca-workers/internal/backend"
	"tca-workers/internal/common/aws"
	"tca-workers/internal/common/camunda"
	"tca-workers/internal/common/config"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/common/observability"
	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"

	ra "tca-workers/internal/workers/analysis/run-comprehensive-analysis"
	nrr "tca-workers/internal/workers/notification/notify-report-ready"
	cs "tca-workers/internal/workers/scorecard/calculate-score"
	nw "tca-workers/internal/workers/scorecard/normalize-weights"
	wl "tca-workers/internal/workers/whatif/whatif-lock"
	wr "tca-workers/internal/workers/whatif/whatif-recalculate"
)

type deps struct {
	zeebe    zbc.Client
	obs      *observability.Observability
	analyzer backend.Analyzer
	reports  report.Provider
	archiver report.Archiver
	indexer  report.Indexer
}

// thresholdSet converts the configured tables, keeping built-in defaults for
// frameworks the config does not mention.
func thresholdSet(c config.ScorecardConfig) scorecard.ThresholdSet {
	set := scorecard.ThresholdSet{
		string(scorecard.FrameworkGeneral): scorecard.DefaultThresholds,
		string(scorecard.FrameworkMedtech): scorecard.DefaultThresholds,
	}
	for key, t := range c.Thresholds {
		if t.Green == 0 && t.Yellow == 0 {
			continue
		}
		set[key] = scorecard.Thresholds{Green: t.Green, Yellow: t.Yellow}
	}
	return set
}

// handlerTimeout prefers the per-worker timeout over the handler default.
func handlerTimeout(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if d := config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout); d > 0 {
		return d
	}
	return fallback
}

func registerWorkers(ctx context.Context, cfg *config.Config, d deps, log logger.Logger) ([]*camunda.Worker, error) {
	var workers []*camunda.Worker
	add := func(w *camunda.Worker) {
		if w != nil {
			workers = append(workers, w)
		}
	}
	thresholds := thresholdSet(cfg.Scorecard)
	sessionKey := cfg.ReportStore.SessionKey

	// --- Scorecard ---
	{
		c := nw.LoadConfig()
		c.Timeout = handlerTimeout(cfg, nw.TaskType, c.Timeout)
		h := nw.NewHandler(c, log)
		add(camunda.StartWorker(d.zeebe, nw.TaskType, config.GetWorkerConfig(cfg, nw.TaskType), h.Handle, d.obs, log))
	}
	{
		c := cs.LoadConfig()
		c.Timeout = handlerTimeout(cfg, cs.TaskType, c.Timeout)
		c.Thresholds = thresholds
		h := cs.NewHandler(c, log)
		add(camunda.StartWorker(d.zeebe, cs.TaskType, config.GetWorkerConfig(cfg, cs.TaskType), h.Handle, d.obs, log))
	}

	// --- Analysis ---
	{
		c := ra.LoadConfig()
		c.Timeout = handlerTimeout(cfg, ra.TaskType, c.Timeout)
		c.DefaultSessionKey = sessionKey
		h := ra.NewHandler(c, d.analyzer, d.reports, log)
		add(camunda.StartWorker(d.zeebe, ra.TaskType, config.GetWorkerConfig(cfg, ra.TaskType), h.Handle, d.obs, log))
	}

	// --- What-If ---
	{
		c := wr.LoadConfig()
		c.Timeout = handlerTimeout(cfg, wr.TaskType, c.Timeout)
		c.DefaultSessionKey = sessionKey
		c.Thresholds = thresholds
		h := wr.NewHandler(c, d.reports, log)
		add(camunda.StartWorker(d.zeebe, wr.TaskType, config.GetWorkerConfig(cfg, wr.TaskType), h.Handle, d.obs, log))
	}
	{
		c := wl.LoadConfig()
		c.Timeout = handlerTimeout(cfg, wl.TaskType, c.Timeout)
		c.DefaultSessionKey = sessionKey
		c.Thresholds = thresholds
		h := wl.NewHandler(c, d.reports, d.archiver, d.indexer, log)
		add(camunda.StartWorker(d.zeebe, wl.TaskType, config.GetWorkerConfig(cfg, wl.TaskType), h.Handle, d.obs, log))
	}

	// --- Notification ---
	if config.IsWorkerEnabled(cfg, nrr.TaskType) {
		c := nrr.ConfigFrom(cfg.Notifications)
		c.Timeout = handlerTimeout(cfg, nrr.TaskType, c.Timeout)
		c.DefaultSessionKey = sessionKey

		clients, err := aws.NewClients(ctx, c.AWSRegion)
		if err != nil {
			return workers, err
		}
		h := nrr.NewHandler(c, d.reports, clients.SES, clients.SNS, log)
		add(camunda.StartWorker(d.zeebe, nrr.TaskType, config.GetWorkerConfig(cfg, nrr.TaskType), h.Handle, d.obs, log))
	}

	return workers, nil
}
