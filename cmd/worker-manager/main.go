// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tca-workers/internal/backend"
	"tca-workers/internal/common/camunda"
	"tca-workers/internal/common/config"
	"tca-workers/internal/common/database"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/common/observability"
	"tca-workers/internal/report"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func fatal(log logger.Logger, msg string, err error) {
	log.Error(msg, map[string]interface{}{"error": err.Error()})
	os.Exit(1)
}

func main() {
	bootLog := logger.NewStructured("info", "console")

	cfg, err := config.Load()
	if err != nil {
		fatal(bootLog, "config load failed", err)
	}

	log := logger.FromConfig(cfg.Logging).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"env":     cfg.App.Environment,
	})
	log.Info("starting worker manager", map[string]interface{}{"version": cfg.App.Version})

	obs := observability.New(cfg.Observability.ServiceName)
	defer obs.Shutdown()

	if cfg.Observability.JaegerEndpoint != "" {
		tracing, err := observability.NewTracing(cfg.Observability.ServiceName, cfg.App.Environment, cfg.Observability.JaegerEndpoint)
		if err != nil {
			log.Warn("tracing disabled", map[string]interface{}{"error": err.Error()})
		} else {
			obs.WithTracing(tracing)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tracing.Shutdown(ctx)
			}()
		}
	}

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFromSettings(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		fatal(log, "zeebe client failed after retries", err)
	}
	log.Info("Zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- Report store ---
	reports, closeStore, err := newReportProvider(ctx, cfg, log)
	if err != nil {
		fatal(log, "report store failed", err)
	}
	defer closeStore()

	// --- Snapshot sinks (optional) ---
	var archiver report.Archiver
	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			fatal(log, "postgres failed after retries", err)
		}
		defer pg.Close()

		archive := report.NewPostgresArchive(pg.DB)
		if err := archive.EnsureSchema(ctx); err != nil {
			fatal(log, "snapshot schema failed", err)
		}
		archiver = archive
		log.Info("PostgreSQL snapshot archive ready", nil)
	}

	var indexer report.Indexer
	if cfg.Database.Elasticsearch.Enabled {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			fatal(log, "elasticsearch failed after retries", err)
		}
		indexer = report.NewElasticIndexer(es.Client, cfg.Database.Elasticsearch.Index)
		log.Info("Elasticsearch snapshot index ready", map[string]interface{}{"index": cfg.Database.Elasticsearch.Index})
	}

	analyzer := backend.NewClient(backend.ConfigFrom(cfg.Backend), log)

	workers, err := registerWorkers(ctx, cfg, deps{
		zeebe:    zeebe.GetClient(),
		obs:      obs,
		analyzer: analyzer,
		reports:  reports,
		archiver: archiver,
		indexer:  indexer,
	}, log)
	if err != nil {
		fatal(log, "worker registration failed", err)
	}
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	srv := newServer(cfg.Server.Address, zeebe)
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}
	log.Info("worker manager stopped", nil)
}

func newReportProvider(ctx context.Context, cfg *config.Config, log logger.Logger) (report.Provider, func(), error) {
	if cfg.ReportStore.Driver == "memory" {
		log.Warn("using in-memory report store; reports do not survive restarts", nil)
		return report.NewMemoryProvider(), func() {}, nil
	}

	var rc *database.RedisClient
	err := retryWithBackoff(func() error {
		var err error
		rc, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rc.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		return nil, nil, err
	}
	log.Info("Redis report store connected", map[string]interface{}{"keyPrefix": cfg.ReportStore.KeyPrefix})

	ttl := time.Duration(cfg.ReportStore.TTL) * time.Second
	return report.NewRedisProvider(rc.Client, cfg.ReportStore.KeyPrefix, ttl), func() { _ = rc.Close() }, nil
}
