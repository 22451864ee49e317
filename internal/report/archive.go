package report

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Snapshot is a locked What-If report ready for archival.
type Snapshot struct {
	ID                    string          `json:"id"`
	SessionKey            string          `json:"sessionKey"`
	Framework             string          `json:"framework"`
	ReportType            ReportType      `json:"reportType"`
	TcaCompositeScore     float64         `json:"tcaCompositeScore"`
	OverallCompositeScore float64         `json:"overallCompositeScore"`
	ModulesAnalyzed       int             `json:"modulesAnalyzed"`
	LockedAt              time.Time       `json:"lockedAt"`
	Report                *AnalysisReport `json:"report"`
}

// NewSnapshot builds the archive record for a locked report.
func NewSnapshot(id, sessionKey string, r *AnalysisReport) (*Snapshot, error) {
	if !r.IsLocked() {
		return nil, fmt.Errorf("report %s is not locked", id)
	}
	lockedAt, err := time.Parse(time.RFC3339, r.WhatIfAnalysis.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("parse lock timestamp: %w", err)
	}
	return &Snapshot{
		ID:                    id,
		SessionKey:            sessionKey,
		Framework:             r.Framework,
		ReportType:            r.ReportType,
		TcaCompositeScore:     r.WhatIfAnalysis.TcaCompositeScore,
		OverallCompositeScore: r.WhatIfAnalysis.OverallCompositeScore,
		ModulesAnalyzed:       r.WhatIfAnalysis.ModulesAnalyzed,
		LockedAt:              lockedAt.UTC(),
		Report:                r,
	}, nil
}

// Archiver persists locked snapshots.
type Archiver interface {
	Archive(ctx context.Context, s *Snapshot) error
}

// Indexer makes locked snapshots searchable.
type Indexer interface {
	Index(ctx context.Context, s *Snapshot) error
}

// ==========================
// Postgres
// ==========================

const createSnapshotsTable = `
	CREATE TABLE IF NOT EXISTS whatif_snapshots (
		id               UUID PRIMARY KEY,
		session_key      TEXT NOT NULL,
		framework        TEXT NOT NULL,
		report_type      TEXT NOT NULL,
		tca_score        DOUBLE PRECISION NOT NULL,
		overall_score    DOUBLE PRECISION NOT NULL,
		modules_analyzed INTEGER NOT NULL,
		locked_at        TIMESTAMPTZ NOT NULL,
		report           JSONB NOT NULL
	)`

// PostgresArchive writes snapshots to the whatif_snapshots table.
type PostgresArchive struct {
	db *sql.DB
}

func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{db: db}
}

// EnsureSchema creates the snapshot table when missing.
func (a *PostgresArchive) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, createSnapshotsTable); err != nil {
		return fmt.Errorf("create whatif_snapshots: %w", err)
	}
	return nil
}

func (a *PostgresArchive) Archive(ctx context.Context, s *Snapshot) error {
	reportJSON, err := json.Marshal(s.Report)
	if err != nil {
		return fmt.Errorf("encode snapshot report: %w", err)
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO whatif_snapshots (
			id, session_key, framework, report_type, tca_score,
			overall_score, modules_analyzed, locked_at, report
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		s.ID,
		s.SessionKey,
		s.Framework,
		string(s.ReportType),
		s.TcaCompositeScore,
		s.OverallCompositeScore,
		s.ModulesAnalyzed,
		s.LockedAt,
		reportJSON,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", s.ID, err)
	}
	return nil
}

// ==========================
// Elasticsearch
// ==========================

// ElasticIndexer writes snapshots as documents keyed by snapshot id.
type ElasticIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticIndexer(client *elasticsearch.Client, index string) *ElasticIndexer {
	return &ElasticIndexer{client: client, index: index}
}

func (x *ElasticIndexer) Index(ctx context.Context, s *Snapshot) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: s.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return fmt.Errorf("index snapshot %s: %w", s.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index snapshot %s: %s: %s", s.ID, res.Status(), strings.TrimSpace(string(msg)))
	}
	return nil
}
