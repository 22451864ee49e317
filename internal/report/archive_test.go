package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotID = "0b8f6c1e-5c7a-4a8e-9d55-3f1f1a2b9c01"

func lockedReport() *AnalysisReport {
	r := sampleReport()
	r.WhatIfAnalysis = &WhatIfAnalysis{
		AdjustedScores:        AdjustedScores{ModuleTCA: {{ID: "market_potential", Category: "Market Potential", Score: 9}}},
		OverallCompositeScore: 8.1,
		TcaCompositeScore:     7.9,
		Timestamp:             "2026-10-14T09:30:00Z",
		ModulesAnalyzed:       2,
		Locked:                true,
	}
	return r
}

// ==========================
// Snapshot
// ==========================

func TestNewSnapshot(t *testing.T) {
	s, err := NewSnapshot(snapshotID, "analysisResult", lockedReport())
	require.NoError(t, err)

	assert.Equal(t, "general", s.Framework)
	assert.Equal(t, ReportTypeTriage, s.ReportType)
	assert.Equal(t, 7.9, s.TcaCompositeScore)
	assert.Equal(t, 8.1, s.OverallCompositeScore)
	assert.Equal(t, 2, s.ModulesAnalyzed)
	assert.Equal(t, time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC), s.LockedAt)
}

func TestNewSnapshot_Errors(t *testing.T) {
	_, err := NewSnapshot(snapshotID, "s", sampleReport())
	assert.Error(t, err)

	r := lockedReport()
	r.WhatIfAnalysis.Timestamp = "yesterday"
	_, err = NewSnapshot(snapshotID, "s", r)
	assert.Error(t, err)
}

// ==========================
// Postgres Archive
// ==========================

func TestPostgresArchive_Archive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewSnapshot(snapshotID, "analysisResult", lockedReport())
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO whatif_snapshots`).
		WithArgs(
			snapshotID,
			"analysisResult",
			"general",
			"triage",
			7.9,
			8.1,
			2,
			s.LockedAt,
			sqlmock.AnyArg(), // report JSON
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	archive := NewPostgresArchive(db)
	assert.NoError(t, archive.Archive(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresArchive_InsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewSnapshot(snapshotID, "analysisResult", lockedReport())
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO whatif_snapshots`).
		WillReturnError(errors.New("connection reset"))

	err = NewPostgresArchive(db).Archive(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresArchive_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS whatif_snapshots`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, NewPostgresArchive(db).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Elasticsearch Indexer
// ==========================

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newFakeElastic(t *testing.T, status int, body string, seen *http.Request, seenBody *[]byte) *elasticsearch.Client {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.local:9200"},
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if seen != nil {
				*seen = *r
			}
			if seenBody != nil && r.Body != nil {
				*seenBody, _ = io.ReadAll(r.Body)
			}
			h := http.Header{}
			h.Set("X-Elastic-Product", "Elasticsearch")
			h.Set("Content-Type", "application/json")
			return &http.Response{
				StatusCode: status,
				Header:     h,
				Body:       io.NopCloser(strings.NewReader(body)),
			}, nil
		}),
	})
	require.NoError(t, err)
	return client
}

func TestElasticIndexer_Index(t *testing.T) {
	var req http.Request
	var body []byte
	client := newFakeElastic(t, http.StatusCreated, `{"result":"created"}`, &req, &body)

	s, err := NewSnapshot(snapshotID, "analysisResult", lockedReport())
	require.NoError(t, err)

	err = NewElasticIndexer(client, "tca-whatif-snapshots").Index(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/tca-whatif-snapshots/_doc/"+snapshotID, req.URL.Path)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, snapshotID, doc["id"])
	assert.Equal(t, 8.1, doc["overallCompositeScore"])
}

func TestElasticIndexer_ErrorResponse(t *testing.T) {
	client := newFakeElastic(t, http.StatusBadRequest, `{"error":"mapper_parsing_exception"}`, nil, nil)

	s, err := NewSnapshot(snapshotID, "analysisResult", lockedReport())
	require.NoError(t, err)

	err = NewElasticIndexer(client, "tca-whatif-snapshots").Index(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}
