package whatif

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"
)

// State is the What-If session lifecycle: Loading, then Editing, then Locked.
// Locked is terminal; a fresh analysis is needed to edit again.
type State string

const (
	StateLoading State = "loading"
	StateEditing State = "editing"
	StateLocked  State = "locked"
)

var (
	ErrNoAnalysisData = errors.New("no analysis data available, run an analysis first")
	ErrSessionLocked  = errors.New("what-if session is locked")
	ErrNotLoaded      = errors.New("what-if session has no report loaded")
	ErrUnknownRow     = errors.New("unknown what-if row")
)

// Session holds one What-If edit surface over a loaded report.
type Session struct {
	mu       sync.Mutex
	cfg      Config
	state    State
	base     *report.AnalysisReport
	rows     report.AdjustedScores
	snapshot *report.AnalysisReport
}

func NewSession(cfg Config) *Session {
	return &Session{cfg: cfg, state: StateLoading}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load enters Editing. A report without TCA categories is a hard
// precondition failure. A report that already carries a locked snapshot
// puts the session straight into Locked.
func (s *Session) Load(r *report.AnalysisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateLocked {
		return ErrSessionLocked
	}
	if !r.HasTcaData() {
		return ErrNoAnalysisData
	}

	base, err := r.DeepCopy()
	if err != nil {
		return err
	}
	if base.IsLocked() {
		s.base, s.snapshot, s.state = base, base, StateLocked
		s.rows = base.WhatIfAnalysis.AdjustedScores.Clone()
		return ErrSessionLocked
	}

	s.base = base
	s.rows = BuildRows(base)
	s.state = StateEditing
	return nil
}

// Edit sets one row's score. Values are clamped to [0, 10].
func (s *Session) Edit(module report.Module, rowID string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}
	return s.edit(module, rowID, score)
}

// ApplyEdits writes a batch of edits. Unknown modules fail the whole batch
// before anything changes; rows that match nothing are skipped and returned.
func (s *Session) ApplyEdits(edits report.AdjustedScores) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return nil, err
	}
	for m := range edits {
		if _, ok := report.ParseModule(string(m)); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModule, m)
		}
	}

	var skipped []string
	for _, m := range report.Modules {
		for _, row := range edits[m] {
			if err := s.edit(m, row.ID, row.Score); errors.Is(err, ErrUnknownRow) {
				skipped = append(skipped, string(m)+"/"+row.ID)
			}
		}
	}
	return skipped, nil
}

func (s *Session) editable() error {
	switch s.state {
	case StateLocked:
		return ErrSessionLocked
	case StateLoading:
		return ErrNotLoaded
	}
	return nil
}

func (s *Session) edit(module report.Module, rowID string, score float64) error {
	if _, ok := report.ParseModule(string(module)); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModule, module)
	}
	rows := s.rows[module]
	for i := range rows {
		if rows[i].ID == rowID {
			rows[i].Score = scorecard.ClampScore(score)
			return nil
		}
	}
	return fmt.Errorf("%w: %s/%s", ErrUnknownRow, module, rowID)
}

// Rows returns a copy of the current rows.
func (s *Session) Rows() report.AdjustedScores {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows.Clone()
}

// Summary recomputes the cross-module summary from the live rows while
// Editing. Once Locked it returns the frozen values.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateLocked && s.snapshot != nil && s.snapshot.WhatIfAnalysis != nil {
		w := s.snapshot.WhatIfAnalysis
		return Summary{
			Average:     w.OverallCompositeScore,
			StdDev:      w.StdDev,
			ModuleCount: w.ModulesAnalyzed,
			RowCount:    countRows(w.AdjustedScores),
		}
	}
	return Summarize(s.rows)
}

// Preview applies the live rows without changing state.
func (s *Session) Preview() (*report.AnalysisReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateLoading {
		return nil, ErrNotLoaded
	}
	if s.state == StateLocked {
		return s.snapshot.DeepCopy()
	}
	return Apply(s.base, s.rows, s.cfg)
}

// Lock freezes the live rows into a snapshot stamped with now and moves the
// session to Locked. The returned report is a copy; the session keeps its own.
func (s *Session) Lock(now time.Time) (*report.AnalysisReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return nil, err
	}

	updated, err := Apply(s.base, s.rows, s.cfg)
	if err != nil {
		return nil, err
	}

	summary := Summarize(s.rows)
	tcaComposite := 0.0
	if updated.TcaData != nil {
		tcaComposite = updated.TcaData.CompositeScore
	}
	updated.WhatIfAnalysis = &report.WhatIfAnalysis{
		AdjustedScores:        s.rows.Clone(),
		OverallCompositeScore: summary.Average,
		StdDev:                summary.StdDev,
		TcaCompositeScore:     tcaComposite,
		Timestamp:             now.UTC().Format(time.RFC3339),
		ModulesAnalyzed:       summary.ModuleCount,
		Locked:                true,
	}

	s.snapshot = updated
	s.state = StateLocked
	return updated.DeepCopy()
}

// Snapshot returns a copy of the locked report, or nil before Lock.
func (s *Session) Snapshot() (*report.AnalysisReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.DeepCopy()
}

func countRows(rows report.AdjustedScores) int {
	n := 0
	for _, r := range rows {
		n += len(r)
	}
	return n
}
