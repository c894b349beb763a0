package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/signum/internal/number"
)

// Evaluation is one recorded operation within a run.
type Evaluation struct {
	ID     string        `json:"id"`
	RunID  string        `json:"run_id"`
	Seq    int64         `json:"seq"`
	Op     string        `json:"op"`
	Target string        `json:"target"`
	Input  number.Number `json:"input"`
	Output string        `json:"output"` // canonical JSON of the op result
	Label  string        `json:"label,omitempty"`
}

// RunSummary describes one run in the ledger.
type RunSummary struct {
	RunID    string `json:"run_id"`
	Count    int    `json:"count"`
	FirstSeq int64  `json:"first_seq"`
	LastSeq  int64  `json:"last_seq"`
}

// WriteEvaluation appends an evaluation. Duplicate IDs are silently
// ignored; other constraint violations are returned.
func (s *Store) WriteEvaluation(ctx context.Context, ev Evaluation) error {
	if ev.ID == "" {
		return fmt.Errorf("write evaluation: empty id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations
		(id, run_id, seq, op, target, input_value, input_odd, output, label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		ev.ID,
		ev.RunID,
		ev.Seq,
		ev.Op,
		ev.Target,
		ev.Input.Value,
		boolToInt(ev.Input.Odd),
		ev.Output,
		ev.Label,
	)
	if err != nil {
		return fmt.Errorf("write evaluation: %w", err)
	}
	return nil
}

// ReadRun returns every evaluation of a run in seq order.
// Returns an empty slice (not nil) for an unknown run.
func (s *Store) ReadRun(ctx context.Context, runID string) ([]Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, seq, op, target, input_value, input_odd, output, label
		FROM evaluations
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	evals := []Evaluation{}
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}
	return evals, nil
}

// ListRuns returns one summary per run, ordered by the run's first seq
// and then by run id.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, COUNT(*), MIN(seq), MAX(seq)
		FROM evaluations
		GROUP BY run_id
		ORDER BY MIN(seq) ASC, run_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Count, &r.FirstSeq, &r.LastSeq); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanEvaluation(rows *sql.Rows) (Evaluation, error) {
	var (
		ev    Evaluation
		value int64
		odd   int
	)
	if err := rows.Scan(&ev.ID, &ev.RunID, &ev.Seq, &ev.Op, &ev.Target, &value, &odd, &ev.Output, &ev.Label); err != nil {
		return Evaluation{}, fmt.Errorf("scan evaluation: %w", err)
	}
	// Stored verbatim; a recorded mismatch stays a mismatch.
	ev.Input = number.Construct(value, odd == 1)
	return ev, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
