package store

import (
	"context"
	"database/sql"
	"time"
)

// Run statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// PipelineRun is one audit row per (engine, date) invocation. The table is
// append-only; rows are never updated or deleted.
type PipelineRun struct {
	RunID         string
	RunDate       string
	Pipeline      string
	Status        string
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	RowsProcessed int64
	BreaksFound   int64
	ErrorMessage  string
}

// RecordRun appends one audit row.
func (s *SQLite) RecordRun(ctx context.Context, run PipelineRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pipeline_runs
		(run_id, run_date, pipeline_name, status, start_time, end_time, duration_seconds, rows_processed, breaks_found, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.RunDate, run.Pipeline, run.Status,
		run.StartTime, run.EndTime, run.Duration.Seconds(),
		run.RowsProcessed, run.BreaksFound, nullStr(run.ErrorMessage))
	return err
}

// RunsForDate lists the audit trail for a date, newest first.
func (s *SQLite) RunsForDate(ctx context.Context, date string) ([]PipelineRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, run_date, pipeline_name, status, start_time, end_time, duration_seconds, rows_processed, breaks_found, error_message
		FROM pipeline_runs
		WHERE run_date = ?
		ORDER BY start_time DESC, run_id DESC`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PipelineRun
	for rows.Next() {
		var (
			r       PipelineRun
			seconds float64
			errMsg  sql.NullString
		)
		if err := rows.Scan(
			&r.RunID, &r.RunDate, &r.Pipeline, &r.Status,
			&r.StartTime, &r.EndTime, &seconds,
			&r.RowsProcessed, &r.BreaksFound, &errMsg,
		); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(seconds * float64(time.Second))
		r.ErrorMessage = errMsg.String
		out = append(out, r)
	}
	return out, rows.Err()
}
