package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrRunNotFound is returned when a run id has no record.
var ErrRunNotFound = errors.New("run not found")

// RecordRun stores a run and its moves in one transaction.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) error {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("run id is required")
	}
	moved, skipped, failed := rec.counts()
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, started_at, finished_at, input_root, template, outcome, moved, skipped, failed)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, formatTime(rec.StartedAt), formatTime(rec.FinishedAt),
			rec.InputRoot, rec.Template, rec.Outcome, moved, skipped, failed,
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO moves (run_id, source, destination, status, error) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare move insert: %w", err)
		}
		defer stmt.Close()
		for _, m := range rec.Moves {
			if _, err := stmt.ExecContext(ctx, rec.ID, m.Source, m.Destination, string(m.Status), nullableString(m.Error)); err != nil {
				return fmt.Errorf("insert move %s: %w", m.Source, err)
			}
		}
		return tx.Commit()
	})
}

// RecentRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, started_at, finished_at, input_root, template, outcome, moved, skipped, failed
		FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Run returns the summary of one run.
func (s *Store) Run(ctx context.Context, id string) (RunSummary, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, input_root, template, outcome, moved, skipped, failed
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// RunMoves returns the moves recorded for a run in insertion order.
func (s *Store) RunMoves(ctx context.Context, runID string) ([]MoveRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, destination, status, COALESCE(error, '') FROM moves WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var (
			m      MoveRecord
			status string
		)
		if err := rows.Scan(&m.Source, &m.Destination, &status, &m.Error); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		m.Status = MoveStatus(status)
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (RunSummary, error) {
	var (
		run               RunSummary
		started, finished string
	)
	if err := scanner.Scan(&run.ID, &started, &finished, &run.InputRoot, &run.Template,
		&run.Outcome, &run.Moved, &run.Skipped, &run.Failed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunSummary{}, err
		}
		return RunSummary{}, fmt.Errorf("scan run: %w", err)
	}
	var err error
	if run.StartedAt, err = parseTimeString(started); err != nil {
		return RunSummary{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = parseTimeString(finished); err != nil {
		return RunSummary{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return run, nil
}
