package cache

import (
	"context"
	"fmt"
	"time"
)

// Run summarizes one recorded check.
type Run struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Files     int
	// Cached is the number of files answered from the cache.
	Cached   int
	Errors   int
	Warnings int
}

// RecordRun stores a run summary.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, files, cached, errors, warnings)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().UnixMilli(), run.Duration.Milliseconds(),
		run.Files, run.Cached, run.Errors, run.Warnings,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// Runs returns up to limit recorded runs, newest first. A limit of zero or
// less returns all of them.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, files, cached, errors, warnings
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			r                   Run
			startedAt, duration int64
		)
		if err := rows.Scan(&r.ID, &startedAt, &duration, &r.Files, &r.Cached, &r.Errors, &r.Warnings); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedAt).UTC()
		r.Duration = time.Duration(duration) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
