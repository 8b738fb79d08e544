package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// record is the stored form of a diagnostic. The documentation URL is not
// stored; it depends on the docs base URL of the current run.
type record struct {
	Rule     string     `json:"rule"`
	Message  string     `json:"message"`
	Span     token.Span `json:"span"`
	Severity int        `json:"severity"`
}

// Lookup returns the cached diagnostics for path when both the content hash
// and the settings key match. A miss is not an error.
func (s *Store) Lookup(ctx context.Context, path, contentHash, settingsKey string) ([]lint.Diagnostic, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT diagnostics FROM file_results WHERE path = ? AND content_hash = ? AND settings_key = ?`,
		path, contentHash, settingsKey,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up %s: %w", path, err)
	}

	var records []record
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry for %s: %w", path, err)
	}
	var diags []lint.Diagnostic
	for _, r := range records {
		diags = append(diags, lint.Diagnostic{
			Rule:             lint.LintName(r.Rule),
			Message:          r.Message,
			Span:             r.Span,
			Severity:         core.Severity(r.Severity),
			DocumentationURL: lint.BuildDocURL(lint.LintName(r.Rule)),
		})
	}
	return diags, true, nil
}

// Put stores the diagnostics of path, replacing any previous entry.
func (s *Store) Put(ctx context.Context, path, contentHash, settingsKey string, diags []lint.Diagnostic) error {
	records := make([]record, len(diags))
	for i, d := range diags {
		records[i] = record{
			Rule:     string(d.Rule),
			Message:  d.Message,
			Span:     d.Span,
			Severity: int(d.Severity),
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO file_results (path, content_hash, settings_key, diagnostics, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   content_hash = excluded.content_hash,
		   settings_key = excluded.settings_key,
		   diagnostics = excluded.diagnostics,
		   updated_at = excluded.updated_at`,
		path, contentHash, settingsKey, string(data), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", path, err)
	}
	return nil
}

// Entries returns the number of cached files.
func (s *Store) Entries(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM file_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Clear removes every cached result and run record.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM file_results`, `DELETE FROM runs`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	return tx.Commit()
}
