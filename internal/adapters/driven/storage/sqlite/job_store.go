package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

// RecordRun logs a run, assigning an id when empty.
func (s *jobStore) RecordRun(ctx context.Context, run *domain.JobRun) error {
	if run == nil || run.Kind == "" {
		return domain.ErrInvalidInput
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = s.store.now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO job_runs (id, kind, key, started_at, ended_at, success, note, error, items)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ended_at = excluded.ended_at,
			success = excluded.success,
			note = excluded.note,
			error = excluded.error,
			items = excluded.items
	`, run.ID, run.Kind, run.Key,
		formatTime(run.StartedAt), formatNullableTime(run.EndedAt),
		boolToInt(run.Success), nullString(run.Note), nullString(run.Error), run.Items)
	if err != nil {
		return fmt.Errorf("recording job run: %w", err)
	}
	return nil
}

// History returns recent runs, most recent first. An empty kind returns all kinds.
func (s *jobStore) History(ctx context.Context, kind string, limit int) ([]domain.JobRun, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, kind, key, started_at, ended_at, success, note, error, items
		FROM job_runs
		WHERE ? = '' OR kind = ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, kind, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("querying job history: %w", err)
	}
	defer rows.Close()

	var runs []domain.JobRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanJobRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job history: %w", err)
	}
	return runs, nil
}

// HasRun reports whether any run with this kind and key was recorded.
func (s *jobStore) HasRun(ctx context.Context, kind, key string) (bool, error) {
	var exists int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM job_runs WHERE kind = ? AND key = ?)", kind, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking job run: %w", err)
	}
	return exists == 1, nil
}

// PruneHistory keeps the most recent 'keep' runs per kind.
func (s *jobStore) PruneHistory(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM job_runs
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY kind ORDER BY started_at DESC, rowid DESC) as rn
				FROM job_runs
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning job history: %w", err)
	}
	return nil
}

// scanJobRun scans a job run from *sql.Rows.
func scanJobRun(rows *sql.Rows) (*domain.JobRun, error) {
	var run domain.JobRun
	var startedAt, endedAt, note, errMsg sql.NullString
	var success int

	if err := rows.Scan(&run.ID, &run.Kind, &run.Key, &startedAt, &endedAt,
		&success, &note, &errMsg, &run.Items); err != nil {
		return nil, fmt.Errorf("scanning job run: %w", err)
	}

	run.StartedAt = parseNullableTime(startedAt)
	run.EndedAt = parseNullableTime(endedAt)
	run.Success = success == 1
	run.Note = note.String
	run.Error = errMsg.String
	return &run, nil
}
