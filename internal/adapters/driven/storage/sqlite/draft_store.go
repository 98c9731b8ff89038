package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// draftStore implements driven.DraftStore.
type draftStore struct {
	store *Store
}

var _ driven.DraftStore = (*draftStore)(nil)

const draftColumns = `id, channel, publish_date, publish_time, format, source_id, text,
	edited_text, status, approved_by, approved_at, sent_at, created_at`

// Upsert writes a draft by id when it exists, otherwise by natural key.
func (s *draftStore) Upsert(ctx context.Context, d *domain.Draft) (int64, error) {
	if d == nil || d.Channel == "" || d.PublishDate == "" || d.Format == "" {
		return 0, fmt.Errorf("upserting draft: %w", domain.ErrInvalidInput)
	}
	status := d.Status
	if status == "" {
		status = domain.DraftNew
	}
	now := formatTime(s.store.now())

	if d.ID > 0 {
		res, err := s.store.db.ExecContext(ctx, `
			UPDATE drafts SET
				channel = ?, publish_date = ?, publish_time = ?, format = ?, source_id = ?,
				text = ?, edited_text = ?, status = ?, approved_by = ?, approved_at = ?, updated_at = ?
			WHERE id = ?
		`, d.Channel, d.PublishDate, d.PublishTime, d.Format, d.SourceID,
			d.Text, nullString(d.EditedText), string(status), nullString(d.ApprovedBy),
			formatNullableTime(d.ApprovedAt), now, d.ID)
		if err != nil {
			return 0, fmt.Errorf("updating draft %d: %w", d.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return d.ID, nil
		}
	}

	var id int64
	err := s.store.db.QueryRowContext(ctx, `
		INSERT INTO drafts (channel, publish_date, publish_time, format, source_id, text,
			edited_text, status, approved_by, approved_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(channel, publish_date, format) DO UPDATE SET
			publish_time = excluded.publish_time,
			source_id = excluded.source_id,
			text = excluded.text,
			edited_text = excluded.edited_text,
			status = excluded.status,
			approved_by = excluded.approved_by,
			approved_at = excluded.approved_at,
			updated_at = excluded.updated_at
		RETURNING id
	`, d.Channel, d.PublishDate, d.PublishTime, d.Format, d.SourceID, d.Text,
		nullString(d.EditedText), string(status), nullString(d.ApprovedBy),
		formatNullableTime(d.ApprovedAt), now, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving draft: %w", err)
	}
	return id, nil
}

// Get returns a draft by id.
func (s *draftStore) Get(ctx context.Context, id int64) (*domain.Draft, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT "+draftColumns+" FROM drafts WHERE id = ?", id)
	d, err := scanDraft(row)
	if err != nil {
		return nil, fmt.Errorf("getting draft %d: %w", id, err)
	}
	return d, nil
}

// Find returns the draft for a natural key.
func (s *draftStore) Find(ctx context.Context, key domain.DraftKey) (*domain.Draft, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+draftColumns+" FROM drafts WHERE channel = ? AND publish_date = ? AND format = ?",
		key.Channel, key.Date, key.Format)
	d, err := scanDraft(row)
	if err != nil {
		return nil, fmt.Errorf("finding draft %s/%s/%s: %w", key.Channel, key.Date, key.Format, err)
	}
	return d, nil
}

// List returns drafts matching the filter ordered by date, time and id.
func (s *draftStore) List(ctx context.Context, filter domain.DraftFilter) ([]domain.Draft, error) {
	var where []string
	var args []any
	if filter.Channel != "" {
		where = append(where, "channel = ?")
		args = append(args, filter.Channel)
	}
	if filter.Date != "" {
		where = append(where, "publish_date = ?")
		args = append(args, filter.Date)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := "SELECT " + draftColumns + " FROM drafts"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY publish_date, publish_time, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying drafts: %w", err)
	}
	defer rows.Close()

	var drafts []domain.Draft //nolint:prealloc // size unknown from query
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating drafts: %w", err)
	}
	return drafts, nil
}

// ApplyReview merges a review decision inside a transaction.
// The first approval stamps approved_at; later syncs keep it.
func (s *draftStore) ApplyReview(
	ctx context.Context,
	id int64,
	status domain.DraftStatus,
	editedText, approvedBy string,
	at time.Time,
) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var current string
	err = tx.QueryRowContext(ctx, "SELECT status FROM drafts WHERE id = ?", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reviewing draft %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading draft %d: %w", id, err)
	}
	if !domain.CanTransition(domain.DraftStatus(current), status) {
		return fmt.Errorf("draft %d %s -> %s: %w", id, current, status, domain.ErrInvalidTransition)
	}

	now := formatTime(s.store.now())
	if status == domain.DraftApproved {
		_, err = tx.ExecContext(ctx, `
			UPDATE drafts SET status = ?, edited_text = ?,
				approved_by = COALESCE(?, approved_by),
				approved_at = COALESCE(approved_at, ?),
				updated_at = ?
			WHERE id = ?
		`, string(status), nullString(editedText), nullString(approvedBy), formatTime(at), now, id)
	} else {
		_, err = tx.ExecContext(ctx,
			"UPDATE drafts SET status = ?, edited_text = ?, updated_at = ? WHERE id = ?",
			string(status), nullString(editedText), now, id)
	}
	if err != nil {
		return fmt.Errorf("updating draft %d: %w", id, err)
	}
	return tx.Commit()
}

// MarkSent moves an approved draft to sent.
func (s *draftStore) MarkSent(ctx context.Context, id int64, at time.Time) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE drafts SET status = ?, sent_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, string(domain.DraftSent), formatTime(at), formatTime(s.store.now()), id, string(domain.DraftApproved))
	if err != nil {
		return fmt.Errorf("marking draft %d sent: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var current string
	err = s.store.db.QueryRowContext(ctx, "SELECT status FROM drafts WHERE id = ?", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("marking draft %d sent: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading draft %d: %w", id, err)
	}
	if current == string(domain.DraftSent) {
		return nil
	}
	return fmt.Errorf("draft %d %s -> sent: %w", id, current, domain.ErrInvalidTransition)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDraft scans one draft row.
func scanDraft(row rowScanner) (*domain.Draft, error) {
	var d domain.Draft
	var status string
	var edited, approvedBy, approvedAt, sentAt, createdAt sql.NullString

	err := row.Scan(&d.ID, &d.Channel, &d.PublishDate, &d.PublishTime, &d.Format, &d.SourceID, &d.Text,
		&edited, &status, &approvedBy, &approvedAt, &sentAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning draft: %w", err)
	}

	d.Status = domain.DraftStatus(status)
	d.EditedText = edited.String
	d.ApprovedBy = approvedBy.String
	d.ApprovedAt = parseNullableTime(approvedAt)
	d.SentAt = parseNullableTime(sentAt)
	d.CreatedAt = parseNullableTime(createdAt)
	return &d, nil
}
