package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

// Ensure SyncBridge implements the interface.
var _ driving.SyncService = (*SyncBridge)(nil)

// DefaultApprover is recorded when an approved row names no reviewer.
const DefaultApprover = "sheet"

// SyncBridge merges reviewer decisions from the review surface into the
// draft store. Rows are untrusted: malformed ones are skipped.
type SyncBridge struct {
	sheet  driven.DraftSheet
	drafts driven.DraftStore
	now    func() time.Time
}

// NewSyncBridge creates a sync bridge.
func NewSyncBridge(sheet driven.DraftSheet, drafts driven.DraftStore) *SyncBridge {
	return &SyncBridge{sheet: sheet, drafts: drafts, now: time.Now}
}

// WithClock sets the clock used for approval stamps.
func (b *SyncBridge) WithClock(now func() time.Time) *SyncBridge {
	b.now = now
	return b
}

// Validate coerces a raw row. It reports false for rows without a
// numeric id or with an unknown status. An empty status reads as new.
func Validate(raw driven.RawRow) (domain.SheetRow, bool) {
	field := func(k string) string { return strings.TrimSpace(raw[k]) }

	id, err := strconv.ParseInt(field("id"), 10, 64)
	if err != nil || id <= 0 {
		return domain.SheetRow{}, false
	}

	status := domain.DraftNew
	if s := field("status"); s != "" {
		parsed, ok := domain.ParseDraftStatus(s)
		if !ok {
			return domain.SheetRow{}, false
		}
		status = parsed
	}

	return domain.SheetRow{
		ID:         id,
		Date:       field("date"),
		Time:       field("time"),
		Channel:    field("channel"),
		Format:     field("format"),
		SourceID:   field("book_id"),
		Text:       field("text"),
		Status:     status,
		EditedText: field("edited_text"),
		ApprovedBy: field("approved_by"),
	}, true
}

// Pull reads and validates every row of the drafts table.
func (b *SyncBridge) Pull(ctx context.Context) ([]domain.SheetRow, error) {
	if b.sheet == nil {
		return nil, nil
	}
	raw, err := b.sheet.PullAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("pulling drafts: %w", err)
	}
	rows := make([]domain.SheetRow, 0, len(raw))
	for _, r := range raw {
		row, ok := Validate(r)
		if !ok {
			logger.Debug("sync: skipping malformed row id=%q status=%q", r["id"], r["status"])
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Apply merges one row into its draft. It reports whether the draft
// changed. Missing drafts and forbidden transitions are skipped.
func (b *SyncBridge) Apply(ctx context.Context, row domain.SheetRow) (bool, error) {
	d, err := b.drafts.Get(ctx, row.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if row.Status == d.Status && row.EditedText == d.EditedText {
		return false, nil
	}
	if row.Status == domain.DraftSent {
		logger.Event(logger.TagSkip, "draft %d: sent is set by the sender, not the sheet", d.ID)
		return false, nil
	}

	approvedBy := ""
	if row.Status == domain.DraftApproved {
		approvedBy = row.ApprovedBy
		if approvedBy == "" {
			approvedBy = DefaultApprover
		}
	}

	err = b.drafts.ApplyReview(ctx, d.ID, row.Status, row.EditedText, approvedBy, b.now())
	if errors.Is(err, domain.ErrInvalidTransition) {
		logger.Event(logger.TagSkip, "draft %d: %s -> %s not allowed", d.ID, d.Status, row.Status)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("applying row for draft %d: %w", d.ID, err)
	}
	return true, nil
}

// SyncMatching applies only the rows addressing one draft key.
func (b *SyncBridge) SyncMatching(ctx context.Context, channel, date, format string) (int, error) {
	return b.sync(ctx, func(r domain.SheetRow) bool {
		return r.Matches(domain.DraftKey{Channel: channel, Date: date, Format: format})
	})
}

// SyncAll applies every row.
func (b *SyncBridge) SyncAll(ctx context.Context) (int, error) {
	return b.sync(ctx, func(domain.SheetRow) bool { return true })
}

func (b *SyncBridge) sync(ctx context.Context, keep func(domain.SheetRow) bool) (int, error) {
	rows, err := b.Pull(ctx)
	if err != nil {
		return 0, err
	}
	applied := 0
	for _, r := range rows {
		if !keep(r) {
			continue
		}
		changed, err := b.Apply(ctx, r)
		if err != nil {
			return applied, err
		}
		if changed {
			applied++
		}
	}
	return applied, nil
}
