// Package review implements the collaborative review surface ports
// (DraftSheet, ControlQueue, SourceCatalog, SourceMetadata) on top of a
// generic row table. The Google Sheets connector and the xlsx adapter
// each provide a Table.
package review

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// Tab names on the review surface.
const (
	TabDrafts  = "drafts"
	TabControl = "control"
	TabBooks   = "books"
)

// Table is a spreadsheet-like store of string rows grouped in named tabs.
// Rows and columns are 1-based.
type Table interface {
	// EnsureTab creates the tab when it does not exist.
	EnsureTab(ctx context.Context, tab string) error

	// ReadAll returns every row of the tab, header included.
	ReadAll(ctx context.Context, tab string) ([][]string, error)

	// WriteCells writes values left to right starting at (row, col).
	WriteCells(ctx context.Context, tab string, row, col int, values []string) error

	// AppendRows adds rows after the last non-empty row.
	AppendRows(ctx context.Context, tab string, rows [][]string) error
}

// Surface implements the review ports over a Table.
type Surface struct {
	table Table
	now   func() time.Time

	mu    sync.Mutex
	ready map[string]bool
}

var (
	_ driven.DraftSheet     = (*Surface)(nil)
	_ driven.ControlQueue   = (*Surface)(nil)
	_ driven.SourceCatalog  = catalogView{}
	_ driven.SourceMetadata = (*Surface)(nil)
)

// NewSurface creates a review surface over table.
func NewSurface(table Table) *Surface {
	return &Surface{table: table, now: time.Now, ready: make(map[string]bool)}
}

// WithClock replaces the time source used for updated_at stamps.
func (s *Surface) WithClock(now func() time.Time) *Surface {
	s.now = now
	return s
}

// ensureHeaders makes the tab exist and its first row equal headers.
// Existing data rows are left in place.
func (s *Surface) ensureHeaders(ctx context.Context, tab string, headers []string) error {
	s.mu.Lock()
	ok := s.ready[tab]
	s.mu.Unlock()
	if ok {
		return nil
	}

	if err := s.table.EnsureTab(ctx, tab); err != nil {
		return fmt.Errorf("ensuring %s tab: %w", tab, err)
	}
	rows, err := s.table.ReadAll(ctx, tab)
	if err != nil {
		return fmt.Errorf("reading %s headers: %w", tab, err)
	}
	if len(rows) == 0 || !hasHeaders(rows[0], headers) {
		if err := s.table.WriteCells(ctx, tab, 1, 1, headers); err != nil {
			return fmt.Errorf("writing %s headers: %w", tab, err)
		}
	}

	s.mu.Lock()
	s.ready[tab] = true
	s.mu.Unlock()
	return nil
}

func hasHeaders(row, headers []string) bool {
	if len(row) < len(headers) {
		return false
	}
	for i, h := range headers {
		if strings.TrimSpace(row[i]) != h {
			return false
		}
	}
	return true
}

// readRecords returns data rows keyed by header along with their 1-based row numbers.
func (s *Surface) readRecords(ctx context.Context, tab string, headers []string) ([]driven.RawRow, []int, error) {
	if err := s.ensureHeaders(ctx, tab, headers); err != nil {
		return nil, nil, err
	}
	rows, err := s.table.ReadAll(ctx, tab)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", tab, err)
	}
	if len(rows) < 2 {
		return nil, nil, nil
	}

	header := rows[0]
	var records []driven.RawRow //nolint:prealloc // blank rows are skipped
	var rowNums []int           //nolint:prealloc // blank rows are skipped
	for i, line := range rows[1:] {
		if isBlank(line) {
			continue
		}
		rec := make(driven.RawRow, len(header))
		for c, h := range header {
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			if c < len(line) {
				rec[h] = line[c]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
		rowNums = append(rowNums, i+2)
	}
	return records, rowNums, nil
}

func isBlank(line []string) bool {
	for _, v := range line {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func column(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i + 1
		}
	}
	return 0
}

// ==================== DraftSheet ====================

// Push mirrors drafts onto the drafts tab. A draft whose id or
// (channel, date, format) already has a row is rewritten in place;
// the rest are appended in one batch.
func (s *Surface) Push(ctx context.Context, drafts []domain.Draft) error {
	if len(drafts) == 0 {
		return nil
	}
	records, rowNums, err := s.readRecords(ctx, TabDrafts, driven.DraftHeaders)
	if err != nil {
		return err
	}

	byID := make(map[string]int, len(records))
	byKey := make(map[domain.DraftKey]int, len(records))
	for i, rec := range records {
		if id := strings.TrimSpace(rec["id"]); id != "" {
			byID[id] = rowNums[i]
		}
		byKey[rowKey(rec)] = rowNums[i]
	}

	var rows [][]string
	for _, d := range drafts {
		row, ok := byID[strconv.FormatInt(d.ID, 10)]
		if !ok || d.ID == 0 {
			row, ok = byKey[d.Key()]
		}
		if !ok {
			rows = append(rows, draftRow(d))
			continue
		}
		if err := s.table.WriteCells(ctx, TabDrafts, row, 1, draftRow(d)); err != nil {
			return fmt.Errorf("updating draft row %d: %w", row, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.table.AppendRows(ctx, TabDrafts, rows); err != nil {
		return fmt.Errorf("appending drafts: %w", err)
	}
	return nil
}

func rowKey(rec driven.RawRow) domain.DraftKey {
	return domain.DraftKey{
		Channel: strings.TrimSpace(rec["channel"]),
		Date:    strings.TrimSpace(rec["date"]),
		Format:  strings.ToLower(strings.TrimSpace(rec["format"])),
	}
}

func draftRow(d domain.Draft) []string {
	status := d.Status
	if status == "" {
		status = domain.DraftNew
	}
	approvedAt := ""
	if !d.ApprovedAt.IsZero() {
		approvedAt = d.ApprovedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		strconv.FormatInt(d.ID, 10), d.PublishDate, d.PublishTime, d.Channel,
		d.Format, d.SourceID, d.Text, string(status), d.EditedText, d.ApprovedBy, approvedAt,
	}
}

// PullAll returns every row of the drafts tab.
func (s *Surface) PullAll(ctx context.Context) ([]driven.RawRow, error) {
	records, _, err := s.readRecords(ctx, TabDrafts, driven.DraftHeaders)
	return records, err
}

// ==================== ControlQueue ====================

// PullRequests returns rows whose status is "request".
func (s *Surface) PullRequests(ctx context.Context) ([]domain.ControlRequest, error) {
	records, rowNums, err := s.readRecords(ctx, TabControl, driven.ControlHeaders)
	if err != nil {
		return nil, err
	}

	var requests []domain.ControlRequest
	for i, rec := range records {
		req := domain.ControlRequest{
			Row:       rowNums[i],
			Timestamp: strings.TrimSpace(rec["timestamp"]),
			Action:    strings.TrimSpace(rec["action"]),
			Date:      strings.TrimSpace(rec["date"]),
			Channel:   strings.TrimSpace(rec["channel"]),
			Alias:     strings.TrimSpace(rec["alias"]),
			Status:    strings.TrimSpace(rec["status"]),
			Note:      rec["note"],
		}
		if req.IsPending() {
			requests = append(requests, req)
		}
	}
	return requests, nil
}

// UpdateStatus writes status and note back to a control row.
func (s *Surface) UpdateStatus(ctx context.Context, row int, status, note string) error {
	if row < 2 {
		return fmt.Errorf("control row %d: %w", row, domain.ErrInvalidInput)
	}
	if err := s.ensureHeaders(ctx, TabControl, driven.ControlHeaders); err != nil {
		return err
	}
	col := column(driven.ControlHeaders, "status")
	if err := s.table.WriteCells(ctx, TabControl, row, col, []string{status, note}); err != nil {
		return fmt.Errorf("updating control row %d: %w", row, err)
	}
	return nil
}

// ==================== SourceCatalog ====================

// List returns every catalog entry in surface order.
func (s *Surface) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	entries, _, err := s.listCatalog(ctx)
	return entries, err
}

func (s *Surface) listCatalog(ctx context.Context) ([]domain.CatalogEntry, []int, error) {
	records, rowNums, err := s.readRecords(ctx, TabBooks, driven.CatalogHeaders)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.CatalogEntry, 0, len(records))
	rows := make([]int, 0, len(records))
	for i, rec := range records {
		id := strings.TrimSpace(rec["file_id"])
		if id == "" {
			continue
		}
		status := domain.CatalogStatus(strings.ToLower(strings.TrimSpace(rec["status"])))
		if status == "" {
			status = domain.CatalogNew
		}
		updatedAt, _ := time.Parse(time.RFC3339, strings.TrimSpace(rec["updated_at"]))
		entries = append(entries, domain.CatalogEntry{
			ID:        id,
			Title:     strings.TrimSpace(rec["title"]),
			Author:    strings.TrimSpace(rec["author"]),
			MIMEType:  strings.TrimSpace(rec["mimeType"]),
			URL:       strings.TrimSpace(rec["url"]),
			Status:    status,
			UpdatedAt: updatedAt,
			Note:      rec["note"],
		})
		rows = append(rows, rowNums[i])
	}
	return entries, rows, nil
}

// Catalog returns a SourceCatalog view of the surface.
// Surface itself carries the ControlQueue UpdateStatus.
func (s *Surface) Catalog() driven.SourceCatalog {
	return catalogView{s}
}

type catalogView struct{ s *Surface }

func (c catalogView) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	return c.s.List(ctx)
}

func (c catalogView) UpdateStatus(ctx context.Context, id string, status domain.CatalogStatus, note string) error {
	return c.s.UpdateCatalogStatus(ctx, id, status, note)
}

func (c catalogView) Append(ctx context.Context, entries []domain.CatalogEntry) error {
	return c.s.Append(ctx, entries)
}

// UpdateCatalogStatus sets an entry's status and note and stamps updated_at.
// Unknown ids are ignored.
func (s *Surface) UpdateCatalogStatus(ctx context.Context, id string, status domain.CatalogStatus, note string) error {
	entries, rows, err := s.listCatalog(ctx)
	if err != nil {
		return err
	}
	for i, e := range entries {
		if e.ID != id {
			continue
		}
		col := column(driven.CatalogHeaders, "status")
		stamp := s.now().UTC().Format(time.RFC3339)
		if err := s.table.WriteCells(ctx, TabBooks, rows[i], col, []string{string(status), stamp, note}); err != nil {
			return fmt.Errorf("updating catalog entry %s: %w", id, err)
		}
		return nil
	}
	return nil
}

// Append adds entries whose id is not in the catalog yet.
func (s *Surface) Append(ctx context.Context, entries []domain.CatalogEntry) error {
	existing, _, err := s.listCatalog(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.ID] = true
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	var rows [][]string
	for _, e := range entries {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		status := e.Status
		if status == "" {
			status = domain.CatalogNew
		}
		rows = append(rows, []string{e.ID, e.Title, e.MIMEType, e.URL, string(status), stamp, e.Note, e.Author})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.table.AppendRows(ctx, TabBooks, rows); err != nil {
		return fmt.Errorf("appending catalog entries: %w", err)
	}
	return nil
}

// ==================== SourceMetadata ====================

// Lookup returns the catalog title and author for a source id.
func (s *Surface) Lookup(ctx context.Context, sourceID string) (domain.SourceMeta, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return domain.SourceMeta{}, err
	}
	for _, e := range entries {
		if e.ID == sourceID {
			return domain.SourceMeta{Title: e.Title, Author: e.Author}, nil
		}
	}
	return domain.SourceMeta{}, fmt.Errorf("catalog entry %s: %w", sourceID, domain.ErrNotFound)
}
