// Package sheets implements the review surface table on Google Sheets.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/review"
	"github.com/MaxSetka1/max-autopost-bot/internal/connectors/google"
)

// Value input options.
const (
	inputRaw      = "RAW"
	insertNewRows = "INSERT_ROWS"
)

// Table implements review.Table on one spreadsheet.
type Table struct {
	svc           *sheets.Service
	spreadsheetID string
	limiter       *google.RateLimiter
}

var _ review.Table = (*Table)(nil)

// NewTable creates a table over the spreadsheet with the given key.
func NewTable(svc *sheets.Service, spreadsheetID string) *Table {
	return &Table{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		limiter:       google.NewRateLimiter(google.ServiceSheets),
	}
}

// EnsureTab adds a sheet named tab when the spreadsheet has none.
func (t *Table) EnsureTab(ctx context.Context, tab string) error {
	var ss *sheets.Spreadsheet
	err := t.limiter.Do(ctx, func() error {
		var err error
		ss, err = t.svc.Spreadsheets.Get(t.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("reading spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == tab {
			return nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title:          tab,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
			},
		}},
	}
	err = t.limiter.Do(ctx, func() error {
		_, err := t.svc.Spreadsheets.BatchUpdate(t.spreadsheetID, req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("adding sheet %s: %w", tab, err)
	}
	return nil
}

// ReadAll returns every row of the tab as formatted strings.
func (t *Table) ReadAll(ctx context.Context, tab string) ([][]string, error) {
	var vr *sheets.ValueRange
	err := t.limiter.Do(ctx, func() error {
		var err error
		vr, err = t.svc.Spreadsheets.Values.Get(t.spreadsheetID, tab).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", tab, err)
	}

	rows := make([][]string, len(vr.Values))
	for i, line := range vr.Values {
		row := make([]string, len(line))
		for j, cell := range line {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// WriteCells writes one row of values starting at (row, col).
func (t *Table) WriteCells(ctx context.Context, tab string, row, col int, values []string) error {
	rng := fmt.Sprintf("%s!%s%d", tab, ColumnName(col), row)
	vr := &sheets.ValueRange{Values: [][]any{toCells(values)}}
	return t.limiter.Do(ctx, func() error {
		_, err := t.svc.Spreadsheets.Values.Update(t.spreadsheetID, rng, vr).
			ValueInputOption(inputRaw).Context(ctx).Do()
		return err
	})
}

// AppendRows appends rows in one call.
func (t *Table) AppendRows(ctx context.Context, tab string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]any, len(rows))
	for i, r := range rows {
		values[i] = toCells(r)
	}
	vr := &sheets.ValueRange{Values: values}
	return t.limiter.Do(ctx, func() error {
		_, err := t.svc.Spreadsheets.Values.Append(t.spreadsheetID, tab+"!A1", vr).
			ValueInputOption(inputRaw).InsertDataOption(insertNewRows).Context(ctx).Do()
		return err
	})
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// ColumnName converts a 1-based column number to A1 letters (1 -> A, 27 -> AA).
func ColumnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}
