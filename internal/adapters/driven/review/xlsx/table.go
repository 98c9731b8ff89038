// Package xlsx implements the review surface table on a local Excel
// workbook, for running without Google credentials.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/review"
)

// DefaultWorkbook is the workbook file name used under the data directory.
const DefaultWorkbook = "review.xlsx"

// excelize names the first sheet of a new workbook this.
const defaultSheet = "Sheet1"

// Table implements review.Table on one workbook file. Every call opens
// the file and saves it back, so edits made in a spreadsheet app between
// calls are picked up.
type Table struct {
	mu   sync.Mutex
	path string
}

var _ review.Table = (*Table)(nil)

// NewTable creates a table stored at path. The file is created lazily.
func NewTable(path string) *Table {
	return &Table{path: path}
}

// Path returns the workbook location.
func (t *Table) Path() string {
	return t.path
}

// EnsureTab adds a sheet named tab when the workbook has none.
func (t *Table) EnsureTab(_ context.Context, tab string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := t.open()
	if err != nil {
		return err
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(tab)
	if err != nil {
		return fmt.Errorf("looking up sheet %s: %w", tab, err)
	}
	if idx >= 0 {
		return t.save(f)
	}

	if _, err := f.NewSheet(tab); err != nil {
		return fmt.Errorf("adding sheet %s: %w", tab, err)
	}
	// Drop the placeholder sheet of a fresh workbook.
	if tab != defaultSheet {
		if rows, err := f.GetRows(defaultSheet); err == nil && len(rows) == 0 {
			_ = f.DeleteSheet(defaultSheet)
		}
	}
	return t.save(f)
}

// ReadAll returns every row of the tab. A missing workbook or tab reads
// as empty.
func (t *Table) ReadAll(_ context.Context, tab string) ([][]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := os.Stat(t.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	f, err := t.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(tab); idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(tab)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", tab, err)
	}
	return rows, nil
}

// WriteCells writes one row of values starting at (row, col).
func (t *Table) WriteCells(_ context.Context, tab string, row, col int, values []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := t.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := setRow(f, tab, row, col, values); err != nil {
		return err
	}
	return t.save(f)
}

// AppendRows writes rows after the last row of the tab.
func (t *Table) AppendRows(_ context.Context, tab string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := t.open()
	if err != nil {
		return err
	}
	defer f.Close()

	existing, err := f.GetRows(tab)
	if err != nil {
		return fmt.Errorf("reading sheet %s: %w", tab, err)
	}
	next := len(existing) + 1
	for i, r := range rows {
		if err := setRow(f, tab, next+i, 1, r); err != nil {
			return err
		}
	}
	return t.save(f)
}

func setRow(f *excelize.File, tab string, row, col int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell %d,%d: %w", col, row, err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(tab, cell, &cells); err != nil {
		return fmt.Errorf("writing %s!%s: %w", tab, cell, err)
	}
	return nil
}

// open opens the workbook, or starts a new one when the file is missing.
func (t *Table) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(t.path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	return excelize.NewFile(), nil
}

func (t *Table) save(f *excelize.File) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0700); err != nil {
		return fmt.Errorf("creating workbook directory: %w", err)
	}
	if err := f.SaveAs(t.path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
