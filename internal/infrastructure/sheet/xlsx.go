// Package sheet reads and writes catalog worksheets in .xlsx workbooks
package sheet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/celiapp/catalog/internal/domain"
)

// defaultSheetName is the sheet excelize creates in a new workbook
const defaultSheetName = "Sheet1"

// scratchSheetName holds new contents until they replace the target sheet
const scratchSheetName = "__catalog_write"

// Workbook is a SheetReader and SheetWriter for one worksheet of an .xlsx file
type Workbook struct {
	path     string
	sheet    string
	snapshot string
	mu       sync.Mutex
}

// NewWorkbook creates a workbook adapter. An empty sheet name reads the
// first worksheet and writes to "Sheet1".
func NewWorkbook(path, sheet string) *Workbook {
	return &Workbook{path: path, sheet: sheet}
}

// WithSnapshot makes WriteRows copy the current sheet contents into the named
// worksheet before replacing them
func (w *Workbook) WithSnapshot(name string) *Workbook {
	w.snapshot = name
	return w
}

// ReadRows returns every row of the worksheet, header first
func (w *Workbook) ReadRows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", w.path, err)
	}
	defer f.Close()

	name, err := w.resolveSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// WriteRows replaces the worksheet contents with rows, creating the workbook
// or the worksheet when missing. Other worksheets are left alone.
func (w *Workbook) WriteRows(ctx context.Context, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, created, err := w.openOrCreate()
	if err != nil {
		return err
	}
	defer f.Close()

	target := w.sheet
	if target == "" {
		target = defaultSheetName
	}

	if w.snapshot != "" && !created && sheetExists(f, target) {
		previous, err := f.GetRows(target)
		if err != nil {
			return fmt.Errorf("failed to read sheet for snapshot: %w", err)
		}
		if err := replaceSheet(f, w.snapshot, previous); err != nil {
			return fmt.Errorf("failed to write snapshot %q: %w", w.snapshot, err)
		}
		log.Printf("[SHEET] Snapshot of %q saved to %q (%d rows)", target, w.snapshot, len(previous))
	}

	if created && target != defaultSheetName {
		if err := f.SetSheetName(defaultSheetName, target); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	if err := replaceSheet(f, target, rows); err != nil {
		return fmt.Errorf("failed to write sheet %q: %w", target, err)
	}

	if idx, err := f.GetSheetIndex(target); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// resolveSheet returns the configured sheet name, or the first sheet when unset
func (w *Workbook) resolveSheet(f *excelize.File) (string, error) {
	if w.sheet == "" {
		name := f.GetSheetName(0)
		if name == "" {
			return "", fmt.Errorf("%w: workbook has no sheets", domain.ErrSheetNotFound)
		}
		return name, nil
	}
	if !sheetExists(f, w.sheet) {
		return "", fmt.Errorf("%w: %q in %s", domain.ErrSheetNotFound, w.sheet, w.path)
	}
	return w.sheet, nil
}

func (w *Workbook) openOrCreate() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(w.path)
	if err == nil {
		return f, false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, fmt.Errorf("failed to open workbook %s: %w", w.path, err)
}

func sheetExists(f *excelize.File, name string) bool {
	idx, err := f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// replaceSheet writes rows into a scratch sheet, then swaps it in for name.
// Building aside first means a worksheet never shows a mix of old and new rows.
func replaceSheet(f *excelize.File, name string, rows [][]string) error {
	if sheetExists(f, scratchSheetName) {
		if err := f.DeleteSheet(scratchSheetName); err != nil {
			return err
		}
	}
	if _, err := f.NewSheet(scratchSheetName); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(scratchSheetName, cell, &values); err != nil {
			return err
		}
	}

	if sheetExists(f, name) {
		if err := f.DeleteSheet(name); err != nil {
			return err
		}
	}
	return f.SetSheetName(scratchSheetName, name)
}
