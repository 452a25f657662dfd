// Package xlsx renders export workbooks as Excel files.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	ports "katha/internal/sheets"
)

// Amount columns, zero-based, stored as numbers rather than text.
var (
	ledgerNumeric  = map[int]bool{5: true, 6: true}
	summaryNumeric = map[int]bool{2: true, 3: true, 4: true}
)

// Write encodes wb as an .xlsx document with one sheet per table.
func Write(w io.Writer, wb ports.Workbook, ledgerSheet, summarySheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ledgerSheet); err != nil {
		return fmt.Errorf("name ledger sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := writeTable(f, ledgerSheet, wb.Ledger, ledgerNumeric, bold); err != nil {
		return err
	}
	if err := writeTable(f, summarySheet, wb.Summary, summaryNumeric, bold); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, rows [][]any, numeric map[int]bool, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for col, v := range row {
			values[col] = v
			if i > 0 && numeric[col] {
				values[col] = number(v)
			}
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze %s header: %w", sheet, err)
	}
	last, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 16)
}

// number turns a rendered amount back into a float; blanks stay blank.
func number(v any) any {
	s, ok := v.(string)
	if !ok || s == "" {
		return v
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return v
}

// Exporter writes each export to a file, replacing the previous one.
type Exporter struct {
	path         string
	ledgerSheet  string
	summarySheet string
}

var _ ports.LedgerExporter = (*Exporter)(nil)

func NewExporter(path, ledgerSheet, summarySheet string) (*Exporter, error) {
	if path == "" {
		return nil, fmt.Errorf("xlsx export path is required")
	}
	if ledgerSheet == "" || summarySheet == "" || ledgerSheet == summarySheet {
		return nil, fmt.Errorf("two distinct sheet names are required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Exporter{path: path, ledgerSheet: ledgerSheet, summarySheet: summarySheet}, nil
}

// Path returns the file written by ExportLedger.
func (e *Exporter) Path() string {
	return e.path
}

// ExportLedger writes wb next to the target and renames it into place.
func (e *Exporter) ExportLedger(ctx context.Context, wb ports.Workbook) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(e.path), filepath.Base(e.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp export: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, wb, e.ledgerSheet, e.summarySheet); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp export: %w", err)
	}
	if err := os.Rename(tmp.Name(), e.path); err != nil {
		return fmt.Errorf("replace export: %w", err)
	}

	slog.InfoContext(ctx, "Exported ledger workbook",
		"path", e.path,
		"revision", wb.Revision,
		"rows", wb.Rows())
	return nil
}
