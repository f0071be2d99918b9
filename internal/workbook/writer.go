// =============================================================================
// Wage Determination Diff - Workbook Writer
// =============================================================================
//
// This module writes record and change tables to an XLSX workbook:
//
//   | Sheet       | Content                                           |
//   |-------------|---------------------------------------------------|
//   | <old label> | Records parsed from the old revision              |
//   | <new label> | Records parsed from the new revision              |
//   | Changes     | Change table (omitted when there are no changes)  |
//
// STYLING (sheets with at least one data row):
//   - Bold header row
//   - Columns whose header contains "Rate" or "Fringe" hold numbers with
//     the currency format; empty or unparsable values are left as they are
//   - Column width = longest cell text + 2
//
// =============================================================================

package workbook

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/wagediff/internal/types"
)

// DefaultCurrencyFormat renders 1234.5 as "$1,234.50".
const DefaultCurrencyFormat = `"$"#,##0.00`

// ErrNoSheets is returned when Build is called without sheets.
var ErrNoSheets = errors.New("workbook needs at least one sheet")

// ErrDuplicateSheet is returned when two sheet names match ignoring case.
var ErrDuplicateSheet = errors.New("duplicate sheet name")

// =============================================================================
// SHEET DEFINITIONS
// =============================================================================

// Sheet is one worksheet: a header row and string cells.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Options controls workbook styling.
type Options struct {
	// CurrencyFormat is an Excel number format. Empty uses DefaultCurrencyFormat.
	CurrencyFormat string
}

// RecordSheet turns a record table into a sheet named after its label.
func RecordSheet(table *types.RecordTable) Sheet {
	return Sheet{Name: table.Label, Columns: table.Columns(), Rows: table.Rows()}
}

// ChangeSheet turns a change table into a sheet.
func ChangeSheet(table *types.ChangeTable, name string) Sheet {
	return Sheet{Name: name, Columns: table.Columns(), Rows: table.Rows()}
}

// ComparisonSheets lays out a comparison: old records, new records, then
// the change table only if it is not empty.
func ComparisonSheets(oldTable, newTable *types.RecordTable, changes *types.ChangeTable, changesName string) []Sheet {
	sheets := []Sheet{RecordSheet(oldTable), RecordSheet(newTable)}
	if !changes.Empty() {
		sheets = append(sheets, ChangeSheet(changes, changesName))
	}
	return sheets
}

// CurrencyColumns returns the 0-based indexes of money columns.
func CurrencyColumns(columns []string) []int {
	var idx []int
	for i, name := range columns {
		if strings.Contains(name, "Rate") || strings.Contains(name, "Fringe") {
			idx = append(idx, i)
		}
	}
	return idx
}

// =============================================================================
// WRITING
// =============================================================================

// Write builds the workbook and saves it to path.
func Write(path string, sheets []Sheet, opts Options) error {
	f, err := Build(sheets, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Build creates an in-memory workbook. The caller owns the returned file.
func Build(sheets []Sheet, opts Options) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	if opts.CurrencyFormat == "" {
		opts.CurrencyFormat = DefaultCurrencyFormat
	}

	f := excelize.NewFile()

	styles, err := newStyles(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else {
			// NewSheet returns the existing sheet for a case-insensitive match.
			idx, err := f.GetSheetIndex(sheet.Name)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to look up sheet %q: %w", sheet.Name, err)
			}
			if idx != -1 {
				f.Close()
				return nil, fmt.Errorf("%w: %q", ErrDuplicateSheet, sheet.Name)
			}
			if _, err := f.NewSheet(sheet.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
			}
		}

		if err := writeSheet(f, sheet, styles); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet %q: %w", sheet.Name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

type styleSet struct {
	header   int
	currency int
}

func newStyles(f *excelize.File, opts Options) (styleSet, error) {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return styleSet{}, fmt.Errorf("failed to create header style: %w", err)
	}

	numFmt := opts.CurrencyFormat
	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return styleSet{}, fmt.Errorf("failed to create currency style: %w", err)
	}

	return styleSet{header: header, currency: currency}, nil
}

func writeSheet(f *excelize.File, sheet Sheet, styles styleSet) error {
	for col, name := range sheet.Columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet.Name, cell, name); err != nil {
			return err
		}
	}

	styled := len(sheet.Rows) > 0
	money := make(map[int]bool)
	for _, idx := range CurrencyColumns(sheet.Columns) {
		money[idx] = true
	}

	for r, row := range sheet.Rows {
		for col, value := range row {
			if value == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)

			if styled && money[col] {
				if d, err := decimal.NewFromString(value); err == nil {
					if err := f.SetCellValue(sheet.Name, cell, d.InexactFloat64()); err != nil {
						return err
					}
					if err := f.SetCellStyle(sheet.Name, cell, cell, styles.currency); err != nil {
						return err
					}
					continue
				}
			}

			if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
				return err
			}
		}
	}

	if !styled || len(sheet.Columns) == 0 {
		return nil
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(sheet.Columns), 1)
	if err := f.SetCellStyle(sheet.Name, "A1", lastHeader, styles.header); err != nil {
		return err
	}

	for col, width := range columnWidths(sheet) {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(sheet.Name, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

// columnWidths returns, per column, the longest text in it plus 2.
func columnWidths(sheet Sheet) []int {
	widths := make([]int, len(sheet.Columns))
	for col, name := range sheet.Columns {
		widths[col] = utf8.RuneCountInString(name)
	}
	for _, row := range sheet.Rows {
		for col, value := range row {
			if col >= len(widths) {
				continue
			}
			if n := utf8.RuneCountInString(value); n > widths[col] {
				widths[col] = n
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}
	return widths
}
