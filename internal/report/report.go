// Package report renders a change table as a printable PDF.
//
// The document is a landscape Letter page (more when needed) with a title
// bar, a short summary of both revisions and the change table. Amounts are
// shown as USD, e.g. "$1,040.50".
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/wagediff/internal/types"
)

const currencyCode = money.USD

const (
	margin     = 12.0
	rowHeight  = 6.0
	headHeight = 7.0
)

// columnWidths are in mm and add up to the Letter landscape content width.
var columnWidths = []float64{60, 60, 23, 28, 28, 28, 28}

// Input is everything the report shows.
type Input struct {
	OldLabel string
	NewLabel string
	OldFile  string
	NewFile  string

	OldRecords int
	NewRecords int

	Changes *types.ChangeTable

	// Generated defaults to time.Now().
	Generated time.Time
}

// FormatAmount renders a two-place decimal string as USD. Empty stays
// empty; values that are not decimals are returned unchanged.
func FormatAmount(value string) string {
	if value == "" {
		return ""
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return value
	}
	cents := d.Shift(2).Round(0).IntPart()
	return money.New(cents, currencyCode).Display()
}

// WriteFile renders the report to a new file at path.
func WriteFile(path string, in Input) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PDF file: %w", err)
	}

	if err := Generate(in, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close PDF file: %w", err)
	}
	return nil
}

// Generate writes the PDF to w.
func Generate(in Input, w io.Writer) error {
	if in.Generated.IsZero() {
		in.Generated = time.Now()
	}

	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AliasNbPages("{nb}")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin + 2)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	drawTitle(pdf, tr, in)
	drawTable(pdf, tr, in.Changes)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

func drawTitle(pdf *fpdf.Fpdf, tr func(string) string, in Input) {
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margin

	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(margin, margin, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(margin+2, margin+1.5)
	pdf.CellFormat(contentW-4, 7, tr("WAGE DETERMINATION CHANGES: "+in.OldLabel+" to "+in.NewLabel), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetXY(margin, margin+13)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("%s: %s (%d records)", in.OldLabel, in.OldFile, in.OldRecords)), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("%s: %s (%d records)", in.NewLabel, in.NewFile, in.NewRecords)), "", 1, "L", false, 0, "")

	counts := in.Changes.CountByType()
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Added: %d   Removed: %d   Modified: %d   Generated: %s",
		counts[types.ChangeAdded], counts[types.ChangeRemoved], counts[types.ChangeModified],
		in.Generated.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(3)
}

func drawHeader(pdf *fpdf.Fpdf, tr func(string) string, columns []string) {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	for i, name := range columns {
		pdf.CellFormat(columnWidths[i], headHeight, tr(name), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 8)
}

func drawTable(pdf *fpdf.Fpdf, tr func(string) string, changes *types.ChangeTable) {
	_, pageH := pdf.GetPageSize()
	columns := changes.Columns()

	drawHeader(pdf, tr, columns)

	if changes.Empty() {
		pdf.CellFormat(sum(columnWidths), rowHeight, "No changes.", "1", 1, "C", false, 0, "")
		return
	}

	for _, change := range changes.Changes {
		if pdf.GetY()+rowHeight > pageH-margin-6 {
			pdf.AddPage()
			drawHeader(pdf, tr, columns)
		}

		cells := change.Values()
		for i, value := range cells {
			align := "L"
			if i >= 3 {
				value = FormatAmount(value)
				align = "R"
			}
			pdf.CellFormat(columnWidths[i], rowHeight, fit(pdf, tr(value), columnWidths[i]-2), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fit shortens s until it fits in width mm at the current font.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
