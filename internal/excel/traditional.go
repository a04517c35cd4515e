package excel

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sheetforge/pdf2sheet/internal/pdf"
)

// Auto-sized columns in the traditional workbook stay inside this range.
const (
	minAutoWidth = 10.0
	maxAutoWidth = 50.0
)

// WriteTraditional saves the multi-sheet summary workbook: document
// summary, text by line, extracted tables, metadata, and image details
// when any were cataloged.
func (w *Writer) WriteTraditional(doc *pdf.DocumentContent, path string) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	styles, err := buildBasicStyles(f)
	if err != nil {
		return fmt.Errorf("register styles: %w", err)
	}

	if err := writeSummarySheet(f, doc, styles); err != nil {
		return err
	}
	if err := writeTextSheet(f, doc, styles); err != nil {
		return err
	}
	if err := writeTablesSheet(f, doc, styles); err != nil {
		return err
	}
	if err := writeMetadataSheet(f, doc, styles); err != nil {
		return err
	}
	if len(doc.Images) > 0 {
		if err := writeImagesSheet(f, doc, styles); err != nil {
			return err
		}
	}

	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("Summary"); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, doc *pdf.DocumentContent, styles basicStyles) error {
	t, err := newSheetTable(f, "Summary")
	if err != nil {
		return err
	}

	tableCount := 0
	for _, page := range doc.Pages {
		tableCount += len(page.Tables)
	}

	if err := t.appendRow(styles.header, "Property", "Value"); err != nil {
		return err
	}
	rows := []struct {
		label string
		value any
	}{
		{"File Name", filepath.Base(doc.Path)},
		{"File Size", humanBytes(doc.Size)},
		{"Page Count", doc.PageCount},
		{"Table Count", tableCount},
		{"Image Count", len(doc.Images)},
	}
	for _, row := range rows {
		if err := t.appendRow(0, row.label, row.value); err != nil {
			return err
		}
	}
	for _, page := range doc.Pages {
		label := fmt.Sprintf("Page %d Words", page.Number)
		if err := t.appendRow(0, label, len(strings.Fields(page.PlainText))); err != nil {
			return err
		}
	}
	return t.applyWidths()
}

func writeTextSheet(f *excelize.File, doc *pdf.DocumentContent, styles basicStyles) error {
	t, err := newSheetTable(f, "Document_Text")
	if err != nil {
		return err
	}

	if err := t.appendRow(styles.header, "Page", "Line", "Text"); err != nil {
		return err
	}
	for _, page := range doc.Pages {
		lineNo := 0
		for _, line := range strings.Split(page.PlainText, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			lineNo++
			if err := t.appendRow(0, page.Number, lineNo, line); err != nil {
				return err
			}
		}
	}
	return t.applyWidths()
}

func writeTablesSheet(f *excelize.File, doc *pdf.DocumentContent, styles basicStyles) error {
	t, err := newSheetTable(f, "Extracted_Tables")
	if err != nil {
		return err
	}

	index := 0
	for _, page := range doc.Pages {
		for _, table := range page.Tables {
			index++
			if index > 1 {
				t.blankRow()
			}
			title := fmt.Sprintf("Table %d", index)
			origin := fmt.Sprintf("Page %d", page.Number)
			dims := fmt.Sprintf("%d x %d", table.RowCount, table.ColCount)
			if err := t.appendRow(styles.header, title, origin, dims); err != nil {
				return err
			}
			for _, cells := range table.Cells {
				values := make([]any, len(cells))
				for i, cell := range cells {
					values[i] = cell
				}
				if err := t.appendRow(styles.cell, values...); err != nil {
					return err
				}
			}
		}
	}
	if index == 0 {
		if err := t.appendRow(0, "No tables detected"); err != nil {
			return err
		}
	}
	return t.applyWidths()
}

func writeMetadataSheet(f *excelize.File, doc *pdf.DocumentContent, styles basicStyles) error {
	t, err := newSheetTable(f, "Document_Metadata")
	if err != nil {
		return err
	}

	if err := t.appendRow(styles.header, "Property", "Value"); err != nil {
		return err
	}
	entries := []struct {
		key   string
		value string
	}{
		{"Title", doc.Metadata.Title},
		{"Author", doc.Metadata.Author},
		{"Subject", doc.Metadata.Subject},
		{"Creator", doc.Metadata.Creator},
		{"Producer", doc.Metadata.Producer},
		{"Creation Date", doc.Metadata.CreationDate},
		{"Modified Date", doc.Metadata.ModifiedDate},
	}
	written := false
	for _, e := range entries {
		if e.value == "" {
			continue
		}
		if err := t.appendRow(0, e.key, e.value); err != nil {
			return err
		}
		written = true
	}
	if !written {
		if err := t.appendRow(0, "No metadata present"); err != nil {
			return err
		}
	}
	return t.applyWidths()
}

func writeImagesSheet(f *excelize.File, doc *pdf.DocumentContent, styles basicStyles) error {
	t, err := newSheetTable(f, "Images_Information")
	if err != nil {
		return err
	}

	if err := t.appendRow(styles.header, "Page", "Index", "Dimensions", "Color Space", "Bits", "Filter"); err != nil {
		return err
	}
	for _, img := range doc.Images {
		dims := fmt.Sprintf("%d x %d", img.Width, img.Height)
		colorSpace := img.ColorSpace
		if colorSpace == "" {
			colorSpace = "unknown"
		}
		if err := t.appendRow(0, img.PageNumber, img.Index, dims, colorSpace, img.BitsPerComponent, img.Format); err != nil {
			return err
		}
	}
	return t.applyWidths()
}

// sheetTable appends rows to one sheet while tracking content widths so
// the columns can be sized to content afterwards.
type sheetTable struct {
	f      *excelize.File
	sheet  string
	row    int
	widths []float64
}

func newSheetTable(f *excelize.File, sheet string) (*sheetTable, error) {
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	return &sheetTable{f: f, sheet: sheet, row: 1}, nil
}

// appendRow writes the values across one row starting at column A. A zero
// style ID leaves the cells unstyled.
func (t *sheetTable) appendRow(styleID int, values ...any) error {
	for i, v := range values {
		cell := cellName(i+1, t.row)
		if err := t.f.SetCellValue(t.sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", t.sheet, cell, err)
		}
		if styleID != 0 {
			if err := t.f.SetCellStyle(t.sheet, cell, cell, styleID); err != nil {
				return fmt.Errorf("style %s!%s: %w", t.sheet, cell, err)
			}
		}
		t.noteWidth(i, fmt.Sprint(v))
	}
	t.row++
	return nil
}

func (t *sheetTable) blankRow() {
	t.row++
}

func (t *sheetTable) noteWidth(col int, text string) {
	for len(t.widths) <= col {
		t.widths = append(t.widths, 0)
	}
	if w := float64(len([]rune(text))) + 2; w > t.widths[col] {
		t.widths[col] = w
	}
}

// applyWidths sizes each column to its longest content, clamped to the
// auto-width range.
func (t *sheetTable) applyWidths() error {
	for i, width := range t.widths {
		if width > maxAutoWidth {
			width = maxAutoWidth
		}
		if width < minAutoWidth {
			width = minAutoWidth
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := t.f.SetColWidth(t.sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// humanBytes renders a byte count in the nearest binary unit.
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
