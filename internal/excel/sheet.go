package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sheetforge/pdf2sheet/internal/layout"
)

// sheetRenderer writes one page's unified element sequence onto one sheet.
// It holds no state beyond the output row cursor and the running report,
// so a fresh renderer per page keeps pages independent.
type sheetRenderer struct {
	f      *excelize.File
	sheet  string
	doc    docStyles
	page   pageStyles
	cursor int
	report *SheetReport
}

func newSheetRenderer(f *excelize.File, sheet string, doc docStyles, page pageStyles, report *SheetReport) *sheetRenderer {
	return &sheetRenderer{
		f:      f,
		sheet:  sheet,
		doc:    doc,
		page:   page,
		cursor: 1,
		report: report,
	}
}

// render walks the element sequence top to bottom. A failing element is
// recorded and skipped; rendering always continues.
func (r *sheetRenderer) render(elements []layout.UnifiedElement) {
	for i, el := range elements {
		switch {
		case el.Kind == layout.ElementTextRow && el.Row != nil && len(el.Row.Spans) > 0:
			if err := r.renderTextRow(el.Row); err != nil {
				r.skip(i, err.Error())
				continue
			}
			r.report.Emitted++
		case el.Kind == layout.ElementTable && el.Table != nil && len(el.Table.Cells) > 0:
			r.renderTable(i, el.Table)
			r.report.Emitted++
		default:
			r.skip(i, "element carries no content")
		}
	}
}

func (r *sheetRenderer) skip(position int, reason string) {
	r.report.Skipped = append(r.report.Skipped, SkippedElement{Position: position, Reason: reason})
}

// renderTextRow places one text row at the cursor and advances it. The
// cursor stays put when placement fails, so the next element reuses the
// row instead of leaving a hole.
func (r *sheetRenderer) renderTextRow(row *layout.LayoutRow) error {
	var err error
	switch row.Type {
	case layout.RowHeaderPair:
		err = r.renderHeaderPair(row)
	case layout.RowLabelPair:
		err = r.renderLabelPair(row)
	case layout.RowSectionHeader:
		err = r.renderSectionHeader(row)
	default:
		err = r.renderPlainRow(row)
	}
	if err != nil {
		return err
	}
	r.cursor++
	return nil
}

// renderHeaderPair splits a document header across the grid: left span on
// the first half, right span on the second, right-aligned. A lone span
// spreads over the full width, centered.
func (r *sheetRenderer) renderHeaderPair(row *layout.LayoutRow) error {
	if len(row.Spans) == 1 {
		return r.setRange(1, layout.GridColumns, r.cursor, row.Spans[0].Text, r.doc.headerCenter)
	}
	if err := r.setRange(1, 4, r.cursor, row.Spans[0].Text, r.doc.headerLeft); err != nil {
		return err
	}
	return r.setRange(5, layout.GridColumns, r.cursor, row.Spans[1].Text, r.doc.headerRight)
}

// renderLabelPair writes bold labels on each half of the grid, or a
// single label in the first column.
func (r *sheetRenderer) renderLabelPair(row *layout.LayoutRow) error {
	if len(row.Spans) == 1 {
		return r.setRange(1, 1, r.cursor, row.Spans[0].Text, r.doc.label)
	}
	if err := r.setRange(1, 4, r.cursor, row.Spans[0].Text, r.doc.label); err != nil {
		return err
	}
	return r.setRange(5, layout.GridColumns, r.cursor, row.Spans[1].Text, r.doc.label)
}

// renderSectionHeader spans the full grid with one merged cell in the
// page's header colors.
func (r *sheetRenderer) renderSectionHeader(row *layout.LayoutRow) error {
	return r.setRange(1, layout.GridColumns, r.cursor, rowText(row), r.page.section)
}

// renderPlainRow lays span texts onto the planned column ranges for the
// row's span count. Numeric text is right-aligned.
func (r *sheetRenderer) renderPlainRow(row *layout.LayoutRow) error {
	plan := layout.PlanSpans(len(row.Spans))
	for i, cs := range plan {
		style := 0
		if layout.IsNumericText(row.Spans[i].Text) {
			style = r.doc.numeric
		}
		if err := r.setRange(cs.Start, cs.End, r.cursor, row.Spans[i].Text, style); err != nil {
			return err
		}
	}
	return nil
}

// renderTable places a table's cell grid starting at the cursor, one
// sheet row per grid row, and leaves one blank spacer row after it. Rows
// that are empty after trimming are dropped; each kept row is planned for
// its own non-empty cell count. Cell failures are recorded against the
// element position and rendering moves to the next cell.
func (r *sheetRenderer) renderTable(position int, table *layout.TableRegion) {
	rowIdx := 0
	for _, cells := range table.Cells {
		texts := nonEmptyCells(cells)
		if len(texts) == 0 {
			continue
		}
		plan := layout.PlanSpans(len(texts))
		for i, cs := range plan {
			style := r.tableCellStyle(rowIdx, texts[i])
			if err := r.setRange(cs.Start, cs.End, r.cursor, texts[i], style); err != nil {
				r.skip(position, fmt.Sprintf("table row %d cell %d: %v", rowIdx, i, err))
			}
		}
		r.cursor++
		rowIdx++
	}
	r.cursor++
}

// tableCellStyle picks the style for one table cell: header styling on the
// first rendered row, alternating data banding below, numeric variants
// right-aligned.
func (r *sheetRenderer) tableCellStyle(rowIdx int, text string) int {
	numeric := layout.IsNumericText(text)
	if rowIdx == 0 {
		if numeric {
			return r.page.tableHeaderNum
		}
		return r.page.tableHeader
	}
	if (rowIdx-1)%2 == 0 {
		if numeric {
			return r.page.dataEvenNum
		}
		return r.page.dataEven
	}
	if numeric {
		return r.page.dataOddNum
	}
	return r.page.dataOdd
}

// setRange merges the column range on the cursor row when it is wider than
// one cell, sets the value at its left edge, and styles the whole range.
// A zero style ID leaves the cells unstyled.
func (r *sheetRenderer) setRange(startCol, endCol, row int, value string, styleID int) error {
	start := cellName(startCol, row)
	end := cellName(endCol, row)
	if startCol != endCol {
		if err := r.f.MergeCell(r.sheet, start, end); err != nil {
			return fmt.Errorf("merge %s:%s: %w", start, end, err)
		}
	}
	if err := r.f.SetCellValue(r.sheet, start, value); err != nil {
		return fmt.Errorf("set %s: %w", start, err)
	}
	if styleID != 0 {
		if err := r.f.SetCellStyle(r.sheet, start, end, styleID); err != nil {
			return fmt.Errorf("style %s:%s: %w", start, end, err)
		}
	}
	return nil
}

// usedRows reports how many sheet rows the renderer wrote or spaced over.
func (r *sheetRenderer) usedRows() int {
	return r.cursor - 1
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func rowText(row *layout.LayoutRow) string {
	parts := make([]string, 0, len(row.Spans))
	for _, span := range row.Spans {
		parts = append(parts, span.Text)
	}
	return strings.Join(parts, " ")
}

func nonEmptyCells(cells []string) []string {
	var texts []string
	for _, cell := range cells {
		if trimmed := strings.TrimSpace(cell); trimmed != "" {
			texts = append(texts, trimmed)
		}
	}
	return texts
}
