package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sheetforge/pdf2sheet/internal/layout"
)

// tierWidths maps a page's complexity tier to its eight column widths.
var tierWidths = map[layout.Complexity][layout.GridColumns]float64{
	layout.ComplexityComplex: {30, 35, 20, 25, 25, 25, 25, 25},
	layout.ComplexityMedium:  {25, 30, 18, 22, 22, 22, 22, 22},
	layout.ComplexitySimple:  {22, 25, 18, 20, 20, 20, 20, 20},
}

const (
	defaultRowHeight = 20.0
	fallbackColWidth = 15.0
)

// PageRender is one page ready for serialization. Analysis is nil when
// layout inference failed; Failure then says why, and Lines plus Tables
// feed the fallback sheet instead.
type PageRender struct {
	Number   int
	Analysis *layout.PageAnalysis
	Failure  string
	Lines    []string
	Tables   []layout.TableRegion
}

// Writer serializes converted pages into xlsx workbooks.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// WriteLayout renders one sheet per page, named Page_N, and saves the
// workbook to path. Pages without an analysis get the plain fallback
// sheet. The report records what every sheet emitted and skipped; it is
// returned even though the save can still fail afterwards.
func (w *Writer) WriteLayout(pages []PageRender, path string) (*RenderReport, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	doc, err := buildDocStyles(f)
	if err != nil {
		return nil, fmt.Errorf("register styles: %w", err)
	}

	var basic *basicStyles
	report := &RenderReport{}
	firstSheet := ""

	for _, page := range pages {
		sheet := fmt.Sprintf("Page_%d", page.Number)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		if firstSheet == "" {
			firstSheet = sheet
		}

		sr := SheetReport{Sheet: sheet, Page: page.Number}
		if page.Analysis != nil {
			err = w.renderPage(f, sheet, page, doc, &sr)
		} else {
			if basic == nil {
				bs, err := buildBasicStyles(f)
				if err != nil {
					return nil, fmt.Errorf("register fallback styles: %w", err)
				}
				basic = &bs
			}
			err = w.renderFallback(f, sheet, page, *basic, &sr)
		}
		if err != nil {
			return nil, err
		}
		report.Sheets = append(report.Sheets, sr)
	}

	if firstSheet != "" {
		_ = f.DeleteSheet("Sheet1")
		if idx, err := f.GetSheetIndex(firstSheet); err == nil {
			f.SetActiveSheet(idx)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save workbook: %w", err)
	}
	return report, nil
}

// renderPage runs the sheet renderer over the page's element sequence and
// applies the grid geometry for its complexity tier.
func (w *Writer) renderPage(f *excelize.File, sheet string, page PageRender, doc docStyles, sr *SheetReport) error {
	ps, err := buildPageStyles(f, page.Analysis.Theme)
	if err != nil {
		return fmt.Errorf("page %d styles: %w", page.Number, err)
	}

	r := newSheetRenderer(f, sheet, doc, ps, sr)
	r.render(page.Analysis.Elements)

	if err := w.applyGrid(f, sheet, pageComplexity(page.Analysis), r.usedRows()); err != nil {
		return fmt.Errorf("page %d grid: %w", page.Number, err)
	}
	return nil
}

// applyGrid sets the tier's column widths and the default height on every
// used row.
func (w *Writer) applyGrid(f *excelize.File, sheet string, tier layout.Complexity, rows int) error {
	widths := tierWidths[tier]
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	for row := 1; row <= rows; row++ {
		if err := f.SetRowHeight(sheet, row, defaultRowHeight); err != nil {
			return err
		}
	}
	return nil
}

// pageComplexity picks the width tier for a sheet: the heaviest table on
// the page wins, and a page without tables renders simple.
func pageComplexity(pa *layout.PageAnalysis) layout.Complexity {
	tier := layout.ComplexitySimple
	for _, t := range pa.Tables {
		switch t.Complexity {
		case layout.ComplexityComplex:
			return layout.ComplexityComplex
		case layout.ComplexityMedium:
			tier = layout.ComplexityMedium
		}
	}
	return tier
}

// renderFallback writes the page as plain text lines followed by raw
// table grids in the fixed basic style, and flags the sheet degraded.
func (w *Writer) renderFallback(f *excelize.File, sheet string, page PageRender, styles basicStyles, sr *SheetReport) error {
	sr.Fallback = true
	if page.Failure != "" {
		sr.Skipped = append(sr.Skipped, SkippedElement{Position: 0, Reason: page.Failure})
	}

	row := 1
	for _, line := range page.Lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := f.SetCellValue(sheet, cellName(1, row), line); err != nil {
			return fmt.Errorf("fallback line %d: %w", row, err)
		}
		row++
		sr.Emitted++
	}

	for _, table := range page.Tables {
		if len(table.Cells) == 0 {
			continue
		}
		if row > 1 {
			row++
		}
		for ri, cells := range table.Cells {
			style := styles.cell
			if ri == 0 {
				style = styles.header
			}
			for ci, text := range cells {
				cell := cellName(ci+1, row)
				if err := f.SetCellValue(sheet, cell, text); err != nil {
					return fmt.Errorf("fallback cell %s: %w", cell, err)
				}
				if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
					return fmt.Errorf("fallback style %s: %w", cell, err)
				}
			}
			row++
		}
		sr.Emitted++
	}

	if err := f.SetColWidth(sheet, "A", "H", fallbackColWidth); err != nil {
		return fmt.Errorf("fallback widths: %w", err)
	}
	return nil
}
