package excel

// SkippedElement records one element, or one cell inside an element, the
// renderer could not place. Position is the element's index in the page's
// unified sequence.
type SkippedElement struct {
	Position int    `json:"position"`
	Reason   string `json:"reason"`
}

// SheetReport is the render outcome for one sheet. Fallback marks a page
// whose analysis failed and was rendered with the plain basic layout.
type SheetReport struct {
	Sheet    string           `json:"sheet"`
	Page     int              `json:"page"`
	Emitted  int              `json:"emitted"`
	Skipped  []SkippedElement `json:"skipped,omitempty"`
	Fallback bool             `json:"fallback,omitempty"`
}

// RenderReport aggregates sheet outcomes for one workbook.
type RenderReport struct {
	Sheets []SheetReport `json:"sheets"`
}

// EmittedCount totals the elements successfully rendered.
func (r *RenderReport) EmittedCount() int {
	total := 0
	for _, s := range r.Sheets {
		total += s.Emitted
	}
	return total
}

// SkippedCount totals the recorded skips across all sheets.
func (r *RenderReport) SkippedCount() int {
	total := 0
	for _, s := range r.Sheets {
		total += len(s.Skipped)
	}
	return total
}

// DegradedPages lists the pages rendered through the fallback path.
func (r *RenderReport) DegradedPages() []int {
	var pages []int
	for _, s := range r.Sheets {
		if s.Fallback {
			pages = append(pages, s.Page)
		}
	}
	return pages
}
