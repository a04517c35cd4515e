// Package layout infers the visual structure of a PDF page (rows, headers,
// labels, tables, and a color theme) from positioned text spans and drawing
// primitives, and plans how that structure maps onto a fixed 8-column
// spreadsheet grid.
package layout

// BlockType is the semantic role assigned to a single text span.
type BlockType string

const (
	BlockMainHeader    BlockType = "main_header"
	BlockSectionHeader BlockType = "section_header"
	BlockLabel         BlockType = "label"
	BlockData          BlockType = "data"
	BlockFooter        BlockType = "footer"
	BlockText          BlockType = "text"
)

// IsValid checks if the block type is one of the known values.
func (bt BlockType) IsValid() bool {
	switch bt {
	case BlockMainHeader, BlockSectionHeader, BlockLabel, BlockData, BlockFooter, BlockText:
		return true
	default:
		return false
	}
}

// AllBlockTypes returns every block type a span can classify as.
func AllBlockTypes() []BlockType {
	return []BlockType{
		BlockMainHeader,
		BlockSectionHeader,
		BlockLabel,
		BlockData,
		BlockFooter,
		BlockText,
	}
}

// TableType is the subject-matter category of a detected table.
type TableType string

const (
	TableTypeUnknown            TableType = "unknown"
	TableTypeEarnings           TableType = "earnings"
	TableTypeDeductions         TableType = "deductions"
	TableTypeSummary            TableType = "summary"
	TableTypeFinancialStatement TableType = "financial_statement"
	TableTypeBalanceSheet       TableType = "balance_sheet"
	TableTypeData               TableType = "data"
)

// IsValid checks if the table type is one of the known values.
func (tt TableType) IsValid() bool {
	switch tt {
	case TableTypeUnknown, TableTypeEarnings, TableTypeDeductions, TableTypeSummary,
		TableTypeFinancialStatement, TableTypeBalanceSheet, TableTypeData:
		return true
	default:
		return false
	}
}

// Complexity is the structural complexity tier of a table, used to pick
// column widths when rendering.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// IsValid checks if the complexity tier is one of the known values.
func (c Complexity) IsValid() bool {
	switch c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return true
	default:
		return false
	}
}

// RowType is the layout pattern a grouped row of spans follows.
type RowType string

const (
	RowSectionHeader RowType = "section_header"
	RowHeaderPair    RowType = "header_pair"
	RowLabelPair     RowType = "label_pair"
	RowTableHeader   RowType = "table_header"
	RowData          RowType = "data_row"
	RowDefault       RowType = "default"
)

// IsValid checks if the row type is one of the known values.
func (rt RowType) IsValid() bool {
	switch rt {
	case RowSectionHeader, RowHeaderPair, RowLabelPair, RowTableHeader, RowData, RowDefault:
		return true
	default:
		return false
	}
}

// ColorSource identifies where on the page a color observation came from.
type ColorSource string

const (
	SourceText        ColorSource = "text"
	SourceShapeFill   ColorSource = "shape_fill"
	SourceShapeStroke ColorSource = "shape_stroke"
)

// Rect is an axis-aligned bounding box in page points. The origin is the
// top-left corner of the page; Y grows downward.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Intersects reports whether the two rectangles share any interior area.
// Boxes that merely touch at an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Erode shrinks the rectangle by margin points on every side. A rectangle
// eroded past its own size has non-positive extent and intersects nothing.
func (r Rect) Erode(margin float64) Rect {
	return Rect{
		X:      r.X + margin,
		Y:      r.Y + margin,
		Width:  r.Width - 2*margin,
		Height: r.Height - 2*margin,
	}
}

// TextSpan is one positioned fragment of text as laid out on a page.
// Spans are immutable once extracted; Block is filled in by the classifier.
// Color is the canonical AARRGGBB fill when extraction can attribute one to
// the span, and empty otherwise.
type TextSpan struct {
	Text     string    `json:"text"`
	BBox     Rect      `json:"bbox"`
	FontName string    `json:"font_name"`
	FontSize float64   `json:"font_size"`
	Bold     bool      `json:"bold"`
	Italic   bool      `json:"italic"`
	Color    string    `json:"color,omitempty"`
	Block    BlockType `json:"block_type,omitempty"`
}

// TableRegion is a detected tabular area with its extracted cell grid.
// Type, Complexity, and HasHeaders are derived by the classifier; extraction
// fills only the geometry and cells.
type TableRegion struct {
	BBox       Rect       `json:"bbox"`
	Cells      [][]string `json:"cells"`
	RowCount   int        `json:"row_count"`
	ColCount   int        `json:"col_count"`
	HasHeaders bool       `json:"has_headers"`
	Complexity Complexity `json:"complexity,omitempty"`
	Type       TableType  `json:"table_type,omitempty"`
}

// ColorObservation is a single color seen on the page. Value holds the raw
// color in whatever form extraction produced: an integer RGB (0xRRGGBB), a
// triple of 0..1 floats, or a hex string. Canonicalization happens inside
// the theme resolver; unrecognized values are dropped there.
type ColorObservation struct {
	Value  any         `json:"value"`
	Source ColorSource `json:"source"`
}

// TableColorTheme is the palette resolved from one page's color signals.
// A nil field means the page carried no usable signal for it and the
// renderer must not force a color.
type TableColorTheme struct {
	HeaderBG        *string `json:"header_bg,omitempty"`
	HeaderText      *string `json:"header_text,omitempty"`
	DataBGPrimary   *string `json:"data_bg_primary,omitempty"`
	DataBGAlternate *string `json:"data_bg_alternate,omitempty"`
	DataText        *string `json:"data_text,omitempty"`
	BorderColor     *string `json:"border_color,omitempty"`
}

// LayoutRow is an ordered group of spans judged to share one visual line,
// sorted left to right. Y is the topmost span position in the row.
type LayoutRow struct {
	Spans []TextSpan `json:"spans"`
	Type  RowType    `json:"row_type"`
	Y     float64    `json:"y"`
}

// ElementKind tags the variant held by a UnifiedElement.
type ElementKind string

const (
	ElementTextRow ElementKind = "text_row"
	ElementTable   ElementKind = "table"
)

// UnifiedElement is one entry of the merged top-to-bottom rendering sequence:
// either a text row or a table, keyed by vertical position.
type UnifiedElement struct {
	Kind  ElementKind  `json:"kind"`
	Row   *LayoutRow   `json:"row,omitempty"`
	Table *TableRegion `json:"table,omitempty"`
	Y     float64      `json:"y"`
}

// ColumnSpan is an inclusive (start, end) column pair on the 8-column grid.
type ColumnSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// PageAnalysis is the complete inferred layout for one page: the resolved
// color theme plus the ordered element sequence the renderer walks.
type PageAnalysis struct {
	Theme    TableColorTheme  `json:"theme"`
	Elements []UnifiedElement `json:"elements"`
	Spans    []TextSpan       `json:"spans"`
	Tables   []TableRegion    `json:"tables"`
}

// BlockCounts tallies classified spans per block type, for inspection output.
func (pa *PageAnalysis) BlockCounts() map[BlockType]int {
	counts := make(map[BlockType]int)
	for _, span := range pa.Spans {
		counts[span.Block]++
	}
	return counts
}
