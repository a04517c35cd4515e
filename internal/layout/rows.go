package layout

import (
	"sort"
	"strings"
)

const (
	// RowGroupTolerance is the vertical distance, in points, within which
	// spans are considered part of the same visual row. The comparison is
	// against the row's first span, not a running average, so a drifting
	// baseline starts a new row rather than absorbing into the old one.
	RowGroupTolerance = 8.0

	// TableOverlapErosion shrinks table bounding boxes on every side before
	// the overlap test, so text hugging a table border is kept as flowing
	// text instead of being swallowed by the table.
	TableOverlapErosion = 5.0

	headerPairMinSize = 14.0
)

// GroupRows clusters spans into visual rows by vertical proximity and
// assigns each row a semantic type. Spans are sorted top to bottom; within
// a row they are ordered left to right.
func (c *Classifier) GroupRows(spans []TextSpan) []LayoutRow {
	if len(spans) == 0 {
		return nil
	}

	ordered := make([]TextSpan, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].BBox.Y < ordered[j].BBox.Y
	})

	var rows []LayoutRow
	for _, span := range ordered {
		if len(rows) == 0 {
			rows = append(rows, LayoutRow{Spans: []TextSpan{span}, Y: span.BBox.Y})
			continue
		}
		current := &rows[len(rows)-1]
		anchor := current.Spans[0].BBox.Y
		delta := span.BBox.Y - anchor
		if delta < 0 {
			delta = -delta
		}
		if delta > RowGroupTolerance {
			rows = append(rows, LayoutRow{Spans: []TextSpan{span}, Y: span.BBox.Y})
			continue
		}
		current.Spans = append(current.Spans, span)
	}

	for i := range rows {
		sort.SliceStable(rows[i].Spans, func(a, b int) bool {
			return rows[i].Spans[a].BBox.X < rows[i].Spans[b].BBox.X
		})
		rows[i].Type = c.classifyRowType(rows[i].Spans)
	}
	return rows
}

// classifyRowType labels a grouped row. First match wins; order matters
// because a two-span row with a large font could otherwise read as a
// label pair, and a keyword-bearing data row as a table header.
func (c *Classifier) classifyRowType(spans []TextSpan) RowType {
	joined := strings.ToUpper(joinSpanText(spans))

	if len(spans) == 1 && containsAny(joined, rowSectionKeywords) {
		return RowSectionHeader
	}
	if len(spans) == 2 {
		for _, span := range spans {
			if span.FontSize > headerPairMinSize {
				return RowHeaderPair
			}
		}
		if containsAny(joined, rowLabelKeywords) {
			return RowLabelPair
		}
	}
	if len(spans) >= 3 && containsAny(joined, rowTableHeaderKeywords) {
		return RowTableHeader
	}
	for _, span := range spans {
		if IsNumericText(span.Text) || strings.Contains(span.Text, "$") {
			return RowData
		}
	}
	return RowDefault
}

// FilterOverlapping removes spans whose boxes intersect any table region.
// Table boxes are eroded first so only genuinely interior text is dropped.
func FilterOverlapping(spans []TextSpan, tables []TableRegion) []TextSpan {
	if len(spans) == 0 || len(tables) == 0 {
		return spans
	}
	eroded := make([]Rect, len(tables))
	for i, table := range tables {
		eroded[i] = table.BBox.Erode(TableOverlapErosion)
	}
	kept := make([]TextSpan, 0, len(spans))
	for _, span := range spans {
		inside := false
		for _, box := range eroded {
			if span.BBox.Intersects(box) {
				inside = true
				break
			}
		}
		if !inside {
			kept = append(kept, span)
		}
	}
	return kept
}

// UnifyLayout interleaves text rows and table regions into one top-to-
// bottom reading order. The sort is stable with rows listed before tables,
// so a row and a table at the same Y render text first.
func UnifyLayout(rows []LayoutRow, tables []TableRegion) []UnifiedElement {
	elements := make([]UnifiedElement, 0, len(rows)+len(tables))
	for i := range rows {
		elements = append(elements, UnifiedElement{
			Kind: ElementTextRow,
			Row:  &rows[i],
			Y:    rows[i].Y,
		})
	}
	for i := range tables {
		elements = append(elements, UnifiedElement{
			Kind:  ElementTable,
			Table: &tables[i],
			Y:     tables[i].BBox.Y,
		})
	}
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Y < elements[j].Y
	})
	return elements
}

func joinSpanText(spans []TextSpan) string {
	parts := make([]string, len(spans))
	for i, span := range spans {
		parts[i] = span.Text
	}
	return strings.Join(parts, " ")
}
