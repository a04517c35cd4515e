package layout

// GridColumns is the width of the output grid every table row is mapped
// onto, regardless of how many cells the source row holds.
const GridColumns = 8

// spanPlans maps a cell count to its column layout. Plans are written out
// rather than computed: each tier was tuned by hand so that leading label
// columns get more room than trailing numeric ones, and a formula would
// flatten that. Every plan tiles columns 1 through GridColumns exactly
// once with no gaps.
var spanPlans = map[int][]ColumnSpan{
	1: {{Start: 1, End: 8}},
	2: {{Start: 1, End: 4}, {Start: 5, End: 8}},
	3: {{Start: 1, End: 2}, {Start: 3, End: 5}, {Start: 6, End: 8}},
	4: {{Start: 1, End: 2}, {Start: 3, End: 4}, {Start: 5, End: 6}, {Start: 7, End: 8}},
	5: {{Start: 1, End: 1}, {Start: 2, End: 3}, {Start: 4, End: 4}, {Start: 5, End: 6}, {Start: 7, End: 8}},
	6: {{Start: 1, End: 1}, {Start: 2, End: 2}, {Start: 3, End: 4}, {Start: 5, End: 6}, {Start: 7, End: 7}, {Start: 8, End: 8}},
	7: {{Start: 1, End: 1}, {Start: 2, End: 2}, {Start: 3, End: 3}, {Start: 4, End: 4}, {Start: 5, End: 5}, {Start: 6, End: 6}, {Start: 7, End: 8}},
	8: {{Start: 1, End: 1}, {Start: 2, End: 2}, {Start: 3, End: 3}, {Start: 4, End: 4}, {Start: 5, End: 5}, {Start: 6, End: 6}, {Start: 7, End: 7}, {Start: 8, End: 8}},
}

// PlanSpans returns the column spans for a row of cellCount cells. Rows
// wider than the grid collapse to one column per cell for the first
// GridColumns cells; callers drop the remainder. A non-positive count has
// no plan.
func PlanSpans(cellCount int) []ColumnSpan {
	if cellCount <= 0 {
		return nil
	}
	if cellCount > GridColumns {
		spans := make([]ColumnSpan, GridColumns)
		for i := range spans {
			spans[i] = ColumnSpan{Start: i + 1, End: i + 1}
		}
		return spans
	}
	plan := spanPlans[cellCount]
	spans := make([]ColumnSpan, len(plan))
	copy(spans, plan)
	return spans
}
