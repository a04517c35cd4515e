package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/sheetforge/pdf2sheet/internal/layout"
)

const (
	// snapTolerance merges ruling edges or span left edges that sit
	// within a few points of each other into one grid line.
	snapTolerance = 3.0

	// textRowTolerance groups span baselines when ordering cell text and
	// when building candidate lines for alignment voting.
	textRowTolerance = 3.0

	// clusterGap is the vertical distance that separates two independent
	// tables on the same page.
	clusterGap = 50.0

	// blockGap breaks a run of candidate lines, so stacked tables with
	// whitespace between them stay separate regions.
	blockGap = 30.0

	// minCellFillRate rejects grids that are mostly empty, which usually
	// means the candidate region was not tabular.
	minCellFillRate = 0.4

	// numericCheckMinCells is the grid size above which a table must hold
	// at least one numeric cell to count as real.
	numericCheckMinCells = 4
)

// TableDetector reconstructs table grids from a page. Bordered tables are
// found from ruling rectangles: every edge becomes a candidate grid line
// and span centers are binned into the resulting cells. Pages without a
// usable ruling grid fall back to column-alignment voting over span left
// edges.
type TableDetector struct {
	snapTolerance float64
	clusterGap    float64
	minFillRate   float64
}

func NewTableDetector() *TableDetector {
	return &TableDetector{
		snapTolerance: snapTolerance,
		clusterGap:    clusterGap,
		minFillRate:   minCellFillRate,
	}
}

// Detect finds table regions on a page. Spans and rulings must share the
// same top-origin coordinate space. Returned regions carry geometry and
// cell text only; classification happens in the layout analyzer.
func (d *TableDetector) Detect(spans []layout.TextSpan, rulings []RulingRect) []layout.TableRegion {
	if tables := d.detectRuled(spans, rulings); len(tables) > 0 {
		return tables
	}
	return d.detectAligned(spans)
}

// detectRuled builds grids from drawn rulings.
func (d *TableDetector) detectRuled(spans []layout.TextSpan, rulings []RulingRect) []layout.TableRegion {
	if len(rulings) == 0 {
		return nil
	}

	var tables []layout.TableRegion
	for _, cluster := range d.clusterRulings(rulings) {
		if region, ok := d.buildRuledGrid(cluster, spans); ok {
			tables = append(tables, region)
		}
	}
	return tables
}

// clusterRulings splits rulings into vertical groups: a gap taller than
// clusterGap between one ruling's bottom and the next ruling's top starts
// a new group.
func (d *TableDetector) clusterRulings(rulings []RulingRect) [][]RulingRect {
	sorted := make([]RulingRect, len(rulings))
	copy(sorted, rulings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Y < sorted[j].BBox.Y
	})

	var clusters [][]RulingRect
	var current []RulingRect
	bottom := 0.0
	for _, r := range sorted {
		if len(current) > 0 && r.BBox.Y-bottom > d.clusterGap {
			clusters = append(clusters, current)
			current = nil
		}
		current = append(current, r)
		if edge := r.BBox.Bottom(); edge > bottom || len(current) == 1 {
			bottom = edge
		}
	}
	if len(current) > 0 {
		clusters = append(clusters, current)
	}
	return clusters
}

// buildRuledGrid turns one ruling cluster into a table region, or reports
// that the cluster does not describe a usable grid.
func (d *TableDetector) buildRuledGrid(cluster []RulingRect, spans []layout.TextSpan) (layout.TableRegion, bool) {
	var xs, ys []float64
	for _, r := range cluster {
		xs = append(xs, r.BBox.X, r.BBox.Right())
		ys = append(ys, r.BBox.Y, r.BBox.Bottom())
	}

	cols := d.uniquePositions(xs)
	rows := d.uniquePositions(ys)
	if len(cols) < 3 || len(rows) < 3 {
		// Fewer than two rows or two columns is a box, not a table.
		return layout.TableRegion{}, false
	}

	cells := make([][]string, len(rows)-1)
	for ri := range cells {
		cells[ri] = make([]string, len(cols)-1)
		for ci := range cells[ri] {
			cells[ri][ci] = d.cellText(spans, cellBounds{
				left:    cols[ci],
				right:   cols[ci+1],
				top:     rows[ri],
				bottom:  rows[ri+1],
				lastCol: ci == len(cols)-2,
				lastRow: ri == len(rows)-2,
			})
		}
	}

	if !d.acceptGrid(cells) {
		return layout.TableRegion{}, false
	}

	return layout.TableRegion{
		BBox: layout.Rect{
			X:      cols[0],
			Y:      rows[0],
			Width:  cols[len(cols)-1] - cols[0],
			Height: rows[len(rows)-1] - rows[0],
		},
		Cells:    cells,
		RowCount: len(cells),
		ColCount: len(cells[0]),
	}, true
}

// detectAligned finds borderless tables by column-alignment voting. Lines
// holding two or more spans are table-row candidates; consecutive runs of
// candidate lines vote on snapped left edges, and X positions hit by at
// least half of a run's lines become columns.
func (d *TableDetector) detectAligned(spans []layout.TextSpan) []layout.TableRegion {
	var tables []layout.TableRegion
	for _, run := range candidateRuns(groupSpanLines(spans)) {
		if region, ok := d.buildAlignedGrid(run); ok {
			tables = append(tables, region)
		}
	}
	return tables
}

// spanLine is one visual line of spans used by alignment voting.
type spanLine struct {
	y     float64
	spans []layout.TextSpan
}

// groupSpanLines buckets spans into lines by top coordinate and orders
// lines and their spans in reading order.
func groupSpanLines(spans []layout.TextSpan) []spanLine {
	sorted := make([]layout.TextSpan, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Y < sorted[j].BBox.Y
	})

	var lines []spanLine
	for _, s := range sorted {
		if n := len(lines); n > 0 && math.Abs(lines[n-1].y-s.BBox.Y) <= textRowTolerance {
			lines[n-1].spans = append(lines[n-1].spans, s)
			continue
		}
		lines = append(lines, spanLine{y: s.BBox.Y, spans: []layout.TextSpan{s}})
	}
	for i := range lines {
		sort.SliceStable(lines[i].spans, func(a, b int) bool {
			return lines[i].spans[a].BBox.X < lines[i].spans[b].BBox.X
		})
	}
	return lines
}

// candidateRuns collects maximal runs of consecutive multi-span lines.
// Single-span lines (headings, prose) and gaps taller than blockGap break
// a run; runs shorter than two lines are dropped.
func candidateRuns(lines []spanLine) [][]spanLine {
	var runs [][]spanLine
	var current []spanLine
	flush := func() {
		if len(current) >= 2 {
			runs = append(runs, current)
		}
		current = nil
	}
	for _, line := range lines {
		if len(line.spans) < 2 {
			flush()
			continue
		}
		if n := len(current); n > 0 && line.y-current[n-1].y > blockGap {
			flush()
		}
		current = append(current, line)
	}
	flush()
	return runs
}

// buildAlignedGrid votes on snapped left edges within one run and, when
// two or more columns win, assembles the cell grid row-major. Borderless
// grids must hold numeric data regardless of size; aligned label and value
// pairs otherwise read as tables.
func (d *TableDetector) buildAlignedGrid(run []spanLine) (layout.TableRegion, bool) {
	votes := make(map[float64]map[int]bool)
	for li, line := range run {
		for _, s := range line.spans {
			x := d.snap(s.BBox.X)
			if votes[x] == nil {
				votes[x] = make(map[int]bool)
			}
			votes[x][li] = true
		}
	}

	var columns []float64
	for x, hits := range votes {
		if len(hits)*2 >= len(run) {
			columns = append(columns, x)
		}
	}
	if len(columns) < 2 {
		return layout.TableRegion{}, false
	}
	sort.Float64s(columns)

	cells := make([][]string, len(run))
	var bbox layout.Rect
	first := true
	for li, line := range run {
		cells[li] = make([]string, len(columns))
		for _, s := range line.spans {
			ci := columnIndex(columns, d.snap(s.BBox.X))
			if cells[li][ci] != "" {
				cells[li][ci] += " "
			}
			cells[li][ci] += s.Text
			bbox = growRect(bbox, s.BBox, first)
			first = false
		}
	}

	if !d.acceptGrid(cells) || !hasNumericCell(cells) {
		return layout.TableRegion{}, false
	}

	return layout.TableRegion{
		BBox:     bbox,
		Cells:    cells,
		RowCount: len(cells),
		ColCount: len(columns),
	}, true
}

// columnIndex assigns a snapped left edge to the rightmost column at or
// before it; spans left of the first column fold into it.
func columnIndex(columns []float64, x float64) int {
	idx := 0
	for i, colX := range columns {
		if x >= colX {
			idx = i
		}
	}
	return idx
}

func growRect(acc, add layout.Rect, first bool) layout.Rect {
	if first {
		return add
	}
	right := math.Max(acc.Right(), add.Right())
	bottom := math.Max(acc.Bottom(), add.Bottom())
	x := math.Min(acc.X, add.X)
	y := math.Min(acc.Y, add.Y)
	return layout.Rect{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// acceptGrid applies the real-table filter: at least 2x2, mostly filled,
// and holding numeric data once the grid is big enough.
func (d *TableDetector) acceptGrid(cells [][]string) bool {
	if len(cells) < 2 || len(cells[0]) < 2 {
		return false
	}

	filled := 0
	total := 0
	for _, row := range cells {
		for _, cell := range row {
			total++
			if cell != "" {
				filled++
			}
		}
	}

	if float64(filled)/float64(total) < d.minFillRate {
		return false
	}
	if total > numericCheckMinCells && !hasNumericCell(cells) {
		return false
	}
	return true
}

func hasNumericCell(cells [][]string) bool {
	for _, row := range cells {
		for _, cell := range row {
			if layout.IsNumericText(cell) {
				return true
			}
		}
	}
	return false
}

func (d *TableDetector) snap(v float64) float64 {
	return math.Round(v/d.snapTolerance) * d.snapTolerance
}

// uniquePositions snaps coordinates to the tolerance grid and returns the
// distinct values in ascending order.
func (d *TableDetector) uniquePositions(values []float64) []float64 {
	seen := make(map[float64]bool, len(values))
	var unique []float64
	for _, v := range values {
		snapped := d.snap(v)
		if !seen[snapped] {
			seen[snapped] = true
			unique = append(unique, snapped)
		}
	}
	sort.Float64s(unique)
	return unique
}

type cellBounds struct {
	left, right float64
	top, bottom float64
	lastCol     bool
	lastRow     bool
}

func (b cellBounds) contains(cx, cy float64) bool {
	if cx < b.left || cy < b.top {
		return false
	}
	if b.lastCol {
		if cx > b.right {
			return false
		}
	} else if cx >= b.right {
		return false
	}
	if b.lastRow {
		if cy > b.bottom {
			return false
		}
	} else if cy >= b.bottom {
		return false
	}
	return true
}

// cellText joins the spans whose centers fall inside the cell, reading
// order: top to bottom, left to right.
func (d *TableDetector) cellText(spans []layout.TextSpan, bounds cellBounds) string {
	type placed struct {
		band float64
		x    float64
		text string
	}
	var inside []placed
	for _, s := range spans {
		cx := s.BBox.X + s.BBox.Width/2
		cy := s.BBox.Y + s.BBox.Height/2
		if bounds.contains(cx, cy) {
			inside = append(inside, placed{
				band: math.Round(cy / textRowTolerance),
				x:    cx,
				text: s.Text,
			})
		}
	}
	sort.SliceStable(inside, func(i, j int) bool {
		if inside[i].band != inside[j].band {
			return inside[i].band < inside[j].band
		}
		return inside[i].x < inside[j].x
	})

	parts := make([]string, 0, len(inside))
	for _, p := range inside {
		parts = append(parts, p.text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
