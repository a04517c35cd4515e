package layout

import (
	"strconv"
	"strings"
	"unicode"
)

// Classification thresholds shared by the span and table rules.
const (
	mainHeaderMinSize    = 14.0
	sectionHeaderMinSize = 10.0
	footerMaxSize        = 10.0

	complexColThreshold = 8
	complexRowThreshold = 20
	mediumColThreshold  = 4
	mediumRowThreshold  = 10
	longCellLength      = 20
	longCellRatio       = 0.30
	minClassifiableRows = 2
)

// Classifier assigns semantic roles to text spans, table regions, and
// grouped rows using the keyword tables in rules.go. All rule sets are
// evaluated first-match-wins; the precedence is part of the contract
// because inputs routinely match more than one rule.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// ClassifySpan labels one span. Rule order, most to least specific:
// main_header, section_header, label, data, footer, text.
func (c *Classifier) ClassifySpan(span TextSpan) BlockType {
	upper := strings.ToUpper(span.Text)
	lower := strings.ToLower(span.Text)

	if span.FontSize > mainHeaderMinSize && span.Bold {
		return BlockMainHeader
	}
	styled := (span.Bold && span.FontSize > sectionHeaderMinSize) || isAllUpper(span.Text)
	if styled && containsAny(upper, sectionHeaderKeywords) {
		return BlockSectionHeader
	}
	if strings.Contains(span.Text, ":") || containsAny(upper, labelKeywords) {
		return BlockLabel
	}
	if containsDigit(span.Text) || strings.Contains(span.Text, "$") {
		return BlockData
	}
	if span.FontSize < footerMaxSize || containsAny(lower, footerMarkers) {
		return BlockFooter
	}
	return BlockText
}

// ClassifySpans labels every span, returning a new slice; inputs are not
// mutated.
func (c *Classifier) ClassifySpans(spans []TextSpan) []TextSpan {
	out := make([]TextSpan, len(spans))
	for i, span := range spans {
		span.Block = c.ClassifySpan(span)
		out[i] = span
	}
	return out
}

// ClassifyTable derives the full table region for a cell grid: counts,
// subject-matter type, complexity tier, and header detection.
func (c *Classifier) ClassifyTable(bbox Rect, cells [][]string) TableRegion {
	region := TableRegion{
		BBox:     bbox,
		Cells:    cells,
		RowCount: len(cells),
		ColCount: maxRowWidth(cells),
	}
	region.Type = c.tableType(cells)
	region.Complexity = c.tableComplexity(cells)
	region.HasHeaders = c.hasHeaderRow(cells)
	return region
}

// tableType matches the joined upper-cased first row against the ordered
// rule table. Tables with fewer than two rows carry too little signal and
// classify as unknown.
func (c *Classifier) tableType(cells [][]string) TableType {
	if len(cells) < minClassifiableRows {
		return TableTypeUnknown
	}
	header := strings.ToUpper(strings.Join(cells[0], " "))
	for _, rule := range tableTypeRules {
		if containsAny(header, rule.Keywords) {
			return rule.Type
		}
	}
	return TableTypeData
}

// tableComplexity rates structure from column count, row count, and the
// share of over-long cells (a proxy for merged-cell artifacts).
func (c *Classifier) tableComplexity(cells [][]string) Complexity {
	rows := len(cells)
	cols := maxRowWidth(cells)

	total := 0
	long := 0
	for _, row := range cells {
		for _, cell := range row {
			total++
			if len(cell) > longCellLength {
				long++
			}
		}
	}
	longRatio := 0.0
	if total > 0 {
		longRatio = float64(long) / float64(total)
	}

	switch {
	case cols > complexColThreshold || rows > complexRowThreshold || longRatio > longCellRatio:
		return ComplexityComplex
	case cols > mediumColThreshold || rows > mediumRowThreshold:
		return ComplexityMedium
	default:
		return ComplexitySimple
	}
}

// hasHeaderRow reports whether more than half of the first row's non-empty
// cells are non-numeric.
func (c *Classifier) hasHeaderRow(cells [][]string) bool {
	if len(cells) == 0 {
		return false
	}
	nonEmpty := 0
	nonNumeric := 0
	for _, cell := range cells[0] {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		nonEmpty++
		if !IsNumericText(cell) {
			nonNumeric++
		}
	}
	if nonEmpty == 0 {
		return false
	}
	return nonNumeric*2 > nonEmpty
}

// IsNumericText reports whether text reads as a numeric value once
// formatting characters (commas, currency, percent, minus) are stripped.
// Empty strings and a bare "-" are not numeric.
func IsNumericText(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "-" {
		return false
	}
	cleaned := strings.NewReplacer(",", "", "$", "", "%", "", "-", "").Replace(trimmed)
	if cleaned == "" {
		return false
	}
	_, err := strconv.ParseFloat(cleaned, 64)
	return err == nil
}

func isAllUpper(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func containsDigit(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func maxRowWidth(cells [][]string) int {
	widest := 0
	for _, row := range cells {
		if len(row) > widest {
			widest = len(row)
		}
	}
	return widest
}
