package layout

// Analyzer runs the full layout pipeline for one page: classify spans,
// resolve the color theme, drop text captured inside tables, group what
// remains into rows, and merge rows with tables into reading order.
type Analyzer struct {
	classifier *Classifier
	themes     *ThemeResolver
}

// NewAnalyzer creates an analyzer with default classification rules.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		classifier: NewClassifier(),
		themes:     NewThemeResolver(),
	}
}

// AnalyzePage assembles the page model. Tables arrive as raw cell grids
// with bounding boxes; their type, complexity, and header flags are
// derived here so extraction stays free of layout policy. The returned
// Spans are every classified span, including ones later filtered out of
// the flowing-text rows for overlapping a table.
func (a *Analyzer) AnalyzePage(spans []TextSpan, tables []TableRegion, colors []ColorObservation) *PageAnalysis {
	classified := a.classifier.ClassifySpans(spans)

	typed := make([]TableRegion, len(tables))
	for i, table := range tables {
		typed[i] = a.classifier.ClassifyTable(table.BBox, table.Cells)
	}

	theme := a.themes.Resolve(colors)

	flowing := FilterOverlapping(classified, typed)
	rows := a.classifier.GroupRows(flowing)
	elements := UnifyLayout(rows, typed)

	return &PageAnalysis{
		Theme:    theme,
		Elements: elements,
		Spans:    classified,
		Tables:   typed,
	}
}
