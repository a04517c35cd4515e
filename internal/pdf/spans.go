package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/sheetforge/pdf2sheet/internal/layout"
)

// textFragment is one raw glyph run as decoded by the PDF library, in
// bottom-origin page coordinates. ledongthuc/pdf emits these per
// character, so spans have to be assembled from them.
type textFragment struct {
	Text     string
	Font     string
	FontSize float64
	X, Y, W  float64
}

const (
	// baselineTolerance groups fragments onto one text line.
	baselineTolerance = 2.0

	// defaultFragmentSize stands in when a fragment carries no font size.
	defaultFragmentSize = 12.0

	// spaceGapFactor is the fraction of the font size beyond which a
	// horizontal gap means a word break the generator encoded as a
	// positioning jump instead of a space glyph.
	spaceGapFactor = 0.2

	// spanBreakFactor is the fraction of the font size beyond which a gap
	// separates independent spans, such as a label and its value or two
	// table columns.
	spanBreakFactor = 1.0

	// minSpanBreakGap keeps tiny fonts from splitting on ordinary word
	// spacing.
	minSpanBreakGap = 6.0
)

// assembleSpans builds logical text spans from raw fragments: fragments
// are grouped by baseline, ordered left to right, and merged into runs
// until a style change or a column-sized gap. Output coordinates are
// top-origin.
func assembleSpans(fragments []textFragment, pageHeight float64) []layout.TextSpan {
	lines := groupBaselines(fragments)

	var spans []layout.TextSpan
	for _, line := range lines {
		sort.SliceStable(line.fragments, func(i, j int) bool {
			return line.fragments[i].X < line.fragments[j].X
		})
		spans = append(spans, mergeLine(line, pageHeight)...)
	}
	return spans
}

type baselineGroup struct {
	y         float64
	fragments []textFragment
}

// groupBaselines buckets fragments whose baselines sit within tolerance of
// each other, then orders the lines top of page first.
func groupBaselines(fragments []textFragment) []baselineGroup {
	var lines []baselineGroup
	for _, f := range fragments {
		if f.Text == "" {
			continue
		}
		placed := false
		for i := range lines {
			if math.Abs(lines[i].y-f.Y) < baselineTolerance {
				lines[i].fragments = append(lines[i].fragments, f)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, baselineGroup{y: f.Y, fragments: []textFragment{f}})
		}
	}

	// Bottom-origin coordinates: larger Y is higher on the page.
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].y > lines[j].y
	})
	return lines
}

// spanDraft is a span under assembly on one baseline.
type spanDraft struct {
	text    strings.Builder
	font    string
	size    float64
	startX  float64
	endX    float64
	pending bool // a space fragment was seen since the last glyph
	started bool
}

func (d *spanDraft) begin(f textFragment) {
	d.text.Reset()
	d.text.WriteString(f.Text)
	d.font = f.Font
	d.size = f.FontSize
	d.startX = f.X
	d.endX = f.X + f.W
	d.pending = false
	d.started = true
}

func (d *spanDraft) effectiveSize() float64 {
	if d.size > 0 {
		return d.size
	}
	return defaultFragmentSize
}

// mergeLine walks one baseline's fragments and produces its spans.
func mergeLine(line baselineGroup, pageHeight float64) []layout.TextSpan {
	var spans []layout.TextSpan
	var draft spanDraft

	flush := func() {
		if !draft.started {
			return
		}
		spans = append(spans, finishSpan(&draft, line.y, pageHeight))
		draft.started = false
	}

	for _, f := range line.fragments {
		blank := strings.TrimSpace(f.Text) == ""
		if !draft.started {
			if blank {
				continue
			}
			draft.begin(f)
			continue
		}

		gap := f.X - draft.endX
		size := draft.effectiveSize()
		breakGap := math.Max(size*spanBreakFactor, minSpanBreakGap)

		if gap > breakGap {
			flush()
			if !blank {
				draft.begin(f)
			}
			continue
		}
		if blank {
			draft.pending = true
			continue
		}
		if f.Font != draft.font || f.FontSize != draft.size {
			flush()
			draft.begin(f)
			continue
		}

		if draft.pending || gap > size*spaceGapFactor {
			draft.text.WriteString(" ")
		}
		draft.text.WriteString(f.Text)
		if end := f.X + f.W; end > draft.endX {
			draft.endX = end
		}
		draft.pending = false
	}
	flush()

	return spans
}

// finishSpan converts a completed draft into a top-origin TextSpan. Height
// is approximated by the font size since the library exposes no glyph
// metrics; fragments without a size get the conventional 12pt.
func finishSpan(draft *spanDraft, baselineY, pageHeight float64) layout.TextSpan {
	size := draft.effectiveSize()
	return layout.TextSpan{
		Text: draft.text.String(),
		BBox: layout.Rect{
			X:      draft.startX,
			Y:      pageHeight - baselineY - size,
			Width:  draft.endX - draft.startX,
			Height: size,
		},
		FontName: draft.font,
		FontSize: size,
		Bold:     fontIsBold(draft.font),
		Italic:   fontIsItalic(draft.font),
	}
}

func fontIsBold(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "bold") ||
		strings.Contains(lower, "black") ||
		strings.Contains(lower, "heavy")
}

func fontIsItalic(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")
}
