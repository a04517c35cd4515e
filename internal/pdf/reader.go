package pdf

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/sheetforge/pdf2sheet/internal/layout"
)

const (
	// US Letter, used whenever a page carries no usable MediaBox.
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0

	// maxParentDepth caps the Pages-tree walk when hunting for an
	// inherited MediaBox.
	maxParentDepth = 16

	// decorativeAreaRatio: boxes covering this much of the page are
	// backdrops, not table rulings.
	decorativeAreaRatio = 0.5
)

// Reader extracts positioned text, colors, rulings, and tables from PDF
// files.
type Reader struct {
	maxFileSize int64
	detector    *TableDetector
}

// NewReader creates a PDF reader with the specified constraints.
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		detector:    NewTableDetector(),
	}
}

// ExtractDocument reads the requested pages of a PDF into structured page
// content. Damaged pages degrade to warnings rather than failing the
// whole document.
func (r *Reader) ExtractDocument(req ExtractDocumentRequest) (*DocumentContent, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", req.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if err := r.checkFile(req.Path, fileInfo); err != nil {
		return nil, err
	}

	ranges, err := ParseRanges(req.Pages)
	if err != nil {
		return nil, fmt.Errorf("invalid page selection %q: %w", req.Pages, err)
	}

	f, pr, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	total := pr.NumPage()
	requested := len(ranges) > 0
	ranges = NormalizeRanges(ranges, total)

	doc := &DocumentContent{
		Path:      req.Path,
		Size:      fileInfo.Size(),
		PageCount: total,
	}

	// An explicit selection that normalized to nothing matches no pages;
	// only an absent selection means every page.
	if requested && len(ranges) == 0 {
		doc.Metadata = extractMetadata(pr)
		return doc, nil
	}

	for pageNum := 1; pageNum <= total; pageNum++ {
		if !RangesInclude(ranges, pageNum) {
			continue
		}
		content, warn := r.extractPage(pr, pageNum, req)
		if warn != "" {
			doc.Warnings = append(doc.Warnings, warn)
		}
		if content != nil {
			doc.Pages = append(doc.Pages, *content)
		}
		if req.WithImages {
			doc.Images = append(doc.Images, extractPageImages(pr, pageNum)...)
		}
	}

	doc.Metadata = extractMetadata(pr)
	return doc, nil
}

// checkFile rejects paths the reader will not open: directories, non-PDF
// extensions, and files over the size limit.
func (r *Reader) checkFile(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}
	if fileInfo.Size() > r.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}
	return nil
}

// extractPage builds one page's content. The returned warning is empty
// unless part of the extraction degraded.
func (r *Reader) extractPage(pr *pdf.Reader, pageNum int, req ExtractDocumentRequest) (*PageContent, string) {
	page := pr.Page(pageNum)
	if page.V.IsNull() {
		return nil, fmt.Sprintf("page %d: page object missing", pageNum)
	}

	width, height := pageSize(page)
	content := &PageContent{
		Number: pageNum,
		Width:  width,
		Height: height,
	}

	var warn string
	content.Spans, warn = extractSpans(page, height)
	if warn != "" {
		warn = fmt.Sprintf("page %d: %s", pageNum, warn)
	}

	// Plain text is best effort; a page that fails here usually failed
	// span extraction too.
	if plain, err := page.GetPlainText(nil); err == nil {
		content.PlainText = plain
	}

	if !req.FastText {
		scan := scanContent(pageContentStream(page))
		content.Colors, content.Rulings = convertScan(scan, height)
		if req.WithTables {
			content.Tables = r.detector.Detect(content.Spans, tableRulings(content.Rulings, width, height))
		}
	}

	return content, warn
}

// extractSpans pulls the page's glyph runs and assembles them into spans.
// Content decoding panics on some damaged files; those pages degrade to no
// spans plus a warning.
func extractSpans(page pdf.Page, pageHeight float64) (spans []layout.TextSpan, warn string) {
	defer func() {
		if recover() != nil {
			spans = nil
			warn = "text extraction failed"
		}
	}()

	texts := page.Content().Text
	fragments := make([]textFragment, 0, len(texts))
	for _, t := range texts {
		fragments = append(fragments, textFragment{
			Text:     t.S,
			Font:     t.Font,
			FontSize: t.FontSize,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
		})
	}
	return assembleSpans(fragments, pageHeight), ""
}

// pageSize resolves the page's MediaBox, walking Parent links for
// inherited boxes. Falls back to US Letter when absent or malformed.
func pageSize(page pdf.Page) (width, height float64) {
	width, height = defaultPageWidth, defaultPageHeight

	defer func() {
		if recover() != nil {
			width, height = defaultPageWidth, defaultPageHeight
		}
	}()

	node := page.V
	for depth := 0; depth < maxParentDepth && !node.IsNull(); depth++ {
		box := node.Key("MediaBox")
		if !box.IsNull() && box.Kind() == pdf.Array && box.Len() == 4 {
			w := math.Abs(box.Index(2).Float64() - box.Index(0).Float64())
			h := math.Abs(box.Index(3).Float64() - box.Index(1).Float64())
			if w > 0 && h > 0 {
				return w, h
			}
		}
		node = node.Key("Parent")
	}
	return width, height
}

// pageContentStream returns the page's decoded content stream bytes.
// Contents may be one stream or an array of streams that concatenate.
func pageContentStream(page pdf.Page) (data []byte) {
	defer func() {
		if recover() != nil {
			data = nil
		}
	}()

	contents := page.V.Key("Contents")
	if contents.IsNull() {
		return nil
	}

	switch contents.Kind() {
	case pdf.Stream:
		return readStream(contents)
	case pdf.Array:
		var joined []byte
		for i := 0; i < contents.Len(); i++ {
			part := contents.Index(i)
			if part.Kind() != pdf.Stream {
				continue
			}
			joined = append(joined, readStream(part)...)
			joined = append(joined, '\n')
		}
		return joined
	default:
		return nil
	}
}

func readStream(v pdf.Value) []byte {
	rc := v.Reader()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		// A truncated stream still scans up to the damage.
		return data
	}
	return data
}

// convertScan flips scanner output into top-origin page space and splits
// it into color observations and ruling geometry. Text fills are observed
// even when black, since glyphs genuinely render in the default color.
func convertScan(scan contentScan, pageHeight float64) ([]layout.ColorObservation, []RulingRect) {
	var colors []layout.ColorObservation
	var rulings []RulingRect

	for _, rect := range scan.Rects {
		x, y, w, h := normalizeRect(rect)
		rulings = append(rulings, RulingRect{
			BBox: layout.Rect{
				X:      x,
				Y:      pageHeight - y - h,
				Width:  w,
				Height: h,
			},
			Filled:  rect.FillColor != nil,
			Stroked: rect.StrokeColor != nil,
		})
		if rect.FillColor != nil {
			colors = append(colors, layout.ColorObservation{
				Value:  *rect.FillColor,
				Source: layout.SourceShapeFill,
			})
		}
		if rect.StrokeColor != nil {
			colors = append(colors, layout.ColorObservation{
				Value:  *rect.StrokeColor,
				Source: layout.SourceShapeStroke,
			})
		}
	}
	for _, fill := range scan.TextFills {
		colors = append(colors, layout.ColorObservation{
			Value:  fill,
			Source: layout.SourceText,
		})
	}
	return colors, rulings
}

// normalizeRect folds the negative widths and heights that re operands
// may carry into positive extents.
func normalizeRect(r scannedRect) (x, y, w, h float64) {
	x, y, w, h = r.X, r.Y, r.W, r.H
	if w < 0 {
		x += w
		w = -w
	}
	if h < 0 {
		y += h
		h = -h
	}
	return x, y, w, h
}

// tableRulings drops page-sized backdrop boxes that would otherwise fuse
// every ruling cluster into one giant grid.
func tableRulings(rulings []RulingRect, pageWidth, pageHeight float64) []RulingRect {
	limit := pageWidth * pageHeight * decorativeAreaRatio
	kept := make([]RulingRect, 0, len(rulings))
	for _, r := range rulings {
		if r.BBox.Width*r.BBox.Height > limit {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
