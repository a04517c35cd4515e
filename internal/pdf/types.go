package pdf

import "github.com/sheetforge/pdf2sheet/internal/layout"

// ImageInfo describes an image XObject found in the document. Index is
// the 1-based position of the image within its page.
type ImageInfo struct {
	PageNumber       int    `json:"page_number"`
	Index            int    `json:"index"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	ColorSpace       string `json:"color_space,omitempty"`
	BitsPerComponent int    `json:"bits_per_component"`
	Format           string `json:"format"`
	Size             int64  `json:"size"`
}

// Metadata holds the document information dictionary fields, all optional.
type Metadata struct {
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Creator      string `json:"creator,omitempty"`
	Producer     string `json:"producer,omitempty"`
	CreationDate string `json:"creation_date,omitempty"`
	ModifiedDate string `json:"modified_date,omitempty"`
}

// RulingRect is a rectangle drawn on the page, in top-origin page
// coordinates. Thin rules and cell backgrounds both arrive this way; the
// table detector reads their edges as grid lines.
type RulingRect struct {
	BBox    layout.Rect `json:"bbox"`
	Filled  bool        `json:"filled"`
	Stroked bool        `json:"stroked"`
}

// PageContent is everything extracted from one page, in top-origin
// coordinates, before any layout inference runs.
type PageContent struct {
	Number    int                       `json:"number"`
	Width     float64                   `json:"width"`
	Height    float64                   `json:"height"`
	Spans     []layout.TextSpan         `json:"spans"`
	Tables    []layout.TableRegion      `json:"tables"`
	Colors    []layout.ColorObservation `json:"colors"`
	Rulings   []RulingRect              `json:"rulings,omitempty"`
	PlainText string                    `json:"plain_text,omitempty"`
}

// DocumentContent is the full extraction result for a document.
type DocumentContent struct {
	Path      string        `json:"path"`
	Size      int64         `json:"size"`
	PageCount int           `json:"page_count"`
	Pages     []PageContent `json:"pages"`
	Images    []ImageInfo   `json:"images,omitempty"`
	Metadata  Metadata      `json:"metadata"`
	Warnings  []string      `json:"warnings,omitempty"`
}

// Request Types

// ExtractDocumentRequest configures a document extraction pass.
type ExtractDocumentRequest struct {
	Path string `json:"path"`
	// Pages selects pages with a range spec like "3", "1-5", or "1,3,7-9".
	// Empty selects every page.
	Pages string `json:"pages,omitempty"`
	// FastText skips the content-stream scan: no colors, no rulings, and
	// therefore no table detection.
	FastText   bool `json:"fast_text,omitempty"`
	WithTables bool `json:"with_tables"`
	WithImages bool `json:"with_images"`
}

// ValidateFileRequest asks whether a file is a readable PDF.
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// DocumentInfoRequest asks for document statistics and metadata.
type DocumentInfoRequest struct {
	Path string `json:"path"`
}

// Response Types

// ValidateFileResult reports the outcome of a validation pass. Validation
// failures land in Message with Valid false; they are not processing errors.
type ValidateFileResult struct {
	Valid     bool   `json:"valid"`
	Path      string `json:"path"`
	PageCount int    `json:"page_count,omitempty"`
	Message   string `json:"message,omitempty"`
}

// DocumentInfoResult reports document statistics and metadata.
type DocumentInfoResult struct {
	Path         string   `json:"path"`
	Size         int64    `json:"size"`
	PageCount    int      `json:"page_count"`
	Metadata     Metadata `json:"metadata"`
	HasImages    bool     `json:"has_images"`
	ImageCount   int      `json:"image_count"`
	ModifiedDate string   `json:"modified_date"`
}
