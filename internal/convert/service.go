// Package convert orchestrates the full conversion pipeline: extract a
// document, infer per-page layout, and serialize workbooks. It joins the
// pdf, layout, and excel packages behind one service.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sheetforge/pdf2sheet/internal/excel"
	"github.com/sheetforge/pdf2sheet/internal/layout"
	"github.com/sheetforge/pdf2sheet/internal/pdf"
)

// defaultBatchWorkers bounds batch concurrency when the request does not.
const defaultBatchWorkers = 4

// Service runs conversions. Safe for concurrent use; per-file conversions
// share nothing beyond the stateless collaborators.
type Service struct {
	pdfs     *pdf.Service
	analyzer *layout.Analyzer
	writer   *excel.Writer
}

func NewService(maxFileSize int64) *Service {
	return &Service{
		pdfs:     pdf.NewService(maxFileSize),
		analyzer: layout.NewAnalyzer(),
		writer:   excel.NewWriter(),
	}
}

// ConvertRequest configures a single file conversion.
type ConvertRequest struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path,omitempty"`
	// Pages selects pages with a range spec like "3", "1-5", or "1,3,7-9".
	Pages string `json:"pages,omitempty"`
	// Fast skips the content-stream scan and image cataloging; the theme
	// resolves to absent colors and tables are not detected.
	Fast        bool `json:"fast,omitempty"`
	NoTables    bool `json:"no_tables,omitempty"`
	NoImages    bool `json:"no_images,omitempty"`
	Traditional bool `json:"traditional,omitempty"`
}

// ConvertResult reports one finished conversion.
type ConvertResult struct {
	InputPath  string              `json:"input_path"`
	OutputPath string              `json:"output_path"`
	PageCount  int                 `json:"page_count"`
	TableCount int                 `json:"table_count"`
	ImageCount int                 `json:"image_count"`
	Report     *excel.RenderReport `json:"report,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
	Duration   time.Duration       `json:"duration"`
}

// ConvertFile validates, extracts, analyzes, and renders one document.
// The output path defaults to the input path with an .xlsx extension.
func (s *Service) ConvertFile(req ConvertRequest) (*ConvertResult, error) {
	start := time.Now()

	if req.InputPath == "" {
		return nil, errors.New("input path cannot be empty")
	}

	validation, err := s.pdfs.ValidateFile(pdf.ValidateFileRequest{Path: req.InputPath})
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !validation.Valid {
		return nil, fmt.Errorf("invalid input: %s", validation.Message)
	}

	doc, err := s.pdfs.ExtractDocument(pdf.ExtractDocumentRequest{
		Path:       req.InputPath,
		Pages:      req.Pages,
		FastText:   req.Fast,
		WithTables: !req.NoTables,
		WithImages: !req.NoImages && !req.Fast,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = OutputWorkbookPath("", req.InputPath)
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create output directory: %w", err)
		}
	}

	result := &ConvertResult{
		InputPath:  req.InputPath,
		OutputPath: outputPath,
		PageCount:  len(doc.Pages),
		ImageCount: len(doc.Images),
		Warnings:   doc.Warnings,
	}
	for _, page := range doc.Pages {
		result.TableCount += len(page.Tables)
	}

	if req.Traditional {
		if err := s.writer.WriteTraditional(doc, outputPath); err != nil {
			return nil, fmt.Errorf("write workbook: %w", err)
		}
	} else {
		report, err := s.writer.WriteLayout(s.renderPages(doc), outputPath)
		if err != nil {
			return nil, fmt.Errorf("write workbook: %w", err)
		}
		result.Report = report
	}

	result.Duration = time.Since(start)
	return result, nil
}

// renderPages analyzes every extracted page. A page whose analysis panics
// degrades to the fallback rendering path instead of failing the document.
func (s *Service) renderPages(doc *pdf.DocumentContent) []excel.PageRender {
	pages := make([]excel.PageRender, 0, len(doc.Pages))
	for _, page := range doc.Pages {
		analysis, failure := s.analyzePage(page)
		pages = append(pages, excel.PageRender{
			Number:   page.Number,
			Analysis: analysis,
			Failure:  failure,
			Lines:    strings.Split(page.PlainText, "\n"),
			Tables:   page.Tables,
		})
	}
	return pages
}

func (s *Service) analyzePage(page pdf.PageContent) (analysis *layout.PageAnalysis, failure string) {
	defer func() {
		if r := recover(); r != nil {
			analysis = nil
			failure = fmt.Sprintf("layout analysis failed: %v", r)
		}
	}()

	return s.analyzer.AnalyzePage(page.Spans, page.Tables, page.Colors), ""
}

// BatchRequest configures a directory conversion.
type BatchRequest struct {
	InputDir    string `json:"input_dir"`
	OutputDir   string `json:"output_dir"`
	Workers     int    `json:"workers,omitempty"`
	Pages       string `json:"pages,omitempty"`
	Fast        bool   `json:"fast,omitempty"`
	NoTables    bool   `json:"no_tables,omitempty"`
	NoImages    bool   `json:"no_images,omitempty"`
	Traditional bool   `json:"traditional,omitempty"`
}

// FileOutcome is the per-file record of a batch run.
type FileOutcome struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path,omitempty"`
	Pages      int    `json:"pages,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Results   []FileOutcome `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// ConvertBatch converts every *.pdf directly under the input directory
// into the output directory, keeping base names. File failures are
// recorded in the result rather than aborting the batch. Concurrency is
// bounded by the worker limit.
func (s *Service) ConvertBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	start := time.Now()

	if req.InputDir == "" {
		return nil, errors.New("input directory cannot be empty")
	}
	inputs, err := filepath.Glob(filepath.Join(req.InputDir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("cannot list input directory: %w", err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no PDF files found in %s", req.InputDir)
	}

	workers := req.Workers
	if workers < 1 {
		workers = defaultBatchWorkers
	}

	results := make([]FileOutcome, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = FileOutcome{InputPath: input, Error: err.Error()}
				return nil
			}

			res, err := s.ConvertFile(ConvertRequest{
				InputPath:   input,
				OutputPath:  OutputWorkbookPath(req.OutputDir, input),
				Pages:       req.Pages,
				Fast:        req.Fast,
				NoTables:    req.NoTables,
				NoImages:    req.NoImages,
				Traditional: req.Traditional,
			})
			if err != nil {
				results[i] = FileOutcome{InputPath: input, Error: err.Error()}
				return nil
			}
			results[i] = FileOutcome{
				InputPath:  input,
				OutputPath: res.OutputPath,
				Pages:      res.PageCount,
			}
			return nil
		})
	}
	// Goroutines report failures through results, never as errors.
	_ = g.Wait()

	batch := &BatchResult{Results: results, Duration: time.Since(start)}
	for _, r := range results {
		if r.Error == "" {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
	}
	return batch, nil
}

// InspectRequest asks for the inferred layout of one page.
type InspectRequest struct {
	Path string `json:"path"`
	// Page is 1-based; zero means the first page.
	Page int `json:"page,omitempty"`
}

// RowSummary is one text row of an inspected page.
type RowSummary struct {
	Type layout.RowType `json:"type"`
	Text string         `json:"text"`
}

// TableSummary is one classified table of an inspected page.
type TableSummary struct {
	Type       layout.TableType  `json:"type"`
	Complexity layout.Complexity `json:"complexity"`
	Rows       int               `json:"rows"`
	Cols       int               `json:"cols"`
	HasHeaders bool              `json:"has_headers"`
}

// InspectResult is the layout inference outcome for one page, without any
// workbook being written.
type InspectResult struct {
	Path        string                   `json:"path"`
	Page        int                      `json:"page"`
	Theme       layout.TableColorTheme   `json:"theme"`
	BlockCounts map[layout.BlockType]int `json:"block_counts"`
	RowTypes    []RowSummary             `json:"rows"`
	Tables      []TableSummary           `json:"tables"`
}

// InspectLayout extracts one page and runs layout inference over it,
// reporting the theme, classified rows, and table classifications.
func (s *Service) InspectLayout(req InspectRequest) (*InspectResult, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, fmt.Errorf("invalid page number %d", page)
	}

	doc, err := s.pdfs.ExtractDocument(pdf.ExtractDocumentRequest{
		Path:       req.Path,
		Pages:      strconv.Itoa(page),
		WithTables: true,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("page %d not found (document has %d pages)", page, doc.PageCount)
	}

	content := doc.Pages[0]
	analysis := s.analyzer.AnalyzePage(content.Spans, content.Tables, content.Colors)

	result := &InspectResult{
		Path:        req.Path,
		Page:        page,
		Theme:       analysis.Theme,
		BlockCounts: analysis.BlockCounts(),
	}
	for _, el := range analysis.Elements {
		if el.Kind != layout.ElementTextRow || el.Row == nil {
			continue
		}
		text := make([]string, 0, len(el.Row.Spans))
		for _, span := range el.Row.Spans {
			text = append(text, span.Text)
		}
		result.RowTypes = append(result.RowTypes, RowSummary{
			Type: el.Row.Type,
			Text: strings.Join(text, " "),
		})
	}
	for _, table := range analysis.Tables {
		result.Tables = append(result.Tables, TableSummary{
			Type:       table.Type,
			Complexity: table.Complexity,
			Rows:       table.RowCount,
			Cols:       table.ColCount,
			HasHeaders: table.HasHeaders,
		})
	}
	return result, nil
}

// OutputWorkbookPath places the input's base name, with an .xlsx
// extension, in the output directory. An empty output directory keeps
// the input's own directory.
func OutputWorkbookPath(outputDir, input string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".xlsx"
	if outputDir == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	return filepath.Join(outputDir, name)
}
