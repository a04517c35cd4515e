package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sheetforge/pdf2sheet/internal/layout"
	"github.com/sheetforge/pdf2sheet/internal/pdf"
)

const testMaxFileSize = 10 * 1024 * 1024

func TestNewService(t *testing.T) {
	s := NewService(testMaxFileSize)
	if s.pdfs == nil {
		t.Error("Expected pdf service to be initialized")
	}
	if s.analyzer == nil {
		t.Error("Expected layout analyzer to be initialized")
	}
	if s.writer == nil {
		t.Error("Expected excel writer to be initialized")
	}
}

func TestConvertFileEmptyPath(t *testing.T) {
	s := NewService(testMaxFileSize)

	_, err := s.ConvertFile(ConvertRequest{})
	if err == nil {
		t.Error("Expected error for empty input path")
	}
}

func TestConvertFileMissingFile(t *testing.T) {
	s := NewService(testMaxFileSize)

	_, err := s.ConvertFile(ConvertRequest{InputPath: "/nonexistent/file.pdf"})
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !strings.Contains(err.Error(), "invalid input") {
		t.Errorf("Expected validation failure, got: %v", err)
	}
}

func TestConvertFileRejectsCorruptPDF(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "corrupt.pdf")
	if err := os.WriteFile(input, []byte("not a real pdf"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	s := NewService(testMaxFileSize)
	_, err := s.ConvertFile(ConvertRequest{InputPath: input})
	if err == nil {
		t.Fatal("Expected error for corrupt file")
	}
	if !strings.Contains(err.Error(), "invalid input") {
		t.Errorf("Expected validation failure, got: %v", err)
	}
}

func TestConvertBatchEmptyInputDir(t *testing.T) {
	s := NewService(testMaxFileSize)

	_, err := s.ConvertBatch(context.Background(), BatchRequest{})
	if err == nil {
		t.Error("Expected error for empty input directory")
	}
}

func TestConvertBatchNoFiles(t *testing.T) {
	s := NewService(testMaxFileSize)

	_, err := s.ConvertBatch(context.Background(), BatchRequest{InputDir: t.TempDir()})
	if err == nil {
		t.Fatal("Expected error for directory without PDFs")
	}
	if !strings.Contains(err.Error(), "no PDF files") {
		t.Errorf("Expected no-files message, got: %v", err)
	}
}

func TestConvertBatchRecordsFailures(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"alpha.pdf", "beta.pdf"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("junk"), 0o644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}
	// Non-PDF files are not part of the batch.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	s := NewService(testMaxFileSize)
	result, err := s.ConvertBatch(context.Background(), BatchRequest{
		InputDir:  dir,
		OutputDir: t.TempDir(),
		Workers:   2,
	})
	if err != nil {
		t.Fatalf("Expected batch to complete despite file failures, got: %v", err)
	}

	if len(result.Results) != 2 {
		t.Fatalf("Expected 2 outcomes, got %d", len(result.Results))
	}
	if result.Succeeded != 0 {
		t.Errorf("Expected 0 successes, got %d", result.Succeeded)
	}
	if result.Failed != 2 {
		t.Errorf("Expected 2 failures, got %d", result.Failed)
	}
	for _, outcome := range result.Results {
		if outcome.Error == "" {
			t.Errorf("Expected a recorded error for %s", outcome.InputPath)
		}
	}
	if base := filepath.Base(result.Results[0].InputPath); base != "alpha.pdf" {
		t.Errorf("Expected sorted batch order starting with alpha.pdf, got %s", base)
	}
}

func TestConvertBatchHonorsCanceledContext(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc.pdf"), []byte("junk"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewService(testMaxFileSize)
	result, err := s.ConvertBatch(ctx, BatchRequest{InputDir: dir})
	if err != nil {
		t.Fatalf("Expected batch result, got error: %v", err)
	}
	if result.Failed != 1 {
		t.Errorf("Expected 1 canceled outcome, got %d failures", result.Failed)
	}
	if !strings.Contains(result.Results[0].Error, "context canceled") {
		t.Errorf("Expected cancellation to be recorded, got: %s", result.Results[0].Error)
	}
}

func TestRenderPagesBuildsAnalysis(t *testing.T) {
	s := NewService(testMaxFileSize)
	doc := &pdf.DocumentContent{
		Pages: []pdf.PageContent{
			{
				Number: 1,
				Spans: []layout.TextSpan{
					{Text: "ACME Corp", BBox: layout.Rect{X: 50, Y: 40, Width: 90, Height: 16}, FontSize: 16, Bold: true},
					{Text: "PAYSLIP", BBox: layout.Rect{X: 400, Y: 40, Width: 80, Height: 20}, FontSize: 20, Bold: true},
				},
				PlainText: "ACME Corp PAYSLIP\nPay period: July",
			},
		},
	}

	pages := s.renderPages(doc)
	if len(pages) != 1 {
		t.Fatalf("Expected 1 rendered page, got %d", len(pages))
	}
	if pages[0].Number != 1 {
		t.Errorf("Expected page number 1, got %d", pages[0].Number)
	}
	if pages[0].Analysis == nil {
		t.Fatal("Expected analysis for the page")
	}
	if pages[0].Failure != "" {
		t.Errorf("Expected no failure, got %q", pages[0].Failure)
	}
	if len(pages[0].Lines) != 2 {
		t.Errorf("Expected 2 fallback lines, got %d", len(pages[0].Lines))
	}
}

func TestInspectLayoutRejectsNegativePage(t *testing.T) {
	s := NewService(testMaxFileSize)

	_, err := s.InspectLayout(InspectRequest{Path: "/tmp/doc.pdf", Page: -1})
	if err == nil {
		t.Error("Expected error for negative page number")
	}
}

func TestInspectLayoutMissingFile(t *testing.T) {
	s := NewService(testMaxFileSize)

	_, err := s.InspectLayout(InspectRequest{Path: "/nonexistent/file.pdf"})
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !strings.Contains(err.Error(), "extraction failed") {
		t.Errorf("Expected extraction failure, got: %v", err)
	}
}

func TestOutputWorkbookPath(t *testing.T) {
	tests := []struct {
		outputDir string
		input     string
		expected  string
	}{
		{"", "report.pdf", "report.xlsx"},
		{"", "/docs/statement.PDF", "/docs/statement.xlsx"},
		{"", "archive", "archive.xlsx"},
		{"/out", "/in/invoice.pdf", "/out/invoice.xlsx"},
		{"/out", "scan.pdf", "/out/scan.xlsx"},
	}

	for _, tt := range tests {
		if got := OutputWorkbookPath(tt.outputDir, tt.input); got != tt.expected {
			t.Errorf("OutputWorkbookPath(%q, %q) = %q, expected %q", tt.outputDir, tt.input, got, tt.expected)
		}
	}
}
