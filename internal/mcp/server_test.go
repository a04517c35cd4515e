package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sheetforge/pdf2sheet/internal/config"
	"github.com/sheetforge/pdf2sheet/internal/convert"
	"github.com/sheetforge/pdf2sheet/internal/excel"
	"github.com/sheetforge/pdf2sheet/internal/layout"
	"github.com/sheetforge/pdf2sheet/internal/pdf"
)

const testMaxFileSize = int64(10 * 1024 * 1024)

func testConfig() *config.Config {
	return &config.Config{
		Mode:        "serve",
		Version:     "1.0.0",
		ServerName:  "test-server",
		Workers:     4,
		LogLevel:    "info",
		MaxFileSize: testMaxFileSize,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	server, err := NewServer(testConfig(), convert.NewService(testMaxFileSize), pdf.NewService(testMaxFileSize))
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	cfg := testConfig()
	converter := convert.NewService(testMaxFileSize)
	pdfService := pdf.NewService(testMaxFileSize)

	server, err := NewServer(cfg, converter, pdfService)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if server.config != cfg {
		t.Error("server config not set correctly")
	}
	if server.converter != converter {
		t.Error("server converter not set correctly")
	}
	if server.pdfService != pdfService {
		t.Error("server pdfService not set correctly")
	}
	if server.mcpServer == nil {
		t.Error("mcpServer should be initialized")
	}
}

func TestNewServer_NilComponents(t *testing.T) {
	cfg := testConfig()

	if _, err := NewServer(cfg, nil, pdf.NewService(testMaxFileSize)); err == nil {
		t.Error("expected error for nil converter")
	}
	if _, err := NewServer(cfg, convert.NewService(testMaxFileSize), nil); err == nil {
		t.Error("expected error for nil pdfService")
	}
}

func TestServer_HandlePDFValidateFile(t *testing.T) {
	// Create temp directory for test files
	tempDir, err := os.MkdirTemp("", "mcp_server_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Create test file
	testFile := filepath.Join(tempDir, "test.pdf")
	if err := os.WriteFile(testFile, make([]byte, 1024), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	server := newTestServer(t)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"path": testFile,
			},
		},
	}

	result, err := server.handlePDFValidateFile(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	if result == nil {
		t.Fatal("result should not be nil")
	}

	// The file should be invalid since it's not a real PDF
	resultText := extractTextFromResult(result)
	if !strings.Contains(resultText, "PDF validation failed") {
		t.Errorf("expected validation to fail, got: %s", resultText)
	}
}

func TestServer_HandlePDFConvertFile_InvalidFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "mcp_server_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	testFile := filepath.Join(tempDir, "corrupt.pdf")
	if err := os.WriteFile(testFile, []byte("not a real pdf"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	server := newTestServer(t)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"path": testFile,
			},
		},
	}

	result, err := server.handlePDFConvertFile(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	resultText := extractTextFromResult(result)
	if !strings.Contains(resultText, "invalid input") {
		t.Errorf("expected conversion to report an invalid input, got: %s", resultText)
	}
}

func TestServer_HandlePDFInspectLayout_MissingFile(t *testing.T) {
	server := newTestServer(t)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"path": "/nonexistent/file.pdf",
				"page": float64(1),
			},
		},
	}

	result, err := server.handlePDFInspectLayout(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	resultText := extractTextFromResult(result)
	if !strings.Contains(resultText, "extraction failed") {
		t.Errorf("expected extraction failure, got: %s", resultText)
	}
}

func TestServer_InvalidArguments(t *testing.T) {
	server := newTestServer(t)

	// Test with missing required arguments
	emptyRequest := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{},
		},
	}

	// Test each handler that requires arguments
	handlers := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
	}{
		{"PDFConvertFile", server.handlePDFConvertFile},
		{"PDFInspectLayout", server.handlePDFInspectLayout},
		{"PDFDocumentInfo", server.handlePDFDocumentInfo},
		{"PDFValidateFile", server.handlePDFValidateFile},
	}

	for _, h := range handlers {
		t.Run(h.name, func(t *testing.T) {
			result, err := h.handler(context.Background(), emptyRequest)
			if err != nil {
				t.Errorf("handler should not return error, got: %v", err)
			}
			if result == nil {
				t.Fatal("result should not be nil")
			}

			// Check if it's an error result
			resultText := extractTextFromResult(result)
			if !strings.Contains(resultText, "required") && !strings.Contains(resultText, "missing") && !strings.Contains(resultText, "error") {
				t.Errorf("expected error message for missing arguments, got: %s", resultText)
			}
		})
	}
}

func TestFormatConvertFileResult(t *testing.T) {
	server := newTestServer(t)

	convertResult := &convert.ConvertResult{
		InputPath:  "/tmp/statement.pdf",
		OutputPath: "/tmp/statement.xlsx",
		PageCount:  2,
		TableCount: 3,
		ImageCount: 1,
		Report: &excel.RenderReport{
			Sheets: []excel.SheetReport{
				{
					Sheet:   "Page_1",
					Page:    1,
					Emitted: 5,
					Skipped: []excel.SkippedElement{
						{Position: 2, Reason: "element carries no content"},
					},
				},
			},
		},
		Warnings: []string{"page 2: no text layer"},
		Duration: 1500 * time.Millisecond,
	}

	formatted := server.formatConvertFileResult(convertResult)

	for _, want := range []string{
		"Successfully converted: /tmp/statement.pdf",
		"Workbook: /tmp/statement.xlsx",
		"Pages: 2",
		"Tables: 3",
		"Images: 1",
		"Elements emitted: 5",
		"Elements skipped: 1",
		"Duration: 1.5s",
		"page 2: no text layer",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("formatted result should contain %q, got:\n%s", want, formatted)
		}
	}
}

func TestFormatInspectLayoutResult(t *testing.T) {
	server := newTestServer(t)

	headerBG := "FF336699"
	inspectResult := &convert.InspectResult{
		Path:  "/tmp/statement.pdf",
		Page:  1,
		Theme: layout.TableColorTheme{HeaderBG: &headerBG},
		BlockCounts: map[layout.BlockType]int{
			layout.BlockMainHeader: 1,
			layout.BlockData:       4,
		},
		RowTypes: []convert.RowSummary{
			{Type: layout.RowSectionHeader, Text: "CURRENT EARNINGS"},
		},
		Tables: []convert.TableSummary{
			{
				Type:       layout.TableTypeFinancialStatement,
				Complexity: layout.ComplexityMedium,
				Rows:       5,
				Cols:       3,
				HasHeaders: true,
			},
		},
	}

	formatted := server.formatInspectLayoutResult(inspectResult)

	for _, want := range []string{
		"Layout analysis for /tmp/statement.pdf (page 1)",
		"header_bg:         #FF336699",
		"header_text:       (none)",
		"main_header: 1",
		"data: 4",
		"[section_header] CURRENT EARNINGS",
		"financial_statement (medium), 5 x 3, with header row",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("formatted result should contain %q, got:\n%s", want, formatted)
		}
	}
}

func TestFormatDocumentInfoResult(t *testing.T) {
	server := newTestServer(t)

	infoResult := &pdf.DocumentInfoResult{
		Path:      "/tmp/test.pdf",
		Size:      1024,
		PageCount: 5,
		Metadata: pdf.Metadata{
			Title:  "Test Document",
			Author: "Test Author",
		},
		HasImages:    true,
		ImageCount:   2,
		ModifiedDate: "2023-01-01 12:00:00",
	}

	formatted := server.formatDocumentInfoResult(infoResult)

	for _, want := range []string{
		"Pages: 5",
		"Test Document",
		"Test Author",
		"Image Count: 2",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("formatted result should contain %q, got:\n%s", want, formatted)
		}
	}
}

func TestFormatServiceInfo(t *testing.T) {
	server := newTestServer(t)

	formatted := server.formatServiceInfo()

	for _, want := range []string{
		"test-server v1.0.0",
		"Max File Size: 10 MB",
		"pdf_convert_file",
		"pdf_inspect_layout",
		"pdf_document_info",
		"pdf_validate_file",
		"pdf_service_info",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("service info should contain %q, got:\n%s", want, formatted)
		}
	}
}

// Helper function to extract text from a CallToolResult
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	// Try to extract text content
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		// Handle pointer to TextContent as well
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}
