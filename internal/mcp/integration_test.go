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
	"github.com/sheetforge/pdf2sheet/internal/pdf"
)

func TestServerIntegration(t *testing.T) {
	// Create temp directory for test files
	tempDir, err := os.MkdirTemp("", "mcp_integration_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Create test PDF files
	testFiles := []string{"doc1.pdf", "doc2.pdf"}
	for _, filename := range testFiles {
		filePath := filepath.Join(tempDir, filename)
		if err := os.WriteFile(filePath, make([]byte, 1024), 0o644); err != nil {
			t.Fatalf("failed to create test file %s: %v", filename, err)
		}
	}

	// Setup server configuration
	cfg := &config.Config{
		Mode:        "serve",
		OutputDir:   tempDir,
		Version:     "1.0.0",
		ServerName:  "integration-test-server",
		Workers:     4,
		LogLevel:    "info",
		MaxFileSize: 1024 * 1024,
	}

	converter := convert.NewService(cfg.MaxFileSize)
	pdfService := pdf.NewService(cfg.MaxFileSize)

	// Create MCP server
	server, err := NewServer(cfg, converter, pdfService)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	// Verify server properties
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

	// The service info should advertise the configured output directory
	info := server.formatServiceInfo()
	if !strings.Contains(info, tempDir) {
		t.Errorf("service info should mention output directory %s, got:\n%s", tempDir, info)
	}

	// Validation of a junk file should flow through the whole stack
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"path": filepath.Join(tempDir, "doc1.pdf"),
			},
		},
	}
	result, err := server.handlePDFValidateFile(context.Background(), request)
	if err != nil {
		t.Fatalf("validate handler failed: %v", err)
	}
	if text := extractTextFromResult(result); !strings.Contains(text, "PDF validation failed") {
		t.Errorf("expected validation failure for junk file, got: %s", text)
	}
}

func TestServerToolsRegistration(t *testing.T) {
	cfg := &config.Config{
		Mode:        "serve",
		Version:     "1.0.0",
		ServerName:  "test-server",
		Workers:     4,
		LogLevel:    "info",
		MaxFileSize: 1024 * 1024,
	}

	server, err := NewServer(cfg, convert.NewService(cfg.MaxFileSize), pdf.NewService(cfg.MaxFileSize))
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	// Test that tools are properly registered by checking the MCP server
	if server.mcpServer == nil {
		t.Fatal("MCP server should be initialized")
	}

	// The mark3labs library doesn't expose registered tools directly,
	// but we can verify the server was created successfully
	// which means tools were registered without errors
}

func TestServerRunStdio(t *testing.T) {
	cfg := &config.Config{
		Mode:        "serve",
		Version:     "1.0.0",
		ServerName:  "test-server",
		Workers:     4,
		LogLevel:    "info",
		MaxFileSize: 1024 * 1024,
	}

	server, err := NewServer(cfg, convert.NewService(cfg.MaxFileSize), pdf.NewService(cfg.MaxFileSize))
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	// Start server in a goroutine
	done := make(chan error, 1)
	go func() {
		done <- server.Run(context.Background())
	}()

	// Test stdin is not a protocol stream, so the server either exits
	// immediately on EOF or keeps waiting for a request. Both are fine.
	select {
	case err := <-done:
		if err != nil {
			t.Logf("server stopped with: %v", err)
		}
	case <-time.After(100 * time.Millisecond):
		t.Log("server still serving after 100ms")
	}
}

func TestServerConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		config *config.Config
		valid  bool
	}{
		{
			name: "valid serve config",
			config: &config.Config{
				Mode:        "serve",
				Version:     "1.0.0",
				ServerName:  "test-server",
				Workers:     4,
				LogLevel:    "info",
				MaxFileSize: 1024 * 1024,
			},
			valid: true,
		},
		{
			name: "valid serve config with output directory",
			config: &config.Config{
				Mode:        "serve",
				OutputDir:   "/tmp",
				Version:     "1.0.0",
				ServerName:  "test-server",
				Workers:     4,
				LogLevel:    "debug",
				MaxFileSize: 1024 * 1024,
			},
			valid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			converter := convert.NewService(tt.config.MaxFileSize)
			pdfService := pdf.NewService(tt.config.MaxFileSize)
			server, err := NewServer(tt.config, converter, pdfService)

			if tt.valid && err != nil {
				t.Errorf("expected valid config to succeed, got error: %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected invalid config to fail")
			}
			if tt.valid && server == nil {
				t.Error("expected server to be created for valid config")
			}
		})
	}
}

func TestServerErrorHandling(t *testing.T) {
	cfg := &config.Config{
		Mode:        "serve",
		Version:     "1.0.0",
		ServerName:  "test-server",
		Workers:     4,
		LogLevel:    "info",
		MaxFileSize: 1024 * 1024,
	}

	// Test with nil services (should not panic)
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Server creation with nil service caused panic: %v", r)
		}
	}()

	if _, err := NewServer(cfg, nil, pdf.NewService(cfg.MaxFileSize)); err == nil {
		t.Error("expected error with nil converter")
	}
	if _, err := NewServer(cfg, convert.NewService(cfg.MaxFileSize), nil); err == nil {
		t.Error("expected error with nil PDF service")
	}
}
