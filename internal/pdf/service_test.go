package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewService(t *testing.T) {
	maxFileSize := int64(1024 * 1024) // 1MB
	service := NewService(maxFileSize)

	if service == nil {
		t.Fatal("NewService returned nil")
	}

	if service.maxFileSize != maxFileSize {
		t.Errorf("Expected maxFileSize to be %d, got %d", maxFileSize, service.maxFileSize)
	}

	// Verify all components are initialized
	if service.reader == nil {
		t.Error("reader component should not be nil")
	}
	if service.validator == nil {
		t.Error("validator component should not be nil")
	}
}

func TestService_GetMaxFileSize(t *testing.T) {
	maxFileSize := int64(2 * 1024 * 1024) // 2MB
	service := NewService(maxFileSize)

	if got := service.GetMaxFileSize(); got != maxFileSize {
		t.Errorf("Expected max file size %d, got %d", maxFileSize, got)
	}
}

func TestService_ExtractDocumentEmptyPath(t *testing.T) {
	service := NewService(1024 * 1024)

	_, err := service.ExtractDocument(ExtractDocumentRequest{Path: ""})
	if err == nil {
		t.Fatal("expected error for empty path")
	}
	if !strings.Contains(err.Error(), "path cannot be empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestService_ValidateFileReportsFailure(t *testing.T) {
	service := NewService(1024 * 1024)

	result, err := service.ValidateFile(ValidateFileRequest{Path: "/non/existent/file.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Valid {
		t.Error("missing file should not validate")
	}
	if result.Message == "" {
		t.Error("expected a validation message")
	}
}

func TestService_DocumentInfoErrors(t *testing.T) {
	service := NewService(1024 * 1024)

	tempDir, err := os.MkdirTemp("", "pdf_service_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	textFilePath := filepath.Join(tempDir, "notes.txt")
	if err := os.WriteFile(textFilePath, []byte("notes"), 0o644); err != nil {
		t.Fatalf("failed to create text file: %v", err)
	}

	tests := []struct {
		name        string
		path        string
		errContains string
	}{
		{
			name:        "empty path",
			path:        "",
			errContains: "path cannot be empty",
		},
		{
			name:        "non-existent file",
			path:        "/non/existent/file.pdf",
			errContains: "file does not exist",
		},
		{
			name:        "non-PDF file",
			path:        textFilePath,
			errContains: "file is not a PDF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.DocumentInfo(DocumentInfoRequest{Path: tt.path})
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
			}
		})
	}
}

func TestService_IsValidPDF(t *testing.T) {
	service := NewService(1024 * 1024)

	if service.IsValidPDF("") {
		t.Error("empty path should not be a valid PDF")
	}
	if service.IsValidPDF("/non/existent/file.pdf") {
		t.Error("missing file should not be a valid PDF")
	}
}
