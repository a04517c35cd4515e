package pdf

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// Service handles PDF file operations by orchestrating the extraction
// components
type Service struct {
	maxFileSize int64
	reader      *Reader
	validator   *Validator
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64) *Service {
	return &Service{
		maxFileSize: maxFileSize,
		reader:      NewReader(maxFileSize),
		validator:   NewValidator(maxFileSize),
	}
}

// ExtractDocument extracts structured page content from a PDF file
func (s *Service) ExtractDocument(req ExtractDocumentRequest) (*DocumentContent, error) {
	return s.reader.ExtractDocument(req)
}

// ValidateFile performs validation on a PDF file
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	return s.validator.ValidateFile(req)
}

// DocumentInfo returns document-level details without extracting content
func (s *Service) DocumentInfo(req DocumentInfoRequest) (*DocumentInfoResult, error) {
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
	if err := s.validator.ValidateFileInfo(req.Path, fileInfo); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	imageCount := 0
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		imageCount += len(extractPageImages(r, pageNum))
	}

	return &DocumentInfoResult{
		Path:         req.Path,
		Size:         fileInfo.Size(),
		PageCount:    r.NumPage(),
		Metadata:     extractMetadata(r),
		HasImages:    imageCount > 0,
		ImageCount:   imageCount,
		ModifiedDate: fileInfo.ModTime().Format("2006-01-02 15:04:05"),
	}, nil
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}
