package mcp

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sheetforge/pdf2sheet/internal/config"
	"github.com/sheetforge/pdf2sheet/internal/convert"
	"github.com/sheetforge/pdf2sheet/internal/descriptions"
	"github.com/sheetforge/pdf2sheet/internal/layout"
	"github.com/sheetforge/pdf2sheet/internal/pdf"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	converter  *convert.Service
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, converter *convert.Service, pdfService *pdf.Service) (*Server, error) {
	if converter == nil {
		return nil, fmt.Errorf("converter cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		converter:  converter,
		pdfService: pdfService,
		mcpServer:  mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Register PDF convert file tool
	pdfConvertFileTool := mcp.NewTool(
		"pdf_convert_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_convert_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithString("output",
			mcp.Description("Output workbook path (defaults to the input name with .xlsx)"),
		),
		mcp.WithString("pages",
			mcp.Description("Page selection, e.g. '3', '1-5', or '1,3,7-9' (default all pages)"),
		),
		mcp.WithBoolean("traditional_format",
			mcp.Description("Write the multi-sheet summary workbook instead of layout sheets"),
		),
	)
	s.mcpServer.AddTool(pdfConvertFileTool, s.handlePDFConvertFile)

	// Register PDF inspect layout tool
	pdfInspectLayoutTool := mcp.NewTool(
		"pdf_inspect_layout",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_inspect_layout")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithNumber("page",
			mcp.Description("1-based page number to inspect (default 1)"),
		),
	)
	s.mcpServer.AddTool(pdfInspectLayoutTool, s.handlePDFInspectLayout)

	// Register PDF document info tool
	pdfDocumentInfoTool := mcp.NewTool(
		"pdf_document_info",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_document_info")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfDocumentInfoTool, s.handlePDFDocumentInfo)

	// Register PDF validate file tool
	pdfValidateFileTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_validate_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfValidateFileTool, s.handlePDFValidateFile)

	// Register PDF service info tool
	pdfServiceInfoTool := mcp.NewTool(
		"pdf_service_info",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_service_info")),
	)
	s.mcpServer.AddTool(pdfServiceInfoTool, s.handlePDFServiceInfo)
}

// Handler functions
func (s *Server) handlePDFConvertFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	req := convert.ConvertRequest{InputPath: path}
	if output, ok := args["output"].(string); ok {
		req.OutputPath = output
	}
	if pages, ok := args["pages"].(string); ok {
		req.Pages = pages
	}
	if traditional, ok := args["traditional_format"].(bool); ok {
		req.Traditional = traditional
	}
	// A configured output directory catches conversions without an
	// explicit output path.
	if req.OutputPath == "" && s.config.OutputDir != "" {
		req.OutputPath = convert.OutputWorkbookPath(s.config.OutputDir, path)
	}

	result, err := s.converter.ConvertFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatConvertFileResult(result)), nil
}

func (s *Server) handlePDFInspectLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	page := 0
	if p, ok := args["page"].(float64); ok {
		page = int(p)
	}

	result, err := s.converter.InspectLayout(convert.InspectRequest{Path: path, Page: page})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatInspectLayoutResult(result)), nil
}

func (s *Server) handlePDFDocumentInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.DocumentInfo(pdf.DocumentInfoRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatDocumentInfoResult(result)), nil
}

func (s *Server) handlePDFValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.PageCount)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFServiceInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServiceInfo()), nil
}

// Formatting methods
func (s *Server) formatConvertFileResult(result *convert.ConvertResult) string {
	text := fmt.Sprintf("Successfully converted: %s\n", result.InputPath)
	text += fmt.Sprintf("Workbook: %s\n", result.OutputPath)
	text += fmt.Sprintf("Pages: %d\n", result.PageCount)
	text += fmt.Sprintf("Tables: %d\n", result.TableCount)
	if result.ImageCount > 0 {
		text += fmt.Sprintf("Images: %d\n", result.ImageCount)
	}

	if result.Report != nil {
		text += fmt.Sprintf("Elements emitted: %d\n", result.Report.EmittedCount())
		if skipped := result.Report.SkippedCount(); skipped > 0 {
			text += fmt.Sprintf("Elements skipped: %d\n", skipped)
		}
		if degraded := result.Report.DegradedPages(); len(degraded) > 0 {
			text += fmt.Sprintf("Pages rendered plain after analysis failure: %v\n", degraded)
		}
	}

	text += fmt.Sprintf("Duration: %s\n", result.Duration)

	if len(result.Warnings) > 0 {
		text += "\nWarnings:\n"
		for _, warning := range result.Warnings {
			text += fmt.Sprintf("  - %s\n", warning)
		}
	}

	return text
}

func (s *Server) formatInspectLayoutResult(result *convert.InspectResult) string {
	text := fmt.Sprintf("Layout analysis for %s (page %d)\n", result.Path, result.Page)

	text += "\nTheme:\n"
	text += fmt.Sprintf("  header_bg:         %s\n", colorOrNone(result.Theme.HeaderBG))
	text += fmt.Sprintf("  header_text:       %s\n", colorOrNone(result.Theme.HeaderText))
	text += fmt.Sprintf("  data_bg_primary:   %s\n", colorOrNone(result.Theme.DataBGPrimary))
	text += fmt.Sprintf("  data_bg_alternate: %s\n", colorOrNone(result.Theme.DataBGAlternate))
	text += fmt.Sprintf("  data_text:         %s\n", colorOrNone(result.Theme.DataText))
	text += fmt.Sprintf("  border_color:      %s\n", colorOrNone(result.Theme.BorderColor))

	if len(result.BlockCounts) > 0 {
		text += "\nBlock counts:\n"
		blockTypes := make([]string, 0, len(result.BlockCounts))
		for blockType := range result.BlockCounts {
			blockTypes = append(blockTypes, string(blockType))
		}
		sort.Strings(blockTypes)
		for _, blockType := range blockTypes {
			text += fmt.Sprintf("  %s: %d\n", blockType, result.BlockCounts[layout.BlockType(blockType)])
		}
	}

	if len(result.RowTypes) > 0 {
		text += "\nRows:\n"
		for i, row := range result.RowTypes {
			text += fmt.Sprintf("  %d. [%s] %s\n", i+1, row.Type, row.Text)
		}
	}

	if len(result.Tables) > 0 {
		text += "\nTables:\n"
		for i, table := range result.Tables {
			text += fmt.Sprintf("  %d. %s (%s), %d x %d", i+1, table.Type, table.Complexity, table.Rows, table.Cols)
			if table.HasHeaders {
				text += ", with header row"
			}
			text += "\n"
		}
	} else {
		text += "\nTables: none detected\n"
	}

	return text
}

func (s *Server) formatDocumentInfoResult(result *pdf.DocumentInfoResult) string {
	text := "PDF Document Information\n"
	text += fmt.Sprintf("File: %s\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.PageCount)
	text += fmt.Sprintf("Has Images: %t\n", result.HasImages)
	if result.HasImages {
		text += fmt.Sprintf("Image Count: %d\n", result.ImageCount)
	}
	text += fmt.Sprintf("Modified: %s\n", result.ModifiedDate)

	meta := result.Metadata
	if meta.Title != "" {
		text += fmt.Sprintf("Title: %s\n", meta.Title)
	}
	if meta.Author != "" {
		text += fmt.Sprintf("Author: %s\n", meta.Author)
	}
	if meta.Subject != "" {
		text += fmt.Sprintf("Subject: %s\n", meta.Subject)
	}
	if meta.Creator != "" {
		text += fmt.Sprintf("Creator: %s\n", meta.Creator)
	}
	if meta.Producer != "" {
		text += fmt.Sprintf("Producer: %s\n", meta.Producer)
	}
	if meta.CreationDate != "" {
		text += fmt.Sprintf("Created: %s\n", meta.CreationDate)
	}

	return text
}

func (s *Server) formatServiceInfo() string {
	text := fmt.Sprintf("📋 %s v%s - Service Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	if s.config.OutputDir != "" {
		text += fmt.Sprintf("📁 Output Directory: %s\n", s.config.OutputDir)
	} else {
		text += "📁 Output Directory: alongside each input file\n"
	}

	text += fmt.Sprintf("\n🛠️  Available Tools (%d):\n", len(descriptions.ToolUsages))
	for _, tool := range descriptions.ToolUsages {
		text += fmt.Sprintf("\n• %s - %s\n", tool.Name, tool.Summary)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\nStart with pdf_validate_file for unknown sources, then pdf_convert_file; " +
		"use pdf_inspect_layout when a converted sheet needs a second look.\n"

	return text
}

func colorOrNone(color *string) string {
	if color == nil {
		return "(none)"
	}
	return "#" + *color
}

// Run starts the MCP server on stdio. The parent process owns the
// lifecycle; stdout carries the protocol, so logging stays on stderr.
func (s *Server) Run(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting %s MCP server on stdio", s.config.ServerName)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
