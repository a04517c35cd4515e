package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Conversion Tools
	PDFConvertFileDescription = `Convert a PDF document into a styled Excel workbook that mirrors the original layout.

**When to use:** Need a spreadsheet rendition of a PDF such as a pay statement, invoice, or financial report, with headers, labels, and tables placed the way the document shows them.

**Why it's useful:** Goes beyond plain text extraction: infers the document's color theme, classifies headings and label pairs, detects tables, and rebuilds everything on an 8-column grid with fonts, fills, and borders.

**Examples:**
• Pay statement conversion: "Convert payslip-2024-07.pdf so each earnings table lands in its own styled rows"
• Invoice processing: "Turn invoice-0042.pdf into out/invoice-0042.xlsx keeping the totals right-aligned"
• Selected pages: "Convert only pages 1-3 of annual-report.pdf"

**Common workflows:**
1. Review & Share: Convert PDF → Open workbook → Verify layout → Share with finance
2. Data Handoff: Convert with traditional_format → Feed the Extracted_Tables sheet to downstream tooling
3. Page Triage: Inspect layout first → Convert the pages that matter

**Best practices:** Validate the file first for unknown sources; use traditional_format when you want raw tables and metadata sheets instead of the layout rendition.`

	PDFInspectLayoutDescription = `Inspect the inferred layout of one page without writing a workbook.

**When to use:** Want to understand what the converter sees (the resolved color theme, how rows were classified, which tables were detected) before or instead of converting.

**Why it's useful:** Makes the layout engine's decisions visible: every text row with its classified type, block-type counts, table shapes and complexity tiers, and the theme colors that styling would use.

**Examples:**
• Pre-flight check: "Inspect page 1 of statement.pdf to confirm the earnings table was detected"
• Debugging styling: "See which theme colors were resolved for branded-report.pdf"
• Classification review: "Check whether 'TOTAL DUE' classified as a main header on page 2"

**Common workflows:**
1. Convert Troubleshooting: Inspect layout → Spot misclassified rows → Adjust source or page selection → Convert
2. Content Survey: Inspect each page → Note table counts → Plan which pages to convert
3. Theme Verification: Inspect layout → Review resolved colors → Confirm branding carries over

**Best practices:** Page numbers are 1-based and default to the first page; run this whenever a converted sheet looks unexpected.`

	PDFDocumentInfoDescription = `Get document statistics and metadata without extracting content.

**When to use:** Need page count, file size, image count, or document properties (title, author, producer, dates) before deciding how to process a file.

**Why it's useful:** Cheap overview for routing decisions: large page counts suggest batch page ranges, image-heavy files suggest keeping image cataloging on, and metadata supports filing and audit trails.

**Examples:**
• Processing decisions: "Check page count of manual.pdf to pick a page range"
• Document management: "Get creation date and author from contract.pdf for the filing system"
• Audit trail: "Record metadata from signed-agreement.pdf for compliance"

**Common workflows:**
1. Conversion Planning: Get info → Choose pages and toggles → Convert
2. Document Cataloging: Get info → Store metadata → Index for search
3. Compliance & Audit: Extract metadata → Verify properties → Log for records

**Best practices:** Run before converting unfamiliar or very large files; the summary includes whether the document carries images.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before attempting to convert or inspect any PDF file, especially in automated workflows or when handling user uploads.

**Why it's useful:** Prevents processing errors, identifies corrupted files early, and ensures compatibility with the extraction pipeline.

**Examples:**
• Batch processing safety: "Validate all PDFs in /invoices/ before bulk conversion"
• Upload verification: "Check user-uploaded contract.pdf is valid before processing"
• Quality control: "Verify exported-report.pdf is readable before converting for a client"

**Common workflows:**
1. Automated Processing: Validate → Convert if valid → Handle errors gracefully
2. File Quality Check: Validate → Report issues → Fix or reject bad files
3. Pre-processing Pipeline: Validate → Route to conversion or manual review

**Best practices:** Always run this first in automated workflows; the verdict includes the page count when the file passes.`

	PDFServiceInfoDescription = `Get service status, available tools, and configured limits.

**When to use:** Starting work with the converter, troubleshooting issues, or checking available functionality.

**Why it's useful:** Provides a complete overview of the service's capabilities, current configuration, and output destination for informed decision-making.

**Examples:**
• Session check: "Verify the converter is ready and see all tools before batch processing"
• Troubleshooting: "Check service info to confirm the output directory and size limits"
• Capability discovery: "See every tool with its usage notes for a new project"

**Common workflows:**
1. Session Startup: Check service info → Verify capabilities → Plan processing approach
2. Debugging: Review configuration → Check limits → Verify tool availability
3. Planning: Review available tools → Choose appropriate methods → Execute workflow

**Best practices:** Run at the start of sessions; the file size limit shown here is what validation enforces.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"pdf_convert_file":   PDFConvertFileDescription,
	"pdf_inspect_layout": PDFInspectLayoutDescription,
	"pdf_document_info":  PDFDocumentInfoDescription,
	"pdf_validate_file":  PDFValidateFileDescription,
	"pdf_service_info":   PDFServiceInfoDescription,
}

// ToolUsage holds the one-line usage and parameter notes surfaced by
// pdf_service_info.
type ToolUsage struct {
	Name       string
	Summary    string
	Usage      string
	Parameters string
}

// ToolUsages lists every tool in presentation order.
var ToolUsages = []ToolUsage{
	{
		Name:       "pdf_convert_file",
		Summary:    "Convert a PDF into a styled Excel workbook",
		Usage:      "pdf_convert_file(path, output?, pages?, traditional_format?)",
		Parameters: "path (required), output (optional), pages (optional, e.g. '1-3'), traditional_format (optional bool)",
	},
	{
		Name:       "pdf_inspect_layout",
		Summary:    "Show the inferred layout of one page",
		Usage:      "pdf_inspect_layout(path, page?)",
		Parameters: "path (required), page (optional, 1-based, default 1)",
	},
	{
		Name:       "pdf_document_info",
		Summary:    "Document statistics and metadata",
		Usage:      "pdf_document_info(path)",
		Parameters: "path (required)",
	},
	{
		Name:       "pdf_validate_file",
		Summary:    "Validation verdict for a PDF file",
		Usage:      "pdf_validate_file(path)",
		Parameters: "path (required)",
	},
	{
		Name:       "pdf_service_info",
		Summary:    "Service configuration and tool list",
		Usage:      "pdf_service_info()",
		Parameters: "none",
	},
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
