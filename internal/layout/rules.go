package layout

import "strings"

// Keyword tables used by span, table, and row classification. Matching is
// always against upper-cased text; evaluation order is significant and is
// fixed by the classifier, not by these tables.

// sectionHeaderKeywords marks a span as a section banner when combined with
// bold/size or all-caps styling.
var sectionHeaderKeywords = []string{
	"CURRENT", "EARNINGS", "STATEMENT", "SUMMARY", "DEDUCTION", "DETAILS", "TOTAL",
}

// labelKeywords marks field labels such as "Employee Name:" or "Pay Period".
var labelKeywords = []string{
	"EMPLOYEE", "NAME", "PERIOD", "DATE", "STATUS",
}

// footerMarkers are matched case-insensitively against the whole span text.
var footerMarkers = []string{
	"copyright", "inc",
}

// rowSectionKeywords classify a single-span row as a section header band.
// Narrower than sectionHeaderKeywords: a lone "TOTAL" span is a data row,
// not a band.
var rowSectionKeywords = []string{
	"CURRENT", "EARNINGS", "STATEMENT", "SUMMARY", "DEDUCTION", "DETAILS",
}

// rowLabelKeywords classify a two-span row as a label pair.
var rowLabelKeywords = []string{
	"EMPLOYEE", "NAME", "PERIOD", "STATUS", "DATE",
}

// rowTableHeaderKeywords classify a three-plus-span row as a table header.
var rowTableHeaderKeywords = []string{
	"TYPE", "HOURS", "PAYMENT", "CURRENT", "YTD",
}

// TableTypeRule maps a keyword set to a table type. Rules are evaluated in
// slice order against the joined upper-cased first row; the first rule with
// any keyword present wins.
type TableTypeRule struct {
	Type     TableType
	Keywords []string
}

// tableTypeRules is the ordered rule table for table classification.
// Order matters: "TOTAL" appears in summary, "PAY" in earnings, and a header
// row mentioning both must classify as earnings.
var tableTypeRules = []TableTypeRule{
	{Type: TableTypeEarnings, Keywords: []string{"EARNING", "HOURS", "PAYMENT", "PAY"}},
	{Type: TableTypeDeductions, Keywords: []string{"DEDUCTION", "TAX", "WITHHOLD"}},
	{Type: TableTypeSummary, Keywords: []string{"SUMMARY", "TOTAL", "GROSS", "NET"}},
	{Type: TableTypeFinancialStatement, Keywords: []string{"EQUITY", "SHAREHOLDER", "CAPITAL", "STOCK"}},
	{Type: TableTypeBalanceSheet, Keywords: []string{"BALANCE", "ASSET", "LIABILITY"}},
}

// DefaultTableTypeRules returns the ordered table-classification rules,
// so callers and tests can enumerate every rule.
func DefaultTableTypeRules() []TableTypeRule {
	rules := make([]TableTypeRule, len(tableTypeRules))
	copy(rules, tableTypeRules)
	return rules
}

// containsAny reports whether text contains at least one of the keywords.
// Both sides are expected upper-cased already.
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
