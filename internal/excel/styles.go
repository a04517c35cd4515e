// Package excel renders inferred page layouts into xlsx workbooks through
// excelize. Styles are registered up front, fixed document styles once per
// workbook and theme-dependent styles once per page, then applied by ID as
// the sheet renderer walks the element sequence.
package excel

import (
	"github.com/xuri/excelize/v2"

	"github.com/sheetforge/pdf2sheet/internal/layout"
)

// accentColor is the font color for document headers when the page theme
// offers nothing better.
const accentColor = "1F4E79"

// Fallback sheets and the traditional workbook use one fixed basic
// palette regardless of theme.
const (
	basicHeaderFill = "FF4472C4"
	basicHeaderText = "FFFFFFFF"
	basicBorder     = "FFE0E0E0"
)

// rgbHex converts a canonical AARRGGBB color to the RRGGBB form excelize
// takes. Anything shorter passes through unchanged.
func rgbHex(c string) string {
	if len(c) == 8 {
		return c[2:]
	}
	return c
}

// styleBuilder registers styles against a workbook and keeps the first
// error, so callers can chain registrations and check once.
type styleBuilder struct {
	f   *excelize.File
	err error
}

func (b *styleBuilder) add(s *excelize.Style) int {
	if b.err != nil {
		return 0
	}
	id, err := b.f.NewStyle(s)
	if err != nil {
		b.err = err
		return 0
	}
	return id
}

func solidFill(c string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{rgbHex(c)}}
}

func fullBorder(c string) []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: rgbHex(c), Style: 1}
	}
	return borders
}

// withRightAlign copies a style and sets horizontal right alignment, for
// the numeric variant of a cell style.
func withRightAlign(s *excelize.Style) *excelize.Style {
	clone := *s
	align := excelize.Alignment{}
	if s.Alignment != nil {
		align = *s.Alignment
	}
	align.Horizontal = "right"
	clone.Alignment = &align
	return &clone
}

// docStyles are the theme-independent styles shared by every sheet.
type docStyles struct {
	headerLeft   int
	headerRight  int
	headerCenter int
	label        int
	numeric      int
}

func buildDocStyles(f *excelize.File) (docStyles, error) {
	b := styleBuilder{f: f}
	ds := docStyles{
		headerLeft: b.add(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 16, Color: accentColor},
		}),
		headerRight: b.add(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 20},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}),
		headerCenter: b.add(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 16, Color: accentColor},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}),
		label: b.add(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 10},
		}),
		numeric: b.add(&excelize.Style{
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}),
	}
	return ds, b.err
}

// pageStyles are the styles derived from one page's color theme. Absent
// theme fields leave the matching style attribute unset, so the sheet
// shows spreadsheet defaults rather than an invented color.
type pageStyles struct {
	section        int
	tableHeader    int
	tableHeaderNum int
	dataEven       int
	dataEvenNum    int
	dataOdd        int
	dataOddNum     int
}

func buildPageStyles(f *excelize.File, theme layout.TableColorTheme) (pageStyles, error) {
	b := styleBuilder{f: f}

	section := &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}
	if theme.HeaderText != nil {
		section.Font.Color = rgbHex(*theme.HeaderText)
	}
	if theme.HeaderBG != nil {
		section.Fill = solidFill(*theme.HeaderBG)
	}

	var border []excelize.Border
	if theme.BorderColor != nil {
		border = fullBorder(*theme.BorderColor)
	}

	header := &excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    border,
	}
	if theme.HeaderText != nil {
		header.Font.Color = rgbHex(*theme.HeaderText)
	}
	if theme.HeaderBG != nil {
		header.Fill = solidFill(*theme.HeaderBG)
	}

	data := func(fill *string) *excelize.Style {
		s := &excelize.Style{
			Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
			Border:    border,
		}
		if theme.DataText != nil {
			s.Font = &excelize.Font{Color: rgbHex(*theme.DataText)}
		}
		if fill != nil {
			s.Fill = solidFill(*fill)
		}
		return s
	}
	even := data(theme.DataBGPrimary)
	odd := data(theme.DataBGAlternate)

	ps := pageStyles{
		section:        b.add(section),
		tableHeader:    b.add(header),
		tableHeaderNum: b.add(withRightAlign(header)),
		dataEven:       b.add(even),
		dataEvenNum:    b.add(withRightAlign(even)),
		dataOdd:        b.add(odd),
		dataOddNum:     b.add(withRightAlign(odd)),
	}
	return ps, b.err
}

// basicStyles carry the fixed look shared by fallback sheets and the
// traditional workbook.
type basicStyles struct {
	header int
	cell   int
}

func buildBasicStyles(f *excelize.File) (basicStyles, error) {
	b := styleBuilder{f: f}
	bs := basicStyles{
		header: b.add(&excelize.Style{
			Font:   &excelize.Font{Bold: true, Color: rgbHex(basicHeaderText)},
			Fill:   solidFill(basicHeaderFill),
			Border: fullBorder(basicBorder),
		}),
		cell: b.add(&excelize.Style{
			Border: fullBorder(basicBorder),
		}),
	}
	return bs, b.err
}
