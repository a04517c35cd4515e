package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sheetforge/pdf2sheet/internal/layout"
)

func TestRGBHex(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"FF336699", "336699"},
		{"FFE0E0E0", "E0E0E0"},
		{"336699", "336699"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, rgbHex(tt.in), "rgbHex(%q)", tt.in)
	}
}

func TestWithRightAlign(t *testing.T) {
	base := &excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Vertical: "center"},
	}

	clone := withRightAlign(base)
	assert.Equal(t, "right", clone.Alignment.Horizontal)
	assert.Equal(t, "center", clone.Alignment.Vertical, "vertical alignment should carry over")
	assert.Empty(t, base.Alignment.Horizontal, "source style must not be mutated")
}

func TestBuildPageStyles(t *testing.T) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	headerBG := "FF336699"
	theme := layout.TableColorTheme{HeaderBG: &headerBG}

	ps, err := buildPageStyles(f, theme)
	require.NoError(t, err)

	ids := []int{
		ps.section, ps.tableHeader, ps.tableHeaderNum,
		ps.dataEven, ps.dataEvenNum, ps.dataOdd, ps.dataOddNum,
	}
	for i, id := range ids {
		assert.NotZero(t, id, "style %d was not registered", i)
	}
	assert.NotEqual(t, ps.tableHeader, ps.tableHeaderNum, "numeric header variant should be a distinct style")
}

func TestBuildDocStyles(t *testing.T) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	ds, err := buildDocStyles(f)
	require.NoError(t, err)

	assert.NotZero(t, ds.headerLeft)
	assert.NotZero(t, ds.headerRight)
	assert.NotZero(t, ds.headerCenter)
	assert.NotZero(t, ds.label)
	assert.NotZero(t, ds.numeric)
}
