package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Canonical color strings are 8 hex digits, AARRGGBB, alpha always FF.
const (
	colorBlack         = "FF000000"
	colorWhite         = "FFFFFFFF"
	headerFallbackGray = "FFE5E5E5"

	// Brightness thresholds on the 0..255 luma scale.
	headerMinBrightness = 40
	headerMaxBrightness = 180
	lightBGBrightness   = 240
	darkTextBrightness  = 128
	darkStrokeBright    = 100
	headerTextSplit     = 128

	// Per-channel delta when deriving a border from the header background.
	borderLightenDelta = 40
)

// CanonicalColor converts a raw color value to the canonical 8-hex AARRGGBB
// form. Accepted inputs: integer RGB (0xRRGGBB), a triple of 0..1 floats
// rounded to the nearest 1/255, or a hex string with or without a leading
// '#' (6 or 8 digits). Anything else reports ok=false and is dropped by the
// caller; malformed colors are never an error.
func CanonicalColor(value any) (string, bool) {
	switch v := value.(type) {
	case int:
		return canonicalFromInt(v)
	case int32:
		return canonicalFromInt(int(v))
	case int64:
		return canonicalFromInt(int(v))
	case uint32:
		return canonicalFromInt(int(v))
	case [3]float64:
		return canonicalFromFloats(v[0], v[1], v[2])
	case []float64:
		if len(v) >= 3 {
			return canonicalFromFloats(v[0], v[1], v[2])
		}
		return "", false
	case string:
		return canonicalFromHex(v)
	default:
		return "", false
	}
}

func canonicalFromInt(rgb int) (string, bool) {
	if rgb < 0 || rgb > 0xFFFFFF {
		return "", false
	}
	return fmt.Sprintf("FF%06X", rgb), true
}

func canonicalFromFloats(r, g, b float64) (string, bool) {
	cr, ok := channelByte(r)
	if !ok {
		return "", false
	}
	cg, ok := channelByte(g)
	if !ok {
		return "", false
	}
	cb, ok := channelByte(b)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("FF%02X%02X%02X", cr, cg, cb), true
}

func channelByte(c float64) (int, bool) {
	if math.IsNaN(c) || c < 0 || c > 1 {
		return 0, false
	}
	return int(math.Round(c * 255)), true
}

func canonicalFromHex(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	switch len(s) {
	case 6:
		if !isHex(s) {
			return "", false
		}
		return "FF" + s, true
	case 8:
		if !isHex(s) {
			return "", false
		}
		return s, true
	default:
		return "", false
	}
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Brightness returns the perceptual luma of a canonical color on a 0..255
// scale, weighted 0.299/0.587/0.114 across R/G/B.
func Brightness(hex string) float64 {
	if len(hex) < 6 {
		return 0
	}
	v, err := strconv.ParseUint(hex[len(hex)-6:], 16, 32)
	if err != nil {
		return 0
	}
	r := float64((v >> 16) & 0xFF)
	g := float64((v >> 8) & 0xFF)
	b := float64(v & 0xFF)
	return (r*299 + g*587 + b*114) / 1000
}

// lighten raises every channel of a canonical color by delta, clamped at 255.
func lighten(hex string, delta int) string {
	if len(hex) < 6 {
		return hex
	}
	v, err := strconv.ParseUint(hex[len(hex)-6:], 16, 32)
	if err != nil {
		return hex
	}
	r := clampChannel(int((v>>16)&0xFF) + delta)
	g := clampChannel(int((v>>8)&0xFF) + delta)
	b := clampChannel(int(v&0xFF) + delta)
	return fmt.Sprintf("FF%02X%02X%02X", r, g, b)
}

func clampChannel(c int) int {
	if c > 255 {
		return 255
	}
	if c < 0 {
		return 0
	}
	return c
}

func colorPtr(hex string) *string {
	return &hex
}

// colorTally counts canonical colors while remembering first-seen order, so
// frequency ties break deterministically.
type colorTally struct {
	counts map[string]int
	order  []string
}

func newColorTally() *colorTally {
	return &colorTally{counts: make(map[string]int)}
}

func (t *colorTally) add(hex string) {
	if _, seen := t.counts[hex]; !seen {
		t.order = append(t.order, hex)
	}
	t.counts[hex]++
}

func (t *colorTally) empty() bool {
	return len(t.order) == 0
}

// mostFrequent returns the most frequent color passing keep; ties go to the
// first-seen color. keep may be nil to accept everything.
func (t *colorTally) mostFrequent(keep func(string) bool) (string, bool) {
	best := ""
	bestCount := 0
	for _, hex := range t.order {
		if keep != nil && !keep(hex) {
			continue
		}
		if t.counts[hex] > bestCount {
			best = hex
			bestCount = t.counts[hex]
		}
	}
	return best, bestCount > 0
}

// lightest returns the brightest color strictly above min; ties first-seen.
func (t *colorTally) lightest(min float64) (string, bool) {
	best := ""
	bestBrightness := min
	found := false
	for _, hex := range t.order {
		if b := Brightness(hex); b > bestBrightness {
			best = hex
			bestBrightness = b
			found = true
		}
	}
	return best, found
}

// darkest returns the darkest color strictly below max; ties first-seen.
func (t *colorTally) darkest(max float64) (string, bool) {
	best := ""
	bestBrightness := max
	found := false
	for _, hex := range t.order {
		if b := Brightness(hex); b < bestBrightness {
			best = hex
			bestBrightness = b
			found = true
		}
	}
	return best, found
}

// ThemeResolver derives a page's TableColorTheme from its color
// observations. Resolution is a pure function of the observation multiset:
// identical observations always yield the identical theme.
type ThemeResolver struct{}

// NewThemeResolver creates a theme resolver.
func NewThemeResolver() *ThemeResolver {
	return &ThemeResolver{}
}

// Resolve tallies the observations per source kind and fills each theme
// field from page signals, applying only the two documented fallbacks
// (light-gray header, black border). Fields with no signal stay nil.
func (tr *ThemeResolver) Resolve(observations []ColorObservation) TableColorTheme {
	textColors := newColorTally()
	fills := newColorTally()
	strokes := newColorTally()

	for _, obs := range observations {
		hex, ok := CanonicalColor(obs.Value)
		if !ok {
			continue
		}
		switch obs.Source {
		case SourceText:
			textColors.add(hex)
		case SourceShapeFill:
			fills.add(hex)
		case SourceShapeStroke:
			strokes.add(hex)
		}
	}

	theme := TableColorTheme{}

	// Header background: most frequent fill in the header-suitable
	// brightness band; gray fallback only when fills existed at all.
	if !fills.empty() {
		if hex, ok := fills.mostFrequent(headerSuitable); ok {
			theme.HeaderBG = colorPtr(hex)
		} else {
			theme.HeaderBG = colorPtr(headerFallbackGray)
		}
	}

	if hex, ok := fills.lightest(lightBGBrightness); ok {
		theme.DataBGAlternate = colorPtr(hex)
	}

	if hex, ok := textColors.darkest(darkTextBrightness); ok {
		theme.DataText = colorPtr(hex)
	}

	theme.BorderColor = colorPtr(tr.resolveBorder(strokes, theme.HeaderBG))

	if theme.HeaderBG != nil {
		if Brightness(*theme.HeaderBG) < headerTextSplit {
			theme.HeaderText = colorPtr(colorWhite)
		} else {
			theme.HeaderText = colorPtr(colorBlack)
		}
	}

	return theme
}

func headerSuitable(hex string) bool {
	b := Brightness(hex)
	return b >= headerMinBrightness && b <= headerMaxBrightness
}

// resolveBorder walks the border fallback chain: dark stroke color, then
// black when strokes exist but none is dark, then a lightened header
// background, then black.
func (tr *ThemeResolver) resolveBorder(strokes *colorTally, headerBG *string) string {
	if !strokes.empty() {
		if hex, ok := strokes.mostFrequent(func(h string) bool {
			return Brightness(h) < darkStrokeBright
		}); ok {
			return hex
		}
		return colorBlack
	}
	if headerBG != nil {
		return lighten(*headerBG, borderLightenDelta)
	}
	return colorBlack
}
