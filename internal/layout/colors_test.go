package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalColorFromInt(t *testing.T) {
	hex, ok := CanonicalColor(0x336699)
	require.True(t, ok)
	assert.Equal(t, "FF336699", hex)

	hex, ok = CanonicalColor(0)
	require.True(t, ok)
	assert.Equal(t, "FF000000", hex)

	hex, ok = CanonicalColor(0xFFFFFF)
	require.True(t, ok)
	assert.Equal(t, "FFFFFFFF", hex)

	_, ok = CanonicalColor(-1)
	assert.False(t, ok)

	_, ok = CanonicalColor(0x1000000)
	assert.False(t, ok)
}

func TestCanonicalColorFromFloats(t *testing.T) {
	hex, ok := CanonicalColor([3]float64{1, 0, 0})
	require.True(t, ok)
	assert.Equal(t, "FFFF0000", hex)

	// 0.5 rounds to 128, not truncates to 127.
	hex, ok = CanonicalColor([]float64{0.5, 0.5, 0.5})
	require.True(t, ok)
	assert.Equal(t, "FF808080", hex)

	_, ok = CanonicalColor([3]float64{1.2, 0, 0})
	assert.False(t, ok)

	_, ok = CanonicalColor([]float64{0.5, 0.5})
	assert.False(t, ok)
}

func TestCanonicalColorFromHex(t *testing.T) {
	hex, ok := CanonicalColor("#4472C4")
	require.True(t, ok)
	assert.Equal(t, "FF4472C4", hex)

	hex, ok = CanonicalColor("e5e5e5")
	require.True(t, ok)
	assert.Equal(t, "FFE5E5E5", hex)

	hex, ok = CanonicalColor("80FF0000")
	require.True(t, ok)
	assert.Equal(t, "80FF0000", hex)

	for _, bad := range []string{"", "xyz", "12345", "GGGGGG", "#12"} {
		_, ok = CanonicalColor(bad)
		assert.False(t, ok, "expected %q to be rejected", bad)
	}
}

func TestCanonicalColorIntAndFloatsAgree(t *testing.T) {
	fromInt, ok := CanonicalColor(0x336699)
	require.True(t, ok)

	fromFloats, ok := CanonicalColor([3]float64{0.2, 0.4, 0.6})
	require.True(t, ok)

	assert.Equal(t, "FF336699", fromInt)
	assert.Equal(t, fromInt, fromFloats)
}

func TestCanonicalColorRejectsUnknownTypes(t *testing.T) {
	_, ok := CanonicalColor(nil)
	assert.False(t, ok)

	_, ok = CanonicalColor(1.5)
	assert.False(t, ok)

	_, ok = CanonicalColor(struct{}{})
	assert.False(t, ok)
}

func TestBrightness(t *testing.T) {
	assert.InDelta(t, 255.0, Brightness("FFFFFFFF"), 0.001)
	assert.InDelta(t, 0.0, Brightness("FF000000"), 0.001)
	assert.InDelta(t, 128.0, Brightness("FF808080"), 0.001)
	// Pure green is perceptually brighter than pure red or blue.
	assert.Greater(t, Brightness("FF00FF00"), Brightness("FFFF0000"))
	assert.Greater(t, Brightness("FFFF0000"), Brightness("FF0000FF"))
}

func TestResolveEmptyObservations(t *testing.T) {
	theme := NewThemeResolver().Resolve(nil)

	assert.Nil(t, theme.HeaderBG)
	assert.Nil(t, theme.HeaderText)
	assert.Nil(t, theme.DataBGPrimary)
	assert.Nil(t, theme.DataBGAlternate)
	assert.Nil(t, theme.DataText)
	require.NotNil(t, theme.BorderColor)
	assert.Equal(t, "FF000000", *theme.BorderColor)
}

func TestResolveHeaderFromFills(t *testing.T) {
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: 0x4472C4, Source: SourceShapeFill},
		{Value: 0x4472C4, Source: SourceShapeFill},
		{Value: 0xFFFFFF, Source: SourceShapeFill},
	})

	require.NotNil(t, theme.HeaderBG)
	assert.Equal(t, "FF4472C4", *theme.HeaderBG)
	// Dark header background gets white header text.
	require.NotNil(t, theme.HeaderText)
	assert.Equal(t, "FFFFFFFF", *theme.HeaderText)
	// White fill is above the light-background threshold.
	require.NotNil(t, theme.DataBGAlternate)
	assert.Equal(t, "FFFFFFFF", *theme.DataBGAlternate)
}

func TestResolveHeaderFallbackWhenNoFillSuitable(t *testing.T) {
	// Fills exist, but all fall outside the header brightness band.
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: 0xFFFFFF, Source: SourceShapeFill},
		{Value: 0x101010, Source: SourceShapeFill},
	})

	require.NotNil(t, theme.HeaderBG)
	assert.Equal(t, "FFE5E5E5", *theme.HeaderBG)
	require.NotNil(t, theme.HeaderText)
	assert.Equal(t, "FF000000", *theme.HeaderText)
}

func TestResolveNoHeaderWithoutFills(t *testing.T) {
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: 0x333333, Source: SourceText},
	})

	assert.Nil(t, theme.HeaderBG)
	assert.Nil(t, theme.HeaderText)
}

func TestResolveDataTextDarkest(t *testing.T) {
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: 0x666666, Source: SourceText},
		{Value: 0x111111, Source: SourceText},
		{Value: 0xEEEEEE, Source: SourceText},
	})

	require.NotNil(t, theme.DataText)
	assert.Equal(t, "FF111111", *theme.DataText)
}

func TestResolveDataTextIgnoresLightColors(t *testing.T) {
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: 0xAAAAAA, Source: SourceText},
	})
	assert.Nil(t, theme.DataText)
}

func TestResolveBorderFromDarkStroke(t *testing.T) {
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: 0x202020, Source: SourceShapeStroke},
		{Value: 0xD0D0D0, Source: SourceShapeStroke},
	})

	require.NotNil(t, theme.BorderColor)
	assert.Equal(t, "FF202020", *theme.BorderColor)
}

func TestResolveBorderBlackWhenStrokesAllLight(t *testing.T) {
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: 0xD0D0D0, Source: SourceShapeStroke},
	})

	require.NotNil(t, theme.BorderColor)
	assert.Equal(t, "FF000000", *theme.BorderColor)
}

func TestResolveBorderLightenedHeaderWithoutStrokes(t *testing.T) {
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: 0x4472C4, Source: SourceShapeFill},
	})

	require.NotNil(t, theme.BorderColor)
	// 0x44+40=0x6C, 0x72+40=0x9A, 0xC4+40=0xEC.
	assert.Equal(t, "FF6C9AEC", *theme.BorderColor)
}

func TestResolveBorderLightenClampsAt255(t *testing.T) {
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: 0xE5E5E5, Source: SourceShapeFill},
	})

	require.NotNil(t, theme.HeaderBG)
	require.NotNil(t, theme.BorderColor)
	// 0xE5 brightness 229 is above the header band, so the gray fallback
	// applies, and lightening 0xE5 by 40 saturates every channel.
	assert.Equal(t, "FFE5E5E5", *theme.HeaderBG)
	assert.Equal(t, "FFFFFFFF", *theme.BorderColor)
}

func TestResolveFrequencyTieKeepsFirstSeen(t *testing.T) {
	// Both fills sit in the header band with equal counts; the one observed
	// first wins.
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: 0x4472C4, Source: SourceShapeFill},
		{Value: 0x707070, Source: SourceShapeFill},
	})

	require.NotNil(t, theme.HeaderBG)
	assert.Equal(t, "FF4472C4", *theme.HeaderBG)
}

func TestResolveDropsMalformedValues(t *testing.T) {
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: "not-a-color", Source: SourceShapeFill},
		{Value: -5, Source: SourceShapeFill},
		{Value: 0x4472C4, Source: SourceShapeFill},
	})

	require.NotNil(t, theme.HeaderBG)
	assert.Equal(t, "FF4472C4", *theme.HeaderBG)
}

func TestResolveNeverSetsDataBGPrimary(t *testing.T) {
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: 0x4472C4, Source: SourceShapeFill},
		{Value: 0xFFFFFF, Source: SourceShapeFill},
		{Value: 0x333333, Source: SourceText},
		{Value: 0x202020, Source: SourceShapeStroke},
	})
	assert.Nil(t, theme.DataBGPrimary)
}

func TestResolveIsDeterministic(t *testing.T) {
	observations := []ColorObservation{
		{Value: 0x4472C4, Source: SourceShapeFill},
		{Value: 0xFFFFFF, Source: SourceShapeFill},
		{Value: "#333333", Source: SourceText},
		{Value: [3]float64{0.1, 0.1, 0.1}, Source: SourceShapeStroke},
	}

	first := NewThemeResolver().Resolve(observations)
	second := NewThemeResolver().Resolve(observations)
	assert.Equal(t, first, second)
}

func TestMixedValueFormsCanonicalizeIdentically(t *testing.T) {
	// The same visual color in all three accepted encodings tallies as one.
	theme := NewThemeResolver().Resolve([]ColorObservation{
		{Value: 0x4472C4, Source: SourceShapeFill},
		{Value: "#4472C4", Source: SourceShapeFill},
		{Value: 0x707070, Source: SourceShapeFill},
		{Value: 0x707070, Source: SourceShapeFill},
	})

	// 0x4472C4 appears twice once canonicalized, tying 0x707070; the tie
	// breaks to the first-seen color.
	require.NotNil(t, theme.HeaderBG)
	assert.Equal(t, "FF4472C4", *theme.HeaderBG)
}
