package font

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

func TestParseOpenTypeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	f, err := ParseOpenTypeFont(goregular.TTF)
	require.NoError(t, err)
	require.NotNil(t, f.SFNT)
	assert.NotEmpty(t, f.Fontname)
}

func TestParseGarbageFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	_, err := ParseOpenTypeFont([]byte("this is not a font"))
	assert.Error(t, err)
}

func TestFallbackFontAlwaysPresent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	f := FallbackFont()
	require.NotNil(t, f)
	assert.Equal(t, "Go Sans", f.Fontname)
	if f2 := FallbackFont(); f2 != f {
		t.Errorf("expected fallback font to be a singleton")
	}
}

func TestPrepareCase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	f := FallbackFont()
	tc, err := f.PrepareCase(12.0)
	require.NoError(t, err)
	assert.Equal(t, 12.0, tc.PtSize())
	assert.Equal(t, f, tc.ScalableFontParent())
}

func TestPrepareCaseSizeOutOfRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	tc, err := FallbackFont().PrepareCase(1200.0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, tc.PtSize())
}

func TestCSSWeightAndStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	assert.Equal(t, xfont.WeightNormal, CSSWeight(400))
	assert.Equal(t, xfont.WeightBold, CSSWeight(700))
	assert.Equal(t, xfont.WeightNormal, CSSWeight(0))
	assert.Equal(t, xfont.StyleItalic, CSSStyle("italic"))
	assert.Equal(t, xfont.StyleOblique, CSSStyle(" Oblique "))
	assert.Equal(t, xfont.StyleNormal, CSSStyle("normal"))
}
