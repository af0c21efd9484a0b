package fontregistry

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/core/font"
	xfont "golang.org/x/image/font"
)

type sw struct {
	s xfont.Style
	w xfont.Weight
}

func TestGuess(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	for k, v := range map[string]sw{
		"fonts/Clarendon-bold.ttf":               {xfont.StyleNormal, xfont.WeightBold},
		"Microsoft/Gill Sans MT Bold Italic.ttf": {xfont.StyleItalic, xfont.WeightBold},
		"Cambria Math.ttf":                       {xfont.StyleNormal, xfont.WeightNormal},
	} {
		style, weight := GuessStyleAndWeight(k)
		t.Logf("style = %d, weight = %d", style, weight)
		if style != v.s || weight != v.w {
			t.Errorf("expected different style or weight for %s", k)
		}
	}
}

func TestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	if !Matches("fonts/Clarendon-bold.ttf",
		"clarendon", xfont.StyleNormal, xfont.WeightBold) {
		t.Errorf("expected match for Clarendon, haven't")
	}
	if !Matches("Microsoft/Gill Sans MT Bold Italic.ttf",
		"gill sans", xfont.StyleItalic, xfont.WeightBold) {
		t.Errorf("expected match for Gill, haven't")
	}
	if !Matches("Cambria Math.ttf",
		"cambria", xfont.StyleNormal, xfont.WeightNormal) {
		t.Errorf("expected match for Cambria Math, haven't")
	}
}

func TestNormalizeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	n := NormalizeFontname("Clarendon", xfont.StyleItalic, xfont.WeightBold)
	if n != "clarendon-italic-bold" {
		t.Errorf("expected different normalized name for clarendon")
	}
}

func TestRegistryFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	reg := NewRegistry()
	tc, err := reg.TypeCase("no_such_font", 11)
	if err == nil {
		t.Errorf("expected error for unknown font, got none")
	}
	if tc == nil {
		t.Fatalf("expected fallback typecase, got none")
	}
	if tc.ScalableFontParent().Fontname != "Go Sans" {
		t.Errorf("expected fallback typecase to derive from Go Sans")
	}
}

func TestRegistryStoreAndDerive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	reg := NewRegistry()
	reg.StoreFont("gosans", font.FallbackFont())
	tc, err := reg.TypeCase("gosans", 12)
	if err != nil {
		t.Fatal(err)
	}
	if tc.PtSize() != 12 {
		t.Errorf("expected a 12pt typecase, got %.2f", tc.PtSize())
	}
	// second request must hit the typecase cache
	tc2, err := reg.TypeCase("gosans", 12)
	if err != nil {
		t.Fatal(err)
	}
	if tc2 != tc {
		t.Errorf("expected cached typecase on second request")
	}
}

func TestRegistryPrefixMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	reg := NewRegistry()
	reg.StoreFont("gosans-bold", font.FallbackFont())
	names := reg.FontNamesWithPrefix("gosans")
	if len(names) != 1 || names[0] != "gosans-bold" {
		t.Errorf("expected prefix search to find gosans-bold, got %v", names)
	}
	tc, err := reg.TypeCase("gosans", 10)
	if err != nil {
		t.Fatal(err)
	}
	if tc.ScalableFontParent() != font.FallbackFont() {
		t.Errorf("expected typecase derived from stored variant")
	}
}

func TestDownloadSlots(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	reg := NewRegistry()
	for i := 0; i < MaxFontDownloads; i++ {
		if !reg.AcquireDownloadSlot() {
			t.Fatalf("slot %d unexpectedly unavailable", i)
		}
	}
	if reg.AcquireDownloadSlot() {
		t.Errorf("expected no slot beyond %d", MaxFontDownloads)
	}
	reg.ReleaseDownloadSlot()
	if !reg.AcquireDownloadSlot() {
		t.Errorf("expected released slot to be available again")
	}
	if reg.DownloadsInFlight() != MaxFontDownloads {
		t.Errorf("expected %d downloads in flight", MaxFontDownloads)
	}
}

func TestLoadedFamilies(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.fonts")
	defer teardown()
	//
	reg := NewRegistry()
	reg.MarkFamilyLoaded("Special Sans")
	if !reg.FamilyLoaded("special sans") {
		t.Errorf("expected family lookup to be case-insensitive")
	}
	if reg.FamilyLoaded("Other Serif") {
		t.Errorf("did not expect unknown family to be loaded")
	}
	reg.Flush()
	if reg.FamilyLoaded("special sans") {
		t.Errorf("expected flush to clear loaded families")
	}
}
