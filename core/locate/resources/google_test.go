package resources

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	xfont "golang.org/x/image/font"
)

// ATTENTION
// ---------
// Some tests in this file talk to the Google Font Service and require an
// API-key to be present. They are skipped unless the GOOGLE_API_KEY
// environment variable is set.

func requireAPIKey(t *testing.T) {
	t.Helper()
	if os.Getenv("GOOGLE_API_KEY") == "" {
		t.Skip("GOOGLE_API_KEY not set, skipping Google Fonts test")
	}
}

const exampleRespFragm string = `
{
    "kind": "webfonts#webfontList",
    "items": [
        {
            "kind": "webfonts#webfont",
            "family": "Anonymous Pro",
            "variants": [
                "regular",
                "italic",
                "700",
                "700italic"
            ],
            "subsets": [
                "greek",
                "greek-ext",
                "cyrillic-ext",
                "latin-ext",
                "latin",
                "cyrillic"
            ],
            "version": "v3",
            "lastModified": "2012-07-25",
            "files": {
                "regular": "http://themes.googleusercontent.com/static/fonts/anonymouspro/v3/Zhfjj_gat3waL4JSju74E-V_5zh5b-_HiooIRUBwn1A.ttf",
                "italic": "http://themes.googleusercontent.com/static/fonts/anonymouspro/v3/q0u6LFHwttnT_69euiDbWKwIsuKDCXG0NQm7BvAgx-c.ttf",
                "700": "http://themes.googleusercontent.com/static/fonts/anonymouspro/v3/WDf5lZYgdmmKhO8E1AQud--Cz_5MeePnXDAcLNWyBME.ttf",
                "700italic": "http://themes.googleusercontent.com/static/fonts/anonymouspro/v3/_fVr_XGln-cetWSUc-JpfA1LL9bfs7wyIp6F8OC9RxA.ttf"
            }
        },
        {
            "kind": "webfonts#webfont",
            "family": "Antic",
            "variants": [
                "regular"
            ],
            "subsets": [
                "latin"
            ],
            "version": "v4",
            "lastModified": "2012-07-25",
            "files": {
                "regular": "http://themes.googleusercontent.com/static/fonts/antic/v4/hEa8XCNM7tXGzD0Uk0AipA.ttf"
            }
        }
    ]
}
`

func TestGoogleRespDecode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	dec := json.NewDecoder(strings.NewReader(exampleRespFragm))
	var list googleFontsList
	err := dec.Decode(&list)
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 directory entries, got %d", len(list.Items))
	}
	if list.Items[1].Family != "Antic" {
		t.Errorf("expected second entry to be Antic")
	}
	listGoogleFonts(list, ".*")
}

func TestGoogleDescriptor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	fi := GoogleFontInfo{Family: "Anonymous Pro", Variants: []string{"regular", "700"}}
	desc := fi.Descriptor()
	if desc.Family != "Anonymous Pro" || len(desc.Variants) != 2 {
		t.Errorf("descriptor does not mirror directory record: %+v", desc)
	}
}

func TestGoogleAPI(t *testing.T) {
	requireAPIKey(t)
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	err := SetupGoogleFontsDirectory()
	if err != nil {
		t.Fatal(err)
	}
}

func TestGoogleFindFont(t *testing.T) {
	requireAPIKey(t)
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	fi, err := FindGoogleFont("Inconsolata", xfont.StyleNormal, xfont.WeightNormal)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range fi {
		t.Logf("family = %s, variants = %+v", f.Family, f.Variants)
	}
}

func TestGoogleCacheFont(t *testing.T) {
	requireAPIKey(t)
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	fi, err := FindGoogleFont("Inconsolata", xfont.StyleNormal, xfont.WeightNormal)
	if err != nil {
		t.Fatal(err)
	}
	path, err := CacheGoogleFont(fi[0], "regular")
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("path = %s", path)
	if _, err = os.Stat(path); err != nil {
		t.Fatal(err)
	}
}
