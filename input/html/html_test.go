package html_test

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/core/font/fontregistry"
	"github.com/npillmayer/weft/core/locate/resources"
	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/frame/boxtree"
	"github.com/npillmayer/weft/engine/frame/layout"
	inputhtml "github.com/npillmayer/weft/input/html"
	"golang.org/x/image/font/gofont/goregular"
	xhtml "golang.org/x/net/html"
)

func findBoxFor(arena *boxtree.Arena, root boxtree.BoxIndex, tag string) boxtree.BoxIndex {
	found := boxtree.NullIndex
	arena.Walk(root, func(i boxtree.BoxIndex) {
		if found != boxtree.NullIndex {
			return
		}
		if h := arena.Box(i).DOMNode(); h != nil && h.Type == xhtml.ElementNode && h.Data == tag {
			found = i
		}
	})
	return found
}

func contentWidth(t *testing.T, arena *boxtree.Arena, i boxtree.BoxIndex) dimen.Dimen {
	t.Helper()
	w := arena.Box(i).Box.ContentWidth()
	if !w.IsAbsolute() {
		t.Fatalf("expected a fixed width for %s, have %v", arena.Box(i), w)
	}
	return w.Unwrap()
}

// waitForEvents polls the document's reflow queue for n queued events.
func waitForEvents(t *testing.T, doc *inputhtml.Document, n int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for doc.Flow.Queue().Len() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d reflow events", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadWithStyleElement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	doc, err := inputhtml.Load(strings.NewReader(
		`<html><head><style>p { width: 100px }</style></head>
		 <body><p>hello</p></body></html>`), inputhtml.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()
	p := findBoxFor(doc.Arena, doc.Root, "p")
	if p == boxtree.NullIndex {
		t.Fatal("no box for the paragraph")
	}
	if w := contentWidth(t, doc.Arena, p); w != 100*dimen.PX {
		t.Errorf("expected the styled width 100px, have %v", w.Pixels())
	}
}

func TestLoadUserSheetLosesToAuthor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	doc, err := inputhtml.Load(strings.NewReader(
		`<html><head><style>p { width: 100px }</style></head><body><p>x</p></body></html>`),
		inputhtml.Options{UserCSS: []string{`p { width: 40px }`}})
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()
	p := findBoxFor(doc.Arena, doc.Root, "p")
	if w := contentWidth(t, doc.Arena, p); w != 100*dimen.PX {
		t.Errorf("expected the author width 100px to win, have %v", w.Pixels())
	}
}

func TestLoadLinkedSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`div { width: 50px }`))
	}))
	defer srv.Close()
	doc, err := inputhtml.Load(strings.NewReader(
		`<html><head><link rel="stylesheet" href="site.css"></head>
		 <body><div>content</div></body></html>`),
		inputhtml.Options{
			BaseURL: srv.URL + "/",
			Fetcher: resources.NewNetFetcher(srv.Client()),
		})
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()
	div := findBoxFor(doc.Arena, doc.Root, "div")
	if w := contentWidth(t, doc.Arena, div); w != 50*dimen.PX {
		t.Errorf("expected the linked width 50px, have %v", w.Pixels())
	}
}

func TestLoadKeepsDocumentOnVoidedSubtree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	// styling the five elements claims 5 x 1024 bytes; the remainder is
	// too small for the grid's track arrays, so layout voids the grid
	// subtree but the rest of the document must come out laid out
	doc, err := inputhtml.Load(strings.NewReader(
		`<html><body style="margin: 0">
		   <div style="display: grid"><p style="margin: 0">x</p></div>
		 </body></html>`),
		inputhtml.Options{
			Layout: layout.Params{Alloc: cssom.NewAllocator(5*1024 + 8)},
		})
	if err != nil {
		t.Fatal(err)
	}
	if doc == nil {
		t.Fatal("expected a usable document despite the voided subtree")
	}
	defer doc.Close()
	div := findBoxFor(doc.Arena, doc.Root, "div")
	if div == boxtree.NullIndex {
		t.Fatal("no box for the grid container")
	}
	if !doc.Result().Skipped(div) {
		t.Error("expected the grid subtree to be marked skipped")
	}
	body := findBoxFor(doc.Arena, doc.Root, "body")
	if doc.Result().Skipped(body) {
		t.Error("expected the body to survive the voided subtree")
	}
	if w := contentWidth(t, doc.Arena, body); w != 1280*dimen.PX {
		t.Errorf("expected the body to fill the viewport, have %v", w.Pixels())
	}
}

func TestLoadFetchesImages(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	pic := pngBytes(t, 20, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pic)
	}))
	defer srv.Close()
	doc, err := inputhtml.Load(strings.NewReader(
		`<html><body style="margin: 0"><img src="a.png" style="display: block"></body></html>`),
		inputhtml.Options{
			BaseURL: srv.URL + "/",
			Fetcher: resources.NewNetFetcher(srv.Client()),
		})
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()
	waitForEvents(t, doc, 1)
	doc.Flow.Process()
	img := findBoxFor(doc.Arena, doc.Root, "img")
	if w := contentWidth(t, doc.Arena, img); w != 20*dimen.PX {
		t.Errorf("expected the intrinsic width 20px, have %v", w.Pixels())
	}
}

func TestLoadFontFace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(goregular.TTF)
	}))
	defer srv.Close()
	doc, err := inputhtml.Load(strings.NewReader(
		`<html><head><style>
		   @font-face { font-family: "Webfont Test"; src: url("face.ttf") }
		   p { font-family: "Webfont Test", serif }
		 </style></head><body><p>text</p></body></html>`),
		inputhtml.Options{
			BaseURL: srv.URL + "/",
			Fetcher: resources.NewNetFetcher(srv.Client()),
		})
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()
	waitForEvents(t, doc, 1)
	doc.Flow.Process()
	if !fontregistry.GlobalRegistry().FamilyLoaded("Webfont Test") {
		t.Error("expected the font face family to be registered after arrival")
	}
}
