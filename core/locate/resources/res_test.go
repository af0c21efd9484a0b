package resources

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"go.uber.org/goleak"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResolveHref(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	u, err := resolveHref("img/photo.png", "https://example.com/doc/page.html")
	if err != nil {
		t.Fatal(err)
	}
	if u.String() != "https://example.com/doc/img/photo.png" {
		t.Errorf("unexpected resolved URL: %s", u)
	}
	u, err = resolveHref("https://other.org/x.png", "https://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "other.org" {
		t.Errorf("absolute href must not resolve against base, got %s", u)
	}
}

func TestProbeImage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	w, h, format, err := ProbeImage(pngBytes(t, 20, 10))
	if err != nil {
		t.Fatal(err)
	}
	if w != 20 || h != 10 || format != "png" {
		t.Errorf("expected 20x10 png, got %dx%d %s", w, h, format)
	}
	if _, _, _, err = ProbeImage([]byte("not an image")); err == nil {
		t.Errorf("expected probing of garbage to fail")
	}
}

func TestProbeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	if err := ProbeFont(goregular.TTF); err != nil {
		t.Errorf("expected Go Regular to probe as a font: %v", err)
	}
	if err := ProbeFont([]byte("not a font")); err == nil {
		t.Errorf("expected probing of garbage to fail")
	}
}

func TestFetchFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	defer goleak.VerifyNone(t) // the fetch goroutine must not outlive its event
	//
	dir := t.TempDir()
	fname := filepath.Join(dir, "payload.bin")
	if err := os.WriteFile(fname, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}
	fetcher := NewNetFetcher(nil)
	events := make(chan Event, 1)
	h := fetcher.Retrieve(fname, "", func(ev Event) { events <- ev })
	select {
	case ev := <-events:
		if ev.Handle != h {
			t.Errorf("event carries wrong handle")
		}
		if ev.Kind != FetchDone || string(ev.Data) != "payload" {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for fetch event")
	}
}

func TestFetchMissingFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	fetcher := NewNetFetcher(nil)
	events := make(chan Event, 1)
	fetcher.Retrieve(filepath.Join(t.TempDir(), "no-such-file"), "", func(ev Event) { events <- ev })
	select {
	case ev := <-events:
		if ev.Kind != FetchFailed || ev.Err == nil {
			t.Errorf("expected failure event, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for fetch event")
	}
}

func TestFetchCancel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)
	fetcher := NewNetFetcher(nil)
	events := make(chan Event, 1)
	h := fetcher.Retrieve(srv.URL, "", func(ev Event) { events <- ev })
	fetcher.Cancel(h)
	select {
	case ev := <-events:
		t.Errorf("cancelled fetch must not deliver an event, got %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestResolveImageFromFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	dir := t.TempDir()
	fname := filepath.Join(dir, "pic.png")
	if err := os.WriteFile(fname, pngBytes(t, 20, 10), 0644); err != nil {
		t.Fatal(err)
	}
	loader := ResolveImage(fname, "", nil)
	img, err := loader.Image()
	if err != nil {
		t.Error(err)
	}
	if img == nil || img.Bounds().Dx() != 20 {
		t.Errorf("expected a 20px wide image")
	}
}

func TestResolveImagePlaceholder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	loader := ResolveImage(filepath.Join(t.TempDir(), "no-such.png"), "", nil)
	img, err := loader.Image()
	if err == nil {
		t.Errorf("expected error for missing image")
	}
	if img == nil {
		t.Fatalf("expected placeholder image, got none")
	}
	if img.Bounds().Dx() != 32 {
		t.Errorf("expected 32px placeholder, got %d", img.Bounds().Dx())
	}
}

func TestRegisterFontFace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	err := RegisterFontFace("Face Test Family", xfont.StyleNormal, xfont.WeightNormal, goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if err = RegisterFontFace("Broken", xfont.StyleNormal, xfont.WeightNormal, []byte("junk")); err == nil {
		t.Errorf("expected registration of garbage bytes to fail")
	}
}

func TestResolveTypeCaseFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.resources")
	defer teardown()
	//
	loader := ResolveTypeCase("no-such-typeface-xyzzy", xfont.StyleNormal, xfont.WeightNormal, 11.0)
	typecase, err := loader.TypeCase()
	if err == nil {
		t.Errorf("expected an error resolving an unknown typeface")
	}
	if typecase == nil {
		t.Fatalf("typecase is nil, should be fallback")
	}
	t.Logf("name of typecase = %s", typecase.ScalableFontParent().Fontname)
}
