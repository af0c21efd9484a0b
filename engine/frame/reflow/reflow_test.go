package reflow_test

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/core/locate/resources"
	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/dom/cssom/douceuradapter"
	"github.com/npillmayer/weft/engine/dom/styledtree"
	"github.com/npillmayer/weft/engine/frame/boxtree"
	"github.com/npillmayer/weft/engine/frame/layout"
	"github.com/npillmayer/weft/engine/frame/reflow"
	"golang.org/x/net/html"
)

var view = layout.View{Width: 1280 * dimen.PX, Height: 800 * dimen.PX}

func buildBoxes(t *testing.T, doc string, sheet string) (*boxtree.Arena, boxtree.BoxIndex) {
	t.Helper()
	h, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	var rules []cssom.Rule
	if sheet != "" {
		s, err := douceuradapter.ParseCSS(sheet, cssom.OriginAuthor, 0)
		if err != nil {
			t.Fatal(err)
		}
		rules = s.Rules()
	}
	styled, err := styledtree.BuildTree(h, styledtree.Params{
		Rules:  rules,
		Inline: douceuradapter.InlineStyle,
	})
	if err != nil {
		t.Fatal(err)
	}
	arena := boxtree.NewArena()
	root, err := boxtree.BuildBoxTree(styled, arena, boxtree.Params{
		Rules:    rules,
		Viewport: dimen.Point{X: 1280 * dimen.PX, Y: 800 * dimen.PX},
	})
	if err != nil {
		t.Fatal(err)
	}
	return arena, root
}

func layoutDoc(t *testing.T, doc, sheet string) (*boxtree.Arena, boxtree.BoxIndex, *layout.Result) {
	t.Helper()
	arena, root := buildBoxes(t, doc, sheet)
	res, err := layout.Layout(arena, root, view, layout.Params{})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	return arena, root, res
}

func findBoxFor(arena *boxtree.Arena, root boxtree.BoxIndex, tag string) boxtree.BoxIndex {
	found := boxtree.NullIndex
	arena.Walk(root, func(i boxtree.BoxIndex) {
		if found != boxtree.NullIndex {
			return
		}
		if h := arena.Box(i).DOMNode(); h != nil && h.Type == html.ElementNode && h.Data == tag {
			found = i
		}
	})
	return found
}

func contentSize(t *testing.T, arena *boxtree.Arena, i boxtree.BoxIndex) (dimen.Dimen, dimen.Dimen) {
	t.Helper()
	w := arena.Box(i).Box.ContentWidth()
	h := arena.Box(i).Box.ContentHeight()
	if !w.IsAbsolute() || !h.IsAbsolute() {
		t.Fatalf("expected fixed dimensions for %s, have %v x %v", arena.Box(i), w, h)
	}
	return w.Unwrap(), h.Unwrap()
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

// repaintRecorder collects repaint requests per box.
type repaintRecorder struct {
	boxes map[boxtree.BoxIndex]int
}

func newRecorder() *repaintRecorder {
	return &repaintRecorder{boxes: make(map[boxtree.BoxIndex]int)}
}

func (rr *repaintRecorder) record(i boxtree.BoxIndex) {
	rr.boxes[i]++
}

func (rr *repaintRecorder) count() int {
	total := 0
	for _, c := range rr.boxes {
		total += c
	}
	return total
}

// --- Fake fetcher -----------------------------------------------------------

type fakeFetcher struct {
	nextID    resources.Handle
	retrieved []string
	cancelled []resources.Handle
	callbacks map[resources.Handle]resources.Callback
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{callbacks: make(map[resources.Handle]resources.Callback)}
}

func (ff *fakeFetcher) Retrieve(href string, base string, cb resources.Callback) resources.Handle {
	ff.nextID++
	ff.retrieved = append(ff.retrieved, href)
	ff.callbacks[ff.nextID] = cb
	return ff.nextID
}

func (ff *fakeFetcher) Cancel(h resources.Handle) {
	ff.cancelled = append(ff.cancelled, h)
	delete(ff.callbacks, h)
}

func (ff *fakeFetcher) complete(h resources.Handle, ev resources.Event) {
	ev.Handle = h
	if cb := ff.callbacks[h]; cb != nil {
		cb(ev)
	}
}

// ---------------------------------------------------------------------------

func TestFetchFailureKeepsReservedGeometry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.reflow")
	defer teardown()
	//
	arena, root, res := layoutDoc(t,
		`<body><div><img src="a.png" width="200" height="150"></div></body>`, "")
	img := findBoxFor(arena, root, "img")
	rec := newRecorder()
	co := reflow.New(arena, root, res, reflow.Config{
		View: view, Repaint: rec.record,
	})
	co.Queue().Push(reflow.Event{
		Kind: reflow.EvResourceFailed,
		Box:  arena.Ref(img),
		Err:  errors.New("404"),
	})
	if n := co.Process(); n != 1 {
		t.Fatalf("expected 1 event processed, have %d", n)
	}
	w, h := contentSize(t, arena, img)
	if w != 200*dimen.PX || h != 150*dimen.PX {
		t.Errorf("expected reserved geometry 200x150px to stand, have %vx%v", w.Pixels(), h.Pixels())
	}
	if rec.boxes[img] != 1 {
		t.Errorf("expected one repaint of the image box, have %d", rec.boxes[img])
	}
}

func TestDimensionKnownSuppressesReflow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.reflow")
	defer teardown()
	//
	arena, root, res := layoutDoc(t,
		`<body><div><img src="a.png" width="200" height="150"></div></body>`, "")
	img := findBoxFor(arena, root, "img")
	if !arena.Box(img).Flags.Contains(boxtree.FlagDimensionKnown) {
		t.Fatal("expected the attribute-sized image to be dimension-known")
	}
	rec := newRecorder()
	co := reflow.New(arena, root, res, reflow.Config{View: view, Repaint: rec.record})
	// the fetched image is 20x10, the reserved box must not care
	co.Queue().Push(reflow.Event{
		Kind: reflow.EvResourceDone,
		Box:  arena.Ref(img),
		Data: pngBytes(t, 20, 10),
	})
	co.Process()
	w, h := contentSize(t, arena, img)
	if w != 200*dimen.PX || h != 150*dimen.PX {
		t.Errorf("resource arrival changed dimension-known geometry to %vx%v", w.Pixels(), h.Pixels())
	}
	if rec.boxes[img] != 1 {
		t.Errorf("expected one repaint of the image box, have %d", rec.boxes[img])
	}
}

func TestIntrinsicSizeTriggersScopedRelayout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.reflow")
	defer teardown()
	//
	arena, root, res := layoutDoc(t,
		`<body style="margin: 0"><div><img src="a.png"></div></body>`,
		"img { display: block }")
	img := findBoxFor(arena, root, "img")
	div := findBoxFor(arena, root, "div")
	if w, h := contentSize(t, arena, img); w != 300*dimen.PX || h != 150*dimen.PX {
		t.Fatalf("expected the fallback size 300x150px before arrival, have %vx%v", w.Pixels(), h.Pixels())
	}
	co := reflow.New(arena, root, res, reflow.Config{View: view})
	co.Queue().Push(reflow.Event{
		Kind: reflow.EvResourceDone,
		Box:  arena.Ref(img),
		Data: pngBytes(t, 20, 10),
	})
	co.Process()
	if w, h := contentSize(t, arena, img); w != 20*dimen.PX || h != 10*dimen.PX {
		t.Errorf("expected the intrinsic size 20x10px, have %vx%v", w.Pixels(), h.Pixels())
	}
	if _, h := contentSize(t, arena, div); h != 10*dimen.PX {
		t.Errorf("expected the enclosing block to take the new height, have %v", h.Pixels())
	}
}

func TestSecondCompletionIsNoOp(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.reflow")
	defer teardown()
	//
	arena, root, res := layoutDoc(t,
		`<body style="margin: 0"><div><img src="a.png"></div></body>`,
		"img { display: block }")
	img := findBoxFor(arena, root, "img")
	co := reflow.New(arena, root, res, reflow.Config{View: view})
	co.Queue().Push(reflow.Event{
		Kind: reflow.EvResourceDone, Box: arena.Ref(img), Data: pngBytes(t, 20, 10),
	})
	co.Process()
	co.Queue().Push(reflow.Event{
		Kind: reflow.EvResourceDone, Box: arena.Ref(img), Data: pngBytes(t, 40, 40),
	})
	co.Process()
	if w, h := contentSize(t, arena, img); w != 20*dimen.PX || h != 10*dimen.PX {
		t.Errorf("second completion moved the box to %vx%v", w.Pixels(), h.Pixels())
	}
}

func TestStaleReferenceIsDropped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.reflow")
	defer teardown()
	//
	arena, root, res := layoutDoc(t,
		`<body><div><img src="a.png"></div></body>`, "")
	img := findBoxFor(arena, root, "img")
	ref := arena.Ref(img)
	rec := newRecorder()
	co := reflow.New(arena, root, res, reflow.Config{View: view, Repaint: rec.record})
	arena.Reset() // document replaced, reference goes stale
	co.Queue().Push(reflow.Event{Kind: reflow.EvResourceDone, Box: ref, Data: pngBytes(t, 20, 10)})
	if n := co.Process(); n != 1 {
		t.Fatalf("expected the stale event to be drained, have %d", n)
	}
	if rec.count() != 0 {
		t.Errorf("stale event must not schedule repaints")
	}
}

func TestFontArrivalSchedulesRepaintOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.reflow")
	defer teardown()
	//
	arena, root, res := layoutDoc(t,
		`<body><p>quod erat demonstrandum</p><div>plain</div></body>`,
		`p { font-family: "Special Sans", serif } div { font-family: monospace }`)
	p := findBoxFor(arena, root, "p")
	div := findBoxFor(arena, root, "div")
	rec := newRecorder()
	co := reflow.New(arena, root, res, reflow.Config{View: view, Repaint: rec.record})
	co.FontLoaded("special sans")
	co.Process()
	if rec.boxes[p] == 0 {
		t.Errorf("expected the paragraph styled with the loaded family to be repainted")
	}
	if rec.boxes[div] != 0 {
		t.Errorf("box without the loaded family must not be repainted")
	}
	if arena.Box(p).State != boxtree.Measured {
		t.Errorf("font arrival must not re-open layout state")
	}
}

func TestFetchResourcesStartsAndTeardownCancels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.reflow")
	defer teardown()
	//
	arena, root, res := layoutDoc(t,
		`<body><img src="a.png"><img src="b.png" width="10" height="10"></body>`, "")
	ff := newFakeFetcher()
	co := reflow.New(arena, root, res, reflow.Config{View: view, Fetcher: ff, BaseURL: "https://x.test/"})
	if n := co.FetchResources(); n != 2 {
		t.Fatalf("expected 2 fetches started, have %d", n)
	}
	if len(ff.retrieved) != 2 {
		t.Fatalf("fetcher saw %d retrievals", len(ff.retrieved))
	}
	if n := co.FetchResources(); n != 0 {
		t.Errorf("expected in-flight fetches not to be restarted, have %d new", n)
	}
	co.Teardown()
	if len(ff.cancelled) != 2 {
		t.Errorf("expected teardown to cancel 2 fetches, have %d", len(ff.cancelled))
	}
}

func TestFetchCompletionFlowsThroughQueue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.reflow")
	defer teardown()
	//
	arena, root, res := layoutDoc(t,
		`<body style="margin: 0"><div><img src="a.png"></div></body>`,
		"img { display: block }")
	img := findBoxFor(arena, root, "img")
	ff := newFakeFetcher()
	co := reflow.New(arena, root, res, reflow.Config{View: view, Fetcher: ff})
	co.FetchResources()
	ff.complete(1, resources.Event{Kind: resources.FetchDone, Data: pngBytes(t, 20, 10)})
	if co.Queue().Len() != 1 {
		t.Fatalf("expected 1 queued event, have %d", co.Queue().Len())
	}
	co.Process()
	if w, _ := contentSize(t, arena, img); w != 20*dimen.PX {
		t.Errorf("expected the fetched intrinsic width 20px, have %v", w.Pixels())
	}
}
