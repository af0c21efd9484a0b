package framedebug_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/dom/styledtree"
	"github.com/npillmayer/weft/engine/frame/boxtree"
	"github.com/npillmayer/weft/engine/frame/framedebug"
	"golang.org/x/net/html"
)

func buildBoxes(t *testing.T, doc string) (*boxtree.Arena, boxtree.BoxIndex) {
	t.Helper()
	h, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	styled, err := styledtree.BuildTree(h, styledtree.Params{})
	if err != nil {
		t.Fatal(err)
	}
	arena := boxtree.NewArena()
	root, err := boxtree.BuildBoxTree(styled, arena, boxtree.Params{
		Viewport: dimen.Point{X: 1280 * dimen.PX, Y: 800 * dimen.PX},
	})
	if err != nil {
		t.Fatal(err)
	}
	return arena, root
}

func TestGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame")
	defer teardown()
	//
	arena, root := buildBoxes(t, `<body><p>hello</p></body>`)
	var buf bytes.Buffer
	framedebug.ToGraphViz(arena, root, &buf)
	dot := buf.String()
	t.Logf("DOT output =\n%s", dot)
	if !strings.HasPrefix(dot, "digraph g {") || !strings.HasSuffix(dot, "}\n") {
		t.Error("expected a complete digraph block")
	}
	if !strings.Contains(dot, "<p>") {
		t.Error("expected the paragraph box to be drawn")
	}
	if !strings.Contains(dot, "->") {
		t.Error("expected edges between boxes")
	}
}

func TestFormatTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame")
	defer teardown()
	//
	arena, root := buildBoxes(t, `<body><p>hello</p></body>`)
	out := framedebug.FormatTree(arena, root)
	t.Logf("tree =\n%s", out)
	if !strings.Contains(out, "<p>") || !strings.Contains(out, `"hello"`) {
		t.Error("expected the paragraph and its text box in the tree dump")
	}
}
