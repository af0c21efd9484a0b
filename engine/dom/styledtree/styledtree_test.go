package styledtree_test

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/dom/cssom/douceuradapter"
	"github.com/npillmayer/weft/engine/dom/style/css"
	"github.com/npillmayer/weft/engine/dom/styledtree"
	"github.com/npillmayer/weft/engine/tree"
	"golang.org/x/net/html"
)

func parseDoc(t *testing.T, doc string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func findStyled(n *tree.Node[*styledtree.StyNode], tag string) *styledtree.StyNode {
	if n == nil {
		return nil
	}
	sn := styledtree.Node(n)
	if h := sn.HTMLNode(); h.Type == html.ElementNode && h.Data == tag {
		return sn
	}
	for _, ch := range n.Children(true) {
		if r := findStyled(ch, tag); r != nil {
			return r
		}
	}
	return nil
}

func TestBuildTreeMirrorsDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	doc := parseDoc(t, `<html><head><title>T</title></head><body><p>hello</p></body></html>`)
	root, err := styledtree.BuildTree(doc, styledtree.Params{})
	if err != nil {
		t.Fatal(err)
	}
	if styledtree.Node(root).HTMLNode().Type != html.DocumentNode {
		t.Errorf("expected styled tree root to mirror the document node")
	}
	p := findStyled(root, "p")
	if p == nil {
		t.Fatal("expected a styled node for <p>")
	}
	if p.Styles() == nil {
		t.Fatal("expected <p> to carry computed styles")
	}
	if !p.Styles().Display.IsBlockLevel() {
		t.Errorf("expected <p> to be block-level by user-agent default")
	}
	head := findStyled(root, "head")
	if head == nil {
		t.Fatal("expected a styled node for <head>")
	}
	if !head.Styles().Display.Contains(css.DisplayNone) {
		t.Errorf("expected <head> to be display:none by user-agent default")
	}
}

func TestBuildTreeAppliesRulesAndInlineStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	doc := parseDoc(t, `<body><p class="note" style="height: 30px">hello</p></body>`)
	sheet, err := douceuradapter.ParseCSS(`.note { width: 120px; height: 99px; }`, cssom.OriginAuthor, 0)
	if err != nil {
		t.Fatal(err)
	}
	root, err := styledtree.BuildTree(doc, styledtree.Params{
		Rules:  sheet.Rules(),
		Inline: douceuradapter.InlineStyle,
	})
	if err != nil {
		t.Fatal(err)
	}
	p := findStyled(root, "p")
	if p == nil {
		t.Fatal("expected a styled node for <p>")
	}
	if w := p.Styles().Dimens.W.Unwrap(); w != 120*dimen.PX {
		t.Errorf("expected rule width of 120px, have %v", p.Styles().Dimens.W)
	}
	if h := p.Styles().Dimens.H.Unwrap(); h != 30*dimen.PX {
		t.Errorf("expected inline height of 30px to win, have %v", p.Styles().Dimens.H)
	}
}

func TestBuildTreeInheritsDownTheTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	doc := parseDoc(t, `<body style="color: #ff0000; font-size: 20px"><div><p>hi</p></div></body>`)
	root, err := styledtree.BuildTree(doc, styledtree.Params{
		Inline: douceuradapter.InlineStyle,
	})
	if err != nil {
		t.Fatal(err)
	}
	p := findStyled(root, "p")
	if p == nil {
		t.Fatal("expected a styled node for <p>")
	}
	if fs := p.Styles().Text.FontSize.Unwrap(); fs != 20*dimen.PX {
		t.Errorf("expected <p> to inherit font-size 20px, have %v", p.Styles().Text.FontSize)
	}
	r, _, _, _ := p.Styles().Text.Color.RGBA()
	if r != 0xffff {
		t.Errorf("expected <p> to inherit red text color, have %v", p.Styles().Text.Color)
	}
}

func TestBuildTreeVoidsSubtreeOnExhaustedBudget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	doc := parseDoc(t, `<html><head></head><body><p>x</p></body></html>`)
	// enough for html, head and body, but not for p
	alloc := cssom.NewAllocator(3 * 1024)
	root, err := styledtree.BuildTree(doc, styledtree.Params{Alloc: alloc})
	if err == nil {
		t.Fatal("expected an out-of-memory error from styling")
	}
	if core.Code(err) != core.ENOMEM {
		t.Errorf("expected error code ENOMEM, have %d", core.Code(err))
	}
	if findStyled(root, "body") == nil {
		t.Errorf("expected <body> to survive, budget covers it")
	}
	if findStyled(root, "p") != nil {
		t.Errorf("expected subtree of <p> to be voided")
	}
}

func TestBuildTreeTextNodesShareElementStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	doc := parseDoc(t, `<body><p>hello <!-- unseen -->world</p></body>`)
	root, err := styledtree.BuildTree(doc, styledtree.Params{})
	if err != nil {
		t.Fatal(err)
	}
	p := findStyled(root, "p")
	if p == nil {
		t.Fatal("expected a styled node for <p>")
	}
	children := p.Children(true)
	if len(children) != 2 {
		t.Fatalf("expected 2 text children and no comment, have %d children", len(children))
	}
	text := styledtree.Node(children[0])
	if !text.IsText() {
		t.Fatalf("expected first child of <p> to be a text node")
	}
	if text.Styles() != p.Styles() {
		t.Errorf("expected text node to draw on the styles of <p>")
	}
}
