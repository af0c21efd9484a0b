package xpathadapter_test

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/engine/dom/styledtree"
	"github.com/npillmayer/weft/engine/dom/styledtree/xpathadapter"
	"golang.org/x/net/html"
)

func styledDoc(t *testing.T, doc string) *styledtree.StyNode {
	t.Helper()
	parsed, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	root, err := styledtree.BuildTree(parsed, styledtree.Params{})
	if err != nil {
		t.Fatal(err)
	}
	return styledtree.Node(root)
}

func TestQuerySelectsElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	root := styledDoc(t, `<body><p>one</p><div><p class="note">two</p></div></body>`)
	nodes, err := xpathadapter.Query(root, "//p")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected query to find 2 paragraphs, found %d", len(nodes))
	}
	nodes, err = xpathadapter.Query(root, "//p[@class='note']")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected query to find 1 paragraph with class, found %d", len(nodes))
	}
	if txt := nodes[0].HTMLNode().FirstChild.Data; txt != "two" {
		t.Errorf("expected query to find the second paragraph, has text %q", txt)
	}
}

func TestQueryAttributeYieldsOwnerElement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	root := styledDoc(t, `<body><a href="https://example.com">link</a></body>`)
	nodes, err := xpathadapter.Query(root, "//a/@href")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 attribute match, found %d", len(nodes))
	}
	if nodes[0].HTMLNode().Data != "a" {
		t.Errorf("expected attribute match to yield <a>, have <%s>", nodes[0].HTMLNode().Data)
	}
}

func TestNavigatorMoves(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	root := styledDoc(t, `<body><i>1</i><b>2</b><u>3</u></body>`)
	bodies, err := xpathadapter.Query(root, "//body")
	if err != nil || len(bodies) != 1 {
		t.Fatalf("cannot locate <body>: %v", err)
	}
	nav := xpathadapter.NewNavigator(bodies[0])
	if !nav.MoveToChild() || nav.LocalName() != "i" {
		t.Fatalf("expected first child <i>, have <%s>", nav.LocalName())
	}
	if !nav.MoveToNext() || nav.LocalName() != "b" {
		t.Fatalf("expected next sibling <b>, have <%s>", nav.LocalName())
	}
	if !nav.MoveToNext() || nav.LocalName() != "u" {
		t.Fatalf("expected next sibling <u>, have <%s>", nav.LocalName())
	}
	if nav.MoveToNext() {
		t.Error("expected <u> to be the last sibling")
	}
	if !nav.MoveToPrevious() || nav.LocalName() != "b" {
		t.Fatalf("expected previous sibling <b>, have <%s>", nav.LocalName())
	}
	if !nav.MoveToFirst() || nav.LocalName() != "i" {
		t.Fatalf("expected first sibling <i>, have <%s>", nav.LocalName())
	}
	if !nav.MoveToParent() || nav.LocalName() != "body" {
		t.Fatalf("expected parent <body>, have <%s>", nav.LocalName())
	}
	if nav.MoveToParent() {
		t.Error("expected navigation to stop at the navigator's root")
	}
	nav.MoveToRoot()
	node, err := xpathadapter.CurrentNode(nav)
	if err != nil {
		t.Fatal(err)
	}
	if styledtree.Node(node) != bodies[0] {
		t.Errorf("expected navigator to be back at its root")
	}
}

func TestQueryInnerText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	root := styledDoc(t, `<body><p>hello <b>styled</b> world</p></body>`)
	nodes, err := xpathadapter.Query(root, "//p[contains(., 'styled')]")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected inner text to include child element text, found %d matches", len(nodes))
	}
}
