package douceuradapter_test

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/dom/cssom/douceuradapter"
	"github.com/stretchr/testify/assert"
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

func findTag(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if r := findTag(ch, tag); r != nil {
			return r
		}
	}
	return nil
}

func TestParseCSSCompilesRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	sheet, err := douceuradapter.ParseCSS(`
		p { width: 50px; }
		#main, .note { color: red; }
	`, cssom.OriginAuthor, 0)
	if err != nil {
		t.Fatal(err)
	}
	rules := sheet.Rules()
	if len(rules) != 3 {
		t.Fatalf("expected 3 compiled rules (1 + 2 selectors), have %d", len(rules))
	}
	if spec := rules[0].Match.Specificity(); spec != [3]int{0, 0, 1} {
		t.Errorf("expected element selector specificity (0,0,1), have %v", spec)
	}
	if spec := rules[1].Match.Specificity(); spec != [3]int{1, 0, 0} {
		t.Errorf("expected id selector specificity (1,0,0), have %v", spec)
	}
	if rules[1].Seq != rules[2].Seq {
		t.Errorf("expected selectors of one rule to share a sequence number")
	}
	if sheet.NextSeq() != 2 {
		t.Errorf("expected sheet to consume 2 sequence numbers, consumed %d", sheet.NextSeq())
	}
}

func TestRulesApplyToMatchingNodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	doc := parseDoc(t, `<html><body><p class="note">hello</p></body></html>`)
	p := findTag(doc, "p")
	if p == nil {
		t.Fatal("no p element in parsed document")
	}
	sheet, err := douceuradapter.ParseCSS(`
		.note { width: 120px; }
		div   { width: 999px; }
	`, cssom.OriginAuthor, 0)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := cssom.StartCascade(nil)
	for _, rule := range sheet.Rules() {
		if err := c.ApplyRule(rule, p); err != nil {
			t.Fatal(err)
		}
	}
	if w := c.Style().Dimens.W.Unwrap(); w != 120*dimen.PX {
		t.Errorf("expected .note rule to set width 120px, have %v", c.Style().Dimens.W)
	}
}

func TestPseudoElementRulesDoNotMatchTheElement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	doc := parseDoc(t, `<html><body><p>hello</p></body></html>`)
	p := findTag(doc, "p")
	sheet, err := douceuradapter.ParseCSS(`p::before { width: 11px; }`, cssom.OriginAuthor, 0)
	if err != nil {
		t.Fatal(err)
	}
	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 compiled rule, have %d", len(rules))
	}
	assert.Equal(t, "before", rules[0].Match.PseudoElement())
	c, _ := cssom.StartCascade(nil)
	if err := c.ApplyRule(rules[0], p); err != nil {
		t.Fatal(err)
	}
	if c.Style().Dimens.W.IsAbsolute() {
		t.Errorf("expected ::before rule not to style the p element itself")
	}
}

func TestMediaRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	sheet, err := douceuradapter.ParseCSS(`
		@media print { p { width: 1px; } }
		@media screen { p { width: 2px; } }
	`, cssom.OriginAuthor, 0)
	if err != nil {
		t.Fatal(err)
	}
	rules := sheet.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected only the screen rule to compile, have %d rules", len(rules))
	}
}

func TestFontFaces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	sheet, err := douceuradapter.ParseCSS(`
		@font-face {
			font-family: "Open Sans";
			src: url("/fonts/OpenSans-Regular.woff2") format("woff2");
		}
	`, cssom.OriginAuthor, 0)
	if err != nil {
		t.Fatal(err)
	}
	faces := sheet.FontFaces()
	if len(faces) != 1 {
		t.Fatalf("expected 1 font face, have %d", len(faces))
	}
	assert.Equal(t, "Open Sans", faces[0].Family)
	assert.Equal(t, "/fonts/OpenSans-Regular.woff2", faces[0].Source)
}

func TestInlineStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	doc := parseDoc(t, `<html><body><p style="width: 77px">x</p></body></html>`)
	p := findTag(doc, "p")
	prog := douceuradapter.InlineStyle(p)
	if prog == nil {
		t.Fatal("expected a compiled program for the style attribute")
	}
	c, _ := cssom.StartCascade(nil)
	if err := c.Apply(prog, cssom.OriginAuthor, [3]int{255, 255, 255}, 0); err != nil {
		t.Fatal(err)
	}
	if w := c.Style().Dimens.W.Unwrap(); w != 77*dimen.PX {
		t.Errorf("expected inline width of 77px, have %v", c.Style().Dimens.W)
	}
}

// Style attributes routinely omit the final semicolon; the declaration
// after the last separator must not get lost.
func TestInlineStyleKeepsFinalDeclaration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	doc := parseDoc(t, `<html><body>
		<p style="color: red; width: 33px">x</p>
		<div style="width: 12px;">y</div>
	</body></html>`)
	for _, tc := range []struct {
		tag   string
		width dimen.Dimen
	}{
		{"p", 33 * dimen.PX},
		{"div", 12 * dimen.PX},
	} {
		prog := douceuradapter.InlineStyle(findTag(doc, tc.tag))
		if prog == nil {
			t.Fatalf("expected a compiled program for the <%s> style attribute", tc.tag)
		}
		c, _ := cssom.StartCascade(nil)
		if err := c.Apply(prog, cssom.OriginAuthor, [3]int{255, 255, 255}, 0); err != nil {
			t.Fatal(err)
		}
		if w := c.Style().Dimens.W.Unwrap(); w != tc.width {
			t.Errorf("expected inline width %v on <%s>, have %v", tc.width, tc.tag,
				c.Style().Dimens.W)
		}
	}
}

func TestExtractStyleElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.dom")
	defer teardown()
	//
	doc := parseDoc(t, `<html><head><style>p { width: 9px; }</style></head><body></body></html>`)
	sheets := douceuradapter.ExtractStyleElements(doc, 0)
	if len(sheets) != 1 {
		t.Fatalf("expected 1 extracted sheet, have %d", len(sheets))
	}
	if len(sheets[0].Rules()) != 1 {
		t.Errorf("expected 1 rule in the extracted sheet, have %d", len(sheets[0].Rules()))
	}
}
