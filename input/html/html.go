/*
Package html is the front door of the engine: it turns an HTML document
into a laid-out box tree in one call.

Load parses the markup, collects the document's style sheets, styles the
parse tree, generates boxes, and runs the initial layout pass. The
returned Document carries a reflow coordinator with fetches for images
and declared font faces already under way; clients drain its event queue
from their content thread to fold arriving resources into the layout.

Linked style sheets are render-blocking and are fetched synchronously
during Load. Images and fonts are not: they arrive through the
coordinator.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package html

import (
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	xhtml "golang.org/x/net/html"

	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/core/font"
	"github.com/npillmayer/weft/core/font/fontregistry"
	"github.com/npillmayer/weft/core/locate/resources"
	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/dom/cssom/douceuradapter"
	"github.com/npillmayer/weft/engine/dom/styledtree"
	"github.com/npillmayer/weft/engine/frame/boxtree"
	"github.com/npillmayer/weft/engine/frame/layout"
	"github.com/npillmayer/weft/engine/frame/reflow"
	"github.com/npillmayer/weft/engine/tree"
)

// tracer traces with key 'weft.dom'.
func tracer() tracing.Trace {
	return tracing.Select("weft.dom")
}

// Options configures a Load run. The zero value is usable: a 1280 by 800
// viewport, no user styles, no resource fetching.
type Options struct {
	UserCSS  []string          // style sheets of user origin, cascading below author sheets
	BaseURL  string            // anchors relative resource locations of the document
	Viewport dimen.Point       // viewport dimensions; zero selects 1280 x 800
	Fetcher  resources.Fetcher // resource fetcher; nil disables stylesheet, image and font fetching
	Layout   layout.Params     // measurement and allocation parameters for layout passes
	Repaint  func(boxtree.BoxIndex)
}

// Document is a parsed, styled and laid-out HTML document.
type Document struct {
	HTML   *xhtml.Node
	Styled *tree.Node[*styledtree.StyNode]
	Arena  *boxtree.Arena
	Root   boxtree.BoxIndex
	Flow   *reflow.Coordinator
}

// Load builds a Document from HTML markup. Errors during styling and box
// generation are tolerated where possible; Load fails only when the
// document cannot be brought to a laid-out state at all.
func Load(r io.Reader, opts Options) (*Document, error) {
	h, err := xhtml.Parse(r)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse HTML input")
	}
	if opts.Viewport.X == 0 {
		opts.Viewport = dimen.Point{X: 1280 * dimen.PX, Y: 800 * dimen.PX}
	}
	rules, faces := collectStyles(h, opts)
	styled, err := styledtree.BuildTree(h, styledtree.Params{
		Rules:  rules,
		Inline: douceuradapter.InlineStyle,
		Alloc:  opts.Layout.Alloc,
	})
	if err != nil && styled == nil {
		return nil, err
	}
	arena := boxtree.NewArena()
	root, err := boxtree.BuildBoxTree(styled, arena, boxtree.Params{
		Rules:    rules,
		Alloc:    opts.Layout.Alloc,
		Viewport: opts.Viewport,
	})
	if err != nil && root == boxtree.NullIndex {
		return nil, err
	}
	view := layout.View{Width: opts.Viewport.X, Height: opts.Viewport.Y}
	result, err := layout.Layout(arena, root, view, opts.Layout)
	if err != nil {
		if result == nil {
			return nil, err
		}
		// a voided subtree is fatal to that subtree only, the rest of
		// the document stays usable
		tracer().Errorf("layout degraded: %v", err)
	}
	doc := &Document{
		HTML:   h,
		Styled: styled,
		Arena:  arena,
		Root:   root,
	}
	doc.Flow = reflow.New(arena, root, result, reflow.Config{
		View:    view,
		Layout:  opts.Layout,
		Fetcher: opts.Fetcher,
		BaseURL: opts.BaseURL,
		Repaint: opts.Repaint,
	})
	doc.Flow.FetchResources()
	loadFontFaces(faces, opts, doc.Flow)
	return doc, nil
}

// Result returns the current layout result, including the outcomes of
// re-layout passes the coordinator ran.
func (doc *Document) Result() *layout.Result {
	return doc.Flow.Result()
}

// Close cancels all in-flight resource fetches of the document.
func (doc *Document) Close() {
	doc.Flow.Teardown()
}

// collectStyles gathers the cascade input for a document: user sheets
// first, then the document's style elements and linked sheets in
// document order. Rule numbering chains across all sheets, so document
// order breaks specificity ties the way the cascade requires.
func collectStyles(h *xhtml.Node, opts Options) ([]cssom.Rule, []douceuradapter.FontFace) {
	var rules []cssom.Rule
	var faces []douceuradapter.FontFace
	var seq uint32
	add := func(source string, origin cssom.Origin) {
		sheet, err := douceuradapter.ParseCSS(source, origin, seq)
		if err != nil {
			tracer().Errorf("broken style sheet dropped: %v", err)
			return
		}
		seq = sheet.NextSeq()
		rules = append(rules, sheet.Rules()...)
		faces = append(faces, sheet.FontFaces()...)
	}
	for _, css := range opts.UserCSS {
		add(css, cssom.OriginUser)
	}
	walk(h, func(n *xhtml.Node) {
		if n.Type != xhtml.ElementNode {
			return
		}
		switch n.Data {
		case "style":
			add(textContent(n), cssom.OriginAuthor)
		case "link":
			if !strings.EqualFold(attr(n, "rel"), "stylesheet") {
				return
			}
			href := attr(n, "href")
			if href == "" {
				return
			}
			if source, err := fetchBlocking(opts.Fetcher, href, opts.BaseURL); err != nil {
				tracer().Errorf("linked style sheet %q unavailable: %v", href, err)
			} else {
				add(source, cssom.OriginAuthor)
			}
		}
	})
	return rules, faces
}

// fetchBlocking retrieves a resource and waits for its completion event.
func fetchBlocking(fetcher resources.Fetcher, href string, base string) (string, error) {
	if fetcher == nil {
		return "", core.Error(core.EMISSING, "no fetcher configured for linked resource")
	}
	done := make(chan resources.Event, 1)
	fetcher.Retrieve(href, base, func(ev resources.Event) {
		done <- ev
	})
	ev := <-done
	if ev.Kind == resources.FetchFailed {
		return "", ev.Err
	}
	return string(ev.Data), nil
}

// loadFontFaces starts asynchronous fetches for the @font-face requests
// of the document. Families already present in the registry are skipped.
// Concurrent downloads are bounded by the registry's slot count; faces
// beyond the bound are dropped with a trace message. A completed face is
// registered and announced to the reflow coordinator, which schedules
// repaints for text styled with the family.
func loadFontFaces(faces []douceuradapter.FontFace, opts Options, flow *reflow.Coordinator) {
	if opts.Fetcher == nil {
		return
	}
	registry := fontregistry.GlobalRegistry()
	for _, face := range faces {
		if face.Source == "" || registry.FamilyLoaded(face.Family) {
			continue
		}
		if !registry.AcquireDownloadSlot() {
			tracer().Errorf("font download limit reached, dropping face %q", face.Family)
			continue
		}
		face := face
		opts.Fetcher.Retrieve(face.Source, opts.BaseURL, func(ev resources.Event) {
			// fetch goroutine: registry and queue only
			defer registry.ReleaseDownloadSlot()
			if ev.Kind == resources.FetchFailed {
				tracer().Errorf("font face %q unavailable: %v", face.Family, ev.Err)
				return
			}
			err := resources.RegisterFontFace(face.Family, font.CSSStyle(face.Style),
				font.CSSWeight(face.Weight), ev.Data)
			if err != nil {
				tracer().Errorf("font face %q rejected: %v", face.Family, err)
				return
			}
			flow.FontLoaded(face.Family)
		})
	}
}

// --- DOM helpers -----------------------------------------------------------

func walk(n *xhtml.Node, visit func(*xhtml.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func textContent(n *xhtml.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func attr(n *xhtml.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
