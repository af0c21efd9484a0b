package boxtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"strings"
	"sync"

	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/dom/style"
	"github.com/npillmayer/weft/engine/dom/style/css"
	"github.com/npillmayer/weft/engine/dom/styledtree"
	"github.com/npillmayer/weft/engine/frame"
	"github.com/npillmayer/weft/engine/tree"
	"golang.org/x/net/html"
)

// ErrStyledTreeRootIsNull is flagged by BuildBoxTree for a nil input tree.
var ErrStyledTreeRootIsNull = errors.New("styled tree root is null")

// Params bundles the inputs for box tree construction.
type Params struct {
	Rules    []cssom.Rule     // style rules; queried for pseudo-element selectors
	Env      cssom.ComposeEnv // composition context for pseudo-element styles
	Alloc    *cssom.Allocator // style memory budget, nil = unbounded
	Viewport dimen.Point      // target width fallback for responsive image selection
}

// BuildBoxTree builds the box tree for a styled document into arena. The
// arena is reset first: boxes of a previously built tree are dropped and
// weak references to them go stale.
//
// Every element yields zero or more boxes. An element with display:none
// yields none and its whole subtree is pruned. ::before and ::after
// boxes are materialized from params.Rules where they produce content.
// Anonymous boxes complete mixed block/inline content and wrap loose
// children of flex and grid containers. Fixed and absolutely positioned
// boxes re-anchor at the box which establishes their containing block.
//
// BuildBoxTree keeps going when a subtree fails (exhausted style memory
// budget); it returns the root box index together with the last error
// encountered.
func BuildBoxTree(styled *tree.Node[*styledtree.StyNode], arena *Arena, params Params) (BoxIndex, error) {
	if styled == nil {
		return NullIndex, ErrStyledTreeRootIsNull
	}
	arena.Reset()
	tracer().Debugf("creating box tree")
	b := &builder{arena: arena, params: params}
	root := arena.NewBox(KindBlock)
	rb := arena.Box(root)
	rb.Display = css.BlockMode | css.FlowRootMode | css.InnerBlockMode
	rb.Computed = cssom.InitialStyle()
	rb.Styled = styledtree.Node(styled)
	if styledtree.Node(styled).HTMLNode().Type == html.ElementNode {
		b.element(styled, root) // a styled fragment
	} else {
		b.children(styled, root)
	}
	b.complete(root)
	reorderOutOfFlow(arena, root)
	tracer().Debugf("box tree has %d boxes", arena.Len())
	return root, b.lasterror
}

// builder carries the construction parameters through the recursive
// descent. It reports the last error encountered but keeps going where
// possible.
type builder struct {
	arena     *Arena
	params    Params
	lasterror error
}

// children builds boxes for the children of a styled node and attaches
// them to the box at parent.
func (b *builder) children(sn *tree.Node[*styledtree.StyNode], parent BoxIndex) {
	for _, ch := range sn.Children(true) {
		n := styledtree.Node(ch)
		if n.IsText() {
			b.text(n, parent)
		} else {
			b.element(ch, parent)
		}
	}
}

// element builds the box(es) for a single element: the principal box,
// a list item marker, materialized pseudo-elements, and the boxes of the
// element's children. Elements resolving to display:none yield nothing.
func (b *builder) element(sn *tree.Node[*styledtree.StyNode], parent BoxIndex) {
	n := styledtree.Node(sn)
	styles := n.Styles()
	if styles == nil || styles.Display.Contains(css.DisplayNone) {
		tracer().Debugf("element <%s> generates no box", n.HTMLNode().Data)
		return
	}
	if isReplacedElement(n.HTMLNode().Data) {
		b.replaced(n, parent)
		return
	}
	self := b.arena.NewBox(kindForDisplay(styles.Display))
	box := b.arena.Box(self)
	box.Display = styles.Display
	box.Computed = styles
	box.Styled = n
	attributeBox(box, styles)
	b.arena.AppendChild(parent, self)
	if styles.Display.Contains(css.ListItemMode) {
		b.marker(self, styles)
	}
	b.pseudo(n, self, "before")
	b.children(sn, self)
	b.pseudo(n, self, "after")
	b.complete(self)
}

// text builds a text box for a document text node. Whitespace-only text
// directly inside a flex or grid container never becomes an item and is
// dropped right away; other collapsing happens during completion.
func (b *builder) text(n *styledtree.StyNode, parent BoxIndex) {
	txt := n.HTMLNode().Data
	p := b.arena.Box(parent)
	if (p.Kind == KindFlex || p.Kind == KindGrid) && strings.TrimSpace(txt) == "" {
		return
	}
	self := b.arena.NewBox(KindText)
	box := b.arena.Box(self)
	box.Display = css.InlineMode
	box.Computed = n.Styles() // the enclosing element's styles
	box.Styled = n
	box.Text = txt
	b.arena.AppendChild(parent, self)
}

// marker prepends the list item marker box, ahead of any ::before
// content.
func (b *builder) marker(li BoxIndex, styles *cssom.Style) {
	m := b.arena.NewBox(KindText)
	box := b.arena.Box(m)
	box.Display = css.InlineMode
	box.Flags = FlagAnonymous | FlagMarker
	box.Computed = styles
	box.Text = "• " // bullet; item numbering is not supported
	b.arena.AppendChild(li, m)
}

// user agent default style for pseudo-elements, compiled once
var pseudoOnce sync.Once
var pseudoUA *cssom.Program

func pseudoDefaults() *cssom.Program {
	pseudoOnce.Do(func() {
		pseudoUA = &cssom.Program{}
		pseudoUA.CompileDeclaration("display", style.Property("inline"), false)
	})
	return pseudoUA
}

// pseudo materializes a ::before or ::after box for an element, appended
// to the element's box at the point of call. A pseudo-element resolves
// to "no box" when no rule matches, when its content is none or normal,
// or when its display is none; materializing such a pseudo-element is a
// silent no-op.
func (b *builder) pseudo(n *styledtree.StyNode, self BoxIndex, which string) {
	h := n.HTMLNode()
	var cas *cssom.Cascaded
	for _, rule := range b.params.Rules {
		if rule.Match == nil || rule.Match.PseudoElement() != which || !rule.Match.Match(h) {
			continue
		}
		if cas == nil {
			var err error
			if cas, err = cssom.StartCascade(b.params.Alloc); err != nil {
				b.lasterror = err
				return
			}
			if err = cas.Apply(pseudoDefaults(), cssom.OriginUserAgent, [3]int{}, 0); err != nil {
				b.lasterror = err
				return
			}
		}
		if err := cas.Apply(rule.Prog, rule.Origin, rule.Match.Specificity(), rule.Seq); err != nil {
			b.lasterror = err
			return
		}
	}
	if cas == nil {
		return // no rule addresses this pseudo-element
	}
	styles, err := cas.Compose(n.Styles(), b.params.Env, b.params.Alloc)
	if err != nil {
		b.lasterror = err
		return
	}
	if !styles.Content.IsSet || styles.Display.Contains(css.DisplayNone) {
		tracer().Debugf("::%s of <%s> resolves to no box", which, h.Data)
		return
	}
	p := b.arena.NewBox(KindText)
	box := b.arena.Box(p)
	box.Display = styles.Display
	box.Flags = FlagPseudo
	box.Computed = styles
	box.Text = styles.Content.Text
	attributeBox(box, styles)
	b.arena.AppendChild(self, p)
}

// attributeBox seeds the box geometry from the computed style. Font- and
// viewport-relative dimensions have been resolved during style
// composition; what remains are fixed dimensions, percentages, calc()
// combinations and the auto/content-dependent keywords, all of which
// layout narrows down against the enclosing block.
func attributeBox(box *BoxNode, styles *cssom.Style) {
	box.Box.W = styles.Dimens.W
	box.Box.H = styles.Dimens.H
	box.Box.Min = frame.Size{W: styles.Dimens.MinW, H: styles.Dimens.MinH}
	box.Box.Max = frame.Size{W: styles.Dimens.MaxW, H: styles.Dimens.MaxH}
	box.Box.BorderBoxSizing = styles.Dimens.BorderBox
	box.Box.Padding = styles.Spacing.Padding
	box.Box.BorderWidth = styles.Spacing.BorderWidth
	box.Box.Margins = styles.Spacing.Margins
}

// complete completes the child list of a container after all of its
// children have been built. Block containers with mixed block- and
// inline-level children get anonymous block boxes wrapped around each
// maximal inline run; flex and grid containers get every inline run
// wrapped into an anonymous block-level item. Whitespace-only text
// between block-level siblings disappears.
func (b *builder) complete(parent BoxIndex) {
	p := b.arena.Box(parent)
	switch p.Kind {
	case KindBlock:
		b.wrapInlineRuns(parent, false)
	case KindFlex, KindGrid:
		b.wrapInlineRuns(parent, true)
	}
}

// wrapInlineRuns partitions the children of parent into block-level
// children and maximal runs of inline-level children, then moves each
// run into an anonymous block box. Without always set, wrapping only
// happens when block- and inline-level children actually mix.
func (b *builder) wrapInlineRuns(parent BoxIndex, always bool) {
	children := b.arena.Children(parent)
	if len(children) == 0 {
		return
	}
	hasBlock, hasInline := false, false
	for _, ci := range children {
		c := b.arena.Box(ci)
		if ignorableSpace(c) {
			continue
		}
		if c.InlineLevel() {
			hasInline = true
		} else {
			hasBlock = true
		}
	}
	if !always && !hasBlock {
		return // a pure inline formatting context needs no completion
	}
	wrapping := always || hasInline

	// partition into segments, dropping whitespace between blocks
	type segment struct {
		block BoxIndex   // a block-level child, or
		run   []BoxIndex // one maximal inline-level run
	}
	var segs []segment
	var run []BoxIndex
	var dropped []BoxIndex
	flush := func() {
		for len(run) > 0 && ignorableSpace(b.arena.Box(run[len(run)-1])) {
			dropped = append(dropped, run[len(run)-1])
			run = run[:len(run)-1]
		}
		if len(run) > 0 {
			segs = append(segs, segment{block: NullIndex, run: run})
			run = nil
		}
	}
	for _, ci := range children {
		c := b.arena.Box(ci)
		if ignorableSpace(c) {
			if len(run) > 0 {
				run = append(run, ci) // inner whitespace stays with its run
			} else {
				dropped = append(dropped, ci)
			}
			continue
		}
		if wrapping && c.InlineLevel() {
			run = append(run, ci)
			continue
		}
		flush()
		segs = append(segs, segment{block: ci})
	}
	flush()
	if len(dropped) == 0 && !(wrapping && hasInline && (hasBlock || always)) {
		return // nothing to drop, nothing to wrap
	}

	// anonymous wrappers are created first; adding boxes may relocate
	// the arena's backing store
	parentStyles := b.arena.Box(parent).Computed
	wrappers := make([]BoxIndex, len(segs))
	for i, seg := range segs {
		if seg.block != NullIndex {
			wrappers[i] = NullIndex
			continue
		}
		w := b.arena.NewBox(KindBlock)
		wb := b.arena.Box(w)
		wb.Display = css.BlockMode | css.InnerInlineMode
		wb.Flags = FlagAnonymous
		wb.Computed = parentStyles
		wrappers[i] = w
	}

	// relink: detach all children, then attach segments in order
	for _, ci := range children {
		c := b.arena.Box(ci)
		c.Parent, c.PrevSib, c.NextSib = NullIndex, NullIndex, NullIndex
	}
	p := b.arena.Box(parent)
	p.FirstChild, p.LastChild = NullIndex, NullIndex
	for i, seg := range segs {
		if seg.block != NullIndex {
			b.arena.AppendChild(parent, seg.block)
			continue
		}
		w := wrappers[i]
		for _, ci := range seg.run {
			b.arena.AppendChild(w, ci)
		}
		b.arena.AppendChild(parent, w)
	}
	if len(dropped) > 0 {
		tracer().Debugf("dropped %d whitespace boxes between blocks", len(dropped))
	}
}

// ignorableSpace identifies text boxes carrying nothing but whitespace.
// Materialized pseudo-element boxes never count as ignorable, even with
// empty content.
func ignorableSpace(c *BoxNode) bool {
	return c.Kind == KindText && !c.Flags.Contains(FlagPseudo) &&
		strings.TrimSpace(c.Text) == ""
}

// Replaced elements are atomic for layout: their content comes from an
// external resource, not from document children.
var replacedElements = map[string]bool{
	"img":    true,
	"svg":    true,
	"object": true,
	"embed":  true,
	"iframe": true,
	"video":  true,
	"canvas": true,
}

func isReplacedElement(tag string) bool {
	return replacedElements[strings.ToLower(tag)]
}
