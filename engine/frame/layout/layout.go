package layout

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"

	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/dom/style/css"
	"github.com/npillmayer/weft/engine/frame"
	"github.com/npillmayer/weft/engine/frame/boxtree"
	"github.com/npillmayer/weft/engine/frame/inline"
	"github.com/npillmayer/weft/engine/text"
)

// ErrNoBoxes is returned by Layout when there is no box tree to lay out.
var ErrNoBoxes = errors.New("no box tree given for layout")

// View is the viewport a document is laid out for. The root box receives
// the view width as its containing block; the view height anchors
// percentage heights and viewport-relative units.
type View struct {
	Width  dimen.Dimen
	Height dimen.Dimen
}

// Params bundles the auxiliary inputs of a layout pass.
type Params struct {
	// Measure is the text measurement boundary. Layout never shapes glyphs
	// itself; a nil measurer falls back to a deterministic monospace grid.
	Measure text.Measurer

	// Fonts resolves measurement parameters (type case, direction) for a
	// style set. May be nil for single-font documents.
	Fonts inline.ParamsFor

	// Alloc is the memory budget for layout bookkeeping arrays, shared
	// with the style cascade. A nil allocator is unbounded. An exhausted
	// budget voids the subtree which hit the limit, never the document.
	Alloc *cssom.Allocator
}

// fallbackEm is the cell size of the monospace fallback measurer.
const fallbackEm = 12 * dimen.PT

// Result is the outcome of a layout pass over a box tree. Box geometry is
// narrowed in place in the arena; the result carries everything layout
// produces besides geometry: the paragraphs and line boxes of inline
// content, and the set of subtrees which had to be abandoned.
type Result struct {
	arena   *boxtree.Arena
	root    boxtree.BoxIndex
	view    View
	lines   map[boxtree.BoxIndex][]inline.LineBox
	paras   map[boxtree.BoxIndex]*inline.Paragraph
	skipped map[boxtree.BoxIndex]bool
	err     error // last error encountered
}

// Lines returns the line boxes of a block container holding a paragraph,
// nil for boxes without inline content.
func (r *Result) Lines(i boxtree.BoxIndex) []inline.LineBox {
	return r.lines[i]
}

// Paragraph returns the paragraph of a block container holding inline
// content, nil otherwise.
func (r *Result) Paragraph(i boxtree.BoxIndex) *inline.Paragraph {
	return r.paras[i]
}

// Skipped reports whether a subtree had to be abandoned during the pass.
// Painting must not touch skipped subtrees.
func (r *Result) Skipped(i boxtree.BoxIndex) bool {
	for n := i; n != boxtree.NullIndex; n = r.arena.Box(n).Parent {
		if r.skipped[n] {
			return true
		}
	}
	return false
}

// Merge folds the outcome of a scoped re-layout pass into a result of a
// previous full pass over the same arena. Entries of the scoped pass win.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	for i, l := range other.lines {
		r.lines[i] = l
	}
	for i, p := range other.paras {
		r.paras[i] = p
	}
	for i, s := range other.skipped {
		r.skipped[i] = s
	}
	if other.err != nil {
		r.err = other.err
	}
}

// Layout performs a layout pass over the box tree in arena, starting at
// root, for the given viewport.
//
// Layout keeps going when a subtree cannot be laid out; it returns the
// result together with the last error encountered. Subtrees abandoned on
// an exhausted memory budget are recorded in the result and must be
// skipped during painting.
func Layout(arena *boxtree.Arena, root boxtree.BoxIndex, view View, params Params) (*Result, error) {
	if arena == nil || arena.Box(root) == nil {
		return nil, ErrNoBoxes
	}
	measure := params.Measure
	if measure == nil {
		measure = text.Monospace(fallbackEm, nil)
	}
	fonts := params.Fonts
	if fonts == nil {
		fonts = inline.FixedParams(text.Params{})
	}
	res := &Result{
		arena:   arena,
		root:    root,
		view:    view,
		lines:   make(map[boxtree.BoxIndex][]inline.LineBox),
		paras:   make(map[boxtree.BoxIndex]*inline.Paragraph),
		skipped: make(map[boxtree.BoxIndex]bool),
	}
	f := &flow{
		arena:   arena,
		measure: measure,
		fonts:   fonts,
		alloc:   params.Alloc,
		res:     res,
	}
	tracer().Debugf("layout pass for viewport %v x %v", view.Width, view.Height)
	f.layoutBox(root, view.Width, css.SomeDimen(view.Height))
	return res, res.err
}

// flow carries the state of one layout pass through the recursive descent.
type flow struct {
	arena   *boxtree.Arena
	measure text.Measurer
	fonts   inline.ParamsFor
	alloc   *cssom.Allocator
	res     *Result
}

// fail records an error without stopping the pass.
func (f *flow) fail(err error) {
	if err != nil {
		f.res.err = err
	}
}

// layoutBox lays out a single box in normal flow: it resolves the box's
// own constraint equation against the width of the containing block, lays
// out the box's contents, and completes an auto height bottom-up.
//
// enclosingH is the content height of the containing block, unset while
// that height is not (yet) definite; percentage heights resolve against
// it or compute to auto.
func (f *flow) layoutBox(i boxtree.BoxIndex, enclosing dimen.Dimen, enclosingH css.DimenT) {
	n := f.arena.Box(i)
	if n == nil || n.State == boxtree.Measured {
		return
	}
	if n.State == boxtree.Measuring {
		tracer().Errorf("layout re-entered box %v, skipping", n)
		return
	}
	n.State = boxtree.Measuring
	tracer().Debugf("layout of %v within width %v", n, enclosing)
	if n.Kind == boxtree.KindReplaced {
		f.replacedBox(n, enclosing, enclosingH)
		n.State = boxtree.Measured
		return
	}
	box := &n.Box
	if ok, err := frame.FixDimensionsFromEnclosingWidth(box, enclosing); !ok {
		f.fail(err)
		fallbackWidth(box, enclosing)
	}
	resolveHeightSpec(box, enclosingH)
	resolveLimits(box, enclosing, enclosingH)
	if box.W.IsAbsolute() {
		box.W = css.SomeDimen(clamp(box.W.Unwrap(), box.Min.W, box.Max.W))
	}
	f.contents(i)
	if box.H.IsAbsolute() {
		box.H = css.SomeDimen(clamp(box.H.Unwrap(), box.Min.H, box.Max.H))
	}
	n.State = boxtree.Measured
}

// contents lays out the interior of a box whose own width has been fixed.
// An auto height is set from the content here.
func (f *flow) contents(i boxtree.BoxIndex) {
	n := f.arena.Box(i)
	switch n.Kind {
	case boxtree.KindBlock:
		f.blockContents(i)
	case boxtree.KindFlex:
		f.flexContents(i)
	case boxtree.KindGrid:
		f.gridContents(i)
	case boxtree.KindInline:
		// an inline box entering layout on its own has been blockified,
		// by float or position
		f.blockContents(i)
	default:
		// text boxes are measured as part of a paragraph and never
		// enter layout on their own
		tracer().Debugf("box %v is no container, contents ignored", n)
		if !n.Box.H.IsAbsolute() {
			n.Box.FixContentHeight(0)
		}
	}
}

// replacedBox sizes a replaced element. Replaced boxes never take part in
// the auto-width equation of blocks: an unresolved dimension falls back
// to the CSS default size for replaced content without intrinsic
// information, 300 by 150 pixels. Intrinsic sizes arriving with the
// fetched resource are the reflow coordinator's business.
func (f *flow) replacedBox(n *boxtree.BoxNode, enclosing dimen.Dimen, enclosingH css.DimenT) {
	box := &n.Box
	box.FixPercentages(enclosing)
	zeroAutoMargins(box)
	if box.W.IsPercent() || box.W.IsCalc() {
		box.W = css.SomeDimen(box.W.Resolve(enclosing))
	}
	resolveHeightSpec(box, enclosingH)
	resolveLimits(box, enclosing, enclosingH)
	if !box.W.IsAbsolute() {
		box.FixContentWidth(300 * dimen.PX)
	}
	if !box.H.IsAbsolute() {
		box.FixContentHeight(150 * dimen.PX)
	}
	box.W = css.SomeDimen(clamp(box.W.Unwrap(), box.Min.W, box.Max.W))
	box.H = css.SomeDimen(clamp(box.H.Unwrap(), box.Min.H, box.Max.H))
	tracer().Debugf("replaced box %v sized %v x %v", n, box.W, box.H)
}

// ---------------------------------------------------------------------------

// fallbackWidth forces a width onto a box whose constraint equation could
// not be solved. Layout must not leave a width open: the box takes the
// available width, margins yield.
func fallbackWidth(box *frame.Box, enclosing dimen.Dimen) {
	zeroAutoMargins(box)
	w := enclosing
	if d := box.DecorationWidth(true); d.IsAbsolute() {
		w -= d.Unwrap()
	}
	if w < 0 {
		w = 0
	}
	box.FixContentWidth(w)
}

// zeroAutoMargins fixes auto and unset margins to zero. Out-of-flow boxes
// and flex/grid items never distribute leftover space into auto margins.
func zeroAutoMargins(box *frame.Box) {
	for dir := frame.Top; dir <= frame.Left; dir++ {
		if box.Margins[dir].IsAuto() || box.Margins[dir].IsNone() {
			box.Margins[dir] = css.SomeDimen(0)
		}
	}
}

// resolveHeightSpec narrows a percentage or calc() height against the
// containing block's height. With an indefinite containing height the
// specification computes to auto.
func resolveHeightSpec(box *frame.Box, enclosingH css.DimenT) {
	if box.H.IsPercent() || box.H.IsCalc() {
		if enclosingH.IsAbsolute() {
			box.H = css.SomeDimen(box.H.Resolve(enclosingH.Unwrap()))
		} else {
			box.H = css.Auto()
		}
	}
}

// resolveLimits narrows percentage min/max constraints. Horizontal limits
// resolve against the containing width, vertical ones against the
// containing height where definite.
func resolveLimits(box *frame.Box, enclosing dimen.Dimen, enclosingH css.DimenT) {
	box.Min.W = resolveLimit(box.Min.W, css.SomeDimen(enclosing))
	box.Max.W = resolveLimit(box.Max.W, css.SomeDimen(enclosing))
	box.Min.H = resolveLimit(box.Min.H, enclosingH)
	box.Max.H = resolveLimit(box.Max.H, enclosingH)
}

func resolveLimit(d css.DimenT, base css.DimenT) css.DimenT {
	if d.IsPercent() || d.IsCalc() {
		if base.IsAbsolute() {
			return css.SomeDimen(d.Resolve(base.Unwrap()))
		}
		return css.Dimen()
	}
	if d.IsAuto() {
		return css.Dimen()
	}
	return d
}

// clamp applies max and min constraints to a resolved dimension, the
// maximum first. A contradictory pair resolves in favor of the minimum.
func clamp(v dimen.Dimen, min, max css.DimenT) dimen.Dimen {
	if max.IsAbsolute() {
		v = dimen.Min(v, max.Unwrap())
	}
	if min.IsAbsolute() {
		v = dimen.Max(v, min.Unwrap())
	}
	return v
}

// borderBoxHeight returns the resolved border box height of a box,
// zero while unresolved.
func borderBoxHeight(box *frame.Box) dimen.Dimen {
	if h := box.BorderBoxHeight(); h.IsAbsolute() {
		return h.Unwrap()
	}
	return 0
}

// borderBoxWidth returns the resolved border box width of a box,
// zero while unresolved.
func borderBoxWidth(box *frame.Box) dimen.Dimen {
	if w := box.BorderBoxWidth(); w.IsAbsolute() {
		return w.Unwrap()
	}
	return 0
}

// outerWidth returns the resolved margin box width of a box, counting
// only resolved parts.
func outerWidth(box *frame.Box) dimen.Dimen {
	return borderBoxWidth(box) + marginAt(box, frame.Left) + marginAt(box, frame.Right)
}

// outerHeight returns the resolved margin box height of a box, counting
// only resolved parts.
func outerHeight(box *frame.Box) dimen.Dimen {
	return borderBoxHeight(box) + marginAt(box, frame.Top) + marginAt(box, frame.Bottom)
}

// marginAt returns a resolved margin, zero while unresolved.
func marginAt(box *frame.Box, dir int) dimen.Dimen {
	if m := box.Margins[dir]; m.IsAbsolute() {
		return m.Unwrap()
	}
	return 0
}

// contentWidthOf returns the resolved content width of a box, zero while
// unresolved.
func contentWidthOf(box *frame.Box) dimen.Dimen {
	if w := box.ContentWidth(); w.IsAbsolute() {
		return w.Unwrap()
	}
	return 0
}

// setBorderBoxHeight forces a border box height onto a box, respecting its
// box-sizing mode.
func setBorderBoxHeight(box *frame.Box, h dimen.Dimen) {
	if box.BorderBoxSizing {
		box.H = css.SomeDimen(h)
		return
	}
	if d := innerDecorationH(box); d > 0 {
		h -= d
	}
	if h < 0 {
		h = 0
	}
	box.H = css.SomeDimen(h)
}

func innerDecorationH(box *frame.Box) dimen.Dimen {
	h := dimen.Zero
	for _, d := range []css.DimenT{
		box.Padding[frame.Top], box.Padding[frame.Bottom],
		box.BorderWidth[frame.Top], box.BorderWidth[frame.Bottom],
	} {
		if d.IsAbsolute() {
			h += d.Unwrap()
		}
	}
	return h
}

// markSubtreeMeasured marks every box of a subtree as measured. Used for
// inline subtrees covered by a paragraph and for abandoned subtrees;
// the state machine is strictly forward, no box is ever set back.
func (f *flow) markSubtreeMeasured(i boxtree.BoxIndex) {
	f.arena.Walk(i, func(ci boxtree.BoxIndex) {
		f.arena.Box(ci).State = boxtree.Measured
	})
}
