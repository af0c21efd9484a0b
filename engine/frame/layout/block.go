package layout

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/dom/style/css"
	"github.com/npillmayer/weft/engine/frame"
	"github.com/npillmayer/weft/engine/frame/boxtree"
	"github.com/npillmayer/weft/engine/frame/inline"
)

// blockContents lays out the interior of a block container. Box
// generation guarantees that a block container holds either block-level
// children or a single inline formatting context, never a mix.
func (f *flow) blockContents(i boxtree.BoxIndex) {
	if hasInlineContent(f.arena, i) {
		f.paragraphContents(i)
		return
	}
	f.stackBlocks(i)
}

// hasInlineContent reports whether a block container establishes an
// inline formatting context for its children.
func hasInlineContent(arena *boxtree.Arena, i boxtree.BoxIndex) bool {
	for _, ci := range arena.Children(i) {
		c := arena.Box(ci)
		if c.OutOfFlow() {
			continue
		}
		return c.InlineLevel()
	}
	return false
}

// absChild is an absolutely positioned child, remembered together with
// the flow position it would have occupied. Laid out after normal flow,
// when the containing height is settled.
type absChild struct {
	idx     boxtree.BoxIndex
	staticY dimen.Dimen
}

// stackBlocks stacks the block-level children of a container top-down.
// Vertical margins between adjoining in-flow siblings collapse. Floats
// pack against the content box edges; absolutely positioned children are
// deferred until the content height is known. An auto height of the
// container is set to the accumulated height.
func (f *flow) stackBlocks(i boxtree.BoxIndex) {
	n := f.arena.Box(i)
	cw := contentWidthOf(&n.Box)
	cbH := n.Box.ContentHeight()
	floats := NewFloatList(cw)
	var absolutes []absChild
	y := dimen.Zero
	var prev *frame.Box
	for _, ci := range f.arena.Children(i) {
		c := f.arena.Box(ci)
		if c.OutOfFlow() {
			if c.Float() != cssom.FloatNone {
				f.layoutFloat(ci, floats, y)
			} else {
				absolutes = append(absolutes, absChild{idx: ci, staticY: y})
			}
			continue
		}
		f.layoutBox(ci, cw, cbH)
		gap := marginAt(&c.Box, frame.Top)
		if prev != nil {
			gap = collapsedGap(prev, &c.Box)
		}
		y += gap
		f.place(c, marginAt(&c.Box, frame.Left), y, cw, cbH)
		y += borderBoxHeight(&c.Box)
		prev = &c.Box
	}
	if prev != nil {
		y += marginAt(prev, frame.Bottom)
	}
	y = dimen.Max(y, floats.Bottom()) // the container holds on to its floats
	if !n.Box.H.IsAbsolute() {
		n.Box.FixContentHeight(y)
	}
	for _, a := range absolutes {
		f.layoutAbsolute(a.idx, cw, n.Box.ContentHeight(), a.staticY)
	}
}

// collapsedGap returns the vertical gap between two adjoining in-flow
// siblings with their margins collapsed: a non-negative pair takes the
// larger margin, a negative pair the more negative one, a mixed pair
// sums.
func collapsedGap(above, below *frame.Box) dimen.Dimen {
	maxm, minm := frame.CollapseMargins(above, below)
	if !maxm.IsAbsolute() || !minm.IsAbsolute() {
		return marginAt(below, frame.Top)
	}
	hi, lo := maxm.Unwrap(), minm.Unwrap()
	switch {
	case lo >= 0:
		return hi
	case hi <= 0:
		return lo
	}
	return hi + lo
}

// place positions a child's border box relative to the parent's content
// box origin. Relative positioning shifts the box visually without
// influencing the flow.
func (f *flow) place(c *boxtree.BoxNode, x, y dimen.Dimen, cw dimen.Dimen, cbH css.DimenT) {
	if c.Computed != nil && c.Computed.Flow.Position.IsRelative() {
		off := c.Computed.Flow.Position.Offsets
		x += relativeShift(off[css.Left], off[css.Right], css.SomeDimen(cw))
		y += relativeShift(off[css.Top], off[css.Bottom], cbH)
	}
	c.Box.TopL = dimen.Point{X: x, Y: y}
}

// relativeShift resolves one axis of a relative position: the leading
// offset pushes forward, the trailing one pulls back. Percentages against
// an indefinite base are ignored.
func relativeShift(lead, trail css.DimenT, base css.DimenT) dimen.Dimen {
	if v, ok := resolveOffset(lead, base); ok {
		return v
	}
	if v, ok := resolveOffset(trail, base); ok {
		return -v
	}
	return 0
}

func resolveOffset(d css.DimenT, base css.DimenT) (dimen.Dimen, bool) {
	switch {
	case d.IsAbsolute():
		return d.Unwrap(), true
	case d.IsPercent() || d.IsCalc():
		if base.IsAbsolute() {
			return d.Resolve(base.Unwrap()), true
		}
	}
	return 0, false
}

// --- Inline formatting contexts --------------------------------------------

// paragraphContents lays out a block container holding an inline
// formatting context. Floated descendants are laid out first and pack
// against the content box edges; the remaining inline content becomes a
// paragraph, broken into lines which flow around the floats. The sum of
// the line heights is the content height.
func (f *flow) paragraphContents(i boxtree.BoxIndex) {
	n := f.arena.Box(i)
	cw := contentWidthOf(&n.Box)
	floats := NewFloatList(cw)
	var absolutes []absChild
	f.prepareInline(i, floats, &absolutes)
	para, err := inline.ParagraphFromBox(f.arena, i)
	if err != nil {
		f.fail(err)
	}
	lines, err := inline.BreakIntoLines(para, floats.Shape(lineSkip(n.Computed)), f.measure, f.fonts)
	if err != nil {
		f.fail(err)
	}
	h := dimen.Zero
	for _, l := range lines {
		h += l.Height
	}
	if len(lines) > 0 {
		f.res.paras[i] = para
		f.res.lines[i] = lines
		tracer().Debugf("paragraph %v breaks into %d lines, height %v", n, len(lines), h)
	}
	h = dimen.Max(h, floats.Bottom()) // the paragraph holds on to its floats
	if !n.Box.H.IsAbsolute() {
		n.Box.FixContentHeight(h)
	}
	f.markInlineMeasured(i)
	for _, a := range absolutes {
		f.layoutAbsolute(a.idx, cw, n.Box.ContentHeight(), a.staticY)
	}
}

// prepareInline walks an inline subtree ahead of paragraph building and
// lays out everything the paragraph will not cover: floats, absolutely
// positioned boxes and atomic replaced elements.
func (f *flow) prepareInline(i boxtree.BoxIndex, floats *FloatList, absolutes *[]absChild) {
	for _, ci := range f.arena.Children(i) {
		c := f.arena.Box(ci)
		switch {
		case c.Float() != cssom.FloatNone:
			f.layoutFloat(ci, floats, 0)
		case c.OutOfFlow():
			*absolutes = append(*absolutes, absChild{idx: ci})
		case c.Kind == boxtree.KindReplaced:
			f.layoutBox(ci, floats.Width(), css.Dimen())
		case c.Kind == boxtree.KindInline:
			f.prepareInline(ci, floats, absolutes)
		case c.Kind != boxtree.KindText:
			// block-level content nested in an inline box; the paragraph
			// skips it, but its subtree still has to be measured
			f.layoutBox(ci, floats.Width(), css.Dimen())
		}
	}
}

// markInlineMeasured marks the text and inline boxes covered by a
// finished paragraph as measured.
func (f *flow) markInlineMeasured(i boxtree.BoxIndex) {
	for _, ci := range f.arena.Children(i) {
		c := f.arena.Box(ci)
		if c.OutOfFlow() {
			continue
		}
		if c.Kind == boxtree.KindInline || c.Kind == boxtree.KindText {
			c.State = boxtree.Measured
			f.markInlineMeasured(ci)
		}
	}
}

// lineSkip estimates the distance between line tops, used for the float
// band model of paragraph shapes.
func lineSkip(styles *cssom.Style) dimen.Dimen {
	if styles != nil {
		if lh := styles.Text.LineHeight; lh.IsAbsolute() && lh.Unwrap() > 0 {
			return lh.Unwrap()
		}
		if fs := styles.Text.FontSize; fs.IsAbsolute() && fs.Unwrap() > 0 {
			return fs.Unwrap() * 6 / 5
		}
	}
	return fallbackEm * 6 / 5
}

// --- Out-of-flow boxes -----------------------------------------------------

// layoutFloat lays out a floated box and packs it against the left or
// right edge of the hosting content box, no higher than y. A float with
// auto width shrinks to fit its content.
func (f *flow) layoutFloat(i boxtree.BoxIndex, floats *FloatList, y dimen.Dimen) {
	n := f.arena.Box(i)
	if n.State == boxtree.Measured {
		return
	}
	n.State = boxtree.Measuring
	cw := floats.Width()
	box := &n.Box
	box.FixPercentages(cw)
	zeroAutoMargins(box)
	if box.W.IsPercent() || box.W.IsCalc() {
		box.W = css.SomeDimen(box.W.Resolve(cw))
	}
	if !box.W.IsAbsolute() {
		box.FixContentWidth(dimen.Min(f.maxContentWidth(i), cw))
	}
	resolveHeightSpec(box, css.Dimen())
	resolveLimits(box, cw, css.Dimen())
	box.W = css.SomeDimen(clamp(box.W.Unwrap(), box.Min.W, box.Max.W))
	f.contents(i)
	if box.H.IsAbsolute() {
		box.H = css.SomeDimen(clamp(box.H.Unwrap(), box.Min.H, box.Max.H))
	}
	n.State = boxtree.Measured
	w := borderBoxWidth(box) + marginAt(box, frame.Left) + marginAt(box, frame.Right)
	h := borderBoxHeight(box) + marginAt(box, frame.Top) + marginAt(box, frame.Bottom)
	r := floats.Place(i, n.Float(), w, h, y)
	box.TopL = dimen.Point{
		X: r.X + marginAt(box, frame.Left),
		Y: r.Y + marginAt(box, frame.Top),
	}
}

// layoutAbsolute lays out an absolutely or fixed positioned box against
// its containing block. The box tree builder has re-anchored such boxes
// at the box establishing their containing block, so the parent's content
// box is the right frame of reference. Auto widths shrink to fit. Without
// explicit offsets the box keeps the static position it would have
// occupied in flow.
func (f *flow) layoutAbsolute(i boxtree.BoxIndex, cw dimen.Dimen, cbH css.DimenT, staticY dimen.Dimen) {
	n := f.arena.Box(i)
	if n.State == boxtree.Measured {
		return
	}
	n.State = boxtree.Measuring
	box := &n.Box
	box.FixPercentages(cw)
	zeroAutoMargins(box)
	if box.W.IsPercent() || box.W.IsCalc() {
		box.W = css.SomeDimen(box.W.Resolve(cw))
	}
	if !box.W.IsAbsolute() {
		box.FixContentWidth(dimen.Min(f.maxContentWidth(i), cw))
	}
	resolveHeightSpec(box, cbH)
	resolveLimits(box, cw, cbH)
	box.W = css.SomeDimen(clamp(box.W.Unwrap(), box.Min.W, box.Max.W))
	f.contents(i)
	if box.H.IsAbsolute() {
		box.H = css.SomeDimen(clamp(box.H.Unwrap(), box.Min.H, box.Max.H))
	}
	n.State = boxtree.Measured
	totalW := borderBoxWidth(box) + marginAt(box, frame.Left) + marginAt(box, frame.Right)
	totalH := borderBoxHeight(box) + marginAt(box, frame.Top) + marginAt(box, frame.Bottom)
	var off [4]css.DimenT
	if n.Computed != nil {
		off = n.Computed.Flow.Position.Offsets
	}
	x := dimen.Zero
	if v, ok := resolveOffset(off[css.Left], css.SomeDimen(cw)); ok {
		x = v
	} else if v, ok := resolveOffset(off[css.Right], css.SomeDimen(cw)); ok {
		x = cw - v - totalW
	}
	y := staticY
	if v, ok := resolveOffset(off[css.Top], cbH); ok {
		y = v
	} else if v, ok := resolveOffset(off[css.Bottom], cbH); ok && cbH.IsAbsolute() {
		y = cbH.Unwrap() - v - totalH
	}
	box.TopL = dimen.Point{
		X: x + marginAt(box, frame.Left),
		Y: y + marginAt(box, frame.Top),
	}
	tracer().Debugf("positioned box %v placed at %v", n, box.TopL)
}

// maxContentWidth measures the widest unbroken rendering of a box's
// content, the shrink-to-fit upper bound for floats, positioned boxes
// and deferred row-flex base sizes.
func (f *flow) maxContentWidth(i boxtree.BoxIndex) dimen.Dimen {
	n := f.arena.Box(i)
	if n.Box.W.IsAbsolute() {
		return borderBoxWidth(&n.Box)
	}
	if n.Kind == boxtree.KindReplaced {
		return 300 * dimen.PX
	}
	if n.Kind == boxtree.KindText {
		return f.measure.Width(n.Text, f.fonts(frame.StyleSet{Props: n.Computed}))
	}
	if hasInlineContent(f.arena, i) {
		para, err := inline.ParagraphFromBox(f.arena, i)
		if err != nil || para.Len() == 0 {
			return 0
		}
		raw := para.Raw()
		w := dimen.Zero
		for _, run := range para.StyleRuns() {
			w += f.measure.Width(raw[run.From:run.To], f.fonts(run.Style))
		}
		return w
	}
	w := dimen.Zero
	for _, ci := range f.arena.Children(i) {
		c := f.arena.Box(ci)
		if c.OutOfFlow() {
			continue
		}
		w = dimen.Max(w, f.maxContentWidth(ci))
	}
	return w
}
