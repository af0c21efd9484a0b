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
)

// flexItem carries the per-item quantities of the flex algorithm. Sizes
// along the main axis are border box sizes.
type flexItem struct {
	idx    boxtree.BoxIndex
	grow   css.Factor
	shrink css.Factor
	align  cssom.Align // align-self; AlignAuto defers to the container
	base   dimen.Dimen // flex base size
	target dimen.Dimen // main size after distribution and clamping
	lead   dimen.Dimen // leading main-axis margin
	trail  dimen.Dimen // trailing main-axis margin
	minM   css.DimenT  // main-axis minimum
	maxM   css.DimenT  // main-axis maximum
}

func (it *flexItem) outerBase() dimen.Dimen {
	return it.lead + it.base + it.trail
}

func (it *flexItem) outerTarget() dimen.Dimen {
	return it.lead + it.target + it.trail
}

// flexContents lays out the interior of a flex container.
func (f *flow) flexContents(i boxtree.BoxIndex) {
	n := f.arena.Box(i)
	fs := flexStylesOf(n)
	cw := contentWidthOf(&n.Box)
	tracer().Debugf("flex container %v, direction %v", n, fs.Direction)
	if fs.Direction.IsColumn() {
		f.columnFlex(i, cw, fs)
	} else {
		f.rowFlex(i, cw, fs)
	}
}

func flexStylesOf(n *boxtree.BoxNode) cssom.FlexStyles {
	if n.Computed != nil {
		return n.Computed.Flex
	}
	return cssom.FlexStyles{Shrink: css.FactorBase, Basis: css.Auto()}
}

// flexItemStyles returns the flex properties of an item. Anonymous items
// carry the defaults, not the styles borrowed from their container.
func flexItemStyles(c *boxtree.BoxNode) cssom.FlexStyles {
	if c.IsAnonymous() || c.Computed == nil {
		return cssom.FlexStyles{Shrink: css.FactorBase, Basis: css.Auto()}
	}
	return c.Computed.Flex
}

// flexChildren partitions the children of a flex container into items and
// out-of-flow boxes. Float has no effect on children of a flex container;
// only positioned boxes leave the flow.
func (f *flow) flexChildren(i boxtree.BoxIndex) (items []boxtree.BoxIndex, absolutes []absChild) {
	for _, ci := range f.arena.Children(i) {
		c := f.arena.Box(ci)
		if c.Computed != nil && c.Computed.Flow.Position.IsOutOfFlow() {
			absolutes = append(absolutes, absChild{idx: ci})
			continue
		}
		items = append(items, ci)
	}
	return items, absolutes
}

// --- Row containers --------------------------------------------------------

// rowFlex lays out a row container: base sizes are known before the items
// lay out, targets are distributed per line, then every item completes
// its interior at its target width.
func (f *flow) rowFlex(i boxtree.BoxIndex, cw dimen.Dimen, fs cssom.FlexStyles) {
	n := f.arena.Box(i)
	ids, absolutes := f.flexChildren(i)
	items := f.rowItems(ids, cw)
	ch := n.Box.ContentHeight()
	y := dimen.Zero
	if len(items) > 0 {
		lines := flexLines(items, cw, fs.Wrap)
		for _, line := range lines {
			distribute(line, cw)
			lineCross := dimen.Zero
			for _, it := range line {
				f.finishRowItem(it, ch)
				lineCross = dimen.Max(lineCross, outerHeight(&f.arena.Box(it.idx).Box))
			}
			if len(lines) == 1 && ch.IsAbsolute() {
				lineCross = ch.Unwrap() // a single line fills a definite container
			}
			if ch.IsAbsolute() {
				// cross-axis stretch needs a definite container cross size
				for _, it := range line {
					f.stretchRowItem(it, fs, lineCross)
				}
			}
			f.placeRowLine(line, cw, y, lineCross, fs)
			y += lineCross
		}
	}
	if !n.Box.H.IsAbsolute() {
		n.Box.FixContentHeight(y)
	}
	for _, a := range absolutes {
		f.layoutAbsolute(a.idx, cw, n.Box.ContentHeight(), a.staticY)
	}
}

// rowItems builds the flex items of a row container. The base size is the
// resolved flex basis where one is given; a basis of auto or zero defers
// to the content, which for a row is the item's pre-layout measured
// width.
func (f *flow) rowItems(ids []boxtree.BoxIndex, cw dimen.Dimen) []*flexItem {
	items := make([]*flexItem, 0, len(ids))
	for _, ci := range ids {
		c := f.arena.Box(ci)
		box := &c.Box
		box.FixPercentages(cw)
		zeroAutoMargins(box)
		st := flexItemStyles(c)
		it := &flexItem{
			idx:    ci,
			grow:   st.Grow,
			shrink: st.Shrink,
			align:  st.AlignSelf,
			lead:   marginAt(box, frame.Left),
			trail:  marginAt(box, frame.Right),
			minM:   resolveLimit(box.Min.W, css.SomeDimen(cw)),
			maxM:   resolveLimit(box.Max.W, css.SomeDimen(cw)),
		}
		decor := dimen.Zero
		if d := box.DecorationWidth(false); d.IsAbsolute() {
			decor = d.Unwrap()
		}
		if base, ok := explicitBasis(st.Basis, css.SomeDimen(cw), decor, box.BorderBoxSizing); ok {
			it.base = base
		} else {
			it.base = f.preMeasuredWidth(ci, cw) + decor
		}
		items = append(items, it)
	}
	return items
}

// preMeasuredWidth is the content width a row item would take before any
// distribution: an explicit width when styled, the content measurement
// otherwise.
func (f *flow) preMeasuredWidth(ci boxtree.BoxIndex, cw dimen.Dimen) dimen.Dimen {
	c := f.arena.Box(ci)
	box := &c.Box
	if box.W.IsPercent() || box.W.IsCalc() {
		box.W = css.SomeDimen(box.W.Resolve(cw))
	}
	if box.W.IsAbsolute() {
		return contentWidthOf(box)
	}
	return dimen.Min(f.maxContentWidth(ci), cw)
}

// finishRowItem fixes the item's main size to the distribution target and
// lays out its interior.
func (f *flow) finishRowItem(it *flexItem, ch css.DimenT) {
	c := f.arena.Box(it.idx)
	if c.State == boxtree.Measured {
		return
	}
	c.State = boxtree.Measuring
	box := &c.Box
	box.FixBorderBoxWidth(it.target)
	resolveHeightSpec(box, ch)
	box.Min.H = resolveLimit(box.Min.H, ch)
	box.Max.H = resolveLimit(box.Max.H, ch)
	f.contents(it.idx)
	if box.H.IsAbsolute() {
		box.H = css.SomeDimen(clamp(box.H.Unwrap(), box.Min.H, box.Max.H))
	}
	c.State = boxtree.Measured
}

// stretchRowItem stretches an auto-height item to the line's cross size.
// A column flex container sizes its height on its own main axis and is
// never force-set from an ancestor's stretch.
func (f *flow) stretchRowItem(it *flexItem, fs cssom.FlexStyles, lineCross dimen.Dimen) {
	align := it.align
	if align == cssom.AlignAuto {
		align = fs.AlignItems
	}
	if align != cssom.AlignStretch {
		return
	}
	c := f.arena.Box(it.idx)
	if c.Kind == boxtree.KindFlex && flexStylesOf(c).Direction.IsColumn() {
		return
	}
	if !c.IsAnonymous() && c.Computed != nil {
		if h := c.Computed.Dimens.H; !h.IsAuto() && !h.IsNone() {
			return // explicitly sized items keep their height
		}
	}
	box := &c.Box
	h := lineCross - marginAt(box, frame.Top) - marginAt(box, frame.Bottom)
	if h < 0 {
		h = 0
	}
	setBorderBoxHeight(box, h)
}

// placeRowLine positions the items of one line: main-axis offsets follow
// justify-content, cross-axis offsets the item alignment.
func (f *flow) placeRowLine(line []*flexItem, mainAvail, lineY, lineCross dimen.Dimen, fs cssom.FlexStyles) {
	used := dimen.Zero
	for _, it := range line {
		used += it.outerTarget()
	}
	offset, gap := justify(fs.Justify, mainAvail-used, len(line))
	x := offset
	for k := range line {
		it := line[k]
		if fs.Direction.IsReverse() {
			it = line[len(line)-1-k]
		}
		box := &f.arena.Box(it.idx).Box
		cross := crossOffset(f.alignOf(it, fs), lineCross, outerHeight(box))
		box.TopL = dimen.Point{
			X: x + it.lead,
			Y: lineY + cross + marginAt(box, frame.Top),
		}
		x += it.outerTarget() + gap
	}
}

// --- Column containers -----------------------------------------------------

// columnFlex lays out a column container. Every item completes its own
// layout pass first: a deferred basis must be the post-layout content
// height, a pre-layout height has not yet accounted for the item's own
// content.
func (f *flow) columnFlex(i boxtree.BoxIndex, cw dimen.Dimen, fs cssom.FlexStyles) {
	n := f.arena.Box(i)
	ids, absolutes := f.flexChildren(i)
	ch := n.Box.ContentHeight()
	items := make([]*flexItem, 0, len(ids))
	for _, ci := range ids {
		f.layoutBox(ci, cw, ch)
		c := f.arena.Box(ci)
		box := &c.Box
		st := flexItemStyles(c)
		it := &flexItem{
			idx:    ci,
			grow:   st.Grow,
			shrink: st.Shrink,
			align:  st.AlignSelf,
			lead:   marginAt(box, frame.Top),
			trail:  marginAt(box, frame.Bottom),
			minM:   resolveLimit(box.Min.H, ch),
			maxM:   resolveLimit(box.Max.H, ch),
		}
		if base, ok := explicitBasis(st.Basis, ch, innerDecorationH(box), box.BorderBoxSizing); ok {
			it.base = base
		} else {
			it.base = borderBoxHeight(box)
		}
		items = append(items, it)
	}
	// an indefinite main size substitutes the sum of the base sizes,
	// never an unbounded sentinel
	mainAvail := dimen.Zero
	if ch.IsAbsolute() {
		mainAvail = ch.Unwrap()
	} else {
		for _, it := range items {
			mainAvail += it.outerBase()
		}
	}
	contentH := mainAvail
	if len(items) > 0 {
		lines := flexLines(items, mainAvail, fs.Wrap)
		x := dimen.Zero
		deepest := dimen.Zero
		for _, line := range lines {
			distribute(line, mainAvail)
			lineCross := dimen.Zero
			depth := dimen.Zero
			for _, it := range line {
				box := &f.arena.Box(it.idx).Box
				if it.target != borderBoxHeight(box) {
					setBorderBoxHeight(box, it.target)
				}
				lineCross = dimen.Max(lineCross, outerWidth(box))
				depth += it.outerTarget()
			}
			if len(lines) == 1 {
				lineCross = cw // a single column spans the container
			}
			f.placeColumnLine(line, mainAvail, x, lineCross, fs)
			x += lineCross
			deepest = dimen.Max(deepest, depth)
		}
		if !ch.IsAbsolute() {
			contentH = deepest
		}
	}
	if !n.Box.H.IsAbsolute() {
		n.Box.FixContentHeight(contentH)
	}
	for _, a := range absolutes {
		f.layoutAbsolute(a.idx, cw, n.Box.ContentHeight(), a.staticY)
	}
}

// placeColumnLine positions the items of one column: main-axis offsets
// run downwards following justify-content, cross-axis offsets the item
// alignment within the column's width.
func (f *flow) placeColumnLine(line []*flexItem, mainAvail, lineX, lineCross dimen.Dimen, fs cssom.FlexStyles) {
	used := dimen.Zero
	for _, it := range line {
		used += it.outerTarget()
	}
	offset, gap := justify(fs.Justify, mainAvail-used, len(line))
	y := offset
	for k := range line {
		it := line[k]
		if fs.Direction.IsReverse() {
			it = line[len(line)-1-k]
		}
		box := &f.arena.Box(it.idx).Box
		cross := crossOffset(f.alignOf(it, fs), lineCross, outerWidth(box))
		box.TopL = dimen.Point{
			X: lineX + cross + marginAt(box, frame.Left),
			Y: y + it.lead,
		}
		y += it.outerTarget() + gap
	}
}

// --- The distribution pass -------------------------------------------------

// flexLines partitions items into flex lines: a single line while the
// container does not wrap, greedy filling otherwise.
func flexLines(items []*flexItem, mainAvail dimen.Dimen, wrap cssom.FlexWrap) [][]*flexItem {
	if wrap == cssom.NoWrap {
		return [][]*flexItem{items}
	}
	var lines [][]*flexItem
	var line []*flexItem
	used := dimen.Zero
	for _, it := range items {
		if len(line) > 0 && used+it.outerBase() > mainAvail {
			lines = append(lines, line)
			line, used = nil, 0
		}
		line = append(line, it)
		used += it.outerBase()
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

// distribute resolves the main sizes of one flex line in a single pass: a
// positive remainder divides by growth factor, a negative remainder by
// shrink factor weighted by base size. Each result is clamped by the max
// constraint first, then min, so that a contradictory pair resolves in
// favor of the minimum.
func distribute(line []*flexItem, mainAvail dimen.Dimen) {
	used := dimen.Zero
	var growSum int64
	var scaledSum float64
	for _, it := range line {
		used += it.outerBase()
		growSum += int64(it.grow)
		scaledSum += float64(it.shrink) * float64(it.base)
	}
	remainder := mainAvail - used
	for _, it := range line {
		target := it.base
		switch {
		case remainder > 0 && growSum > 0:
			target += dimen.Dimen(int64(remainder) * int64(it.grow) / growSum)
		case remainder < 0 && scaledSum > 0:
			scaled := float64(it.shrink) * float64(it.base)
			target += dimen.Dimen(float64(remainder) * scaled / scaledSum)
		}
		target = clamp(target, it.minM, it.maxM)
		if target < 0 {
			target = 0
		}
		it.target = target
	}
}

// explicitBasis resolves a flex basis against the main-axis space. A
// basis of auto, or one resolving to zero, defers to the content. The
// returned size is a border box size.
func explicitBasis(basis css.DimenT, main css.DimenT, decor dimen.Dimen, borderSizing bool) (dimen.Dimen, bool) {
	var v dimen.Dimen
	switch {
	case basis.IsAbsolute():
		v = basis.Unwrap()
	case basis.IsPercent() || basis.IsCalc():
		if !main.IsAbsolute() {
			return 0, false
		}
		v = basis.Resolve(main.Unwrap())
	default:
		return 0, false
	}
	if v <= 0 {
		return 0, false
	}
	if !borderSizing {
		v += decor
	}
	return v, true
}

// justify converts leftover main-axis space into an initial offset and an
// inter-item gap. Negative leftover packs at the start.
func justify(j cssom.Justify, leftover dimen.Dimen, count int) (offset, gap dimen.Dimen) {
	if leftover <= 0 || count == 0 {
		return 0, 0
	}
	switch j {
	case cssom.JustifyEnd:
		return leftover, 0
	case cssom.JustifyCenter:
		return leftover / 2, 0
	case cssom.JustifySpaceBetween:
		if count > 1 {
			return 0, leftover / dimen.Dimen(count-1)
		}
	case cssom.JustifySpaceAround:
		gap = leftover / dimen.Dimen(count)
		return gap / 2, gap
	case cssom.JustifySpaceEvenly:
		gap = leftover / dimen.Dimen(count+1)
		return gap, gap
	}
	return 0, 0
}

// alignOf resolves the effective alignment of an item.
func (f *flow) alignOf(it *flexItem, fs cssom.FlexStyles) cssom.Align {
	if it.align != cssom.AlignAuto {
		return it.align
	}
	return fs.AlignItems
}

// crossOffset positions an item within the cross extent of its line.
// Baseline alignment is approximated by start alignment.
func crossOffset(align cssom.Align, lineCross, outer dimen.Dimen) dimen.Dimen {
	switch align {
	case cssom.AlignEnd:
		return lineCross - outer
	case cssom.AlignCenter:
		return (lineCross - outer) / 2
	}
	return 0
}
