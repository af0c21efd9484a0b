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

// gridTrack is one resolved row or column slot. Flexible tracks keep
// their share until the distribution step fixes their size.
type gridTrack struct {
	size   dimen.Dimen
	fr     css.Factor
	offset dimen.Dimen
}

// gridArea is the cell span an item occupies, half-open in both axes
// and zero-based (CSS line 1 is cell 0).
type gridArea struct {
	colStart, colEnd int
	rowStart, rowEnd int
}

// gridContents lays out the interior of a grid container: tracks are
// resolved first, items are placed into cells, then each item is laid
// out within its area. An exhausted memory budget while building the
// track or placement arrays voids the container's subtree; the result
// records it for painting to skip.
func (f *flow) gridContents(i boxtree.BoxIndex) {
	n := f.arena.Box(i)
	gs := gridStylesOf(n)
	cw := contentWidthOf(&n.Box)
	ch := n.Box.ContentHeight()
	ids, absolutes := f.flexChildren(i) // float has no effect in a grid either
	cols, rows, areas, err := f.placeGridItems(ids, gs, len(gs.TemplateCols), len(gs.TemplateRows))
	if err != nil {
		tracer().Errorf("grid arrays for %v: %v", n, err)
		f.fail(err)
		f.abandon(i)
		return
	}
	resolveTracks(cols, gs.TemplateCols, cw)
	fixedRowSpace := resolveTracks(rows, gs.TemplateRows, heightOrZero(ch))
	tracer().Debugf("grid container %v: %d columns, %d rows", n, len(cols), len(rows))
	// lay out items at their area's width; auto rows take the tallest item
	for k, ci := range ids {
		a := areas[k]
		w := spanSize(cols, a.colStart, a.colEnd)
		f.layoutGridItem(ci, w, rowSpanSpec(rows, a, ch))
		c := f.arena.Box(ci)
		if h := outerHeight(&c.Box); a.rowEnd == a.rowStart+1 && rows[a.rowStart].size < h && rows[a.rowStart].fr == 0 && !trackIsFixed(gs.TemplateRows, a.rowStart) {
			rows[a.rowStart].size = h
		}
	}
	// implicit and auto rows are content-sized now; a definite container
	// height still feeds its remainder to flexible rows
	if ch.IsAbsolute() {
		distributeFr(rows, ch.Unwrap()-fixedRowSpace)
	}
	trackOffsets(cols)
	trackOffsets(rows)
	for k, ci := range ids {
		a := areas[k]
		c := f.arena.Box(ci)
		c.Box.TopL = dimen.Point{
			X: cols[a.colStart].offset + marginAt(&c.Box, frame.Left),
			Y: rows[a.rowStart].offset + marginAt(&c.Box, frame.Top),
		}
	}
	if !n.Box.H.IsAbsolute() {
		h := dimen.Zero
		if len(rows) > 0 {
			last := rows[len(rows)-1]
			h = last.offset + last.size
		}
		n.Box.FixContentHeight(h)
	}
	for _, a := range absolutes {
		f.layoutAbsolute(a.idx, cw, n.Box.ContentHeight(), a.staticY)
	}
}

func gridStylesOf(n *boxtree.BoxNode) cssom.GridStyles {
	if n.Computed != nil {
		return n.Computed.Grid
	}
	return cssom.GridStyles{
		RowStart: cssom.AutoLine(), RowEnd: cssom.AutoLine(),
		ColStart: cssom.AutoLine(), ColEnd: cssom.AutoLine(),
	}
}

// gridItemPlacement returns the placement request of an item. Anonymous
// items are always auto-placed.
func gridItemPlacement(c *boxtree.BoxNode) (rs, re, cs, ce cssom.GridLine) {
	if c.IsAnonymous() || c.Computed == nil {
		a := cssom.AutoLine()
		return a, a, a, a
	}
	g := c.Computed.Grid
	return g.RowStart, g.RowEnd, g.ColStart, g.ColEnd
}

// placeGridItems assigns a cell area to every item. Items with explicit
// line coordinates are placed directly; items with auto on all four
// coordinates are auto-placed in document order, filling cells row-major
// and wrapping at the template's column count. The dense variant
// additionally backfills earlier open cells. Track and occupancy arrays
// count against the layout memory budget.
func (f *flow) placeGridItems(ids []boxtree.BoxIndex, gs cssom.GridStyles, ncols, nrows int) (cols, rows []gridTrack, areas []gridArea, err error) {
	if ncols == 0 {
		ncols = 1 // a grid without a column template gets one auto column
	}
	areas = make([]gridArea, len(ids))
	occ := newOccupancy(ncols)
	// explicit placements first, so auto-placement sees the taken cells
	for k, ci := range ids {
		rs, re, cs, ce := gridItemPlacement(f.arena.Box(ci))
		if rs.Auto && re.Auto && cs.Auto && ce.Auto {
			areas[k] = gridArea{colStart: -1}
			continue
		}
		a := explicitArea(rs, re, cs, ce, ncols)
		if err = f.claimCells(occ, a); err != nil {
			return nil, nil, nil, err
		}
		occ.take(a)
		areas[k] = a
	}
	cursor := 0 // next cell probed by non-dense auto-placement
	for k := range areas {
		if areas[k].colStart != -1 {
			continue
		}
		at := cursor
		if gs.AutoFlow.IsDense() {
			at = 0 // dense backfills earlier open cells
		}
		cell := occ.nextFree(at)
		a := gridArea{
			colStart: cell % ncols, colEnd: cell%ncols + 1,
			rowStart: cell / ncols, rowEnd: cell/ncols + 1,
		}
		if err = f.claimCells(occ, a); err != nil {
			return nil, nil, nil, err
		}
		occ.take(a)
		areas[k] = a
		if !gs.AutoFlow.IsDense() {
			cursor = cell + 1
		}
	}
	if nrows < occ.rows() {
		nrows = occ.rows()
	}
	if nrows == 0 {
		nrows = 1
	}
	if err = f.claimTracks(ncols + nrows); err != nil {
		return nil, nil, nil, err
	}
	return make([]gridTrack, ncols), make([]gridTrack, nrows), areas, nil
}

// explicitArea converts 1-based line coordinates into a cell area. A
// missing end line spans one cell; a reversed pair is normalized. Lines
// beyond the column template clamp to the template's edge.
func explicitArea(rs, re, cs, ce cssom.GridLine, ncols int) gridArea {
	a := gridArea{}
	a.colStart, a.colEnd = lineSpan(cs, ce, ncols)
	a.rowStart, a.rowEnd = lineSpan(rs, re, 1<<30)
	return a
}

// lineSpan resolves one axis of an explicit placement to a zero-based
// half-open span, clamped to limit columns.
func lineSpan(start, end cssom.GridLine, limit int) (int, int) {
	s, e := 0, 0
	switch {
	case !start.Auto && !end.Auto:
		s, e = int(start.Line)-1, int(end.Line)-1
	case !start.Auto:
		s, e = int(start.Line)-1, int(start.Line)
	case !end.Auto:
		s, e = int(end.Line)-2, int(end.Line)-1
	}
	if s > e {
		s, e = e, s
	}
	if e == s {
		e = s + 1
	}
	if s < 0 {
		s = 0
	}
	if e > limit {
		e = limit
	}
	if e <= s {
		e = s + 1
	}
	return s, e
}

// claimCells charges the occupancy growth of an area against the
// memory budget.
func (f *flow) claimCells(occ *occupancy, a gridArea) error {
	grow := a.rowEnd - occ.rows()
	if grow <= 0 {
		return nil
	}
	return f.alloc.Claim(int64(grow * occ.ncols))
}

// claimTracks charges the track arrays against the memory budget.
func (f *flow) claimTracks(n int) error {
	return f.alloc.Claim(int64(n) * 24)
}

// abandon voids a subtree which layout had to give up on. Painting must
// skip it; its boxes count as measured so the pass never revisits them.
func (f *flow) abandon(i boxtree.BoxIndex) {
	f.res.skipped[i] = true
	f.markSubtreeMeasured(i)
}

// layoutGridItem lays out one item within its area: the item fills the
// area's width, margins yield.
func (f *flow) layoutGridItem(ci boxtree.BoxIndex, w dimen.Dimen, rowH css.DimenT) {
	c := f.arena.Box(ci)
	if c.State == boxtree.Measured {
		return
	}
	c.State = boxtree.Measuring
	box := &c.Box
	box.FixPercentages(w)
	zeroAutoMargins(box)
	if box.W.IsPercent() || box.W.IsCalc() {
		box.W = css.SomeDimen(box.W.Resolve(w))
	}
	if !box.W.IsAbsolute() {
		avail := w - marginAt(box, frame.Left) - marginAt(box, frame.Right)
		if d := box.DecorationWidth(false); d.IsAbsolute() {
			avail -= d.Unwrap()
		}
		if avail < 0 {
			avail = 0
		}
		box.FixContentWidth(avail)
	}
	resolveHeightSpec(box, rowH)
	resolveLimits(box, w, rowH)
	box.W = css.SomeDimen(clamp(box.W.Unwrap(), box.Min.W, box.Max.W))
	f.contents(ci)
	if box.H.IsAbsolute() {
		box.H = css.SomeDimen(clamp(box.H.Unwrap(), box.Min.H, box.Max.H))
	}
	c.State = boxtree.Measured
}

// --- Track resolution ------------------------------------------------------

// resolveTracks fills the track array from a template: fixed and
// percentage tracks resolve first, then the remaining space distributes
// across flexible tracks in proportion to their share. Tracks beyond the
// template (implicit tracks) stay at zero, to be content-sized by the
// caller. The space taken by non-flexible tracks is returned.
func resolveTracks(tracks []gridTrack, template []cssom.TrackSize, avail dimen.Dimen) dimen.Dimen {
	fixed := dimen.Zero
	for k := range tracks {
		if k >= len(template) {
			break
		}
		t := template[k]
		if t.IsFr() {
			tracks[k].fr = t.Fr
			continue
		}
		switch {
		case t.D.IsAbsolute():
			tracks[k].size = t.D.Unwrap()
		case t.D.IsPercent() || t.D.IsCalc():
			tracks[k].size = t.D.Resolve(avail)
		}
		fixed += tracks[k].size
	}
	distributeFr(tracks, avail-fixed)
	return fixed
}

// distributeFr hands a remainder to the flexible tracks, proportional to
// their share. Flexible tracks collapse to zero without a positive
// remainder.
func distributeFr(tracks []gridTrack, remainder dimen.Dimen) {
	var frSum int64
	for k := range tracks {
		frSum += int64(tracks[k].fr)
	}
	if frSum == 0 {
		return
	}
	if remainder < 0 {
		remainder = 0
	}
	for k := range tracks {
		if tracks[k].fr > 0 {
			tracks[k].size = dimen.Dimen(int64(remainder) * int64(tracks[k].fr) / frSum)
		}
	}
}

// trackOffsets accumulates track sizes into start offsets.
func trackOffsets(tracks []gridTrack) {
	off := dimen.Zero
	for k := range tracks {
		tracks[k].offset = off
		off += tracks[k].size
	}
}

// spanSize sums the sizes of a half-open track span.
func spanSize(tracks []gridTrack, start, end int) dimen.Dimen {
	s := dimen.Zero
	for k := start; k < end && k < len(tracks); k++ {
		s += tracks[k].size
	}
	return s
}

// rowSpanSpec is the height specification an item's percentage height
// resolves against: definite only when the container height is and the
// item's rows are all template-fixed.
func rowSpanSpec(rows []gridTrack, a gridArea, ch css.DimenT) css.DimenT {
	if !ch.IsAbsolute() {
		return css.Dimen()
	}
	return css.SomeDimen(spanSize(rows, a.rowStart, a.rowEnd))
}

func trackIsFixed(template []cssom.TrackSize, k int) bool {
	return k < len(template) && !template[k].IsFr() && template[k].D.IsAbsolute()
}

func heightOrZero(h css.DimenT) dimen.Dimen {
	if h.IsAbsolute() {
		return h.Unwrap()
	}
	return 0
}

// --- Cell occupancy --------------------------------------------------------

// occupancy tracks taken cells of a grid, row-major. Rows grow on
// demand; the column count is fixed by the template.
type occupancy struct {
	ncols int
	cells []bool
}

func newOccupancy(ncols int) *occupancy {
	return &occupancy{ncols: ncols}
}

func (o *occupancy) rows() int {
	return len(o.cells) / o.ncols
}

// grow extends the cell array to cover rows up to and including row.
func (o *occupancy) grow(row int) {
	for o.rows() <= row {
		o.cells = append(o.cells, make([]bool, o.ncols)...)
	}
}

// take marks the cells of an area as occupied.
func (o *occupancy) take(a gridArea) {
	o.grow(a.rowEnd - 1)
	for r := a.rowStart; r < a.rowEnd; r++ {
		for c := a.colStart; c < a.colEnd && c < o.ncols; c++ {
			o.cells[r*o.ncols+c] = true
		}
	}
}

// nextFree finds the first open cell at or after position from,
// row-major. Cells beyond the current occupancy are open.
func (o *occupancy) nextFree(from int) int {
	for k := from; k < len(o.cells); k++ {
		if !o.cells[k] {
			return k
		}
	}
	if from > len(o.cells) {
		return from
	}
	return len(o.cells)
}
