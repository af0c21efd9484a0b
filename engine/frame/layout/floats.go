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
	"github.com/npillmayer/weft/engine/frame/boxtree"
	"github.com/npillmayer/weft/engine/frame/inline"
)

// A FloatList collects the floated boxes of one block container. Floats
// pack against the left or right edge of the hosting content box; when a
// vertical band is full, placement drops below the lowest float in the
// way. Coordinates are margin box positions relative to the hosting
// content box origin.
//
// Layout runs on a single content thread, so the list is unsynchronized.
type FloatList struct {
	width  dimen.Dimen
	floats []placedFloat
}

type placedFloat struct {
	idx  boxtree.BoxIndex
	rect inline.FloatRect
}

// NewFloatList creates an empty float list for a content box of the given
// width.
func NewFloatList(width dimen.Dimen) *FloatList {
	return &FloatList{width: width}
}

// Width returns the width of the hosting content box.
func (l *FloatList) Width() dimen.Dimen {
	return l.width
}

// Len returns the number of placed floats.
func (l *FloatList) Len() int {
	return len(l.floats)
}

// Place finds a position for a float's margin box of size w × h, no
// higher than y, and records the float. The chosen rectangle is returned.
func (l *FloatList) Place(idx boxtree.BoxIndex, side cssom.FloatMode, w, h, y dimen.Dimen) inline.FloatRect {
	x, y := l.position(side, w, h, y)
	r := inline.FloatRect{X: x, Y: y, W: w, H: h, Side: side}
	l.floats = append(l.floats, placedFloat{idx: idx, rect: r})
	tracer().Debugf("float placed at (%v,%v), %v x %v", x, y, w, h)
	return r
}

func (l *FloatList) position(side cssom.FloatMode, w, h, y dimen.Dimen) (dimen.Dimen, dimen.Dimen) {
	for {
		left, right := l.slot(y, y+h)
		if side == cssom.FloatRight {
			if x := right - w; x >= left {
				return x, y
			}
		} else if left+w <= right {
			return left, y
		}
		ny, ok := l.nextEdge(y)
		if !ok {
			// wider than any band will ever be, overflow at the edge
			if side == cssom.FloatRight {
				return dimen.Max(left, right-w), y
			}
			return left, y
		}
		y = ny
	}
}

// slot returns the free horizontal interval between floats within the
// vertical band [top,bot).
func (l *FloatList) slot(top, bot dimen.Dimen) (left, right dimen.Dimen) {
	left, right = 0, l.width
	for _, f := range l.floats {
		r := f.rect
		if r.Y >= bot || r.Y+r.H <= top {
			continue
		}
		if r.Side == cssom.FloatRight {
			right = dimen.Min(right, r.X)
		} else {
			left = dimen.Max(left, r.X+r.W)
		}
	}
	if right < left {
		right = left
	}
	return left, right
}

// nextEdge returns the lowest float bottom edge below y.
func (l *FloatList) nextEdge(y dimen.Dimen) (dimen.Dimen, bool) {
	var best dimen.Dimen
	ok := false
	for _, f := range l.floats {
		if b := f.rect.Y + f.rect.H; b > y && (!ok || b < best) {
			best, ok = b, true
		}
	}
	return best, ok
}

// Bottom returns the lowest bottom edge of all floats, zero for an empty
// list.
func (l *FloatList) Bottom() dimen.Dimen {
	var bot dimen.Dimen
	for _, f := range l.floats {
		bot = dimen.Max(bot, f.rect.Y+f.rect.H)
	}
	return bot
}

// Rects returns the placed float rectangles in placement order.
func (l *FloatList) Rects() []inline.FloatRect {
	rects := make([]inline.FloatRect, len(l.floats))
	for i, f := range l.floats {
		rects[i] = f.rect
	}
	return rects
}

// Shape returns the paragraph shape induced by the floats: a plain
// rectangle while the list is empty.
func (l *FloatList) Shape(lineskip dimen.Dimen) inline.Parshape {
	if len(l.floats) == 0 {
		return inline.Rectangle(l.width)
	}
	return inline.ShapeAroundFloats(l.width, lineskip, l.Rects())
}
