package frame

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"

	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/core/percent"
	"github.com/npillmayer/weft/engine/dom/style/css"
)

// Rect is a rectangle, given by its top left corner and a size.
type Rect struct {
	TopL dimen.Point
	Size
}

// Size is a pair of optional dimensions.
type Size struct {
	W css.DimenT
	H css.DimenT
}

// Box type, following the CSS box model.
type Box struct {
	Rect            // either content box or border box, depending on box-sizing
	Min             Size
	Max             Size
	BorderBoxSizing bool          // box-sizing = border-box ?
	Padding         [4]css.DimenT // inside of border
	BorderWidth     [4]css.DimenT // thickness of border
	Margins         [4]css.DimenT // outside of border, maybe unknown
}

// For padding, margins, etc. 4-way values always start at the top and travel
// clockwise.
const (
	Top int = iota
	Right
	Bottom
	Left
)

// --- Handling of box dimensions --------------------------------------------

// DebugString returns a textual representation of a box's dimensions.
// Intended for debugging.
func (box *Box) DebugString() string {
	s := fmt.Sprintf("box{\n   w=%v, h=%v  (bbox-sz=%v)\n", box.W, box.H, box.BorderBoxSizing)
	s += fmt.Sprintf("   p.top=%v, p.right=%v, p.bottom=%v, p.left=%v\n",
		box.Padding[Top], box.Padding[Right],
		box.Padding[Bottom], box.Padding[Left])
	s += fmt.Sprintf("   b.top=%v, b.right=%v, b.bottom=%v, b.left=%v\n",
		box.BorderWidth[Top], box.BorderWidth[Right],
		box.BorderWidth[Bottom], box.BorderWidth[Left])
	s += fmt.Sprintf("   m.top=%v, m.right=%v, m.bottom=%v, m.left=%v\n",
		box.Margins[Top], box.Margins[Right],
		box.Margins[Bottom], box.Margins[Left])
	s += "}"
	return s
}

// SetWidth sets the width of a box. Depending on whether `box-sizing` is
// set to `content-box` (default) or `border-box`, box.W will then
// reflect either the content box width or the border box width.
func (box *Box) SetWidth(w css.DimenT) {
	box.W = w
}

// ContentWidth returns the width of the content box.
// If this box has box-sizing set to `border-box` and the width dimensions do
// not have fixed values, an unset dimension is returned.
func (box *Box) ContentWidth() css.DimenT {
	if !box.BorderBoxSizing {
		return box.W
	}
	if box.HasFixedBorderBoxWidth(false) {
		w := box.W.Unwrap()
		w -= innerDecorationWidth(box).Unwrap()
		return css.SomeDimen(w)
	}
	return css.Dimen()
}

// ContentHeight returns the height of the content box.
// If this box has box-sizing set to `border-box` and the height dimensions do
// not have fixed values, an unset dimension is returned.
func (box *Box) ContentHeight() css.DimenT {
	if !box.BorderBoxSizing {
		return box.H
	}
	if box.HasFixedBorderBoxHeight(false) {
		h := box.H.Unwrap()
		h -= innerDecorationHeight(box).Unwrap()
		return css.SomeDimen(h)
	}
	return css.Dimen()
}

// FixContentWidth sets a known value for the width of the content box.
// If padding or border have any %-relative values, those will be set to fixed
// dimensions as well.
// If box has box-sizing set to `border-box` and one of the width dimensions is
// of unknown value, false is returned and the content width is not set.
func (box *Box) FixContentWidth(w dimen.Dimen) bool {
	W, ok := fixPaddingAndBorderFromContentWidth(box, w)
	if !ok {
		return false
	}
	box.W = W
	return true
}

// FixContentHeight sets a known value for the height of the content box.
// If box has box-sizing set to `border-box` and padding or border of unknown
// value, false is returned and the height is not set.
func (box *Box) FixContentHeight(h dimen.Dimen) bool {
	if box.BorderBoxSizing {
		d := innerDecorationHeight(box)
		if d.IsNone() {
			return false
		}
		box.H = css.SomeDimen(h + d.Unwrap())
		return true
	}
	box.H = css.SomeDimen(h)
	return true
}

// HasFixedBorderBoxWidth returns true if box.W, padding and border width for
// left and right have fixed (known) values.
// If includeMargins is true, left and right margins are checked as well.
func (box *Box) HasFixedBorderBoxWidth(includeMargins bool) bool {
	if includeMargins {
		if !box.Margins[Left].IsAbsolute() || !box.Margins[Right].IsAbsolute() {
			return false
		}
	}
	if !box.Padding[Left].IsAbsolute() || !box.Padding[Right].IsAbsolute() ||
		!box.BorderWidth[Left].IsAbsolute() || !box.BorderWidth[Right].IsAbsolute() ||
		!box.W.IsAbsolute() {
		return false
	}
	return true
}

// HasFixedBorderBoxHeight returns true if box.H, padding and border width for
// top and bottom have fixed (known) values.
// If includeMargins is true, top and bottom margins are checked as well.
func (box *Box) HasFixedBorderBoxHeight(includeMargins bool) bool {
	if includeMargins {
		if !box.Margins[Top].IsAbsolute() || !box.Margins[Bottom].IsAbsolute() {
			return false
		}
	}
	if !box.Padding[Top].IsAbsolute() || !box.Padding[Bottom].IsAbsolute() ||
		!box.BorderWidth[Top].IsAbsolute() || !box.BorderWidth[Bottom].IsAbsolute() ||
		!box.H.IsAbsolute() {
		return false
	}
	return true
}

// BorderBoxWidth returns the width of a box, including padding and border.
// If box has box-sizing set to `content-box` and at least one of the dimensions
// is not of fixed value, an unset dimension is returned.
func (box *Box) BorderBoxWidth() css.DimenT {
	if box.BorderBoxSizing {
		return box.W
	}
	if box.HasFixedBorderBoxWidth(false) {
		w := box.W.Unwrap()
		w += innerDecorationWidth(box).Unwrap()
		return css.SomeDimen(w)
	}
	return css.Dimen()
}

// BorderBoxHeight returns the height of a box, including padding and border.
// If box has box-sizing set to `content-box` and at least one of the dimensions
// is not of fixed value, an unset dimension is returned.
func (box *Box) BorderBoxHeight() css.DimenT {
	if box.BorderBoxSizing {
		return box.H
	}
	if box.HasFixedBorderBoxHeight(false) {
		h := box.H.Unwrap()
		h += innerDecorationHeight(box).Unwrap()
		return css.SomeDimen(h)
	}
	return css.Dimen()
}

// FixBorderBoxWidth sets a known border box width for a box.
//
// If box has box-sizing set to `content-box`, padding and border have to be
// set beforehand to derive the content width, and %-relative padding and
// border values will be fixed in the process.
func (box *Box) FixBorderBoxWidth(w dimen.Dimen) {
	if box.BorderBoxSizing {
		box.W = css.SomeDimen(w)
		if _, ok := fixPaddingAndBorderFromBorderBoxWidth(box, w); !ok {
			tracer().Errorf("cannot fix padding and border")
		}
		return
	}
	contentW, ok := fixPaddingAndBorderFromBorderBoxWidth(box, w)
	if !ok || contentW.IsNone() {
		tracer().Errorf("cannot fix padding and border")
		return
	}
	box.W = contentW
}

// TotalWidth returns the overall width of a box, including margins.
// If one of the dimensions is not of fixed value, an unset dimension is returned.
func (box *Box) TotalWidth() css.DimenT {
	if box.HasFixedBorderBoxWidth(true) {
		w := box.BorderBoxWidth().Unwrap()
		w += box.Margins[Left].Unwrap()
		w += box.Margins[Right].Unwrap()
		return css.SomeDimen(w)
	}
	return css.Dimen()
}

// TotalHeight returns the overall height of a box, including margins.
func (box *Box) TotalHeight() css.DimenT {
	if box.HasFixedBorderBoxHeight(true) {
		h := box.BorderBoxHeight().Unwrap()
		h += box.Margins[Top].Unwrap()
		h += box.Margins[Bottom].Unwrap()
		return css.SomeDimen(h)
	}
	return css.Dimen()
}

// OuterBox returns the margin box of a box as a rectangle.
func (box *Box) OuterBox() Rect {
	r := Rect{TopL: box.TopL}
	r.W = box.TotalWidth()
	r.H = box.TotalHeight()
	return r
}

// DecorationWidth returns the cumulated width of padding and borders,
// if all of them have known values, and an unset dimension otherwise.
// If includeMargins is true, margins are cumulated as well.
func (box *Box) DecorationWidth(includeMargins bool) css.DimenT {
	w := dimen.Zero
	if includeMargins {
		if !box.Margins[Left].IsAbsolute() || !box.Margins[Right].IsAbsolute() {
			return css.Dimen()
		}
		w += box.Margins[Left].Unwrap()
		w += box.Margins[Right].Unwrap()
	}
	decW := innerDecorationWidth(box)
	if decW.IsNone() {
		return decW
	}
	return css.SomeDimen(w + decW.Unwrap())
}

// FixPercentages resolves %-relative padding, border and margin values
// against the width of the enclosing box. Percentages of vertical values
// resolve against the enclosing width, too (ref. CSS spec on margin and
// padding properties).
//
// Returns true if afterwards all padding, border and margin values are fixed.
func (box *Box) FixPercentages(enclosingWidth dimen.Dimen) bool {
	fixed := true
	for dir := Top; dir <= Left; dir++ {
		if box.Padding[dir].IsPercent() || box.Padding[dir].IsCalc() {
			box.Padding[dir] = css.SomeDimen(box.Padding[dir].Resolve(enclosingWidth))
		}
		if box.BorderWidth[dir].IsPercent() || box.BorderWidth[dir].IsCalc() {
			box.BorderWidth[dir] = css.SomeDimen(box.BorderWidth[dir].Resolve(enclosingWidth))
		}
		if box.Margins[dir].IsPercent() || box.Margins[dir].IsCalc() {
			box.Margins[dir] = css.SomeDimen(box.Margins[dir].Resolve(enclosingWidth))
		}
		if !box.Padding[dir].IsAbsolute() || !box.BorderWidth[dir].IsAbsolute() {
			fixed = false
		}
	}
	return fixed
}

// ----------------------------------------------------------------------------

// InitEmptyBox initializes padding, border and margins to 0 and box.W to auto.
func InitEmptyBox(box *Box) *Box {
	if box == nil {
		box = &Box{}
	}
	for dir := Top; dir <= Left; dir++ {
		box.Padding[dir] = css.SomeDimen(0)
		box.BorderWidth[dir] = css.SomeDimen(0)
		box.Margins[dir] = css.SomeDimen(0)
	}
	box.W = css.Auto()
	return box
}

func innerDecorationWidth(box *Box) css.DimenT {
	if !box.Padding[Left].IsAbsolute() || !box.Padding[Right].IsAbsolute() ||
		!box.BorderWidth[Left].IsAbsolute() || !box.BorderWidth[Right].IsAbsolute() {
		return css.Dimen()
	}
	w := dimen.Zero
	w += box.Padding[Left].Unwrap()
	w += box.Padding[Right].Unwrap()
	w += box.BorderWidth[Left].Unwrap()
	w += box.BorderWidth[Right].Unwrap()
	return css.SomeDimen(w)
}

func innerDecorationHeight(box *Box) css.DimenT {
	if !box.Padding[Top].IsAbsolute() || !box.Padding[Bottom].IsAbsolute() ||
		!box.BorderWidth[Top].IsAbsolute() || !box.BorderWidth[Bottom].IsAbsolute() {
		return css.Dimen()
	}
	h := dimen.Zero
	h += box.Padding[Top].Unwrap()
	h += box.Padding[Bottom].Unwrap()
	h += box.BorderWidth[Top].Unwrap()
	h += box.BorderWidth[Bottom].Unwrap()
	return css.SomeDimen(h)
}

// CollapseMargins returns the greater margin between bottom margin of box1 and
// top margin of box2, and the smaller one as the second return value.
//
// If any of the boxes' margins are unset, return values may be unset, too.
func CollapseMargins(box1, box2 *Box) (css.DimenT, css.DimenT) {
	if box1 == nil {
		if box2 == nil {
			return css.SomeDimen(0), css.SomeDimen(0)
		}
		return box2.Margins[Top], css.SomeDimen(0)
	} else if box2 == nil {
		return box1.Margins[Bottom], css.SomeDimen(0)
	}
	return css.MaxDimen(box1.Margins[Bottom], box2.Margins[Top]),
		css.MinDimen(box1.Margins[Bottom], box2.Margins[Top])
}

// fixPaddingAndBorderFromContentWidth distributes a known content width
// onto %-relative padding and border values.
//
// The padding size is relative to the width of that element's content area
// (i.e. the width inside, and not including, the padding, border and margin of
// the element). Note that top and bottom padding resolve against the width
// of the element, not its height.
//
// Returns the value box.W is to be set to: the content width for
// content-box sizing, the derived border box width for border-box sizing.
func fixPaddingAndBorderFromContentWidth(box *Box, w dimen.Dimen) (css.DimenT, bool) {
	var baseW int64
	var W css.DimenT
	if box.BorderBoxSizing {
		// border-box = content + padding + border, %-values relative to border-box:
		// border-box × (1 − Σ%) = content + Σfixed
		pcnt, total := int64(percent.Base), w
		for dir := Right; dir <= Left; dir += 2 { // horizontal
			if box.Padding[dir].IsAbsolute() {
				total += box.Padding[dir].Unwrap()
			} else if box.Padding[dir].IsPercent() {
				pcnt -= int64(box.Padding[dir].Percent())
			} else {
				return css.Dimen(), false
			}
			if box.BorderWidth[dir].IsAbsolute() {
				total += box.BorderWidth[dir].Unwrap()
			} else if box.BorderWidth[dir].IsPercent() {
				pcnt -= int64(box.BorderWidth[dir].Percent())
			} else {
				return css.Dimen(), false
			}
		}
		if pcnt <= 0 {
			return css.Dimen(), false
		}
		baseW = int64(total) * int64(percent.Base) / pcnt
		W = css.SomeDimen(dimen.Dimen(baseW))
	} else {
		baseW = int64(w)
		W = css.SomeDimen(w)
	}
	resolvePcntPaddingAndBorder(box, dimen.Dimen(baseW))
	return W, true
}

// fixPaddingAndBorderFromBorderBoxWidth distributes a known border box
// width onto %-relative padding and border values.
//
// Returns the value box.W is to be set to; see
// fixPaddingAndBorderFromContentWidth.
func fixPaddingAndBorderFromBorderBoxWidth(box *Box, w dimen.Dimen) (css.DimenT, bool) {
	var baseW int64
	var W css.DimenT
	if box.BorderBoxSizing {
		baseW = int64(w)
		W = css.SomeDimen(w)
	} else {
		// content = border-box − padding − border, %-values relative to content:
		// content × (1 + Σ%) = border-box − Σfixed
		pcnt, total := int64(percent.Base), w
		for dir := Right; dir <= Left; dir += 2 { // horizontal
			if box.Padding[dir].IsAbsolute() {
				total -= box.Padding[dir].Unwrap()
			} else if box.Padding[dir].IsPercent() {
				pcnt += int64(box.Padding[dir].Percent())
			} else {
				return css.Dimen(), false
			}
			if box.BorderWidth[dir].IsAbsolute() {
				total -= box.BorderWidth[dir].Unwrap()
			} else if box.BorderWidth[dir].IsPercent() {
				pcnt += int64(box.BorderWidth[dir].Percent())
			} else {
				return css.Dimen(), false
			}
		}
		baseW = int64(total) * int64(percent.Base) / pcnt
		W = css.SomeDimen(dimen.Dimen(baseW))
	}
	resolvePcntPaddingAndBorder(box, dimen.Dimen(baseW))
	return W, true
}

func resolvePcntPaddingAndBorder(box *Box, base dimen.Dimen) {
	for dir := Top; dir <= Left; dir++ {
		if box.Padding[dir].IsPercent() {
			box.Padding[dir] = css.SomeDimen(box.Padding[dir].Percent().Of(base))
		}
		if box.BorderWidth[dir].IsPercent() {
			box.BorderWidth[dir] = css.SomeDimen(box.BorderWidth[dir].Percent().Of(base))
		}
	}
}

// --- API for constraint width solving --------------------------------------

// ErrUnfixedScaledUnit is returned if a dimension calculation encounters a
// dimension-specification which is dependent on view-size or font-size.
var ErrUnfixedScaledUnit = errors.New("font/view dependent dimension is unfixed")

// ErrContentScaling is returned if a dimension calculation encounters a
// dimension-specification which is dependent on the box's content.
var ErrContentScaling = errors.New("box scales with content")

// ErrUnderspecified is returned if a dimension calculation cannot be completed
// because the input values are underspecified.
var ErrUnderspecified = errors.New("box width dimensions are underspecified")

// FixDimensionsFromEnclosingWidth calculates missing/auto dimensions from the
// width of the enclosing box.
//
// This will distribute space according to the equation (ref. CSS spec):
//
//	margin-left + border-width-left + padding-left + width +
//	  padding-right + border-width-right + margin-right = width of containing block
//
// Returns a flag denoting whether there was enough information to specify each
// width dimension.
func FixDimensionsFromEnclosingWidth(box *Box, enclosingWidth dimen.Dimen) (bool, error) {
	tracer().Debugf("fix constraint dimensions, enclosing = %v", enclosingWidth)
	fixIllegalDimensionSpecifications(box)
	box.FixPercentages(enclosingWidth)
	if box.W.IsPercent() || box.W.IsCalc() {
		box.W = css.SomeDimen(box.W.Resolve(enclosingWidth))
	}
	if err := checkForUnresolvedDependentDimensions(box); err != nil {
		return false, err
	}
	var w css.DimenT
	var err error
	if box.W.IsNone() || box.W.IsAuto() { // unset width defaults to `auto`
		w, err = calcWidthAsRest(box, enclosingWidth)
	} else {
		w, err = takeWidth(box, enclosingWidth)
	}
	if err != nil {
		return false, err
	} else if !w.IsAbsolute() {
		return false, ErrUnderspecified
	}
	box.W = w
	tracer().Debugf("dimensions calculated from enclosing width: %s", box.DebugString())
	return true, nil
}

// takeWidth keeps a known width and distributes the remaining space into
// the margins.
func takeWidth(box *Box, enclosing dimen.Dimen) (css.DimenT, error) {
	tracer().Debugf("calculating width: simply take it as is = %v", box.W)
	fixed := distributeHorizontalMarginSpace(box, enclosing)
	if !fixed {
		return box.W, ErrUnderspecified
	}
	return box.W, nil
}

// calcWidthAsRest makes the width absorb the remaining space.
//
// Ref. CSS spec: if 'width' is set to 'auto', any other 'auto' values become
// '0' and 'width' follows from the resulting equality.
func calcWidthAsRest(box *Box, enclosing dimen.Dimen) (css.DimenT, error) {
	left := dimen.Zero
	if box.Margins[Left].IsAbsolute() {
		left = box.Margins[Left].Unwrap()
	}
	box.Margins[Left] = css.SomeDimen(left)
	right := dimen.Zero
	if box.Margins[Right].IsAbsolute() {
		right = box.Margins[Right].Unwrap()
	}
	box.Margins[Right] = css.SomeDimen(right)
	width := enclosing - left - right
	if !box.BorderBoxSizing {
		var d css.DimenT
		if d = innerDecorationWidth(box); d.IsNone() {
			return d, ErrUnderspecified
		}
		width -= d.Unwrap()
	}
	r := css.SomeDimen(width)
	tracer().Debugf("calculate width as rest to w = %v", r)
	return r, nil
}

// distributeHorizontalMarginSpace distributes space into left and right margins
// after the border-box has been fixed. `auto` margins split the remaining
// space among themselves; with no `auto` margin the box is over-constrained
// and the right margin absorbs the slack (ref. CSS spec, section on computing
// widths and margins).
func distributeHorizontalMarginSpace(box *Box, enclosing dimen.Dimen) bool {
	if !box.HasFixedBorderBoxWidth(false) {
		return false
	}
	w := box.BorderBoxWidth().Unwrap()
	remaining := enclosing - w
	left, right := box.Margins[Left], box.Margins[Right]
	var l, r dimen.Dimen
	switch {
	case leftoverMargin(left) && leftoverMargin(right):
		l = remaining / 2
		r = remaining - l
	case leftoverMargin(left):
		if !right.IsAbsolute() {
			return false
		}
		r = right.Unwrap()
		l = remaining - r
	case leftoverMargin(right):
		if !left.IsAbsolute() {
			return false
		}
		l = left.Unwrap()
		r = remaining - l
	default:
		if !left.IsAbsolute() || !right.IsAbsolute() {
			return false
		}
		l = left.Unwrap()
		r = remaining - l // over-constrained, right margin yields
	}
	box.Margins[Left] = css.SomeDimen(l)
	box.Margins[Right] = css.SomeDimen(r)
	return true
}

func leftoverMargin(d css.DimenT) bool {
	return d.IsAuto() || d.IsNone()
}

// checkForUnresolvedDependentDimensions will return an error for box dimensions
// which are dependent on view-size, font-size or content.
func checkForUnresolvedDependentDimensions(box *Box) error {
	for dir := Top; dir <= Left; dir++ {
		for _, d := range []css.DimenT{box.Padding[dir], box.BorderWidth[dir], box.Margins[dir]} {
			if d.IsFontScaled() || d.IsViewScaled() {
				return ErrUnfixedScaledUnit
			}
			if d.IsContentDependent() {
				return ErrContentScaling
			}
		}
	}
	return nil
}

// Padding and border width accept lengths or percentages, with negative
// values not allowed; percentages have been resolved by now. Every other
// specification collapses to 0.
func fixIllegalDimensionSpecifications(box *Box) {
	for dir := Top; dir <= Left; dir++ {
		padd := box.Padding[dir]
		if padd.IsNone() || padd.IsAuto() || (padd.IsAbsolute() && padd.Unwrap() < 0) {
			box.Padding[dir] = css.SomeDimen(0)
		}
		bord := box.BorderWidth[dir]
		if bord.IsNone() || bord.IsAuto() || (bord.IsAbsolute() && bord.Unwrap() < 0) {
			box.BorderWidth[dir] = css.SomeDimen(0)
		}
	}
}
