package inline

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strings"

	"github.com/npillmayer/cords"
	"github.com/npillmayer/uax"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/frame"
	"github.com/npillmayer/weft/engine/text"
)

// --- Line boxes ------------------------------------------------------------

// LineBox is one line of a broken paragraph. It holds no text of its
// own; Start and End are byte offsets into the paragraph's text. A
// restyling which does not change metrics can therefore repaint lines
// from their offsets, without breaking the paragraph anew.
type LineBox struct {
	Start  uint64      // first byte of the line's text within the paragraph
	End    uint64      // byte position after the line's text
	Width  dimen.Dimen // natural width of the line's content, trailing spaces trimmed
	Height dimen.Dimen // line advance, from the tallest style run on the line
	Indent dimen.Dimen // left offset of the line within the paragraph's shape
}

// ParamsFor resolves the text measurement parameters for a run of
// styled text. Line breaking calls it for every style run it measures,
// which is where a font realization step may map computed styles to
// concrete typecases.
type ParamsFor func(set frame.StyleSet) text.Params

// FixedParams returns a resolver which measures every style run with
// the same parameters. Good enough whenever a paragraph is set in a
// single font.
func FixedParams(params text.Params) ParamsFor {
	return func(frame.StyleSet) text.Params {
		return params
	}
}

// BreakIntoLines breaks a paragraph into line boxes.
//
// Break opportunities are found with the Unicode line breaking
// algorithm (UAX#14). Lines are filled greedily: a line is closed at
// the last break opportunity before its content outgrows the width
// which shape grants the line. A fragment without any break opportunity
// overflows its line rather than being cut mid-word.
//
// Widths are taken from measurer m, with measurement parameters
// resolved per style run through lookup. A nil lookup measures every
// run with zero parameters, which suits measurers with a fixed em.
//
// An empty paragraph yields no lines.
func BreakIntoLines(para *Paragraph, shape Parshape, m text.Measurer, lookup ParamsFor) ([]LineBox, error) {
	if para == nil || para.Len() == 0 {
		return nil, nil
	}
	if shape == nil || m == nil {
		return nil, cords.ErrIllegalArguments
	}
	if lookup == nil {
		lookup = FixedParams(text.Params{})
	}
	raw := para.Raw()
	seg := segment.NewSegmenter() // defaults to UAX#14 line wrap as primary breaker
	seg.Init(strings.NewReader(raw))

	var lines []LineBox
	var (
		start   uint64      // offset where the current line starts
		pos     uint64      // offset behind the last fragment read
		width   dimen.Dimen // width of [start,pos)
		lastOK  uint64      // last break opportunity; == start if none yet
		okFull  dimen.Dimen // width of [start,lastOK)
		okWidth dimen.Dimen // like okFull, but with trailing spaces trimmed
	)
	budget := shape.LineLength(0)
	for seg.Next() {
		frag := seg.Text()
		if frag == "" {
			continue
		}
		p1, _ := seg.Penalties()
		fragEnd := pos + uint64(len(frag))
		fwFull := measureRange(para, raw, pos, fragEnd, m, lookup)
		var wsW dimen.Dimen
		if trimmed := strings.TrimRight(frag, " "); len(trimmed) < len(frag) {
			wsW = measureRange(para, raw, pos+uint64(len(trimmed)), fragEnd, m, lookup)
		}
		if width+fwFull-wsW > budget && lastOK > start {
			lines = append(lines, newLineBox(para, shape, len(lines), start, lastOK, okWidth))
			carry := width - okFull
			start, width = lastOK, carry
			okFull, okWidth = 0, 0
			budget = shape.LineLength(len(lines))
		}
		width += fwFull
		pos = fragEnd
		if p1 < uax.InfinitePenalty { // may we wrap after this fragment?
			lastOK = pos
			okFull = width
			okWidth = width - wsW
		}
	}
	if pos > start {
		w := width
		if lastOK == pos {
			w = okWidth
		}
		lines = append(lines, newLineBox(para, shape, len(lines), start, pos, w))
	}
	tracer().Debugf("paragraph of %d bytes broken into %d lines", len(raw), len(lines))
	return lines, nil
}

func newLineBox(para *Paragraph, shape Parshape, lineno int, from, to uint64, width dimen.Dimen) LineBox {
	return LineBox{
		Start:  from,
		End:    to,
		Width:  width,
		Height: lineAdvance(para, from, to),
		Indent: shape.LineIndent(lineno),
	}
}

// measureRange measures the paragraph text [from,to), splitting it at
// style run boundaries so that every piece is measured with the
// parameters of its own style.
func measureRange(para *Paragraph, raw string, from, to uint64, m text.Measurer, lookup ParamsFor) dimen.Dimen {
	var w dimen.Dimen
	for _, r := range para.StyleRuns() {
		if r.To <= from || r.From >= to {
			continue
		}
		a, b := r.From, r.To
		if a < from {
			a = from
		}
		if b > to {
			b = to
		}
		w += m.Width(raw[a:b], lookup(r.Style))
	}
	return w
}

// lineAdvance derives the advance height of a line from the style runs
// intersecting it. An explicit line-height wins; otherwise the usual
// baseline distance of 1.2 times the font size applies.
func lineAdvance(para *Paragraph, from, to uint64) dimen.Dimen {
	var h dimen.Dimen
	for _, r := range para.StyleRuns() {
		if r.To <= from || r.From >= to {
			continue
		}
		if lh := lineHeightFor(r.Style); lh > h {
			h = lh
		}
	}
	if h == 0 {
		h = lineHeightFor(frame.StyleSet{})
	}
	return h
}

const defaultFontSize = 12 * dimen.PT

func lineHeightFor(set frame.StyleSet) dimen.Dimen {
	if set.Props != nil {
		if lh := set.Props.Text.LineHeight; lh.IsAbsolute() {
			return lh.Unwrap()
		}
		if fs := set.Props.Text.FontSize; fs.IsAbsolute() {
			return fs.Unwrap() * 6 / 5
		}
	}
	return defaultFontSize * 6 / 5
}
