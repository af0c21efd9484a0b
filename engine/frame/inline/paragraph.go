package inline

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"strings"

	"github.com/npillmayer/cords"
	"github.com/npillmayer/cords/styled"
	"github.com/npillmayer/weft/engine/frame"
	"github.com/npillmayer/weft/engine/frame/boxtree"
)

// ErrNoParagraphBox flags an attempt to collect a paragraph from a box
// which is not part of a box tree.
var ErrNoParagraphBox = errors.New("no box to build a paragraph from")

// Paragraph holds the text content of an inline formatting context as a
// styled text cord. Every text run carries the computed style of the box
// it came from (see frame.StyleSet). A paragraph is retained after line
// breaking, so that lines can be repainted or restyled from their byte
// offsets without re-collecting the text.
type Paragraph struct {
	Text *styled.Text // styled paragraph text; nil for an empty paragraph
	runs []StyleRun
}

// StyleRun is a maximal run of equally styled paragraph text,
// [From,To) being byte offsets into the paragraph's raw text.
type StyleRun struct {
	From, To uint64
	Style    frame.StyleSet
}

// ParagraphFromBox collects the text of the inline formatting context
// established by block, in document order. Text runs are concatenated
// into a styled cord, with each run styled by the computed style of its
// text box. Inline child boxes are descended into; child boxes which do
// not participate in the inline context (floats, replaced elements,
// stray block-level content) contribute no text.
//
// Whitespace is collapsed during collection, across box boundaries: any
// run of spaces, tabs and line breaks becomes a single space, and the
// paragraph never starts with one. Line box offsets therefore index the
// collapsed text, which Raw returns.
func ParagraphFromBox(arena *boxtree.Arena, block boxtree.BoxIndex) (*Paragraph, error) {
	if arena == nil || arena.Box(block) == nil {
		return nil, ErrNoParagraphBox
	}
	c := &textCollector{b: styled.NewTextBuilder()}
	c.collect(arena, block)
	para := &Paragraph{}
	if c.b.Len() == 0 {
		tracer().Debugf("paragraph for box %s is empty", arena.Box(block))
		return para, nil
	}
	para.Text = c.b.Text()
	para.runs = c.runs
	return para, nil
}

// textCollector appends text runs to a styled text builder, collapsing
// whitespace across run boundaries. It keeps its own record of style
// runs, merging adjacent runs of pointer-equal styles.
type textCollector struct {
	b      *styled.TextBuilder
	runs   []StyleRun
	endsWS bool // does the collected text end with a space?
}

func (c *textCollector) collect(arena *boxtree.Arena, box boxtree.BoxIndex) {
	for _, ch := range arena.Children(box) {
		n := arena.Box(ch)
		if n.OutOfFlow() {
			continue
		}
		switch n.Kind {
		case boxtree.KindText:
			c.add(n.Text, frame.StyleSet{Props: n.Computed})
		case boxtree.KindInline:
			c.collect(arena, ch)
		default:
			// replaced elements and stray block-level content hold no
			// paragraph text
			tracer().Debugf("box %s contributes no text to paragraph", n)
		}
	}
}

func (c *textCollector) add(raw string, set frame.StyleSet) {
	content := collapseWhitespace(raw)
	if c.endsWS || c.b.Len() == 0 {
		content = strings.TrimLeft(content, " ")
	}
	if content == "" {
		return
	}
	c.endsWS = strings.HasSuffix(content, " ")
	from := c.b.Len()
	c.b.Append(pLeaf{content: content}, set)
	to := from + uint64(len(content))
	if n := len(c.runs); n > 0 && c.runs[n-1].To == from && c.runs[n-1].Style.Equals(set) {
		c.runs[n-1].To = to
		return
	}
	c.runs = append(c.runs, StyleRun{From: from, To: to, Style: set})
}

// Raw returns the paragraph's text with whitespace already collapsed.
func (para *Paragraph) Raw() string {
	if para == nil || para.Text == nil {
		return ""
	}
	return para.Text.Raw().String()
}

// Len returns the length of the paragraph's text in bytes.
func (para *Paragraph) Len() uint64 {
	if para == nil || para.Text == nil {
		return 0
	}
	return para.Text.Raw().Len()
}

// StyleRuns returns the style runs of the paragraph in text order.
// Callers must not modify the returned slice.
func (para *Paragraph) StyleRuns() []StyleRun {
	if para == nil {
		return nil
	}
	return para.runs
}

// StyleAt returns the style governing the text at byte position pos,
// together with the run it belongs to.
func (para *Paragraph) StyleAt(pos uint64) (frame.StyleSet, StyleRun) {
	for _, r := range para.StyleRuns() {
		if pos >= r.From && pos < r.To {
			return r.Style, r
		}
	}
	return frame.StyleSet{}, StyleRun{}
}

// collapseWhitespace folds every run of whitespace characters into a
// single space, as CSS prescribes for white-space:normal. Boundary
// whitespace survives as a single space; trimming it is up to the
// caller, which knows the neighboring runs.
func collapseWhitespace(s string) string {
	var sb strings.Builder
	ws := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			ws = true
		default:
			if ws {
				sb.WriteByte(' ')
				ws = false
			}
			sb.WriteRune(r)
		}
	}
	if ws {
		sb.WriteByte(' ')
	}
	return sb.String()
}

// --- Cord leafs for paragraph text ------------------------------------

// pLeaf is a leaf of a styled text cord, holding a text run from a
// single box.
type pLeaf struct {
	content string
}

var _ cords.Leaf = pLeaf{}

// Weight is part of interface cords.Leaf.
func (l pLeaf) Weight() uint64 {
	return uint64(len(l.content))
}

// String is part of interface cords.Leaf.
func (l pLeaf) String() string {
	return l.content
}

// Split is part of interface cords.Leaf.
func (l pLeaf) Split(i uint64) (cords.Leaf, cords.Leaf) {
	left := pLeaf{content: l.content[:i]}
	right := pLeaf{content: l.content[i:]}
	return left, right
}

// Substring is part of interface cords.Leaf.
func (l pLeaf) Substring(i, j uint64) []byte {
	return []byte(l.content[i:j])
}
