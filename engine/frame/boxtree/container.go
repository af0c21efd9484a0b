package boxtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/dom/style/css"
	"github.com/npillmayer/weft/engine/dom/styledtree"
	"github.com/npillmayer/weft/engine/frame"
	"golang.org/x/net/html"
)

// Kind classifies the boxes of a tree. Containers are classified by the
// formatting context they establish; replaced boxes and text boxes are
// atomic.
type Kind uint8

// Enum values for type Kind
const (
	KindBlock    Kind = iota // block container
	KindInline               // inline container
	KindText                 // text run, always a leaf
	KindFlex                 // flex container
	KindGrid                 // grid container
	KindReplaced             // replaced element: image, embedded object, frame
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindInline:
		return "inline"
	case KindText:
		return "text"
	case KindFlex:
		return "flex"
	case KindGrid:
		return "grid"
	case KindReplaced:
		return "replaced"
	}
	return "<unknown box kind>"
}

// Flags mark properties of a box orthogonal to its kind.
type Flags uint8

const (
	// FlagAnonymous marks boxes without a document node of their own,
	// created to complete the structure the box model requires.
	FlagAnonymous Flags = 1 << iota

	// FlagPseudo marks materialized ::before/::after boxes.
	FlagPseudo

	// FlagMarker marks list item marker boxes.
	FlagMarker

	// FlagDimensionKnown marks replaced boxes whose width and height were
	// both known before the resource fetch started. Once set, the flag
	// never depends on the fetch outcome: the reserved geometry stands
	// and resource arrival never triggers a rebuild.
	FlagDimensionKnown
)

// Contains checks if all given flags are set.
func (f Flags) Contains(other Flags) bool {
	return f&other == other
}

// LayoutState is the per-box layout state machine. States advance in one
// direction only; Measured is terminal for a layout pass.
type LayoutState uint8

// Enum values for type LayoutState
const (
	Unmeasured LayoutState = iota
	Measuring
	Measured
)

func (s LayoutState) String() string {
	switch s {
	case Unmeasured:
		return "unmeasured"
	case Measuring:
		return "measuring"
	case Measured:
		return "measured"
	}
	return "<unknown layout state>"
}

// BoxNode is one box of the tree. Link fields reference boxes of the same
// arena by index; NullIndex means no link. Every box carries a frame.Box
// for its geometry, which layout narrows to fixed dimensions.
//
// Boxes generated without a document counterpart (anonymous, pseudo,
// marker) have a nil Styled back-reference; their computed style is
// either borrowed from the parent box or composed for the pseudo-element.
type BoxNode struct {
	Kind  Kind
	Flags Flags
	State LayoutState

	Parent     BoxIndex
	FirstChild BoxIndex
	LastChild  BoxIndex
	PrevSib    BoxIndex
	NextSib    BoxIndex

	Display  css.DisplayMode     // resolved display, set for generated boxes too
	Box      frame.Box           // box geometry
	Computed *cssom.Style        // computed style, not owned by the box
	Styled   *styledtree.StyNode // originating document node, nil for generated boxes

	Text string // text content of KindText boxes
	Src  string // resource location of KindReplaced boxes, selected at construction
}

var _ cssom.Styler = &BoxNode{}

// Styles is part of interface cssom.Styler.
func (n *BoxNode) Styles() *cssom.Style {
	return n.Computed
}

// CSSBox accesses the box geometry. The pointer shares the lifetime
// caveat of Arena.Box.
func (n *BoxNode) CSSBox() *frame.Box {
	return &n.Box
}

// DOMNode returns the document node which generated this box, or nil for
// generated boxes.
func (n *BoxNode) DOMNode() *html.Node {
	if n.Styled == nil {
		return nil
	}
	return n.Styled.HTMLNode()
}

// IsAnonymous returns true for boxes without a document node of their own.
func (n *BoxNode) IsAnonymous() bool {
	return n.Flags.Contains(FlagAnonymous) || n.Flags.Contains(FlagPseudo)
}

// InlineLevel returns true for boxes which participate in an inline
// formatting context (outer display level inline).
func (n *BoxNode) InlineLevel() bool {
	return n.Display.Contains(css.InlineMode)
}

// Float returns the float mode of the box, FloatNone for unstyled boxes.
func (n *BoxNode) Float() cssom.FloatMode {
	if n.Computed == nil {
		return cssom.FloatNone
	}
	return n.Computed.Flow.Float
}

// OutOfFlow returns true for boxes removed from normal flow, i.e. floated
// or absolutely/fixed positioned ones.
func (n *BoxNode) OutOfFlow() bool {
	if n.Computed == nil {
		return false
	}
	return n.Computed.Flow.Float != cssom.FloatNone || n.Computed.Flow.Position.IsOutOfFlow()
}

func (n *BoxNode) String() string {
	if n == nil {
		return "<empty box>"
	}
	switch {
	case n.Flags.Contains(FlagPseudo):
		return fmt.Sprintf("::pseudo %q", n.Text)
	case n.Flags.Contains(FlagMarker):
		return "::marker"
	case n.Kind == KindText:
		return fmt.Sprintf("%q", shortText(n.Text))
	case n.IsAnonymous():
		return fmt.Sprintf("(anon %s)", n.Kind)
	}
	if h := n.DOMNode(); h != nil {
		if h.Type == html.DocumentNode {
			return "#document"
		}
		return fmt.Sprintf("<%s> %s", h.Data, n.Display.Symbol())
	}
	return fmt.Sprintf("(%s)", n.Kind)
}

// shortText caps text content for debugging output.
func shortText(s string) string {
	if len(s) > 10 {
		return s[:10] + "…"
	}
	return s
}

// initBoxGeometry gives a fresh box legal empty geometry.
func initBoxGeometry(n *BoxNode) {
	frame.InitEmptyBox(&n.Box)
}

// kindForDisplay classifies a container by its display mode.
func kindForDisplay(disp css.DisplayMode) Kind {
	switch {
	case disp.Contains(css.FlexMode):
		return KindFlex
	case disp.Contains(css.GridMode):
		return KindGrid
	case disp.Contains(css.InlineMode) && !disp.Contains(css.InnerBlockMode):
		return KindInline
	}
	return KindBlock
}
