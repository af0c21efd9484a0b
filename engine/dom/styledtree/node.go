package styledtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/tree"
	"golang.org/x/net/html"
)

// StyNode is a style node, the building block of the styled tree.
type StyNode struct {
	tree.Node[*StyNode] // we build on top of general purpose tree
	htmlNode            *html.Node
	computedStyles      *cssom.Style
}

var _ cssom.Styler = &StyNode{}

// NewNodeForHTMLNode creates a new styled node linked to an HTML node.
func NewNodeForHTMLNode(html *html.Node) *tree.Node[*StyNode] {
	sn := &StyNode{}
	sn.Payload = sn // Payload will always reference the node itself
	sn.htmlNode = html
	return &sn.Node
}

// Node gets the styled node from a generic tree node.
func Node(n *tree.Node[*StyNode]) *StyNode {
	if n == nil {
		return nil
	}
	return n.Payload
}

// HTMLNode gets the HTML DOM node corresponding to this styled node.
func (sn *StyNode) HTMLNode() *html.Node {
	return sn.Payload.htmlNode
}

// IsText returns whether this styled node mirrors an HTML text node.
// Text nodes carry no styles of their own; they draw on the styles of
// their enclosing element.
func (sn *StyNode) IsText() bool {
	return sn.Payload.htmlNode.Type == html.TextNode
}

// Styles is part of interface cssom.Styler. For text nodes it returns
// the styles of the enclosing element.
func (sn *StyNode) Styles() *cssom.Style {
	if sn.Payload.computedStyles == nil && sn.IsText() {
		if parent := Node(sn.Parent()); parent != nil {
			return parent.Styles()
		}
	}
	return sn.Payload.computedStyles
}

// SetStyles sets the styling properties of a styled node.
func (sn *StyNode) SetStyles(styles *cssom.Style) {
	sn.Payload.computedStyles = styles
}
