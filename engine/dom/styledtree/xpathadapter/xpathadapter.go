/*
Package xpathadapter implements an xpath.NodeNavigator over a styled tree.

We use this library for XPath queries:

	github.com/antchfx/xpath

The adapter enables antchfx/xpath to access a styled tree, where nodes are
of type styledtree.StyNode. For a description of the various methods of
interface xpath.NodeNavigator please refer to the documentation of
antchfx/xpath. It is not replicated here.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package xpathadapter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/antchfx/xpath"
	"github.com/npillmayer/weft/engine/dom/styledtree"
	"github.com/npillmayer/weft/engine/tree"
	"golang.org/x/net/html"
)

// NodeNavigator walks a styled tree on behalf of an XPath expression.
// The zero value is not usable; create navigators with NewNavigator.
type NodeNavigator struct {
	root, current *styledtree.StyNode
	attr          int // attribute index, -1 when not positioned on an attribute
}

var _ xpath.NodeNavigator = &NodeNavigator{}

// NewNavigator creates a new xpath.NodeNavigator for a styled tree.
func NewNavigator(node *styledtree.StyNode) *NodeNavigator {
	return &NodeNavigator{
		current: node,
		root:    node,
		attr:    -1,
	}
}

// CurrentNode returns the styled tree node a navigator is positioned at.
// For a navigator positioned at an attribute, this is the attribute's
// owner element.
func CurrentNode(nav xpath.NodeNavigator) (*tree.Node[*styledtree.StyNode], error) {
	mynav, ok := nav.(*NodeNavigator)
	if !ok {
		return nil, errors.New("navigator is not of type xpathadapter.NodeNavigator")
	}
	if mynav.current == nil {
		return nil, nil
	}
	return &mynav.current.Node, nil
}

// Query compiles an XPath expression and evaluates it over the styled
// tree rooted at node. It returns the matching styled nodes in document
// order. Attribute matches yield their owner element.
func Query(node *styledtree.StyNode, expr string) ([]*styledtree.StyNode, error) {
	xp, err := xpath.Compile(expr)
	if err != nil {
		return nil, err
	}
	iter := xp.Select(NewNavigator(node))
	var nodes []*styledtree.StyNode
	for iter.MoveNext() {
		nav, ok := iter.Current().(*NodeNavigator)
		if !ok {
			return nodes, errors.New("navigator is not of type xpathadapter.NodeNavigator")
		}
		nodes = append(nodes, nav.current)
	}
	return nodes, nil
}

func (nav *NodeNavigator) NodeType() xpath.NodeType {
	switch nav.current.HTMLNode().Type {
	case html.CommentNode:
		return xpath.CommentNode
	case html.TextNode:
		return xpath.TextNode
	case html.DocumentNode:
		return xpath.RootNode
	case html.ElementNode:
		if nav.attr != -1 {
			return xpath.AttributeNode
		}
		return xpath.ElementNode
	}
	panic(fmt.Sprintf("styled tree contains unexpected node type: %v", nav.current.HTMLNode().Type))
}

func (nav *NodeNavigator) LocalName() string {
	if nav.attr != -1 {
		return nav.current.HTMLNode().Attr[nav.attr].Key
	}
	return nav.current.HTMLNode().Data
}

func (*NodeNavigator) Prefix() string {
	return ""
}

func (nav *NodeNavigator) Value() string {
	switch nav.current.HTMLNode().Type {
	case html.ElementNode:
		if nav.attr != -1 {
			return nav.current.HTMLNode().Attr[nav.attr].Val
		}
		return innerText(nav.current.HTMLNode())
	case html.TextNode:
		return nav.current.HTMLNode().Data
	}
	return ""
}

func (nav *NodeNavigator) String() string {
	return nav.Value()
}

func (nav *NodeNavigator) Copy() xpath.NodeNavigator {
	n := *nav
	return &n
}

func (nav *NodeNavigator) MoveToRoot() {
	nav.current = nav.root
	nav.attr = -1
}

func (nav *NodeNavigator) MoveToParent() bool {
	if nav.attr != -1 {
		nav.attr = -1 // move from attributes back to their element
		return true
	}
	if nav.current == nav.root {
		return false
	}
	parent := styledtree.Node(nav.current.Parent())
	if parent == nil {
		return false
	}
	nav.current = parent
	return true
}

func (nav *NodeNavigator) MoveToNextAttribute() bool {
	if nav.attr >= len(nav.current.HTMLNode().Attr)-1 {
		return false
	}
	nav.attr++
	return true
}

func (nav *NodeNavigator) MoveToChild() bool {
	if nav.attr != -1 {
		return false
	}
	for i := 0; i < nav.current.ChildCount(); i++ {
		if ch, ok := nav.current.Child(i); ok {
			nav.current = styledtree.Node(ch)
			return true
		}
	}
	return false
}

func (nav *NodeNavigator) MoveToFirst() bool {
	if nav.attr != -1 || nav.current == nav.root {
		return false
	}
	parent := styledtree.Node(nav.current.Parent())
	if parent == nil {
		return false
	}
	inx := parent.IndexOfChild(&nav.current.Node)
	for i := 0; i < inx; i++ {
		if ch, ok := parent.Child(i); ok {
			nav.current = styledtree.Node(ch)
			return true
		}
	}
	return false
}

func (nav *NodeNavigator) MoveToNext() bool {
	if nav.attr != -1 || nav.current == nav.root {
		return false
	}
	parent := styledtree.Node(nav.current.Parent())
	if parent == nil {
		return false
	}
	inx := parent.IndexOfChild(&nav.current.Node)
	for i := inx + 1; i < parent.ChildCount(); i++ {
		if ch, ok := parent.Child(i); ok {
			nav.current = styledtree.Node(ch)
			return true
		}
	}
	return false
}

func (nav *NodeNavigator) MoveToPrevious() bool {
	if nav.attr != -1 || nav.current == nav.root {
		return false
	}
	parent := styledtree.Node(nav.current.Parent())
	if parent == nil {
		return false
	}
	inx := parent.IndexOfChild(&nav.current.Node)
	for i := inx - 1; i >= 0; i-- {
		if ch, ok := parent.Child(i); ok {
			nav.current = styledtree.Node(ch)
			return true
		}
	}
	return false
}

func (nav *NodeNavigator) MoveTo(other xpath.NodeNavigator) bool {
	n, ok := other.(*NodeNavigator)
	if !ok || n.root != nav.root {
		return false
	}
	nav.current = n.current
	nav.attr = n.attr
	return true
}

// innerText returns the text between the start and end tags of the object.
func innerText(n *html.Node) string {
	var output func(*bytes.Buffer, *html.Node)
	output = func(buf *bytes.Buffer, n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			output(buf, child)
		}
	}

	var buf bytes.Buffer
	output(&buf, n)
	return buf.String()
}
