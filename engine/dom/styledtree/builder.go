package styledtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"

	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/tree"
	"golang.org/x/net/html"
)

// ErrDocumentRootIsNull is flagged by BuildTree for a nil input document.
var ErrDocumentRootIsNull = errors.New("document root is null")

// Inline style attributes outrank any selector-based author declaration
// of equal importance.
var inlineSpec = [3]int{255, 255, 255}

const inlineSeq = 0xffffff

// Params bundles the inputs for styling an HTML parse tree.
type Params struct {
	Rules  []cssom.Rule                    // user and author rules, in any order
	Inline func(*html.Node) *cssom.Program // inline style source, may be nil
	Env    cssom.ComposeEnv                // context for resolving relative units
	Alloc  *cssom.Allocator                // style memory budget, nil = unbounded
}

// BuildTree builds a styled tree for an HTML parse tree. Every element
// node receives its computed style from a full cascade run: user-agent
// defaults, presentational hints, the rules of params, and inline style
// attributes, composed against the parent element's computed style.
//
// Comments and doctype declarations do not appear in the styled tree.
// Elements with display:none do; dropping them is a concern of box
// generation, not of styling.
//
// If the memory budget of params.Alloc is exhausted while an element is
// styled, the element and its descendants are left out of the tree and
// building continues with the element's siblings. BuildTree then returns
// the partial tree together with the last error encountered.
func BuildTree(doc *html.Node, params Params) (*tree.Node[*StyNode], error) {
	if doc == nil {
		return nil, ErrDocumentRootIsNull
	}
	b := &builder{params: params}
	tracer().Debugf("creating styled tree")
	var root *tree.Node[*StyNode]
	switch doc.Type {
	case html.DocumentNode:
		root = NewNodeForHTMLNode(doc)
		b.styleChildren(doc, root, nil)
	case html.ElementNode: // style a document fragment
		root = b.styleElement(doc, nil)
	default:
		return nil, ErrDocumentRootIsNull
	}
	if root == nil {
		return nil, b.lasterror
	}
	return root, b.lasterror
}

// builder carries the styling parameters through the recursive descent.
// It reports the last error encountered but keeps going where possible,
// mirroring how the tree shrinks around defective branches.
type builder struct {
	params    Params
	lasterror error
}

// styleChildren styles the children of an HTML node and attaches the
// resulting styled nodes to sn.
func (b *builder) styleChildren(h *html.Node, sn *tree.Node[*StyNode], parentStyles *cssom.Style) {
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		switch ch.Type {
		case html.ElementNode:
			if chn := b.styleElement(ch, parentStyles); chn != nil {
				sn.AddChild(chn)
			}
		case html.TextNode:
			sn.AddChild(NewNodeForHTMLNode(ch))
		}
		// comments, doctype and error nodes are dropped
	}
}

// styleElement runs the cascade for a single element and descends to its
// children. A nil return means the element's subtree has been voided by
// an exhausted style memory budget.
func (b *builder) styleElement(h *html.Node, parentStyles *cssom.Style) *tree.Node[*StyNode] {
	styles, err := b.cascade(h, parentStyles)
	if err != nil {
		tracer().Errorf("styling of subtree <%s> failed: %v", h.Data, err)
		b.lasterror = err
		return nil
	}
	sn := NewNodeForHTMLNode(h)
	Node(sn).SetStyles(styles)
	b.styleChildren(h, sn, styles)
	return sn
}

// cascade collects the declared values for one element and composes them
// against the parent's computed style.
func (b *builder) cascade(h *html.Node, parentStyles *cssom.Style) (*cssom.Style, error) {
	cas, err := cssom.StartCascade(b.params.Alloc)
	if err != nil {
		return nil, err
	}
	if err = cas.ApplyUADefaults(h.Data); err != nil {
		return nil, err
	}
	cas.ApplyHints(h, 0)
	for _, rule := range b.params.Rules {
		if err = cas.ApplyRule(rule, h); err != nil {
			return nil, err
		}
	}
	if b.params.Inline != nil {
		if prog := b.params.Inline(h); prog != nil && !prog.Empty() {
			if err = cas.Apply(prog, cssom.OriginAuthor, inlineSpec, inlineSeq); err != nil {
				return nil, err
			}
		}
	}
	return cas.Compose(parentStyles, b.params.Env, b.params.Alloc)
}
