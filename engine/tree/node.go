package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
)

// Node is the base type our trees are built of. Each node carries a payload
// of type parameter T and maintains an ordered slice of children.
//
// Nodes are owned by the engine thread. Callers must not mutate a tree from
// more than one goroutine.
type Node[T comparable] struct {
	parent   *Node[T]   // parent node of this node
	children []*Node[T] // ordered slice of children nodes, gaps allowed
	Payload  T          // nodes may carry a payload of arbitrary type
	Rank     uint32     // rank is used for preserving sequence
}

// NewNode creates a new tree node with a given payload.
func NewNode[T comparable](payload T) *Node[T] {
	return &Node[T]{Payload: payload}
}

func (node *Node[T]) String() string {
	return fmt.Sprintf("(Node #ch=%d %v)", node.ChildCount(), node.Payload)
}

// AddChild appends a child node at the end of the children list.
// The newly inserted node is connected to this node as its parent.
// It returns the parent node to allow for chaining.
func (node *Node[T]) AddChild(ch *Node[T]) *Node[T] {
	if ch != nil {
		node.children = append(node.children, ch)
		ch.parent = node
	}
	return node
}

// SetChildAt sets a child node at a given position in relation to other
// children, replacing the child at position i if it exists. The children
// list is grown as necessary.
// It returns the parent node to allow for chaining.
func (node *Node[T]) SetChildAt(i int, ch *Node[T]) *Node[T] {
	if ch == nil || i < 0 {
		return node
	}
	node.growChildrenTo(i)
	node.children[i] = ch
	ch.parent = node
	return node
}

// InsertChildAt inserts a child node at a given position in relation to
// other children, shifting children at later positions.
// It returns the parent node to allow for chaining.
func (node *Node[T]) InsertChildAt(i int, ch *Node[T]) *Node[T] {
	if ch == nil || i < 0 {
		return node
	}
	if i >= len(node.children) {
		node.growChildrenTo(i)
	} else {
		node.children = append(node.children, nil)   // make room for one child
		copy(node.children[i+1:], node.children[i:]) // shift i+1..n
	}
	node.children[i] = ch
	ch.parent = node
	return node
}

func (node *Node[T]) growChildrenTo(i int) {
	if l := len(node.children); l <= i {
		node.children = append(node.children, make([]*Node[T], i-l+1)...)
	}
}

// Parent returns the parent node or nil (for the root of the tree).
func (node *Node[T]) Parent() *Node[T] {
	return node.parent
}

// Isolate removes a node from its parent, leaving a gap in the parent's
// children list. Isolate returns the isolated node.
func (node *Node[T]) Isolate() *Node[T] {
	if node != nil && node.parent != nil {
		p := node.parent
		for i, ch := range p.children {
			if ch == node {
				p.children[i] = nil
				node.parent = nil
				break
			}
		}
	}
	return node
}

// ChildCount returns the number of children-slots of a node. Slots may
// be empty after a child has been isolated.
func (node *Node[T]) ChildCount() int {
	return len(node.children)
}

// Child returns the child node at position n, if any.
func (node *Node[T]) Child(n int) (*Node[T], bool) {
	if n < 0 || len(node.children) <= n {
		return nil, false
	}
	ch := node.children[n]
	return ch, ch != nil
}

// Children returns a slice with all children of a node.
// If omitNilChildren is set, empty child-slots aren't included in the slice.
func (node *Node[T]) Children(omitNilChildren bool) []*Node[T] {
	children := make([]*Node[T], 0, len(node.children))
	for _, ch := range node.children {
		if ch != nil || !omitNilChildren {
			children = append(children, ch)
		}
	}
	return children
}

// IndexOfChild returns the index of a child within the list of children
// of its parent, or -1 if ch is not a child of this node.
func (node *Node[T]) IndexOfChild(ch *Node[T]) int {
	if ch != nil {
		for i, child := range node.children {
			if ch == child {
				return i
			}
		}
	}
	return -1
}
