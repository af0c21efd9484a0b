package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
)

// ErrInvalidFilter is thrown if a walker filter step is defunct.
var ErrInvalidFilter = errors.New("filter stage is invalid")

// ErrEmptyTree is thrown if a Walker is called with an empty tree. Refer to
// the documentation of NewWalker for details about this scenario.
var ErrEmptyTree = errors.New("cannot walk empty tree")

// ErrNoMoreFiltersAccepted is thrown if a client already called Promise(), but
// tried to re-use a walker with another filter.
var ErrNoMoreFiltersAccepted = errors.New("in promise mode; will not accept new filters; use a new walker")

// Walker holds information for operating on trees: finding nodes and
// doing work on them. Clients usually create a Walker for a (sub-)tree
// to search for a selection of nodes matching certain criteria, and
// then perform some operation on this selection.
//
// A Walker will eventually return two client-level values:
// a slice of tree nodes and the last error occurred.
// These are accessed through a Promise-object:
//
//	w := NewWalker(node)
//	future := w.FindNodesAndDoSomething(...).Promise()
//	nodes, err := future()
//
// Walkers support a set of search & filter functions. Clients will chain
// some of these to perform tasks on tree nodes (see examples).
//
// The walker runs all of its filter stages on the calling goroutine.
// Layout and styling are single-threaded by design, so there is nothing
// to gain from fanning tree traversal out to worker goroutines, and a
// lot of locking to lose. Stages execute when the Promise is created;
// calling the promise function just hands back the result.
type Walker[T comparable] struct {
	initial   *Node[T]   // initial node of (sub-)tree
	stages    []stage[T] // chain of filters to perform work on tree nodes
	promising bool       // client has called Promise()
	lasterror error      // deferred error, returned by the promise
}

// A stage transforms a selection of nodes into the input for the next
// stage. Stages report the last error encountered but keep going where
// possible, mirroring how a selection shrinks around defective branches.
type stage[T comparable] func(selection []*Node[T]) ([]*Node[T], error)

// NewWalker creates a Walker for the initial node of a (sub-)tree.
// The first subsequent filter function will have this initial node as
// input.
//
// If initial is nil, NewWalker will return a nil-Walker, resulting
// in a NOP-chain of operations and an empty set of nodes
// plus an error (ErrEmptyTree).
func NewWalker[T comparable](initial *Node[T]) *Walker[T] {
	if initial == nil {
		return nil
	}
	tracer().Debugf("new tree-walker, initial node = %v", initial)
	return &Walker[T]{initial: initial}
}

// appendStage hooks a new filter stage into the chain.
func (w *Walker[T]) appendStage(s stage[T]) *Walker[T] {
	if w.promising {
		tracer().Errorf(ErrNoMoreFiltersAccepted.Error())
		panic(ErrNoMoreFiltersAccepted)
	}
	w.stages = append(w.stages, s)
	return w
}

// Promise is the synchronisation point of a walker expression.
// Clients call Promise as the final link of the DSL expression chain and
// then call the returned function to receive a slice of nodes and a
// possible error value.
func (w *Walker[T]) Promise() func() ([]*Node[T], error) {
	if w == nil {
		// empty Walker => return nil set and an error
		return func() ([]*Node[T], error) {
			return nil, ErrEmptyTree
		}
	}
	w.promising = true // will block calls to establish new filters
	selection := []*Node[T]{w.initial}
	var lasterror error
	for _, s := range w.stages {
		var err error
		selection, err = s(selection)
		if err != nil {
			lasterror = err
		}
	}
	return func() ([]*Node[T], error) {
		return selection, lasterror
	}
}

// ----------------------------------------------------------------------

// Predicate is a function type to match against nodes of a tree.
// Is is used as an argument for various Walker functions to
// collect a selection of nodes.
// test is the node under test, node is the input node.
type Predicate[T comparable] func(test *Node[T], node *Node[T]) (match *Node[T], err error)

// Whatever is a predicate to match anything (see type Predicate).
// It is useful to match the first node in a given direction.
func Whatever[T comparable]() Predicate[T] {
	return func(test *Node[T], node *Node[T]) (*Node[T], error) {
		return test, nil
	}
}

// NodeIsLeaf is a predicate to match leafs of a tree.
func NodeIsLeaf[T comparable]() Predicate[T] {
	return func(test *Node[T], node *Node[T]) (match *Node[T], err error) {
		if test.ChildCount() == 0 {
			return test, nil
		}
		return nil, nil
	}
}

// ----------------------------------------------------------------------

// Parent returns the parent node for every node of the selection.
//
// If w is nil, Parent will return nil.
func (w *Walker[T]) Parent() *Walker[T] {
	if w == nil {
		return nil
	}
	return w.appendStage(func(selection []*Node[T]) ([]*Node[T], error) {
		var parents []*Node[T]
		for _, node := range selection {
			if p := node.Parent(); p != nil {
				parents = append(parents, p)
			}
		}
		return parents, nil
	})
}

// AncestorWith finds an ancestor matching the given predicate.
// The search does not include the start node.
//
// If w is nil, AncestorWith will return nil.
func (w *Walker[T]) AncestorWith(predicate Predicate[T]) *Walker[T] {
	if w == nil {
		return nil
	}
	if predicate == nil {
		w.lasterror = ErrInvalidFilter
		return w
	}
	return w.appendStage(func(selection []*Node[T]) ([]*Node[T], error) {
		var matches []*Node[T]
		var lasterror error
		for _, node := range selection {
			anc := node.Parent()
			for anc != nil {
				matchedNode, err := predicate(anc, node)
				if err != nil {
					lasterror = err
					break
				}
				if matchedNode != nil {
					matches = append(matches, matchedNode)
					break
				}
				anc = anc.Parent()
			}
			// no matching ancestor found is not an error
		}
		return matches, lasterror
	})
}

// DescendentsWith finds descendents matching a predicate.
// The search does not include the start node. If the predicate returns
// an error for a node, the branch below this node is not searched.
//
// If w is nil, DescendentsWith will return nil.
func (w *Walker[T]) DescendentsWith(predicate Predicate[T]) *Walker[T] {
	if w == nil {
		return nil
	}
	if predicate == nil {
		w.lasterror = ErrInvalidFilter
		return w
	}
	return w.appendStage(func(selection []*Node[T]) ([]*Node[T], error) {
		var matches []*Node[T]
		var lasterror error
		var descend func(node *Node[T])
		descend = func(node *Node[T]) {
			for i := 0; i < node.ChildCount(); i++ {
				ch, ok := node.Child(i)
				if !ok {
					continue
				}
				matchedNode, err := predicate(ch, node)
				if err != nil {
					lasterror = err
					continue // do not descend further
				}
				if matchedNode != nil {
					matches = append(matches, matchedNode)
				}
				descend(ch)
			}
		}
		for _, node := range selection {
			descend(node)
		}
		return matches, lasterror
	})
}

// AllDescendents traverses all descendents.
// The traversal does not include the start node.
// This is just a wrapper around `w.DescendentsWith(Whatever)`.
//
// If w is nil, AllDescendents will return nil.
func (w *Walker[T]) AllDescendents() *Walker[T] {
	return w.DescendentsWith(Whatever[T]())
}

// Filter calls a client-provided function on each node of the selection.
// The user function should return the input node if it is accepted and
// nil otherwise.
//
// If w is nil, Filter will return nil.
func (w *Walker[T]) Filter(f Predicate[T]) *Walker[T] {
	if w == nil {
		return nil
	}
	if f == nil {
		w.lasterror = ErrInvalidFilter
		return w
	}
	return w.appendStage(func(selection []*Node[T]) ([]*Node[T], error) {
		var filtered []*Node[T]
		var lasterror error
		for _, node := range selection {
			matchedNode, err := f(node, node)
			if err != nil {
				lasterror = err
				continue
			}
			if matchedNode != nil {
				filtered = append(filtered, matchedNode)
			}
		}
		return filtered, lasterror
	})
}

// Action is a function type to operate on tree nodes.
// Resulting nodes will be handed to the next stage of the walker, if
// no error occurred.
type Action[T comparable] func(n *Node[T], parent *Node[T], position int) (*Node[T], error)

// TopDown traverses a tree starting at (and including) the root node.
// The traversal guarantees that parents are always processed before
// their children.
//
// If the action function returns an error for a node,
// descending the branch below this node is aborted.
//
// If w is nil, TopDown will return nil.
func (w *Walker[T]) TopDown(action Action[T]) *Walker[T] {
	if w == nil {
		return nil
	}
	if action == nil {
		w.lasterror = ErrInvalidFilter
		return w
	}
	return w.appendStage(func(selection []*Node[T]) ([]*Node[T], error) {
		var results []*Node[T]
		var lasterror error
		var descend func(node *Node[T], parent *Node[T], position int)
		descend = func(node *Node[T], parent *Node[T], position int) {
			result, err := action(node, parent, position)
			if err != nil {
				lasterror = err
				return // do not descend further
			}
			if result != nil {
				results = append(results, result)
			}
			for i := 0; i < node.ChildCount(); i++ {
				if ch, ok := node.Child(i); ok {
					descend(ch, node, i)
				}
			}
		}
		for _, node := range selection {
			descend(node, nil, 0)
		}
		return results, lasterror
	})
}

// BottomUp traverses a tree starting at (and including) all the nodes of
// the current selection. Usually clients will select all of the tree's
// leafs before calling BottomUp. The traversal guarantees that parents
// are not processed before all of their children.
//
// If the action function returns an error for a node,
// the parent is processed regardless.
//
// If w is nil, BottomUp will return nil.
func (w *Walker[T]) BottomUp(action Action[T]) *Walker[T] {
	if w == nil {
		return nil
	}
	if action == nil {
		w.lasterror = ErrInvalidFilter
		return w
	}
	return w.appendStage(func(selection []*Node[T]) ([]*Node[T], error) {
		var results []*Node[T]
		var lasterror error
		childrenDone := make(map[*Node[T]]int)
		queue := append([]*Node[T]{}, selection...)
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			if node.ChildCount() > 0 && childrenDone[node] < node.ChildCount() {
				continue // drop this node until last child processed
			}
			parent := node.Parent()
			position := 0
			if parent != nil {
				position = parent.IndexOfChild(node)
			}
			result, err := action(node, parent, position)
			if err != nil {
				lasterror = err
			} else if result != nil {
				results = append(results, result)
			}
			if parent != nil { // if this is not a root node
				childrenDone[parent]++        // one more child is done (i.e., this node)
				queue = append(queue, parent) // possibly continue processing with parent
			}
		}
		return results, lasterror
	})
}

// CalcRank is an action for bottom-up processing. It calculates the
// 'rank'-member for each node: the number of nodes of the subtree
// including this node. The root node will hold the number of nodes in
// the entire tree. Leaf nodes have a rank of 1.
func CalcRank[T comparable](n *Node[T], parent *Node[T], position int) (*Node[T], error) {
	r := uint32(1)
	for i := 0; i < n.ChildCount(); i++ {
		if ch, ok := n.Child(i); ok {
			r += ch.Rank
		}
	}
	n.Rank = r
	return n, nil
}
