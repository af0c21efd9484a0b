/*
Package tree implements an all-purpose tree type and a walker to
select and operate on tree nodes.

Trees of this package are the backbone of the styled tree and of the
box tree. All mutation and traversal of a tree happens on the engine
thread; nodes are not safe for concurrent modification.

Clients create a Walker for a (sub-)tree to search for a selection of
nodes matching certain criteria, and then perform some operation on
this selection. The set of walker operations forms a small DSL,
similar in concept to JQuery:

	w := tree.NewWalker(node)
	future := w.DescendentsWith(predicate).Promise()
	nodes, err := future()

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.tree'.
func tracer() tracing.Trace {
	return tracing.Select("weft.tree")
}
