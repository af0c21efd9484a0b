/*
Package layout is the layout engine of the rendering pipeline.

Layout takes a box tree, as produced by package boxtree, and narrows every
box's geometry down to fixed dimensions. Widths propagate top-down: each box
receives the width of its containing block and resolves auto, percentage and
calc() specifications against it. Heights propagate bottom-up: a box with
auto height accumulates the heights of its in-flow children.

Every box runs through a small state machine, unmeasured → measuring →
measured, with measured terminal for the pass. Block containers stack their
block-level children with collapsed vertical margins; containers with inline
content delegate to package inline for paragraph breaking and take the sum
of the line heights as their content height. Flex and grid containers
distribute the available space among their items in a single pass.

Positions are recorded in each box's TopL field, relative to the content
box origin of the parent. Clients accumulate offsets while walking the tree.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.frame.layout'.
func tracer() tracing.Trace {
	return tracing.Select("weft.frame.layout")
}
