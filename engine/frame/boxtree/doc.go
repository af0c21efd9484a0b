/*
Package boxtree produces a tree of layout boxes from a styled document
tree. The tree is not ready for layout, but it is a valid box structure:
one principal box per element (elements with display:none yield none and
are pruned together with their descendents), text boxes for text content,
boxes for materialized ::before/::after pseudo-elements, and anonymous
boxes completing the structure where the CSS model requires them.

All boxes of a document live in a single arena and reference each other
by index. Dropping the arena drops every box at once; no box reference
can outlive its tree. Asynchronous clients (resource fetches) hold weak
references which they have to validate against the arena's generation
before touching a box.

Replaced elements (images and embedded objects) receive an intrinsic-size
pre-pass during construction: if width and height are known from styling
or markup attributes before any resource bytes arrive, the box is marked
dimension-known and its geometry is reserved immediately. Responsive
image candidates (srcset) are selected here as well, once, before any
fetch starts.

# Status

Work in progress.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package boxtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.frame.box'.
func tracer() tracing.Trace {
	return tracing.Select("weft.frame.box")
}
