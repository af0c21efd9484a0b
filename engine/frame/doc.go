/*
Package frame implements the CSS box model.

Rendering a styled document may be understood as the process of placing
boxes within larger boxes. Each box consists of a content area surrounded
by optional padding, border and margins. Box dimensions start out as
style properties—lengths, percentages, keywords like `auto`, or values
depending on content—and are narrowed down to definite dimensions during
layout.

Type Box is the workhorse for this: it carries optional dimensions
(css.DimenT) for every part of a box and offers operations to fix them
step by step, honoring the `box-sizing` property. Sub-packages build on
it: package boxtree constructs a tree of boxes from a styled document
tree, package layout solves the remaining dimensions and positions, and
package stacking orders the result for painting.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package frame

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.frame'.
func tracer() tracing.Trace {
	return tracing.Select("weft.frame")
}
