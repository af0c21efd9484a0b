/*
Package stacking sorts the boxes of a finished layout pass into paint
order.

Boxes are grouped into stacking contexts: the root box establishes one,
and so does every positioned box with a numeric z-index, every box with
an opacity below one, and every transformed box. Within one context,
entries paint in ascending z-index order, with all negative levels
strictly before level zero, and ties broken by document order. Entries
are ephemeral tuples built fresh for one paint pass and discarded
afterwards; nothing in this package holds on to a box beyond the pass.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package stacking

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.frame.stacking'.
func tracer() tracing.Trace {
	return tracing.Select("weft.frame.stacking")
}
