/*
Package styledtree is a straightforward default implementation of a styled
document tree.

A styled tree mirrors an HTML parse tree, attaching a computed style
(cssom.Style) to each element node. BuildTree walks the parse tree and
runs the full cascade for every element: user-agent defaults,
presentational hints, user and author rules, inline styles, then
composition against the parent's computed style.

This is the default implementation used by the engine. However, for
interactive use it may be appropriate to create a styled tree derived
from another type of styled node. The engine's design should fully
support this kind of switch.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package styledtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.dom'.
func tracer() tracing.Trace {
	return tracing.Select("weft.dom")
}
