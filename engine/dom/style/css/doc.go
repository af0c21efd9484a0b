/*
Package css holds the typed representations for CSS property values:
dimensions, percentages, display modes, positions and unitless factors.

Values of this package are what the cascade computes and what the box
tree and the layouters consume. Each type is a small tagged variant:
a `width` may be a fixed length, a percentage, a calc()-combination of
both, `auto`, or one of the content-dependent keywords. Clients inspect
values with predicate methods and resolve relative values against an
enclosing dimension.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package css

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.dom'.
func tracer() tracing.Trace {
	return tracing.Select("weft.dom")
}
