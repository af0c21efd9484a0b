/*
Package inline handles the inline formatting contexts of a box tree.

An inline formatting context is flattened into a paragraph: a styled
text cord collecting the text runs of the context in document order,
with each run carrying its computed style. Paragraphs are then broken
into line boxes. Line boxes do not copy text; they record byte offsets
into the paragraph, which lets later passes restyle or repaint lines
without breaking the paragraph again.

Line breaking finds break opportunities with the Unicode line breaking
algorithm (UAX#14) and fills lines greedily against a paragraph shape.
The shape yields indent and usable width per line, which is how floats
narrow the lines flowing beside them.

_________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package inline

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.frame.inline'.
func tracer() tracing.Trace {
	return tracing.Select("weft.frame.inline")
}
