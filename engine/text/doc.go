/*
Package text is the measurement boundary between layout and the platform
text system.

Layout never reimplements glyph shaping: it asks a Measurer for the pixel
width of a text run and for the offset where a run must split to fit a
pixel budget. Production configurations put a shaping backend behind this
interface; tests and headless runs use the deterministic grapheme
measurer, which advances every grapheme cluster by a fixed em and doubles
East Asian wide clusters.

Measurements are memoized in a process-wide cache, initialized at first
use and bounded. The cache carries a generation counter: advancing it
evicts all earlier measurements lazily, which is how the font loading
path invalidates runs measured against a face that has been replaced.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>
*/
package text

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.text'.
func tracer() tracing.Trace {
	return tracing.Select("weft.text")
}
